package rest

import (
	"context"
	"net/http"

	"lending/core"
	"lending/handler/param"
	"lending/handler/render"
)

type actionFunc func(ctx context.Context, req *core.Request) (*core.Transaction, error)

// deposit / withdraw / borrow / repay
func actionHandler(fn actionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req core.Request
		if err := param.Binding(r, &req); err != nil {
			render.BadRequest(w, err)
			return
		}

		tx, err := fn(r.Context(), &req)
		if err != nil {
			renderError(w, err)
			return
		}

		render.JSON(w, tx)
	}
}
