package rest

import (
	"net/http"
	"time"

	"lending/core"
	"lending/handler/param"
	"lending/handler/render"

	"github.com/spf13/cast"
)

// response user transactions
func transactionsHandler(transactionStr core.TransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			UserID string `json:"user_id"`
			Offset string `json:"offset"`
			Limit  int    `json:"limit"`
		}

		if e := param.Binding(r, &params); e != nil {
			render.BadRequest(w, e)
			return
		}

		limit := params.Limit
		if limit <= 0 {
			limit = 500
		}

		// unix seconds or a formatted time
		var offsetTime time.Time
		if sec, err := cast.ToInt64E(params.Offset); err == nil {
			offsetTime = time.Unix(sec, 0)
		} else if t, err := cast.ToTimeE(params.Offset); err == nil {
			offsetTime = t
		}

		transactions, e := transactionStr.List(ctx, params.UserID, offsetTime, limit)
		if e != nil {
			renderError(w, e)
			return
		}

		render.JSON(w, transactions)
	}
}
