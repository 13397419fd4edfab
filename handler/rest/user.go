package rest

import (
	"errors"
	"net/http"

	"lending/core"
	"lending/handler/param"
	"lending/handler/render"

	"github.com/go-chi/chi"
)

func initUserHandler(userSrv core.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params struct {
			UserID         string `json:"user_id" valid:"required"`
			CollateralMint string `json:"collateral_mint"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		user, err := userSrv.InitUser(r.Context(), params.UserID, params.CollateralMint)
		if err != nil {
			renderError(w, err)
			return
		}

		render.JSON(w, user)
	}
}

func userHandler(userSrv core.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := userSrv.Find(r.Context(), chi.URLParam(r, "user_id"))
		if err != nil {
			renderError(w, err)
			return
		}

		if user.ID == 0 {
			render.NotFoundRequest(w, errors.New("user not found"))
			return
		}

		render.JSON(w, user)
	}
}
