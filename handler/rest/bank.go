package rest

import (
	"net/http"

	"lending/core"
	"lending/handler/param"
	"lending/handler/render"
	"lending/handler/views"

	"github.com/go-chi/chi"
)

func allBanksHandler(bankSrv core.BankService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		banks, err := bankSrv.All(r.Context())
		if err != nil {
			renderError(w, err)
			return
		}

		bankViews := make([]*views.Bank, 0, len(banks))
		for _, bank := range banks {
			bankViews = append(bankViews, views.BankView(bank))
		}

		render.JSON(w, bankViews)
	}
}

func bankHandler(bankSrv core.BankService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bank, err := bankSrv.Find(r.Context(), chi.URLParam(r, "mint"))
		if err != nil {
			renderError(w, err)
			return
		}

		render.JSON(w, views.BankView(bank))
	}
}

func initBankHandler(bankSrv core.BankService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params core.BankParams
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		bank, err := bankSrv.InitBank(r.Context(), &params)
		if err != nil {
			renderError(w, err)
			return
		}

		render.JSON(w, views.BankView(bank))
	}
}
