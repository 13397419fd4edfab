package rest

import (
	"errors"
	"net/http"

	"lending/core"
	"lending/handler/render"

	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(
	banks core.BankService,
	users core.UserService,
	accounts core.AccountService,
	positions core.PositionStore,
	transactions core.TransactionStore,
) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Route("/banks", func(r chi.Router) {
		r.Get("/", allBanksHandler(banks))
		r.Post("/", initBankHandler(banks))
		r.Get("/{mint}", bankHandler(banks))
	})

	router.Post("/users", initUserHandler(users))
	router.Get("/users/{user_id}", userHandler(users))
	router.Get("/accounts/{user_id}", accountHandler(users, banks, accounts, positions))

	router.Post("/deposit", actionHandler(banks.Deposit))
	router.Post("/withdraw", actionHandler(banks.Withdraw))
	router.Post("/borrow", actionHandler(banks.Borrow))
	router.Post("/repay", actionHandler(banks.Repay))

	router.Get("/transactions", transactionsHandler(transactions))

	return router
}

// renderError maps service errors to http status codes
func renderError(w http.ResponseWriter, err error) {
	var code core.ErrorCode
	if !errors.As(err, &code) {
		render.Error(w, http.StatusInternalServerError, int(core.ErrUnknown), err)
		return
	}

	status := http.StatusBadRequest
	switch code {
	case core.ErrBankNotFound:
		status = http.StatusNotFound
	case core.ErrAlreadyExists, core.ErrVersionConflict:
		status = http.StatusConflict
	case core.ErrUnknown:
		status = http.StatusInternalServerError
	}

	render.Error(w, status, int(code), code)
}
