package handler

import (
	"errors"
	"net/http"

	"lending/core"
	"lending/handler/render"
	"lending/handler/rest"

	"github.com/go-chi/chi"
)

// Server server
type Server struct {
	banks        core.BankService
	users        core.UserService
	accounts     core.AccountService
	positions    core.PositionStore
	transactions core.TransactionStore
}

// New new server function
func New(
	banks core.BankService,
	users core.UserService,
	accounts core.AccountService,
	positions core.PositionStore,
	transactions core.TransactionStore,
) Server {
	return Server{
		banks:        banks,
		users:        users,
		accounts:     accounts,
		positions:    positions,
		transactions: transactions,
	}
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	r := chi.NewRouter()
	r.Use(resetRoutePath)
	r.Use(render.WrapResponse(true))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	r.Mount("/", rest.Handle(s.banks, s.users, s.accounts, s.positions, s.transactions))
	return r
}

func resetRoutePath(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if c := chi.RouteContext(ctx); c != nil {
			c.RoutePath = r.URL.Path
		}

		next.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}
