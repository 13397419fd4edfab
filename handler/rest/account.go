package rest

import (
	"net/http"

	"lending/core"
	"lending/handler/render"
	"lending/handler/views"
	"lending/service/account"

	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
)

// positions valued at accrued bank totals, plus health when prices are available
func accountHandler(
	userSrv core.UserService,
	bankSrv core.BankService,
	accountSrv core.AccountService,
	positionStr core.PositionStore,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := chi.URLParam(r, "user_id")

		user, err := userSrv.Find(ctx, userID)
		if err != nil {
			renderError(w, err)
			return
		}

		positions, err := positionStr.FindByUser(ctx, userID)
		if err != nil {
			renderError(w, err)
			return
		}

		view := views.Account{
			UserID:         userID,
			CollateralMint: user.CollateralMint,
			Positions:      make([]*views.Position, 0, len(positions)),
		}

		for _, position := range positions {
			if position.IsEmpty() {
				continue
			}

			bank, err := bankSrv.Find(ctx, position.Mint)
			if err != nil {
				renderError(w, err)
				return
			}

			view.Positions = append(view.Positions, &views.Position{
				Position:  position,
				Symbol:    bank.Symbol,
				Deposited: account.DepositedAmount(position, bank),
				Borrowed:  account.BorrowedAmount(position, bank),
			})
		}

		if len(view.Positions) > 0 {
			health, err := accountSrv.Health(ctx, userID)
			if err != nil {
				logger.FromContext(ctx).WithError(err).Warnln("rest: evaluate account health")
			} else {
				view.Health = health
			}
		}

		render.JSON(w, view)
	}
}
