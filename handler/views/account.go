package views

import (
	"lending/core"

	"github.com/shopspring/decimal"
)

// Position position view
type Position struct {
	*core.Position
	Symbol    string          `json:"symbol"`
	Deposited decimal.Decimal `json:"deposited"`
	Borrowed  decimal.Decimal `json:"borrowed"`
}

// Account account view
type Account struct {
	UserID         string              `json:"user_id"`
	CollateralMint string              `json:"collateral_mint,omitempty"`
	Positions      []*Position         `json:"positions"`
	Health         *core.AccountHealth `json:"health,omitempty"`
}
