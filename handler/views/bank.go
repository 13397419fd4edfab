package views

import (
	"lending/core"
	"lending/internal/lending"

	"github.com/shopspring/decimal"
)

// Bank bank view
type Bank struct {
	*core.Bank
	Liquidity       decimal.Decimal `json:"liquidity"`
	UtilizationRate decimal.Decimal `json:"utilization_rate"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate"`
	SupplyAPY       decimal.Decimal `json:"supply_apy"`
	BorrowAPY       decimal.Decimal `json:"borrow_apy"`
}

// BankView bank with the rates derived from its totals
func BankView(bank *core.Bank) *Bank {
	return &Bank{
		Bank:            bank,
		Liquidity:       bank.Liquidity(),
		UtilizationRate: lending.UtilizationRate(bank.TotalDeposits, bank.TotalBorrowed),
		ExchangeRate:    lending.ExchangeRate(bank.TotalDeposits, bank.TotalDepositShares),
		SupplyAPY:       lending.SupplyRate(bank),
		BorrowAPY:       lending.BorrowRate(bank),
	}
}
