package lending

import (
	"time"

	"lending/core"

	"github.com/shopspring/decimal"
)

// AccrueInterest advances the bank totals to now.
//
// interest = total_borrowed * borrow_rate * dt / year, applied once per call so
// consecutive calls compound. Borrower interest minus the reserve cut is added
// to total deposits. The reserve cut never exceeds total_deposits -
// total_borrowed, so accrual alone keeps borrowed within deposits. If the
// totals were already inconsistent, total borrowed is clamped and clamped is true.
func AccrueInterest(bank *core.Bank, now time.Time) (clamped bool) {
	if !now.After(bank.LastUpdated) {
		return false
	}

	elapsed := now.Sub(bank.LastUpdated)
	bank.LastUpdated = now

	if !bank.TotalBorrowed.IsPositive() {
		return false
	}

	rate := BorrowRate(bank)
	if !rate.IsPositive() {
		return false
	}

	interest := bank.TotalBorrowed.
		Mul(rate).
		Mul(decimal.NewFromInt(int64(elapsed))).
		DivRound(decimal.NewFromInt(int64(Year)), divisionPrecision).
		Truncate(MaxPrecision)
	reserve := decimal.Min(
		interest.Mul(bank.ReserveFactor).Truncate(MaxPrecision),
		SubFloor(bank.TotalDeposits, bank.TotalBorrowed),
	)

	bank.TotalBorrowed = bank.TotalBorrowed.Add(interest)
	bank.TotalDeposits = bank.TotalDeposits.Add(interest.Sub(reserve))
	bank.Reserves = bank.Reserves.Add(reserve)

	if bank.TotalBorrowed.GreaterThan(bank.TotalDeposits) {
		bank.TotalBorrowed = bank.TotalDeposits
		return true
	}

	return false
}
