package lending

import (
	"lending/pkg/number"

	"github.com/shopspring/decimal"
)

// ExchangeRate amount per share, 1 before the first deposit
func ExchangeRate(total, shares decimal.Decimal) decimal.Decimal {
	if !shares.IsPositive() || !total.IsPositive() {
		return one
	}

	return total.DivRound(shares, divisionPrecision).Truncate(MaxPrecision)
}

// IssueShares shares minted for amount, rounded down.
// amount * total_shares / total, 1:1 while the pool is empty.
func IssueShares(amount, total, shares decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() || !shares.IsPositive() {
		return amount.Truncate(MaxPrecision)
	}

	return amount.Mul(shares).DivRound(total, divisionPrecision).Truncate(MaxPrecision)
}

// IssueDebtShares debt shares minted for amount, rounded up
func IssueDebtShares(amount, total, shares decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() || !shares.IsPositive() {
		return amount.Truncate(MaxPrecision)
	}

	return number.Ceil(amount.Mul(shares).DivRound(total, divisionPrecision), MaxPrecision)
}

// BurnShares shares burned to take amount out, rounded up
func BurnShares(amount, total, shares decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() || !shares.IsPositive() {
		return decimal.Zero
	}

	return number.Ceil(amount.Mul(shares).DivRound(total, divisionPrecision), MaxPrecision)
}

// RepayShares debt shares burned by a repayment of amount, rounded down
func RepayShares(amount, total, shares decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() || !shares.IsPositive() {
		return decimal.Zero
	}

	return amount.Mul(shares).DivRound(total, divisionPrecision).Truncate(MaxPrecision)
}

// ShareValue amount claimed by userShares, rounded down
func ShareValue(userShares, total, shares decimal.Decimal) decimal.Decimal {
	if !userShares.IsPositive() || !shares.IsPositive() {
		return decimal.Zero
	}

	v, _ := userShares.Mul(total).QuoRem(shares, AmountPrecision)
	return v
}

// DebtValue amount owed for userShares, rounded up
func DebtValue(userShares, total, shares decimal.Decimal) decimal.Decimal {
	if !userShares.IsPositive() || !shares.IsPositive() {
		return decimal.Zero
	}

	v := userShares.Mul(total).DivRound(shares, divisionPrecision).Round(noisePrecision)
	return number.Ceil(v, AmountPrecision)
}

// NormalizeAmount token amounts carry AmountPrecision places
func NormalizeAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Truncate(AmountPrecision)
}

// SubFloor a - b, never below zero
func SubFloor(a, b decimal.Decimal) decimal.Decimal {
	if d := a.Sub(b); d.IsPositive() {
		return d
	}

	return decimal.Zero
}
