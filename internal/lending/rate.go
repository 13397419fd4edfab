package lending

import (
	"time"

	"lending/core"

	"github.com/shopspring/decimal"
)

var (
	// Year accrual period of the annual rates
	Year = 365 * 24 * time.Hour
	// MaxPrecision precision of shares and pool totals
	MaxPrecision int32 = 16
	// AmountPrecision precision of token amounts
	AmountPrecision int32 = 8
	// noisePrecision values are rounded here first to drop division noise
	noisePrecision int32 = 12
	// divisionPrecision quotients carry extra digits so truncation rounds down
	divisionPrecision int32 = 24

	one = decimal.NewFromInt(1)
)

// UtilizationRate utilization rate
// utilization_rate = bank.total_borrowed / bank.total_deposits
func UtilizationRate(deposits, borrowed decimal.Decimal) decimal.Decimal {
	if !deposits.IsPositive() || !borrowed.IsPositive() {
		return decimal.Zero
	}

	rate := borrowed.DivRound(deposits, divisionPrecision).Truncate(MaxPrecision)
	if rate.GreaterThan(one) {
		return one
	}

	return rate
}

// GetBorrowRate annual borrow rate of the jump rate model
//
// With zero multipliers the rate is the flat base rate.
func GetBorrowRate(utilizationRate, baseRate, multiplier, jumpMultiplier, kink decimal.Decimal) decimal.Decimal {
	if kink.IsZero() ||
		utilizationRate.LessThanOrEqual(kink) {
		return utilizationRate.Mul(multiplier).Add(baseRate).Truncate(MaxPrecision)
	}

	normalRate := kink.Mul(multiplier).Add(baseRate)
	excessUtilRate := utilizationRate.Sub(kink)
	return excessUtilRate.Mul(jumpMultiplier).Add(normalRate).Truncate(MaxPrecision)
}

// GetSupplyRate annual rate earned by depositors
func GetSupplyRate(utilizationRate, baseRate, multiplier, jumpMultiplier, kink, reserveFactor decimal.Decimal) decimal.Decimal {
	borrowRate := GetBorrowRate(utilizationRate, baseRate, multiplier, jumpMultiplier, kink)
	rateToPool := borrowRate.Mul(one.Sub(reserveFactor))
	return utilizationRate.Mul(rateToPool).Truncate(MaxPrecision)
}

// BorrowRate current annual borrow rate of the bank
func BorrowRate(bank *core.Bank) decimal.Decimal {
	return GetBorrowRate(
		UtilizationRate(bank.TotalDeposits, bank.TotalBorrowed),
		bank.InterestRate,
		bank.Multiplier,
		bank.JumpMultiplier,
		bank.Kink,
	)
}

// SupplyRate current annual supply rate of the bank
func SupplyRate(bank *core.Bank) decimal.Decimal {
	return GetSupplyRate(
		UtilizationRate(bank.TotalDeposits, bank.TotalBorrowed),
		bank.InterestRate,
		bank.Multiplier,
		bank.JumpMultiplier,
		bank.Kink,
		bank.ReserveFactor,
	)
}
