package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Bank pooled liquidity of one asset
type Bank struct {
	ID     uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Mint   string `sql:"size:64;unique_index:bank_mint_idx" json:"mint"`
	Symbol string `sql:"size:20" json:"symbol"`
	// oracle feed selector
	FeedID string `sql:"size:128" json:"feed_id"`
	Index  uint64 `json:"index"`

	TotalDeposits       decimal.Decimal `sql:"type:decimal(48,16)" json:"total_deposits"`
	TotalDepositShares  decimal.Decimal `sql:"type:decimal(48,16)" json:"total_deposit_shares"`
	TotalBorrowed       decimal.Decimal `sql:"type:decimal(48,16)" json:"total_borrowed"`
	TotalBorrowedShares decimal.Decimal `sql:"type:decimal(48,16)" json:"total_borrowed_shares"`
	// protocol cut of accrued interest, not claimable by depositors
	Reserves decimal.Decimal `sql:"type:decimal(48,16)" json:"reserves"`

	// collateral value multiplier used by the health check
	LiquidationThreshold decimal.Decimal `sql:"type:decimal(20,8)" json:"liquidation_threshold"`
	LiquidationBonus     decimal.Decimal `sql:"type:decimal(20,8)" json:"liquidation_bonus"`

	// base borrow rate per year
	InterestRate decimal.Decimal `sql:"type:decimal(20,8)" json:"interest_rate"`
	// slope of the borrow rate over utilization, per year
	Multiplier decimal.Decimal `sql:"type:decimal(20,8);default:0" json:"multiplier"`
	// slope after the kink, per year
	JumpMultiplier decimal.Decimal `sql:"type:decimal(20,8);default:0" json:"jump_multiplier"`
	Kink           decimal.Decimal `sql:"type:decimal(20,8);default:0" json:"kink"`
	// [0, 1), share of interest kept as reserves
	ReserveFactor decimal.Decimal `sql:"type:decimal(20,8);default:0" json:"reserve_factor"`

	LastUpdated time.Time `json:"last_updated"`
	Version     int64     `sql:"default:0" json:"version"`
	CreatedAt   time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Liquidity amount that can leave the pool right now
func (b *Bank) Liquidity() decimal.Decimal {
	liquidity := b.TotalDeposits.Sub(b.TotalBorrowed)
	if liquidity.IsNegative() {
		return decimal.Zero
	}

	return liquidity
}

// Clone returns a copy safe to mutate
func (b *Bank) Clone() *Bank {
	clone := *b
	return &clone
}

// BankLockKey serializes writes to the bank, taken after UserLockKey
func BankLockKey(mint string) string {
	return "bank:" + mint
}

// BankParams init bank params
type BankParams struct {
	Mint                 string          `json:"mint" valid:"required"`
	Symbol               string          `json:"symbol"`
	FeedID               string          `json:"feed_id" valid:"required"`
	Index                uint64          `json:"index"`
	LiquidationThreshold decimal.Decimal `json:"liquidation_threshold"`
	LiquidationBonus     decimal.Decimal `json:"liquidation_bonus"`
	InterestRate         decimal.Decimal `json:"interest_rate"`
	ReserveFactor        decimal.Decimal `json:"reserve_factor"`
	Multiplier           decimal.Decimal `json:"multiplier"`
	JumpMultiplier       decimal.Decimal `json:"jump_multiplier"`
	Kink                 decimal.Decimal `json:"kink"`
}

// BankStore bank store interface
type BankStore interface {
	// Create fails with ErrAlreadyExists when the mint is taken
	Create(ctx context.Context, bank *Bank) error
	// Find returns an empty bank (ID == 0) when missing
	Find(ctx context.Context, mint string) (*Bank, error)
	All(ctx context.Context) ([]*Bank, error)
}

// BankService bank pool registry
type BankService interface {
	InitBank(ctx context.Context, params *BankParams) (*Bank, error)
	Find(ctx context.Context, mint string) (*Bank, error)
	All(ctx context.Context) ([]*Bank, error)
	Deposit(ctx context.Context, req *Request) (*Transaction, error)
	Withdraw(ctx context.Context, req *Request) (*Transaction, error)
	Borrow(ctx context.Context, req *Request) (*Transaction, error)
	Repay(ctx context.Context, req *Request) (*Transaction, error)
}
