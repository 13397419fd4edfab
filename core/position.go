package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Position a user's claim and debt in one bank, in share units
type Position struct {
	ID              uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID          string          `sql:"size:64;unique_index:position_idx" json:"user_id"`
	Mint            string          `sql:"size:64;unique_index:position_idx" json:"mint"`
	DepositedShares decimal.Decimal `sql:"type:decimal(48,16)" json:"deposited_shares"`
	BorrowedShares  decimal.Decimal `sql:"type:decimal(48,16)" json:"borrowed_shares"`
	Version         int64           `sql:"default:0" json:"version"`
	CreatedAt       time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IsEmpty no deposits and no debt
func (p *Position) IsEmpty() bool {
	return !p.DepositedShares.IsPositive() && !p.BorrowedShares.IsPositive()
}

// Clone returns a copy safe to mutate
func (p *Position) Clone() *Position {
	clone := *p
	return &clone
}

// PositionStore position store interface
type PositionStore interface {
	// Find returns an empty position (ID == 0) when missing
	Find(ctx context.Context, userID, mint string) (*Position, error)
	FindByUser(ctx context.Context, userID string) ([]*Position, error)
}

// Account a user's positions together with the banks they refer to.
// Used speculatively: the proposed mutation is applied before the health check.
type Account struct {
	User      *User
	Positions []*Position
	// keyed by mint
	Banks map[string]*Bank
}

// AccountHealth valuation of an account in quote currency
type AccountHealth struct {
	UserID string `json:"user_id"`
	// sum of deposited value
	Collateral decimal.Decimal `json:"collateral"`
	// sum of deposited value * liquidation threshold
	RiskAdjustedCollateral decimal.Decimal `json:"risk_adjusted_collateral"`
	Debt                   decimal.Decimal `json:"debt"`
	// risk adjusted collateral / debt, zero without debt
	HealthFactor decimal.Decimal `json:"health_factor"`
	Healthy      bool            `json:"healthy"`
}

// AccountService position valuation and collateralization checks
type AccountService interface {
	// CheckHealth returns nil when the account is healthy at current prices
	CheckHealth(ctx context.Context, account *Account) error
	Evaluate(ctx context.Context, account *Account) (*AccountHealth, error)
	Health(ctx context.Context, userID string) (*AccountHealth, error)
}
