package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

const (
	// TransactionKeyExchangeRate amount per share after the action
	TransactionKeyExchangeRate = "exchange_rate"
	// TransactionKeyTotalDeposits total deposits after the action
	TransactionKeyTotalDeposits = "total_deposits"
	// TransactionKeyTotalBorrowed total borrowed after the action
	TransactionKeyTotalBorrowed = "total_borrowed"
	// TransactionKeyTransfer outbound transfer trace
	TransactionKeyTransfer = "transfer"
)

// TransactionExtraData extra data
type TransactionExtraData map[string]interface{}

// NewTransactionExtra new transaction extra instance
func NewTransactionExtra() TransactionExtraData {
	d := make(TransactionExtraData)
	return d
}

// Put put data
func (t TransactionExtraData) Put(key string, value interface{}) {
	t[key] = value
}

// Format format as []byte by default
func (t TransactionExtraData) Format() []byte {
	bs, e := json.Marshal(t)
	if e != nil {
		return []byte("{}")
	}

	return bs
}

// Transaction committed user action
type Transaction struct {
	ID      int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	Action  ActionType      `json:"action,omitempty"`
	TraceID string          `sql:"size:36;unique_index:idx_transactions_trace_id" json:"trace_id,omitempty"`
	UserID  string          `sql:"size:64;index:idx_transactions_user_id" json:"user_id,omitempty"`
	Mint    string          `sql:"size:64" json:"mint,omitempty"`
	Amount  decimal.Decimal `sql:"type:decimal(48,16)" json:"amount,omitempty"`
	// shares issued (deposit, borrow) or burned (withdraw, repay)
	Shares    decimal.Decimal `sql:"type:decimal(48,16)" json:"shares,omitempty"`
	Data      types.JSONText  `sql:"type:TEXT" json:"data,omitempty"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP;index:idx_transactions_created_at" json:"created_at,omitempty"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at,omitempty"`
}

// TransactionStore transaction store interface
type TransactionStore interface {
	// FindByTraceID returns an empty transaction (ID == 0) when missing
	FindByTraceID(ctx context.Context, traceID string) (*Transaction, error)
	List(ctx context.Context, userID string, offset time.Time, limit int) ([]*Transaction, error)
}

// BuildTransaction transaction from a request
func BuildTransaction(req *Request, action ActionType, shares decimal.Decimal, extra TransactionExtraData) *Transaction {
	data := []byte("{}")
	if extra != nil {
		data = extra.Format()
	}

	return &Transaction{
		Action:  action,
		TraceID: req.TraceID,
		UserID:  req.UserID,
		Mint:    req.Mint,
		Amount:  req.Amount,
		Shares:  shares,
		Data:    data,
	}
}
