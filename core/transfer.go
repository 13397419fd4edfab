package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus transfer status
type TransferStatus int

const (
	// TransferStatusPending waiting for the cashier
	TransferStatusPending TransferStatus = iota
	// TransferStatusDelivered accepted by custody
	TransferStatusDelivered
)

// Transfer movement of tokens between pool custody and a user
type Transfer struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	CreatedAt time.Time       `json:"created_at,omitempty"`
	UpdatedAt time.Time       `json:"updated_at,omitempty"`
	TraceID   string          `sql:"size:36;unique_index:trace_idx" json:"trace_id,omitempty"`
	UserID    string          `sql:"size:64" json:"user_id,omitempty"`
	Mint      string          `sql:"size:64" json:"mint,omitempty"`
	Amount    decimal.Decimal `sql:"type:decimal(48,16)" json:"amount,omitempty"`
	Memo      string          `sql:"size:140" json:"memo,omitempty"`
	Status    TransferStatus  `sql:"default:0;index:idx_transfers_status" json:"status"`
}

// TransferStore outbound transfer outbox
type TransferStore interface {
	ListPending(ctx context.Context, limit int) ([]*Transfer, error)
	MarkDelivered(ctx context.Context, transfer *Transfer) error
}

// WalletService asset transfer layer
type WalletService interface {
	// VerifyPayment reports whether an inbound transfer reached pool custody
	VerifyPayment(ctx context.Context, transfer *Transfer) (bool, error)
	// Transfer moves tokens from pool custody to the user
	Transfer(ctx context.Context, transfer *Transfer) error
}
