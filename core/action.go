package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ActionType user action
type ActionType int

const (
	_ ActionType = iota
	// ActionTypeDeposit deposit into a bank
	ActionTypeDeposit
	// ActionTypeWithdraw withdraw from a bank
	ActionTypeWithdraw
	// ActionTypeBorrow borrow from a bank
	ActionTypeBorrow
	// ActionTypeRepay repay a borrow
	ActionTypeRepay
)

var actionNames = map[ActionType]string{
	ActionTypeDeposit:  "deposit",
	ActionTypeWithdraw: "withdraw",
	ActionTypeBorrow:   "borrow",
	ActionTypeRepay:    "repay",
}

func (a ActionType) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}

	return "unknown"
}

// ParseActionType parse action name, zero when unknown
func ParseActionType(name string) ActionType {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, n := range actionNames {
		if n == name {
			return a
		}
	}

	return 0
}

// MovesFundsOut withdraw and borrow pay out of pool custody
func (a ActionType) MovesFundsOut() bool {
	return a == ActionTypeWithdraw || a == ActionTypeBorrow
}

// Request deposit / withdraw / borrow / repay request
type Request struct {
	// idempotency key, also the inbound payment trace for deposit and repay
	TraceID string          `json:"trace_id" valid:"uuid,required"`
	UserID  string          `json:"user_id" valid:"required"`
	Mint    string          `json:"mint" valid:"required"`
	Amount  decimal.Decimal `json:"amount"`
}
