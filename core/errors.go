package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unkown
	ErrUnknown ErrorCode = 100000
	// ErrInvalidParams invalid bank or request params
	ErrInvalidParams ErrorCode = 100001

	// ErrBankNotFound no bank for the mint
	ErrBankNotFound ErrorCode = 100100
	// ErrInvalidAmount zero or negative amount
	ErrInvalidAmount ErrorCode = 100101
	// ErrAlreadyExists duplicate bank init
	ErrAlreadyExists ErrorCode = 100102
	// ErrInsufficientFunds withdraw more than deposited
	ErrInsufficientFunds ErrorCode = 100103
	// ErrInsufficientCollateral borrow or withdraw would breach health
	ErrInsufficientCollateral ErrorCode = 100104
	// ErrInsufficientLiquidity amount exceeds the pool's free balance
	ErrInsufficientLiquidity ErrorCode = 100105
	// ErrExceedsDebt repay more than owed
	ErrExceedsDebt ErrorCode = 100106
	// ErrPaymentNotConfirmed inbound transfer not seen by custody
	ErrPaymentNotConfirmed ErrorCode = 100107

	// ErrInvalidPrice invalid price
	ErrInvalidPrice ErrorCode = 100200
	// ErrStalePrice price older than the staleness bound
	ErrStalePrice ErrorCode = 100201
	// ErrLowConfidence confidence interval too wide
	ErrLowConfidence ErrorCode = 100202

	// ErrVersionConflict concurrent write detected on commit
	ErrVersionConflict ErrorCode = 100300
)

var errorMessages = map[ErrorCode]string{
	ErrUnknown:                "unknown error",
	ErrInvalidParams:          "invalid params",
	ErrBankNotFound:           "bank not found",
	ErrInvalidAmount:          "invalid amount",
	ErrAlreadyExists:          "bank already exists",
	ErrInsufficientFunds:      "insufficient funds",
	ErrInsufficientCollateral: "insufficient collateral",
	ErrInsufficientLiquidity:  "insufficient liquidity",
	ErrExceedsDebt:            "amount exceeds outstanding debt",
	ErrPaymentNotConfirmed:    "payment not confirmed",
	ErrInvalidPrice:           "invalid price",
	ErrStalePrice:             "stale price",
	ErrLowConfidence:          "price confidence too low",
	ErrVersionConflict:        "version conflict",
}

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	if msg, ok := errorMessages[e]; ok {
		return msg
	}

	return e.String()
}
