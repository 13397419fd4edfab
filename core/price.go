package core

import (
	"context"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// PriceQuote a signed quote published by the oracle
type PriceQuote struct {
	FeedID string `json:"feed_id,omitempty"`
	// mantissa, scaled by 10^Exponent
	Price       int64     `json:"price,omitempty"`
	Confidence  uint64    `json:"confidence,omitempty"`
	Exponent    int32     `json:"exponent,omitempty"`
	PublishTime time.Time `json:"publish_time,omitempty"`
	// normalized price, set by the oracle adapter
	Value decimal.Decimal `json:"value,omitempty"`
}

// NormalizedPrice price * 10^exponent
func (q *PriceQuote) NormalizedPrice() decimal.Decimal {
	return decimal.New(q.Price, q.Exponent)
}

// NormalizedConfidence confidence * 10^exponent
func (q *PriceQuote) NormalizedConfidence() decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(q.Confidence), q.Exponent)
}

// PriceFeed source of raw quotes
type PriceFeed interface {
	LatestQuote(ctx context.Context, feedID string) (*PriceQuote, error)
}

// OracleService validated prices
type OracleService interface {
	GetPrice(ctx context.Context, feedID string, maxStaleness time.Duration) (*PriceQuote, error)
}
