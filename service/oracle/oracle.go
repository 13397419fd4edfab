package oracle

import (
	"context"
	"time"

	"lending/core"

	"github.com/facebookgo/clock"
	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// Config oracle adapter config
type Config struct {
	// conf / price above this ratio is rejected, zero disables the check
	MaxConfidenceRatio decimal.Decimal `json:"max_confidence_ratio"`
}

type oracleService struct {
	feed  core.PriceFeed
	clock clock.Clock
	cfg   Config
	sf    singleflight.Group
}

// New new oracle adapter over a raw price feed
func New(feed core.PriceFeed, clk clock.Clock, cfg Config) core.OracleService {
	return &oracleService{
		feed:  feed,
		clock: clk,
		cfg:   cfg,
	}
}

// GetPrice latest validated price of the feed.
//
// Nothing is cached: every call reaches the feed, concurrent calls for the
// same feed share one fetch.
func (s *oracleService) GetPrice(ctx context.Context, feedID string, maxStaleness time.Duration) (*core.PriceQuote, error) {
	log := logger.FromContext(ctx).WithField("feed", feedID)

	v, err, _ := s.sf.Do(feedID, func() (interface{}, error) {
		return s.feed.LatestQuote(ctx, feedID)
	})
	if err != nil {
		log.WithError(err).Errorln("feed.LatestQuote")
		return nil, err
	}

	quote := *v.(*core.PriceQuote)
	if quote.Price <= 0 {
		log.Infoln("invalid price", quote.Price)
		return nil, core.ErrInvalidPrice
	}

	age := s.clock.Now().Sub(quote.PublishTime)
	if age > maxStaleness || -age > maxStaleness {
		log.Infof("stale price, published at %s", quote.PublishTime)
		return nil, core.ErrStalePrice
	}

	quote.Value = quote.NormalizedPrice()
	if s.cfg.MaxConfidenceRatio.IsPositive() {
		ratio := quote.NormalizedConfidence().Div(quote.Value)
		if ratio.GreaterThan(s.cfg.MaxConfidenceRatio) {
			log.Infof("low confidence %s", ratio)
			return nil, core.ErrLowConfidence
		}
	}

	return &quote, nil
}
