package oracle

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"lending/core"
	"lending/pkg/resthttp"
)

// Hermes price feed served by a pyth hermes compatible endpoint
type Hermes struct {
	endpoint string
}

// NewHermes new hermes feed
func NewHermes(endpoint string) *Hermes {
	return &Hermes{endpoint: strings.TrimSuffix(endpoint, "/")}
}

type hermesPrice struct {
	Price       string `json:"price"`
	Conf        string `json:"conf"`
	Expo        int32  `json:"expo"`
	PublishTime int64  `json:"publish_time"`
}

type hermesResponse struct {
	Parsed []struct {
		ID    string      `json:"id"`
		Price hermesPrice `json:"price"`
	} `json:"parsed"`
}

// LatestQuote latest quote of the feed
func (h *Hermes) LatestQuote(ctx context.Context, feedID string) (*core.PriceQuote, error) {
	resp, err := resthttp.Request(ctx).
		SetQueryParam("ids[]", feedID).
		SetQueryParam("parsed", "true").
		Get(h.endpoint + "/v2/updates/price/latest")
	if err != nil {
		return nil, err
	}

	var body hermesResponse
	if err := resthttp.ParseResponse(resp, &body); err != nil {
		return nil, err
	}

	for _, item := range body.Parsed {
		if normalizeFeedID(item.ID) != normalizeFeedID(feedID) {
			continue
		}

		price, err := strconv.ParseInt(item.Price.Price, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse price %q: %w", item.Price.Price, err)
		}

		conf, err := strconv.ParseUint(item.Price.Conf, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse conf %q: %w", item.Price.Conf, err)
		}

		return &core.PriceQuote{
			FeedID:      feedID,
			Price:       price,
			Confidence:  conf,
			Exponent:    item.Price.Expo,
			PublishTime: time.Unix(item.Price.PublishTime, 0),
		}, nil
	}

	return nil, fmt.Errorf("feed %s not found", feedID)
}

func normalizeFeedID(id string) string {
	return strings.ToLower(strings.TrimPrefix(id, "0x"))
}
