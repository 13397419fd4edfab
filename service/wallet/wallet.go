package wallet

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"lending/core"
	"lending/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// Config custody endpoint
type Config struct {
	Endpoint string `json:"endpoint"`
}

// New new custody wallet service
func New(cfg Config) core.WalletService {
	return &walletService{
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
	}
}

type walletService struct {
	endpoint string
}

// custody transfer record
type transferView struct {
	TraceID string          `json:"trace_id"`
	UserID  string          `json:"user_id"`
	Mint    string          `json:"mint"`
	Amount  decimal.Decimal `json:"amount"`
	Memo    string          `json:"memo,omitempty"`
	Status  string          `json:"status,omitempty"`
}

const statusConfirmed = "confirmed"

func (s *walletService) VerifyPayment(ctx context.Context, transfer *core.Transfer) (bool, error) {
	log := logger.FromContext(ctx).WithField("trace_id", transfer.TraceID)

	var view transferView
	resp, err := resthttp.Request(ctx).Get(s.endpoint + "/transfers/" + transfer.TraceID)
	if err != nil {
		log.WithError(err).Errorln("GET /transfers")
		return false, err
	}

	if err := resthttp.ParseResponse(resp, &view); err != nil {
		var statusErr *resthttp.StatusError
		if errors.As(err, &statusErr) && statusErr.Status == http.StatusNotFound {
			return false, nil
		}

		log.WithError(err).Errorln("GET /transfers")
		return false, err
	}

	switch {
	case view.Status != statusConfirmed,
		view.UserID != transfer.UserID,
		view.Mint != transfer.Mint,
		view.Amount.LessThan(transfer.Amount):
		log.Infof("payment mismatch, status %q amount %s", view.Status, view.Amount)
		return false, nil
	}

	return true, nil
}

func (s *walletService) Transfer(ctx context.Context, transfer *core.Transfer) error {
	log := logger.FromContext(ctx).WithField("trace_id", transfer.TraceID)

	body := transferView{
		TraceID: transfer.TraceID,
		UserID:  transfer.UserID,
		Mint:    transfer.Mint,
		Amount:  transfer.Amount,
		Memo:    transfer.Memo,
	}

	resp, err := resthttp.WithRequestID(ctx, transfer.TraceID).
		SetBody(body).
		Post(s.endpoint + "/transfers")
	if err != nil {
		log.WithError(err).Errorln("POST /transfers")
		return err
	}

	// already accepted under the same trace id
	if resp.StatusCode() == http.StatusConflict {
		return nil
	}

	if err := resthttp.ParseResponse(resp, nil); err != nil {
		log.WithError(err).Errorln("POST /transfers")
		return err
	}

	return nil
}
