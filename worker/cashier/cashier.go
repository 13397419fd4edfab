package cashier

import (
	"context"
	"time"

	"lending/core"
	"lending/worker"

	"github.com/fox-one/pkg/logger"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Cashier cashier
//
// delivers pending outbound transfers to custody
type Cashier struct {
	worker.TickWorker
	transfers core.TransferStore
	wallet    core.WalletService
	cfg       Config
}

// Config cashier config
type Config struct {
	Batch    int           `json:"batch" valid:"required"`
	Capacity int64         `json:"capacity" valid:"required"`
	Interval time.Duration `json:"interval"`
}

// New new cashier
func New(
	transfers core.TransferStore,
	wallet core.WalletService,
	cfg Config,
) *Cashier {
	cashier := Cashier{
		TickWorker: worker.TickWorker{Delay: cfg.Interval},
		transfers:  transfers,
		wallet:     wallet,
		cfg:        cfg,
	}

	return &cashier
}

// Run run worker
func (w *Cashier) Run(ctx context.Context) error {
	f := w.sync
	if w.cfg.Capacity > 1 {
		f = w.parallel(w.cfg.Capacity)
	}

	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx, f)
	})
}

func (w *Cashier) onWork(ctx context.Context, f func(context.Context, []*core.Transfer) error) error {
	log := logger.FromContext(ctx).WithField("worker", "cashier")

	transfers, err := w.transfers.ListPending(ctx, w.cfg.Batch)
	if err != nil {
		log.WithError(err).Errorln("list transfers")
		return err
	}

	if len(transfers) == 0 {
		return worker.ErrIdle
	}

	return f(ctx, transfers)
}

func (w *Cashier) sync(ctx context.Context, transfers []*core.Transfer) error {
	for _, transfer := range transfers {
		if err := w.handleTransfer(ctx, transfer); err != nil {
			return err
		}
	}

	return nil
}

func (w *Cashier) parallel(capacity int64) func(ctx context.Context, transfers []*core.Transfer) error {
	sem := semaphore.NewWeighted(capacity)

	return func(ctx context.Context, transfers []*core.Transfer) error {
		g := errgroup.Group{}

		for idx := range transfers {
			transfer := transfers[idx]

			if err := sem.Acquire(ctx, 1); err != nil {
				return g.Wait()
			}

			g.Go(func() error {
				defer sem.Release(1)
				return w.handleTransfer(ctx, transfer)
			})
		}

		return g.Wait()
	}
}

func (w *Cashier) handleTransfer(ctx context.Context, transfer *core.Transfer) error {
	log := logger.FromContext(ctx).WithField("trace_id", transfer.TraceID)

	if err := w.wallet.Transfer(ctx, transfer); err != nil {
		log.WithError(err).Errorln("wallet.Transfer")
		return err
	}

	if err := w.transfers.MarkDelivered(ctx, transfer); err != nil {
		log.WithError(err).Errorln("transfers.MarkDelivered")
		return err
	}

	return nil
}
