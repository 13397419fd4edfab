package cmd

import (
	"sync"

	"lending/config"
	"lending/worker"
	"lending/worker/cashier"

	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "lending job worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		if cfg.Storage == config.StorageMemory {
			log.Warnln("memory storage is not shared with the server, the cashier only sees its own transfers")
		}

		s := provideStores()
		defer s.close()

		walletz := provideWalletService()

		workers := []worker.Worker{
			cashier.New(s.transfers, walletz, cashier.Config{
				Batch:    cfg.Cashier.Batch,
				Capacity: cfg.Cashier.Capacity,
				Interval: cfg.Cashier.IntervalDuration(),
			}),
		}

		wg := sync.WaitGroup{}
		for _, w := range workers {
			wg.Add(1)

			go func(worker worker.Worker) {
				defer wg.Done()
				worker.Run(ctx)
			}(w)
		}

		wg.Wait()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
