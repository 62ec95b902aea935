package cmd

import (
	"cardmarket/core"
	"cardmarket/worker"
	"cardmarket/worker/chainsync"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "run cardmarket sync workers",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		chainz := provideChainService()

		jobStore := provideJobStore(database)
		saleStore := provideSaleStore(database)
		cardStore := provideCardStore(database)

		spec, _ := cmd.Flags().GetString("spec")

		var workers []worker.Worker
		for _, network := range cfg.Networks {
			for _, key := range listenerKeys(network) {
				workers = append(workers, chainsync.New(
					cfg.App.Location,
					spec,
					key.Network,
					key.Type,
					key.ContractAddress,
					network,
					jobStore,
					saleStore,
					cardStore,
					chainz,
					chainz,
				))
			}
		}

		for _, w := range workers {
			if err := w.Start(); err != nil {
				logrus.WithError(err).Fatal("start worker")
			}
		}

		done := make(chan struct{}, 1)
		signal.WithContextFunc(ctx, func() {
			for _, w := range workers {
				w.Stop()
			}
			close(done)
		})

		logrus.Infoln("workers started:", len(workers))
		<-done
	},
}

// listenerKeys the cursor keys a network needs. One cursor per job
// type; types whose contract is not configured are skipped.
func listenerKeys(network core.NetworkConfig) []core.Job {
	keys := []core.Job{
		{Network: network.Network, Type: core.JobTypeSaleListener},
		{Network: network.Network, Type: core.JobTypeCreatedToken},
		{Network: network.Network, Type: core.JobTypeBurnedToken},
		{Network: network.Network, Type: core.JobTypeTransferToken},
	}

	if network.FactoryContract != "" {
		keys = append(keys, core.Job{Network: network.Network, Type: core.JobTypeCreatedContract})
	}

	if network.LaunchpadContract != "" {
		keys = append(keys, core.Job{Network: network.Network, Type: core.JobTypeLaunchpadSale})
	}

	return keys
}

func init() {
	rootCmd.AddCommand(workerCmd)
	workerCmd.Flags().String("spec", "@every 10s", "cron spec for sync ticks")
}
