package cmd

import (
	"github.com/fox-one/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var jobProvisionCmd = &cobra.Command{
	Use:   "job-provision",
	Short: "provision sync cursors from the configured networks",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		jobStore := provideJobStore(database)

		for _, network := range cfg.Networks {
			for _, key := range listenerKeys(network) {
				l := logrus.WithFields(logrus.Fields{
					"network":  key.Network,
					"type":     key.Type,
					"contract": key.ContractAddress,
				})

				existing, err := jobStore.Find(ctx, key.Network, key.Type, key.ContractAddress)
				if err != nil {
					l.WithError(err).Fatal("find cursor")
				}

				if existing != nil {
					// never reset a live cursor
					l.WithField("block", existing.ProcessingBlockNumber).Infoln("cursor exists, skipped")
					continue
				}

				job := key
				job.ProcessingBlockNumber = network.InitialBlock
				if err := jobStore.Create(ctx, &job); err != nil {
					l.WithError(err).Fatal("create cursor")
				}

				l.WithField("block", job.ProcessingBlockNumber).Infoln("cursor provisioned")
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(jobProvisionCmd)
}
