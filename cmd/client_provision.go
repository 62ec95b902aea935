package cmd

import (
	"cardmarket/core"
	"cardmarket/pkg/security"

	"github.com/fox-one/pkg/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var clientProvisionCmd = &cobra.Command{
	Use:   "client-provision <name>",
	Short: "create an external api client and print its credentials",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		cipher := provideCipher()
		clientStore := provideClientStore(database)

		secret, err := security.RandomToken(32)
		if err != nil {
			logrus.WithError(err).Fatal("generate secret")
		}

		encrypted, err := cipher.Encrypt([]byte(secret))
		if err != nil {
			logrus.WithError(err).Fatal("encrypt secret")
		}

		client := core.Client{
			ClientID:        uuid.New(),
			Name:            args[0],
			SecretEncrypted: encrypted,
		}

		if err := clientStore.Create(ctx, &client); err != nil {
			logrus.WithError(err).Fatal("create client")
		}

		// the plaintext secret is shown once and never stored
		cmd.Println("client_id:", client.ClientID)
		cmd.Println("secret:", secret)
	},
}

func init() {
	rootCmd.AddCommand(clientProvisionCmd)
}
