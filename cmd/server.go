package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cardmarket/handler/auth"
	"cardmarket/handler/ext"
	"cardmarket/handler/hc"
	"cardmarket/handler/rest"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "run cardmarket api server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		cipher := provideCipher()
		chainz := provideChainService()
		books := provideOrderBooks(chainz)

		userStore := provideUserStore(database)
		challengeStore := provideChallengeStore(database)
		clientStore := provideClientStore(database)
		cardStore := provideCardStore(database)
		saleStore := provideSaleStore(database)

		verifier := provideSignatureVerifier()
		challengeService := provideChallengeService(challengeStore, cipher)
		userService := provideUserService(userStore, challengeService, verifier)
		saleService := provideSaleService(saleStore, cardStore, books, provideQuoteService(), verifier)

		mux := chi.NewMux()
		mux.Use(middleware.Recoverer)
		mux.Use(middleware.StripSlashes)
		mux.Use(cors.AllowAll().Handler)
		mux.Use(logger.WithRequestID)
		mux.Use(middleware.Logger)
		mux.Use(auth.HandleAuthentication(userService))

		{
			mux.Mount("/hc", hc.Handle(rootCmd.Version))
		}

		{
			mux.Mount("/api", rest.Handle(challengeService, userService, saleService, saleStore))
		}

		{
			mux.Mount("/ext", ext.Handle(clientStore, cipher, cfg.App.RequestSkew, cardStore))
		}

		port, _ := cmd.Flags().GetInt("port")
		addr := fmt.Sprintf(":%d", port)

		server := &http.Server{
			Addr:    addr,
			Handler: mux,
		}

		ctx, quit := context.WithCancel(ctx)
		done := make(chan struct{}, 1)
		signal.WithContextFunc(ctx, func() {
			quit()

			ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logrus.WithError(err).Error("graceful shutdown server failed")
			}

			close(done)
		})

		logrus.Infoln("serve at", addr)
		err := server.ListenAndServe()
		if err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server aborted")
		}

		<-done
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().Int("port", 8080, "server port")
}
