package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/havenly/planmatch/internal/catalog"
	"github.com/havenly/planmatch/internal/logger"
	"github.com/havenly/planmatch/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the matching engine over HTTP",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", ":8080", "address to listen on")
}

func serve(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the planmatch server", zap.String("version", version))

	cat := loadCatalog(ctx, config, logger)

	advisor, err := newAdvisor(ctx, config, cat, logger)
	if err != nil {
		// The API still serves matching and lookup without an advisor.
		logger.Warn("serving without the ai advisor", zap.Error(err))
		advisor = nil
	}

	reload := func() (*catalog.Catalog, error) {
		fresh, err := catalog.Load(config.Data)
		if err != nil {
			return nil, fmt.Errorf("reloading catalog: %w", err)
		}
		return fresh, nil
	}

	srv := server.New(cat, advisor, reload, logger)

	if err := srv.Run(cmd.Flag("listen").Value.String()); err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}
}
