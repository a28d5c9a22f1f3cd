// Command corpmatch is the offline companion to corpmatchd: it runs the
// same matching engine over a CSV of company names from the command line,
// without standing up an HTTP server, Postgres, or Kafka.
package main

import (
	"fmt"
	"os"

	"github.com/Gobusters/ectologger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Ramsey-B/corpmatch/config"
	"github.com/Ramsey-B/corpmatch/internal/logging"
)

var (
	cfg    *config.Config
	logger ectologger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "corpmatch",
	Short: "Corporate-name matching and deduplication",
	Long:  "Normalizes, scores, and deduplicates corporate legal names, offline and without a running server.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		l, err := logging.New(cfg)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger = l

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
