// Command storefrontctl browses the catalog, prices carts and manages the
// catalog schema from the command line.
package main

import (
	"fmt"
	"os"

	"storefront/internal/config"
	"storefront/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newRootCmd(cfg *config.Config, log *zap.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "storefrontctl",
		Short:         "Storefront catalog and pricing tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProductsCmd(cfg, log),
		newQuoteCmd(cfg, log),
		newMigrateCmd(cfg, log),
	)
	return root
}

func main() {
	cfg := config.Load()

	level := zapcore.InfoLevel
	if cfg.Server.IsDevelopment() {
		level = zapcore.DebugLevel
	}
	log := logger.NewJSON(os.Stderr, level)
	defer log.Sync()

	if err := newRootCmd(cfg, log).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
