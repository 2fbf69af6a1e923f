package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/spreadscan/internal/config"
	applog "github.com/sawpanic/spreadscan/internal/log"
)

const (
	appName = "spreadscan"
	version = "v1.0.0"
)

func main() {
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(settings).ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("Command failed")
		stop()
		os.Exit(1)
	}
}

func newRootCmd(settings *config.Settings) *cobra.Command {
	var logLevel, logFormat string

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Cross-venue top-of-book spread report",
		Version: version,
		Long: `spreadscan fetches one order book snapshot from Bybit and OKX
concurrently and reports each venue's best bid and ask together with the
cross-venue spreads in both directions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return applog.Setup(logLevel, logFormat, os.Stderr)
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", settings.LogLevel, "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", settings.LogFormat, "Log format (auto|console|json)")

	rootCmd.AddCommand(newReportCmd(settings))
	rootCmd.AddCommand(newSymbolsCmd())

	return rootCmd
}
