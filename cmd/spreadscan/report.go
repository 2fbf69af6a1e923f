package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sawpanic/spreadscan/internal/application/fetch"
	"github.com/sawpanic/spreadscan/internal/config"
	"github.com/sawpanic/spreadscan/internal/data/venue/bybit"
	"github.com/sawpanic/spreadscan/internal/data/venue/okx"
	"github.com/sawpanic/spreadscan/internal/data/venue/types"
	"github.com/sawpanic/spreadscan/internal/net/breaker"
	"github.com/sawpanic/spreadscan/internal/net/client"
	"github.com/sawpanic/spreadscan/internal/telemetry/metrics"
)

type reportOptions struct {
	symbol      string
	depth       int
	output      string
	configFile  string
	metricsFile string
}

func (o *reportOptions) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("report", pflag.ContinueOnError)
	fs.StringVar(&o.symbol, "symbol", "BTC/USDT", "Trading pair, e.g. BTC/USDT, ETH-USDT or BTCUSDT")
	fs.IntVar(&o.depth, "depth", 20, "Order book levels to request from each venue")
	fs.StringVarP(&o.output, "output", "o", outputText, "Output format (text|json)")
	fs.StringVar(&o.configFile, "config", o.configFile, "YAML file overriding venue endpoints and limits")
	fs.StringVar(&o.metricsFile, "metrics-file", o.metricsFile, "Write Prometheus metrics in text format to this file")
	return fs
}

func newReportCmd(settings *config.Settings) *cobra.Command {
	opts := &reportOptions{
		configFile:  settings.ConfigFile,
		metricsFile: settings.MetricsFile,
	}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Fetch both venues once and report best prices and spreads",
		Long: `Fetch one order book snapshot per venue concurrently and print each
venue's best bid and ask, or its error, followed by every spread direction
that both venues could supply. A failing venue does not fail the command.

Examples:
  spreadscan report
  spreadscan report --symbol ETH-USDT --depth 5 --output json
  spreadscan report --config venues.yaml --metrics-file spreadscan.prom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts)
		},
	}
	cmd.Flags().AddFlagSet(opts.flagSet())

	return cmd
}

func runReport(cmd *cobra.Command, opts *reportOptions) error {
	render, err := renderer(opts.output)
	if err != nil {
		return err
	}

	cfg := config.DefaultVenues()
	if opts.configFile != "" {
		if cfg, err = config.LoadVenues(opts.configFile); err != nil {
			return err
		}
		log.Debug().Str("config", opts.configFile).Msg("Loaded venue overrides")
	}

	reg := prometheus.NewRegistry()
	orch := fetch.New(newPair(cfg), fetch.WithMetrics(metrics.New(reg)))

	report, err := orch.Report(cmd.Context(), opts.symbol, opts.depth)
	if err != nil {
		return err
	}

	if err := render(cmd.OutOrStdout(), report); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if opts.metricsFile != "" {
		if err := metrics.WriteTextfile(opts.metricsFile, reg); err != nil {
			return err
		}
		log.Debug().Str("path", opts.metricsFile).Msg("Wrote metrics")
	}
	return nil
}

func newPair(cfg *config.VenuesConfig) fetch.Pair {
	httpClient := client.New(cfg.ClientConfig(),
		client.WithLimiter(cfg.Limiter()),
		client.WithBreakers(breaker.NewSet(cfg.BreakerSettings())),
	)

	return fetch.Pair{
		Left:  bybit.NewOrderBookClient(httpClient, bybit.WithBaseURL(cfg.BaseURL(types.VenueBybit))),
		Right: okx.NewOrderBookClient(httpClient, okx.WithBaseURL(cfg.BaseURL(types.VenueOKX))),
	}
}
