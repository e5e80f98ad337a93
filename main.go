package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"delivery-dashboard/config"
	"delivery-dashboard/services"
	"delivery-dashboard/storage"
	"delivery-dashboard/utils"
)

var (
	cfg    *config.Config
	logger *utils.Logger

	dataPath   string
	dataSource string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "delivery-dashboard",
	Short: "Delivery agent review analytics",
	Long:  `Filters delivery reviews by agent and order type, aggregates them by city and serves the results to dashboards.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if dataPath != "" {
			cfg.DataPath = dataPath
		}
		if dataSource != "" {
			cfg.DataSource = dataSource
		}
		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		logger = utils.NewLoggerWithLevel(level)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataPath, "data", "d", "", "Path to the reviews CSV file (overrides DATA_PATH)")
	rootCmd.PersistentFlags().StringVarP(&dataSource, "source", "s", "", "Data source: csv or postgres (overrides DATA_SOURCE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(newServeCmd(), newSummaryCmd(), newQueryCmd(), newNearestCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openSource returns the review source selected by the configuration.
func openSource(ctx context.Context) (storage.ReviewSource, error) {
	switch cfg.DataSource {
	case config.SourceCSV:
		logger.Info("[main] Reading reviews from %s", cfg.DataPath)
		return storage.NewCSVReader(cfg.DataPath)
	case config.SourcePostgres:
		logger.Info("[main] Reading reviews from PostgreSQL %s:%s/%s", cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB)
		return storage.NewPostgresReader(ctx, cfg.DSN(), cfg.ConnectRetries, logger)
	default:
		return nil, fmt.Errorf("unknown data source %q (want %s or %s)", cfg.DataSource, config.SourceCSV, config.SourcePostgres)
	}
}

// loadQueries loads the dataset once and wraps it in a QueryService.
func loadQueries(ctx context.Context) (*services.QueryService, error) {
	source, err := openSource(ctx)
	if err != nil {
		return nil, err
	}
	defer source.Close()

	ds, err := services.NewLoader(logger).Load(ctx, source)
	if err != nil {
		return nil, err
	}
	return services.NewQueryService(ds, logger), nil
}
