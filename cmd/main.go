package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fragrance-scraper/adapters"
	"fragrance-scraper/catalog"
	"fragrance-scraper/extractor"
	"fragrance-scraper/internal/config"
	"fragrance-scraper/internal/types"
	"fragrance-scraper/utils"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, newRootCmd()); err != nil {
		fmt.Printf("Unexpected error: %v\n", err)
	}
}

// execute runs cmd and turns a panic anywhere below it into an error
func execute(ctx context.Context, cmd *cobra.Command) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return cmd.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fragrance-scraper",
		Short: "Finds and downloads a product photo for every fragrance in the catalog.",
		Long: `fragrance-scraper reads (Brand, Fragrance) pairs from a CSV catalog, looks each
one up on Fragrantica (product page, then site search) and falls back to a
general image search. Found images are downloaded and a JSON manifest of every
outcome is written at the end of the run.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runScrape,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (YAML)")
	flags.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	flags.String("catalog", "", "CSV catalog with Brand and Fragrance columns")
	flags.String("images", "", "Directory downloaded images are written to")
	flags.String("manifest", "", "Path of the JSON manifest")
	flags.Duration("delay", 0, "Pause between catalog entries")
	flags.Duration("timeout", 0, "HTTP request timeout (0 = none)")
	flags.Bool("browser", false, "Render pages in a headless browser")

	cmd.AddCommand(newProbeCmd())
	return cmd
}

// newLogger sets up logging the same way for every command
func newLogger() *logrus.Entry {
	logger := logrus.New()

	// Set timestamp format with milliseconds
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	// Set log level from LOG_LEVEL env if present
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		if level, err := logrus.ParseLevel(levelStr); err == nil {
			logger.SetLevel(level)
		}
	} else if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	return logger.WithField("run", uuid.NewString())
}

func runScrape(cmd *cobra.Command, _ []string) error {
	logger := newLogger()

	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	httpClient := utils.NewHTTPClient(cfg, logger)
	defer httpClient.Close()

	downloader, err := extractor.NewDownloader(cfg, logger, httpClient)
	if err != nil {
		return fmt.Errorf("init downloader: %w", err)
	}
	resolver := newResolver(cfg, logger, httpClient)
	driver := extractor.NewDriver(resolver, downloader, cfg.RequestDelay, logger)

	entries := catalog.Load(cfg.CatalogPath, logger)

	startTime := time.Now()
	results, err := driver.Run(cmd.Context(), entries)
	if errors.Is(err, context.Canceled) {
		fmt.Println("\nScript interrupted by user")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Infof("Scrape completed in %v", time.Since(startTime))

	if err := extractor.WriteManifest(cfg.ManifestPath, results); err != nil {
		fmt.Printf("Error saving results: %v\n", err)
		return nil
	}
	fmt.Printf("\nResults saved to %s\n", cfg.ManifestPath)
	extractor.PrintSummary(os.Stdout, results)
	return nil
}

func newResolver(cfg *types.Config, logger types.Logger, httpClient *utils.HTTPClient) *extractor.Resolver {
	pages := adapters.NewPageFetcher(cfg, logger, httpClient)
	return extractor.NewResolver(logger, extractor.DefaultStrategies(cfg, logger, pages)...)
}
