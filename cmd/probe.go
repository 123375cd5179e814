package main

import (
	"context"
	"fmt"
	"os"

	"fragrance-scraper/internal/config"
	"fragrance-scraper/internal/types"
	"fragrance-scraper/utils"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// candidateLister is implemented by strategies that can report every candidate they considered
type candidateLister interface {
	Candidates(ctx context.Context, entry types.CatalogEntry) ([]string, error)
}

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe <brand> <fragrance>",
		Short: "Runs every image strategy for one fragrance and prints what each found",
		Long: `probe does not stop at the first hit and downloads nothing. It is meant for
checking why an entry resolves to the wrong image, or to none.`,
		Args: cobra.ExactArgs(2),
		RunE: runProbe,
	}
}

func runProbe(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	httpClient := utils.NewHTTPClient(cfg, logger)
	defer httpClient.Close()

	entry := types.CatalogEntry{Brand: args[0], Name: args[1]}
	ctx := cmd.Context()

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Strategy", "Image URL", "Error"})

	for i, strategy := range newResolver(cfg, logger, httpClient).Strategies() {
		var (
			imageURL   string
			candidates []string
		)
		if lister, ok := strategy.(candidateLister); ok {
			candidates, err = lister.Candidates(ctx, entry)
			if len(candidates) > 0 {
				imageURL = candidates[0]
			}
		} else {
			imageURL, err = strategy.FindImage(ctx, entry)
		}

		errText := ""
		if err != nil {
			errText = err.Error()
		}
		t.AppendRow(table.Row{i + 1, strategy.Name(), imageURL, errText})
		for _, candidate := range candidates {
			t.AppendRow(table.Row{"", "  candidate", candidate, ""})
		}
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}
