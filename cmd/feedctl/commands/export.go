package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Sternrassler/newsfeed-client/pkg/feed"
	"github.com/Sternrassler/newsfeed-client/pkg/pagination"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	exportOutput      string
	exportConcurrency int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Fetch every page of the feed and write the items as JSON",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "-", "Output file (- for stdout)")
	exportCmd.Flags().IntVar(&exportConcurrency, "concurrency", 4, "Parallel page requests")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	fetcher := pagination.NewBatchFetcher(a.source, pagination.BatchConfig{
		PageSize:       cfg.Feed.PageSize,
		MaxConcurrency: exportConcurrency,
		Timeout:        cfg.Feed.Timeout,
	})

	start := time.Now()
	items, fetchErr := fetcher.FetchAll(ctx)

	if exportOutput == "-" {
		err = encodeItems(cmd.OutOrStdout(), items)
	} else {
		err = writeItems(exportOutput, items)
	}
	if err != nil {
		return err
	}

	log.Info().
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Export finished")

	return fetchErr
}

func encodeItems(w io.Writer, items []feed.Item) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	return nil
}

// writeItems writes items to path. Flush and close failures are reported.
func writeItems(path string, items []feed.Item) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close output file: %w", closeErr)
		}
	}()

	w := bufio.NewWriter(f)
	if err := encodeItems(w, items); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}
