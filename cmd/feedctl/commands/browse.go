package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/Sternrassler/newsfeed-client/pkg/feed"
	"github.com/Sternrassler/newsfeed-client/pkg/pagination"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const maxTitleWidth = 60

var (
	browsePages    int
	browseNoImages bool
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Load feed pages and print them as a table",
	Long: `Load the first --pages pages of the feed the way a scrolling list would,
resolve the title images of the loaded items and print a summary table.`,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().IntVarP(&browsePages, "pages", "p", 1, "Number of pages to load")
	browseCmd.Flags().BoolVar(&browseNoImages, "no-images", false, "Skip resolving title images")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if browsePages < 1 {
		return fmt.Errorf("--pages must be >= 1 (got %d)", browsePages)
	}

	ctx := cmd.Context()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctl, err := a.newController()
	if err != nil {
		return err
	}

	state, loadErr := browse(cmd, ctl, browsePages)

	resolved := 0
	if !browseNoImages && len(state.Items) > 0 {
		resolved = a.coordinator.Prefetch(ctx, state.Items)
		log.Debug().Int("resolved", resolved).Int("items", len(state.Items)).Msg("Prefetched title images")
	}

	out := cmd.OutOrStdout()
	renderItems(out, state.Items, a.cache.Get)
	fmt.Fprintf(out, "\nShowing %d of %d items, %d images cached", len(state.Items), state.TotalCount, a.cache.Len())
	if state.HasMore {
		fmt.Fprintf(out, ", next page %d", state.CurrentPage)
	}
	fmt.Fprintln(out)

	return loadErr
}

// browse loads up to pages pages, stopping early when the feed is exhausted
// or a page fails. The returned state holds whatever was merged.
func browse(cmd *cobra.Command, ctl *pagination.Controller, pages int) (pagination.State, error) {
	ctx := cmd.Context()

	if err := ctl.LoadInitial(ctx); err != nil {
		return ctl.State(), err
	}

	for loaded := 1; loaded < pages && ctl.State().HasMore; loaded++ {
		if err := ctl.LoadMore(ctx); err != nil {
			return ctl.State(), err
		}
	}

	return ctl.State(), nil
}

// renderItems writes items as a table; lookup reports cached title images.
func renderItems(w io.Writer, items []feed.Item, lookup func(string) (feed.Asset, bool)) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Published", "Title", "Image"})

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, item := range items {
		table.Append([]string{
			strconv.Itoa(item.ID),
			item.PublishedDate,
			truncate(item.Title, maxTitleWidth),
			imageColumn(item, lookup),
		})
	}

	table.Render()
}

func imageColumn(item feed.Item, lookup func(string) (feed.Asset, bool)) string {
	if !item.HasAsset() {
		return "-"
	}
	asset, ok := lookup(item.ImageKey)
	if !ok {
		return "unavailable"
	}
	return fmt.Sprintf("%s, %d B", asset.ContentType, asset.Size())
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
