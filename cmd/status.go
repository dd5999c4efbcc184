package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/smartbudget/internal/cli"
	"github.com/theirongolddev/smartbudget/internal/client"
	"github.com/theirongolddev/smartbudget/internal/model"
	"github.com/theirongolddev/smartbudget/internal/server"
	"github.com/theirongolddev/smartbudget/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	flagStatusAddr   string
	flagStatusEvents int
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show counters and recent evaluations of a running server",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&flagStatusAddr, "addr", "", "Server address (default server.addr from config)")
	statusCmd.Flags().IntVarP(&flagStatusEvents, "events", "n", 10, "Recent events to show")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	addr := flagStatusAddr
	if addr == "" {
		addr = appCfg.Server.Addr
	}
	c := client.New(addr)
	if c == nil {
		return errors.New("no server address configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	data := c.FetchAll(ctx)
	if data.Error != nil {
		if errors.Is(data.Error, client.ErrUnavailable) {
			return fmt.Errorf("no server answering at %s (start one with `smartbudget serve`)", addr)
		}
		// Partial data may still be available, continue rendering
		if data.Status == nil {
			return fmt.Errorf("fetch failed: %w", data.Error)
		}
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SMARTBUDGET SERVER"))
	fmt.Println()

	if st := data.Status; st != nil {
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Server",
			Headers: []string{"Metric", "Value"},
			Rows: [][]string{
				{"Address", addr},
				{"Started", humanize.Time(st.StartedAt)},
				{"Evaluations", humanize.Comma(st.Evaluations)},
				{"Rejected", humanize.Comma(st.Rejected)},
				{"Stream clients", fmt.Sprintf("%d", st.SubscriberCount)},
			},
		}))

		if st.Evaluations > 0 {
			rows := make([][]string, 0, 3)
			for _, tier := range []model.Tier{model.TierExcellent, model.TierModerate, model.TierLow} {
				n := st.Tiers[tier]
				pct := float64(n) / float64(st.Evaluations)
				rows = append(rows, []string{
					string(tier),
					humanize.Comma(int64(n)),
					renderMiniBar(pct, 20, theme.Active.TierColor(tier)),
				})
			}
			fmt.Print(cli.RenderTable(cli.Table{
				Title:   "Tiers",
				Headers: []string{"Tier", "Count", "Share"},
				Rows:    rows,
			}))
		}
	}

	if events := lastEvents(data.Events, flagStatusEvents); len(events) > 0 {
		rows := make([][]string, 0, len(events))
		for _, ev := range events {
			rows = append(rows, eventRow(ev))
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Recent Evaluations",
			Headers: []string{"#", "When", "Source", "Outcome", "Savings", "Insights"},
			Rows:    rows,
		}))
	}

	// Partial error warning
	if data.Error != nil {
		warnStyle := lipgloss.NewStyle().Foreground(theme.Active.Orange)
		fmt.Printf("  %s\n\n", warnStyle.Render("Partial data: "+data.Error.Error()))
	}

	fmt.Printf("  Fetched at %s\n\n", data.FetchedAt.Format("3:04:05 PM"))
	return nil
}

// lastEvents returns up to n events, newest first.
func lastEvents(events []server.Event, n int) []server.Event {
	if n <= 0 || len(events) == 0 {
		return nil
	}
	if len(events) > n {
		events = events[len(events)-n:]
	}
	out := make([]server.Event, len(events))
	for i, ev := range events {
		out[len(events)-1-i] = ev
	}
	return out
}

func eventRow(ev server.Event) []string {
	when := humanize.Time(ev.Timestamp)
	if ev.Type == "rejected" {
		outcome := "rejected"
		if ev.Field != "" {
			outcome += " (" + ev.Field + ")"
		}
		return []string{fmt.Sprintf("%d", ev.ID), when, ev.Source, outcome, "-", "-"}
	}
	return []string{
		fmt.Sprintf("%d", ev.ID),
		when,
		ev.Source,
		cli.TierGlyph(ev.Tier) + " " + string(ev.Tier),
		cli.FormatPercent(ev.SavingsPercentage),
		fmt.Sprintf("%d", ev.Insights),
	}
}

func renderMiniBar(pct float64, width int, color lipgloss.Color) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	filled := int(pct * float64(width))
	empty := width - filled

	barStyle := lipgloss.NewStyle().Foreground(color)
	dimStyle := lipgloss.NewStyle().Foreground(theme.Active.TextDim)

	return barStyle.Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", empty))
}
