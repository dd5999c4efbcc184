package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/smartbudget/internal/cli"
	"github.com/theirongolddev/smartbudget/internal/model"
	"github.com/theirongolddev/smartbudget/internal/pipeline"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the expense categories",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(_ *cobra.Command, _ []string) error {
	set := pipeline.Default().Categories()

	rows := make([][]string, 0, len(set))
	for _, c := range set {
		rows = append(rows, []string{string(c), "--" + strings.ToLower(string(c)), surfaced(c)})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Categories",
		Headers: []string{"Category", "Flag", "Insights"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}

// surfaced reports whether insights for c are shown under the current config.
func surfaced(c model.Category) string {
	surface, err := appCfg.SurfaceCategories()
	if err != nil || len(surface) == 0 {
		return "shown"
	}
	for _, s := range surface {
		if s == c {
			return "shown"
		}
	}
	return "hidden"
}
