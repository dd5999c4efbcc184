package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strings"

	"github.com/theirongolddev/smartbudget/internal/cli"
	"github.com/theirongolddev/smartbudget/internal/client"
	"github.com/theirongolddev/smartbudget/internal/model"
	"github.com/theirongolddev/smartbudget/internal/pipeline"
	"github.com/theirongolddev/smartbudget/internal/source"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	flagBudget      float64
	flagCategoryAmt = make(map[model.Category]*float64, len(model.DefaultCategories))
	flagExpenses    []string
	flagFile        string
	flagDir         string
	flagFormat      string
	flagAllInsights bool
	flagRemote      string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Evaluate a budget from flags or files",
	Example: `  smartbudget analyze --budget 1000 --food 100 --rent 300 --entertainment 250
  smartbudget analyze --budget 2500 --expense Food=420 --expense shopping=610
  smartbudget analyze --file march.yaml --format json
  smartbudget analyze --dir ./budgets`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	addAnalyzeFlags(analyzeCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// addAnalyzeFlags registers the analyze flags on cmd. Root and analyze share
// the same variables so `smartbudget --budget ...` works without the subcommand.
func addAnalyzeFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64VarP(&flagBudget, "budget", "b", 0, "Monthly budget (defaults to budget.monthly from config)")
	for _, c := range model.DefaultCategories {
		p, ok := flagCategoryAmt[c]
		if !ok {
			p = new(float64)
			flagCategoryAmt[c] = p
		}
		f.Float64Var(p, strings.ToLower(string(c)), 0, fmt.Sprintf("Amount spent on %s", c))
	}
	f.StringArrayVarP(&flagExpenses, "expense", "e", nil, "Expense as Category=Amount (repeatable)")
	f.StringVarP(&flagFile, "file", "f", "", "Read the request from a JSON, JSONL, YAML or TOML file")
	f.StringVar(&flagDir, "dir", "", "Evaluate every request file under a directory")
	f.StringVarP(&flagFormat, "format", "o", "", "Output format: table, json, yaml (default from config)")
	f.BoolVar(&flagAllInsights, "all-insights", false, "Show every flagged category, ignoring insights.surface")
	f.StringVar(&flagRemote, "remote", "", "Evaluate on a running server at this address instead of locally")
	cmd.MarkFlagsMutuallyExclusive("file", "dir")
}

// evaluateFunc evaluates one request, locally or against a server.
type evaluateFunc func(context.Context, model.Request) (model.Result, error)

// evaluateManyFunc evaluates requests in order. errs[i] is set for each rejected
// request; err is set only when nothing could be evaluated.
type evaluateManyFunc func(context.Context, []model.Request) (results []model.Result, errs []error, err error)

// remoteBatchSize keeps each batch call under the server's default max-batch.
var remoteBatchSize = 500

func localMany(evaluate evaluateFunc) evaluateManyFunc {
	return func(ctx context.Context, reqs []model.Request) ([]model.Result, []error, error) {
		results := make([]model.Result, len(reqs))
		errs := make([]error, len(reqs))
		for i, r := range reqs {
			results[i], errs[i] = evaluate(ctx, r)
		}
		return results, errs, nil
	}
}

// remoteMany sends requests to the server's batch endpoint in chunks.
func remoteMany(c *client.Client) evaluateManyFunc {
	return func(ctx context.Context, reqs []model.Request) ([]model.Result, []error, error) {
		results := make([]model.Result, len(reqs))
		errs := make([]error, len(reqs))
		for start := 0; start < len(reqs); start += remoteBatchSize {
			end := min(start+remoteBatchSize, len(reqs))
			items, err := c.EvaluateBatch(ctx, reqs[start:end])
			if err != nil {
				return nil, nil, err
			}
			if len(items) != end-start {
				return nil, nil, fmt.Errorf("server answered %d of %d requests", len(items), end-start)
			}
			for i, it := range items {
				switch {
				case it.Result != nil:
					results[start+i] = *it.Result
				default:
					errs[start+i] = &client.APIError{Status: http.StatusBadRequest, Message: it.Error, Field: it.Field}
				}
			}
		}
		return results, errs, nil
	}
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	format := flagFormat
	if format == "" {
		format = appCfg.General.DefaultFormat
	}
	switch format {
	case cli.FormatTable, cli.FormatJSON, cli.FormatYAML:
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
	}

	surface, err := appCfg.SurfaceCategories()
	if err != nil {
		return err
	}
	if flagAllInsights {
		surface = nil
	}

	ev := pipeline.Default()
	evaluate := func(_ context.Context, req model.Request) (model.Result, error) {
		return ev.Evaluate(req.Budget, req.Expenses)
	}
	many := localMany(evaluate)
	if flagRemote != "" {
		c := client.New(flagRemote)
		evaluate = c.Evaluate
		many = remoteMany(c)
		logger.Debug("evaluating remotely", zap.String("op", "cmd.runAnalyze"), zap.String("remote", flagRemote))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	switch {
	case flagDir != "":
		return analyzeDir(ctx, flagDir, format, many)
	case flagFile != "":
		docs, err := source.ReadDocuments(flagFile)
		if err != nil {
			return err
		}
		if len(docs) == 1 {
			return analyzeOne(ctx, ev, docs[0].Label(), docs[0].Request, format, surface, evaluate)
		}
		rows, err := evaluateDocs(ctx, docs, many)
		if err != nil {
			return err
		}
		return renderBatch(rows, format)
	}

	req, err := requestFromFlags(cmd)
	if err != nil {
		return err
	}
	return analyzeOne(ctx, ev, "", req, format, surface, evaluate)
}

// requestFromFlags assembles a request from --budget, the per-category flags,
// and --expense pairs. Later pairs override earlier ones.
func requestFromFlags(cmd *cobra.Command) (model.Request, error) {
	flags := cmd.Flags()

	req := model.Request{Expenses: make(model.ExpenseMap)}
	switch {
	case flags.Changed("budget"):
		req.Budget = flagBudget
	case appCfg.Budget.Monthly != nil:
		req.Budget = *appCfg.Budget.Monthly
	default:
		return req, errors.New("no budget given: pass --budget or set budget.monthly in the config")
	}
	if req.Budget < 0 {
		return req, fmt.Errorf("budget %s: must be >= 0", cli.FormatMoney(req.Budget))
	}

	for _, c := range model.DefaultCategories {
		if flags.Changed(strings.ToLower(string(c))) {
			req.Expenses[c] = *flagCategoryAmt[c]
		}
	}

	for _, pair := range flagExpenses {
		c, amt, err := parseExpensePair(pair)
		if err != nil {
			return req, err
		}
		req.Expenses[c] = amt
	}
	return req, nil
}

// parseExpensePair parses "Name=Amount". Names match categories case-insensitively;
// unknown names pass through so the evaluator reports them.
func parseExpensePair(pair string) (model.Category, float64, error) {
	name, raw, ok := strings.Cut(pair, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", 0, fmt.Errorf("--expense %q: want Category=Amount", pair)
	}
	amt, err := cli.ParseAmount(raw)
	if err != nil {
		return "", 0, fmt.Errorf("--expense %q: %w", pair, err)
	}
	if c, found := model.DefaultCategories.Lookup(name); found {
		return c, amt, nil
	}
	return model.Category(name), amt, nil
}

func analyzeOne(ctx context.Context, ev *pipeline.Evaluator, label string, req model.Request, format string, surface []model.Category, evaluate evaluateFunc) error {
	res, err := evaluate(ctx, req)
	if err != nil {
		logger.Info("request rejected", zap.String("op", "cmd.analyzeOne"), zap.Error(err))
		return err
	}
	logger.Debug("evaluated",
		zap.String("op", "cmd.analyzeOne"),
		zap.String("tier", string(res.Tier)),
		zap.Float64("savings_pct", res.SavingsPercentage),
	)

	if format != cli.FormatTable {
		return cli.WriteEncoded(os.Stdout, format, cli.Envelope{Source: label, Budget: req.Budget, Result: res})
	}

	report := cli.NewReport(ev, req.Budget, req.Expenses, res, surface)
	fmt.Print(cli.RenderReport(report, ev.Categories()))
	return nil
}

// analyzeDir reads every request file under dir in parallel, then evaluates
// the documents in path order.
func analyzeDir(ctx context.Context, dir, format string, many evaluateManyFunc) error {
	files, err := source.ScanDir(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "  No request files found in %s\n", dir)
		return nil
	}
	if !flagQuiet {
		counts := source.CountFormats(files)
		fmt.Fprintf(os.Stderr, "  Found %d files (%d json, %d jsonl, %d yaml, %d toml)\n",
			len(files), counts[source.FormatJSON], counts[source.FormatJSONL],
			counts[source.FormatYAML], counts[source.FormatTOML])
	}

	perFile := make([][]source.Document, len(files))
	readErrs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perFile[i], readErrs[i] = source.ReadDocuments(f.Path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var rows []cli.BatchRow
	var docs []source.Document
	for i, f := range files {
		if readErrs[i] != nil {
			logger.Warn("unreadable file", zap.String("op", "cmd.analyzeDir"), zap.String("path", f.Path), zap.Error(readErrs[i]))
			rows = append(rows, cli.BatchRow{Label: f.Name, Err: readErrs[i]})
			continue
		}
		docs = append(docs, perFile[i]...)
	}
	evaluated, err := evaluateDocs(ctx, docs, many)
	if err != nil {
		return err
	}
	return renderBatch(append(rows, evaluated...), format)
}

func evaluateDocs(ctx context.Context, docs []source.Document, many evaluateManyFunc) ([]cli.BatchRow, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	reqs := make([]model.Request, len(docs))
	for i, d := range docs {
		reqs[i] = d.Request
	}
	results, errs, err := many(ctx, reqs)
	if err != nil {
		return nil, err
	}
	rows := make([]cli.BatchRow, len(docs))
	for i, d := range docs {
		rows[i] = cli.BatchRow{Label: d.Label(), Budget: d.Request.Budget, Result: results[i], Err: errs[i]}
	}
	return rows, nil
}

type batchEntry struct {
	Source string        `json:"source" yaml:"source"`
	Budget float64       `json:"budget" yaml:"budget"`
	Result *model.Result `json:"result,omitempty" yaml:"result,omitempty"`
	Error  string        `json:"error,omitempty" yaml:"error,omitempty"`
}

func renderBatch(rows []cli.BatchRow, format string) error {
	failed := 0
	for _, r := range rows {
		if r.Err != nil {
			failed++
		}
	}

	if format == cli.FormatTable {
		fmt.Print(cli.RenderBatch(rows))
	} else {
		entries := make([]batchEntry, len(rows))
		for i, r := range rows {
			entries[i] = batchEntry{Source: r.Label, Budget: r.Budget}
			if r.Err != nil {
				entries[i].Error = r.Err.Error()
				continue
			}
			res := r.Result
			entries[i].Result = &res
		}
		if err := cli.WriteEncoded(os.Stdout, format, entries); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d: %w", failed, len(rows), errRejected)
	}
	return nil
}
