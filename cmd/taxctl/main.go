// Command taxctl is the operator CLI for the reconciliation,
// estimation, and strategy engines: a Command{usage, description,
// execute} table dispatched by name, with a small TableWriter for
// tabular output.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"go.uber.org/zap"

	"taxrecon/internal/domain"
	"taxrecon/internal/metrics"
	"taxrecon/internal/observability"
	"taxrecon/internal/reconcile"
	"taxrecon/internal/report"
	"taxrecon/internal/store"
	"taxrecon/internal/store/memory"
	"taxrecon/internal/store/postgres"
)

// exit codes per §6: 0 success, 1 expected/user-facing error, 2 internal fault.
const (
	exitOK       = 0
	exitExpected = 1
	exitInternal = 2
)

// TableWriter renders aligned columns to stdout.
type TableWriter struct {
	headers []string
	rows    [][]string
	writer  *os.File
}

func NewTableWriter(writer *os.File) *TableWriter {
	return &TableWriter{writer: writer}
}

func (t *TableWriter) SetHeader(headers []string) { t.headers = headers }
func (t *TableWriter) Append(row []string)        { t.rows = append(t.rows, row) }

func (t *TableWriter) Render() {
	colWidths := make([]int, len(t.headers))
	for i, h := range t.headers {
		colWidths[i] = len(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(colWidths) && len(cell) > colWidths[i] {
				colWidths[i] = len(cell)
			}
		}
	}

	fmt.Fprint(t.writer, "| ")
	for i, h := range t.headers {
		fmt.Fprintf(t.writer, "%-*s | ", colWidths[i], h)
	}
	fmt.Fprintln(t.writer)

	fmt.Fprint(t.writer, "| ")
	for i := range t.headers {
		for j := 0; j < colWidths[i]; j++ {
			fmt.Fprint(t.writer, "-")
		}
		fmt.Fprint(t.writer, " | ")
	}
	fmt.Fprintln(t.writer)

	for _, row := range t.rows {
		fmt.Fprint(t.writer, "| ")
		for i, cell := range row {
			if i < len(colWidths) {
				fmt.Fprintf(t.writer, "%-*s | ", colWidths[i], cell)
			}
		}
		fmt.Fprintln(t.writer)
	}
}

// Command is one named subcommand; execute returns the process exit
// code this invocation should produce.
type Command struct {
	usage       string
	description string
	execute     func(ctx context.Context, env *environment, args []string) int
}

// environment bundles the dependencies every command needs, assembled
// once in main() from process environment variables.
type environment struct {
	logger *zap.Logger
	store  store.Store
}

func newEnvironment() (*environment, func(), error) {
	logger := observability.MustLogger(observability.GetEnv("TAXRECON_ENV", "development"))

	var (
		s       store.Store
		cleanup = func() {}
	)

	if dsn := observability.GetEnv("TAXRECON_POSTGRES_DSN", ""); dsn != "" {
		if err := postgres.Migrate(dsn); err != nil {
			return nil, nil, fmt.Errorf("taxctl: migrate schema: %w", err)
		}
		pgStore, err := postgres.Open(context.Background(), dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("taxctl: open postgres store: %w", err)
		}
		s = pgStore
		cleanup = func() { pgStore.Close() }
	} else {
		logger.Warn("TAXRECON_POSTGRES_DSN unset, falling back to in-memory store")
		s = memory.New()
	}

	return &environment{logger: logger, store: s}, cleanup, nil
}

func commandTable() map[string]Command {
	return map[string]Command{
		"reconcile": {
			usage:       "reconcile --year YYYY",
			description: "Run lot matching and wash-sale correction for a tax year",
			execute:     cmdReconcile,
		},
		"estimate": {
			usage:       "estimate --year YYYY --status STATUS",
			description: "Compute federal and California liability for a tax year",
			execute:     cmdEstimate,
		},
		"strategy": {
			usage:       "strategy --year YYYY --status STATUS",
			description: "Rank tax-reduction strategy recommendations for a tax year",
			execute:     cmdStrategy,
		},
		"report": {
			usage:       "report --year YYYY --status STATUS",
			description: "Render a signed estimate summary plus gain/loss chart",
			execute:     cmdReport,
		},
		"help": {
			usage:       "help",
			description: "Show this help message",
			execute: func(ctx context.Context, env *environment, args []string) int {
				printUsage()
				return exitOK
			},
		},
	}
}

func printUsage() {
	fmt.Println("Usage: taxctl [command] [arguments]")
	fmt.Println("\nAvailable commands:")

	commands := commandTable()
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cmd := commands[name]
		fmt.Printf("  %-28s %s\n", cmd.usage, cmd.description)
	}
}

func parseYearStatus(args []string) (year int, status domain.FilingStatus, rest []string) {
	status = domain.Single
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--year":
			if i+1 < len(args) {
				fmt.Sscanf(args[i+1], "%d", &year)
				i++
			}
		case "--status":
			if i+1 < len(args) {
				status = parseFilingStatus(args[i+1])
				i++
			}
		default:
			rest = append(rest, args[i])
		}
	}
	return year, status, rest
}

func parseFilingStatus(s string) domain.FilingStatus {
	switch s {
	case "single":
		return domain.Single
	case "mfj", "married_filing_jointly":
		return domain.MarriedFilingJointly
	case "mfs", "married_filing_separately":
		return domain.MarriedFilingSeparately
	case "hoh", "head_of_household":
		return domain.HeadOfHousehold
	default:
		return domain.Single
	}
}

func cmdReconcile(ctx context.Context, env *environment, args []string) int {
	year, _, _ := parseYearStatus(args)
	if year == 0 {
		fmt.Println("error: --year is required")
		return exitExpected
	}

	ctx, end := observability.StartSpan(ctx, "reconcile", "run", year)
	defer end()

	orchestrator := reconcile.New(env.store, env.logger)
	result, err := orchestrator.Reconcile(ctx, year)
	if err != nil {
		observability.RecordError(ctx, err)
		metrics.RecordReconciliation(year, "error", 0, 0)
		fmt.Println(report.InvocationSummary("reconciliation failed", nil, []error{err}))
		return exitExpected
	}
	metrics.RecordReconciliation(year, "ok", len(result.SaleResults), len(result.Warnings))

	summary := fmt.Sprintf("reconciled %d sale results for %d", len(result.SaleResults), year)
	fmt.Println(report.InvocationSummary(summary, result.Warnings, nil))
	return exitOK
}

func cmdEstimate(ctx context.Context, env *environment, args []string) int {
	year, status, _ := parseYearStatus(args)
	if year == 0 {
		fmt.Println("error: --year is required")
		return exitExpected
	}

	ctx, end := observability.StartSpan(ctx, "estimate", "run", year)
	defer end()

	in, warnings, err := loadEstimatorInput(ctx, env, year, status)
	if err != nil {
		observability.RecordError(ctx, err)
		fmt.Println(report.InvocationSummary("estimate failed", nil, []error{err}))
		return exitExpected
	}

	estimate := timedEstimate(year, "baseline", in)
	fmt.Println(report.InvocationSummary(report.EstimateSummary(estimate), warnings, nil))
	return exitOK
}

func cmdStrategy(ctx context.Context, env *environment, args []string) int {
	year, status, _ := parseYearStatus(args)
	if year == 0 {
		fmt.Println("error: --year is required")
		return exitExpected
	}

	ctx, end := observability.StartSpan(ctx, "strategy", "run", year)
	defer end()

	in, warnings, err := loadEstimatorInput(ctx, env, year, status)
	if err != nil {
		observability.RecordError(ctx, err)
		fmt.Println(report.InvocationSummary("strategy failed", nil, []error{err}))
		return exitExpected
	}

	estimate := timedEstimate(year, "baseline", in)
	lots, err := env.store.GetLots(ctx)
	if err != nil {
		observability.RecordError(ctx, err)
		fmt.Println(report.InvocationSummary("strategy failed", nil, []error{err}))
		return exitExpected
	}

	recs := runStrategy(estimate, in, lots)
	for _, r := range recs {
		metrics.RecordRecommendation(r.Priority.String())
	}

	table := NewTableWriter(os.Stdout)
	table.SetHeader([]string{"Priority", "Name", "Est. Savings", "Risk"})
	for _, r := range recs {
		table.Append([]string{r.Priority.String(), r.Name, r.EstimatedSavings.StringFixed(2), r.Risk.String()})
	}
	table.Render()

	if len(warnings) > 0 {
		fmt.Println(report.InvocationSummary("", warnings, nil))
	}
	return exitOK
}

func cmdReport(ctx context.Context, env *environment, args []string) int {
	year, status, _ := parseYearStatus(args)
	if year == 0 {
		fmt.Println("error: --year is required")
		return exitExpected
	}

	ctx, end := observability.StartSpan(ctx, "report", "run", year)
	defer end()

	in, warnings, err := loadEstimatorInput(ctx, env, year, status)
	if err != nil {
		observability.RecordError(ctx, err)
		fmt.Println(report.InvocationSummary("report failed", nil, []error{err}))
		return exitExpected
	}
	estimate := timedEstimate(year, "report", in)

	results, err := env.store.GetSaleResults(ctx, year)
	if err != nil {
		fmt.Println(report.InvocationSummary("report failed", nil, []error{err}))
		return exitExpected
	}

	chart, err := report.GainLossByCategoryPNG(results, 640, 480)
	if err != nil {
		env.logger.Warn("chart render failed", zap.Error(err))
	} else if outPath := observability.GetEnv("TAXRECON_CHART_OUT", ""); outPath != "" {
		if err := os.WriteFile(outPath, chart, 0o644); err != nil {
			env.logger.Warn("chart write failed", zap.Error(err))
		}
	}

	secret := []byte(observability.GetEnv("TAXRECON_SIGNING_SECRET", "development-only-secret"))
	_, token, err := report.SignPayload(estimate, secret, time.Now())
	if err != nil {
		env.logger.Warn("payload signing failed", zap.Error(err))
	}

	summary := report.EstimateSummary(estimate)
	fmt.Println(report.InvocationSummary(summary, warnings, nil))
	if token != "" {
		fmt.Printf("\nsignature: %s\n", token)
	}
	return exitOK
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitExpected)
	}

	env, cleanup, err := newEnvironment()
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(exitInternal)
	}
	defer cleanup()

	cmdName := os.Args[1]
	args := os.Args[2:]

	commands := commandTable()
	command, ok := commands[cmdName]
	if !ok {
		fmt.Printf("unknown command: %s\n", cmdName)
		printUsage()
		os.Exit(exitExpected)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	os.Exit(command.execute(ctx, env, args))
}
