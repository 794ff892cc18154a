package report

import (
	"fmt"
	"strings"

	"taxrecon/internal/domain"
)

// InvocationSummary formats the §7 user-visible failure behavior: a
// summary line, then a warnings section (if any), then an errors
// section (if any). It only formats; the CLI layer sets the exit code,
// which is nonzero for errors and never changed by warnings.
func InvocationSummary(summary string, warnings []string, errs []error) string {
	var b strings.Builder
	b.WriteString(summary)
	b.WriteString("\n")

	if len(warnings) > 0 {
		b.WriteString(fmt.Sprintf("\nwarnings (%d):\n", len(warnings)))
		for _, w := range warnings {
			b.WriteString("  - " + w + "\n")
		}
	}
	if len(errs) > 0 {
		b.WriteString(fmt.Sprintf("\nerrors (%d):\n", len(errs)))
		for _, e := range errs {
			b.WriteString("  - " + e.Error() + "\n")
		}
	}
	return b.String()
}

// EstimateSummary formats the headline numbers of a TaxEstimate for
// terminal display, ahead of any chart rendering.
func EstimateSummary(e domain.TaxEstimate) string {
	return fmt.Sprintf(
		"%d %s\n  AGI:              %s\n  Federal total:    %s\n  Federal balance:  %s\n  California total: %s\n  California balance: %s\n  Total tax:        %s",
		e.Year, e.FilingStatus,
		e.AGI.StringFixed(2),
		e.FederalTotal.StringFixed(2),
		e.FederalBalance.StringFixed(2),
		e.CaliforniaTotal.StringFixed(2),
		e.CaliforniaBalance.StringFixed(2),
		e.TotalTax().StringFixed(2),
	)
}

// RecommendationSummary formats one StrategyRecommendation as a single
// report line, ordered the way the strategy engine ranks them.
func RecommendationSummary(r domain.StrategyRecommendation) string {
	deadline := "none"
	if r.Deadline != nil {
		deadline = r.Deadline.Format("2006-01-02")
	}
	return fmt.Sprintf("[%s] %s — est. savings %s (risk: %s, deadline: %s)",
		r.Priority, r.Name, r.EstimatedSavings.StringFixed(2), r.Risk, deadline)
}
