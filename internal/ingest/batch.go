// Package ingest models the ingestion boundary (§6): adapters that turn
// raw files into canonical records. The core never inspects file
// format; this package only defines the adapter contract and a
// concurrent batch runner, bounded by a semaphore, over independent
// files. §5's single-threaded-core constraint does not apply here;
// this is the ingestion boundary, not an engine.
package ingest

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"taxrecon/internal/domain"
)

// ImportResult is what one adapter invocation produces from one file:
// a detected form type, the tax year it covers, and the canonical
// records extracted from it.
type ImportResult struct {
	FormType string
	Year     int

	Wages       []domain.WageStatement
	Dividends   []domain.DividendStatement
	Interest    []domain.InterestStatement
	Exercises   []domain.ExerciseStatement
	Purchases   []domain.PurchaseStatement
	Sales       []domain.Sale
	Events      []domain.EquityEvent
	Lots        []domain.Lot
}

// Adapter is the contract every file-format adapter implements. The core
// never calls Parse/Validate directly. internal/ingest is itself
// external to the reconciliation/estimator/strategy engines, but is the
// one place in this repository that bridges raw files to canonical
// records, per §6's "ingestion adapters (consumers of the core)".
type Adapter interface {
	Parse(ctx context.Context, path string) (ImportResult, error)
	Validate(result ImportResult) []string
}

// FileJob pairs one input path with the adapter that should parse it.
type FileJob struct {
	Path    string
	Adapter Adapter
}

// BatchResult pairs one FileJob's outcome back to its input path, since
// errgroup results arrive unordered relative to submission under
// concurrent execution.
type BatchResult struct {
	Path             string
	Result           ImportResult
	ValidationErrors []string
	Err              error
}

// RunBatch parses every job concurrently, bounded by maxWorkers via a
// semaphore channel plus errgroup.WithContext. A failure in one file's
// Parse does not cancel sibling parses: each job's outcome is captured
// independently in its own BatchResult rather than surfaced through the
// errgroup's own error, so one bad file doesn't abort the batch.
func RunBatch(ctx context.Context, jobs []FileJob, maxWorkers int) []BatchResult {
	if maxWorkers <= 0 {
		maxWorkers = 5
	}

	results := make([]BatchResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, maxWorkers)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			defer func() {
				if r := recover(); r != nil {
					results[i] = BatchResult{Path: job.Path, Err: fmt.Errorf("ingest: panic parsing %s: %v", job.Path, r)}
				}
			}()

			res, err := job.Adapter.Parse(gctx, job.Path)
			if err != nil {
				results[i] = BatchResult{Path: job.Path, Err: fmt.Errorf("ingest: parse %s: %w", job.Path, err)}
				return nil
			}
			results[i] = BatchResult{Path: job.Path, Result: res, ValidationErrors: job.Adapter.Validate(res)}
			return nil
		})
	}

	_ = g.Wait() // per-job errors are captured in results[i].Err, not returned here
	return results
}
