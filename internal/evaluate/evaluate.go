// Package evaluate runs the cost model over a sample matrix in parallel
// batches.
package evaluate

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/solarfuels-group/montecarlo-cli/internal/model"
	"github.com/solarfuels-group/montecarlo-cli/internal/tree"
)

// CostModel computes the production cost for a fully configured model tree.
// Implementations must be pure per call and must not retain the tree.
type CostModel interface {
	Cost(t *tree.Tree) (float64, error)
}

// CostFunc adapts a plain function to CostModel.
type CostFunc func(t *tree.Tree) (float64, error)

// Cost implements CostModel.
func (f CostFunc) Cost(t *tree.Tree) (float64, error) { return f(t) }

// Evaluator dispatches sample rows to a fixed pool of workers, one batch per
// worker, and concatenates results preserving row order.
type Evaluator struct {
	model   CostModel
	workers int
}

// New creates an evaluator. workers <= 0 selects the logical CPU count.
func New(m CostModel, workers int) *Evaluator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Evaluator{model: m, workers: workers}
}

// Run evaluates every sample row exactly once and returns the N x (P+1)
// matrix with the cost appended as the final column. Any row failure aborts
// the whole run; no partial results are returned.
func (e *Evaluator) Run(ctx context.Context, base *tree.Tree, space *model.ParameterSpace, samples [][]float64) ([][]float64, error) {
	n := len(samples)
	if n == 0 {
		return nil, nil
	}

	log := zap.L().With(zap.String("component", "evaluate"))
	start := time.Now()

	batchSize := (n + e.workers - 1) / e.workers
	costs := make([]float64, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for offset := 0; offset < n; offset += batchSize {
		lo, hi := offset, min(offset+batchSize, n)
		// Each worker mutates a private copy of the base tree; nothing is
		// shared between batches beyond the read-only sample rows.
		worker := base.Clone()
		g.Go(func() error {
			return e.evaluateBatch(gctx, worker, space, samples[lo:hi], costs[lo:hi], lo)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([][]float64, n)
	for i, row := range samples {
		combined := make([]float64, len(row)+1)
		copy(combined, row)
		combined[len(row)] = costs[i]
		out[i] = combined
	}

	log.Info("evaluation complete",
		zap.Int("rows", n),
		zap.Int("workers", e.workers),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

func (e *Evaluator) evaluateBatch(ctx context.Context, worker *tree.Tree, space *model.ParameterSpace, rows [][]float64, costs []float64, rowOffset int) error {
	for i, row := range rows {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t := worker.Clone()
		for _, p := range space.Parameters {
			if err := t.Set(p.Path, row[p.Column], p.Type); err != nil {
				return &model.EvaluationError{Row: rowOffset + i, Err: err}
			}
		}

		cost, err := e.model.Cost(t)
		if err != nil {
			return &model.EvaluationError{Row: rowOffset + i, Err: err}
		}
		costs[i] = cost
	}
	return nil
}
