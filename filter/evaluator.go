package filter

import (
	"context"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/tvdbv4/tvdb"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*ConcurrentEvaluator)

// WithWorkers sets the number of worker goroutines
func WithWorkers(workers int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if workers > 0 {
			e.workerCount = workers
		}
	}
}

// WithBatchSize sets the batch size for chunked processing
func WithBatchSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// WithLogger sets the logger used to report results that fail to evaluate
func WithLogger(logger zerolog.Logger) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		e.logger = logger
	}
}

// ConcurrentEvaluator evaluates large result sets in parallel chunks
type ConcurrentEvaluator struct {
	workerCount int
	batchSize   int
	logger      zerolog.Logger
}

// NewConcurrentEvaluator creates a new concurrent evaluator
func NewConcurrentEvaluator(opts ...EvaluatorOption) *ConcurrentEvaluator {
	e := &ConcurrentEvaluator{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   100,
		logger:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Evaluate evaluates a single filter against all results
func (e *ConcurrentEvaluator) Evaluate(ctx context.Context, filter CompiledFilter, results []tvdb.SearchResult) ([]tvdb.SearchResult, error) {
	if len(results) == 0 {
		return []tvdb.SearchResult{}, nil
	}

	// For small result lists, don't bother with concurrency
	if len(results) < e.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return e.evaluateSequential(filter, results), nil
	}

	return e.evaluateConcurrent(ctx, filter, results)
}

// evaluateSequential evaluates a filter against all results sequentially.
// Results that fail to evaluate are logged at debug level and dropped.
func (e *ConcurrentEvaluator) evaluateSequential(filter CompiledFilter, results []tvdb.SearchResult) []tvdb.SearchResult {
	matches := make([]tvdb.SearchResult, 0, len(results))
	for _, result := range results {
		ok, err := filter.Match(result)
		if err != nil {
			e.logger.Debug().
				Err(err).
				Str("expression", filter.Expression()).
				Str("result", result.Name).
				Msg("Filter failed to evaluate, skipping result")
			continue
		}
		if ok {
			matches = append(matches, result)
		}
	}
	return matches
}

// evaluateConcurrent splits results into chunks evaluated by at most
// workerCount goroutines. Chunk order is preserved in the output.
func (e *ConcurrentEvaluator) evaluateConcurrent(ctx context.Context, filter CompiledFilter, results []tvdb.SearchResult) ([]tvdb.SearchResult, error) {
	chunkSize := max(len(results)/e.workerCount, e.batchSize)
	chunks := make([][]tvdb.SearchResult, (len(results)+chunkSize-1)/chunkSize)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerCount)

	for i := range chunks {
		start := i * chunkSize
		end := min(start+chunkSize, len(results))

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			chunks[i] = e.evaluateSequential(filter, results[start:end])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, chunk := range chunks {
		total += len(chunk)
	}

	matches := make([]tvdb.SearchResult, 0, total)
	for _, chunk := range chunks {
		matches = append(matches, chunk...)
	}

	return matches, nil
}
