package analyzer

import (
	"context"
	"fmt"

	"github.com/ludo-technologies/jscan/internal/constants"
)

// Unfilled marks upper-triangle cells a worker leaves to the coordinator
const Unfilled = -1.0

// DistanceMatrix is a symmetric N×N matrix with a zero diagonal. After a
// successful build every value lies in [0,1], 1 being the largest
// dissimilarity observed in the run.
type DistanceMatrix struct {
	Values [][]float64

	// MaxDistance is the raw maximum used for normalization (0 if skipped)
	MaxDistance float64
}

// Size returns N
func (m *DistanceMatrix) Size() int {
	return len(m.Values)
}

// At returns the distance between snippets i and j
func (m *DistanceMatrix) At(i, j int) float64 {
	return m.Values[i][j]
}

// NewDistanceMatrix wraps precomputed values. Used for clustering
// distances computed elsewhere.
func NewDistanceMatrix(values [][]float64) (*DistanceMatrix, error) {
	n := len(values)
	for i, row := range values {
		if len(row) != n {
			return nil, fmt.Errorf("row %d has %d values, want %d", i, len(row), n)
		}
	}
	return &DistanceMatrix{Values: values}, nil
}

// MatrixOption configures a MatrixBuilder
type MatrixOption func(*MatrixBuilder)

// WithWorkerPool replaces the default goroutine pool
func WithWorkerPool(pool WorkerPool) MatrixOption {
	return func(b *MatrixBuilder) {
		b.pool = pool
	}
}

// WithRowProgress registers a callback receiving completed and total rows
func WithRowProgress(fn func(done, total int)) MatrixOption {
	return func(b *MatrixBuilder) {
		b.onProgress = fn
	}
}

// MatrixBuilder fills the all-pairs distance matrix using row-range workers
type MatrixBuilder struct {
	config     PQGramConfig
	workers    int
	pool       WorkerPool
	onProgress func(done, total int)
}

// NewMatrixBuilder creates a builder with the given profile parameters and worker count
func NewMatrixBuilder(config PQGramConfig, workers int, opts ...MatrixOption) *MatrixBuilder {
	if workers < 1 {
		workers = constants.DefaultMatrixWorkers
	}
	b := &MatrixBuilder{
		config:  config,
		workers: workers,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.pool == nil {
		b.pool = NewGoroutinePool(workers)
	}
	return b
}

// PartitionRows splits n rows into contiguous ranges of ceil(n/workers)
// rows. Fewer than workers ranges are returned when n is small.
func PartitionRows(n, workers int) [][2]int {
	if n <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers
	ranges := make([][2]int, 0, workers)
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		ranges = append(ranges, [2]int{start, end})
	}
	return ranges
}

// Build computes the normalized distance matrix. Only pairs j < i are
// computed; the upper triangle is filled by symmetry. A worker failure
// aborts the build without partial results.
func (b *MatrixBuilder) Build(ctx context.Context, snippets []*CodeSnippet) (*DistanceMatrix, error) {
	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	n := len(snippets)
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
	}
	matrix := &DistanceMatrix{Values: values}
	if n <= 1 {
		return matrix, nil
	}

	ranges := PartitionRows(n, b.workers)
	tasks := make([]RowTask, len(ranges))
	for i, r := range ranges {
		tasks[i] = RowTask{
			WorkerID: i,
			Snippets: snippets,
			RowStart: r[0],
			RowEnd:   r[1],
		}
	}

	rowsDone := 0
	onResult := func(res RowResult) {
		rowsDone += res.RowEnd - res.RowStart
		if b.onProgress != nil {
			b.onProgress(rowsDone, n)
		}
	}

	results, err := b.pool.Run(ctx, tasks, b.computeRows, onResult)
	if err != nil {
		return nil, err
	}

	covered := 0
	maxDistance := 0.0
	for _, res := range results {
		for i := res.RowStart; i < res.RowEnd; i++ {
			row := res.Values[(i-res.RowStart)*n : (i-res.RowStart+1)*n]
			for j := 0; j < i; j++ {
				v := row[j]
				values[i][j] = v
				values[j][i] = v
				if v > maxDistance {
					maxDistance = v
				}
			}
			covered++
		}
	}
	if covered != n {
		return nil, fmt.Errorf("matrix assembly covered %d of %d rows", covered, n)
	}

	if maxDistance > 0 {
		for i := range values {
			for j := range values[i] {
				values[i][j] /= maxDistance
			}
		}
		matrix.MaxDistance = maxDistance
	}

	return matrix, nil
}

// computeRows is the worker body. Profiles are built once per worker for
// the snippets its rows need.
func (b *MatrixBuilder) computeRows(ctx context.Context, task RowTask) (RowResult, error) {
	n := len(task.Snippets)
	values := make([]float64, 0, task.Rows()*n)
	profiles := make([]*Profile, task.RowEnd)

	profileOf := func(idx int) (*Profile, error) {
		if profiles[idx] == nil {
			p, err := b.config.BuildProfile(task.Snippets[idx].Tree)
			if err != nil {
				return nil, fmt.Errorf("snippet %d (%s): %w", idx, task.Snippets[idx].Name(), err)
			}
			profiles[idx] = p
		}
		return profiles[idx], nil
	}

	for i := task.RowStart; i < task.RowEnd; i++ {
		if err := ctx.Err(); err != nil {
			return RowResult{}, err
		}
		pi, err := profileOf(i)
		if err != nil {
			return RowResult{}, err
		}
		for j := 0; j < n; j++ {
			switch {
			case j == i:
				values = append(values, 0)
			case j < i:
				pj, err := profileOf(j)
				if err != nil {
					return RowResult{}, err
				}
				values = append(values, 1-ProfileSimilarity(pi, pj))
			default:
				values = append(values, Unfilled)
			}
		}
	}

	return RowResult{
		WorkerID: task.WorkerID,
		RowStart: task.RowStart,
		RowEnd:   task.RowEnd,
		Values:   values,
	}, nil
}
