package analyzer

import (
	"context"
	"errors"
	"fmt"

	"github.com/ludo-technologies/jscan/domain"
	"golang.org/x/sync/errgroup"
)

// RowTask asks a worker to fill rows [RowStart, RowEnd) of the distance matrix.
// Snippets is shared read-only between all workers.
type RowTask struct {
	WorkerID int
	Snippets []*CodeSnippet
	RowStart int
	RowEnd   int
}

// Rows returns the number of rows in the task
func (t RowTask) Rows() int {
	return t.RowEnd - t.RowStart
}

// RowResult carries len(Snippets) values per row of the task, row after row
type RowResult struct {
	WorkerID int
	RowStart int
	RowEnd   int
	Values   []float64
}

// RowWorker computes one task
type RowWorker func(ctx context.Context, task RowTask) (RowResult, error)

// WorkerPool runs row tasks concurrently. Implementations must return a
// WORKER_FAILED domain error when a worker terminates abnormally and a
// DISTANCE_ERROR domain error when a worker reports a computation failure.
// onResult, when set, is called on the caller's goroutine for every result.
type WorkerPool interface {
	Run(ctx context.Context, tasks []RowTask, work RowWorker, onResult func(RowResult)) ([]RowResult, error)
}

// GoroutinePool runs each task on its own goroutine under an errgroup.
// The first failure cancels the remaining tasks.
type GoroutinePool struct {
	limit int
}

// NewGoroutinePool creates a pool running at most limit tasks at once
func NewGoroutinePool(limit int) *GoroutinePool {
	if limit < 1 {
		limit = 1
	}
	return &GoroutinePool{limit: limit}
}

// Run dispatches the tasks and collects their results in completion order
func (p *GoroutinePool) Run(ctx context.Context, tasks []RowTask, work RowWorker, onResult func(RowResult)) ([]RowResult, error) {
	if len(tasks) == 0 {
		return []RowResult{}, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.limit)

	results := make(chan RowResult, len(tasks))
	done := make(chan error, 1)

	go func() {
		for _, task := range tasks {
			g.Go(func() error {
				return runTask(gctx, task, work, results)
			})
		}
		done <- g.Wait()
		close(results)
	}()

	collected := make([]RowResult, 0, len(tasks))
	for res := range results {
		collected = append(collected, res)
		if onResult != nil {
			onResult(res)
		}
	}

	if err := <-done; err != nil {
		return nil, err
	}
	return collected, nil
}

func runTask(ctx context.Context, task RowTask, work RowWorker, results chan<- RowResult) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = domain.NewWorkerFailedError(&domain.WorkerError{
				WorkerID: task.WorkerID,
				RowStart: task.RowStart,
				RowEnd:   task.RowEnd,
				Status:   "panic",
				Cause:    fmt.Errorf("%v", r),
			})
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	res, err := work(ctx, task)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return domain.NewDistanceError(task.WorkerID, err)
	}
	if want := task.Rows() * len(task.Snippets); len(res.Values) != want {
		return domain.NewWorkerFailedError(&domain.WorkerError{
			WorkerID: task.WorkerID,
			RowStart: task.RowStart,
			RowEnd:   task.RowEnd,
			Status:   "short result",
			Cause:    fmt.Errorf("got %d values, want %d", len(res.Values), want),
		})
	}

	results <- res
	return nil
}
