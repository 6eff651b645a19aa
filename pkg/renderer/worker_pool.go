package renderer

import (
	"context"
	"runtime"
	"sync"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Ctx             context.Context
	Snapshot        Snapshot
	Tile            Tile
	Width, Height   int            // Full frame size the camera rays are generated for
	SamplesPerPixel int
	PixelStats      [][]PixelStats // Frame-private pixel buffer to write to
	Results         chan<- TileResult
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TileID int
	Stats  RenderStats
	Error  error
}

// WorkerPool manages parallel tile rendering
type WorkerPool struct {
	taskQueue  chan TileTask
	workers    []*Worker
	numWorkers int
	wg         sync.WaitGroup
	startOnce  sync.Once
	stopOnce   sync.Once
}

// Worker handles individual tile rendering tasks
type Worker struct {
	ID        int
	renderer  *TileRenderer
	taskQueue <-chan TileTask
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(renderer *TileRenderer, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:  make(chan TileTask, numWorkers*4),
		numWorkers: numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:        i,
			renderer:  renderer,
			taskQueue: wp.taskQueue,
		})
	}

	return wp
}

// Start begins all workers. Calling it again is a no-op.
func (wp *WorkerPool) Start() {
	wp.startOnce.Do(func() {
		for _, worker := range wp.workers {
			wp.wg.Add(1)
			go worker.run(&wp.wg)
		}
	})
}

// Stop gracefully shuts down all workers after the queued tasks drain
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		close(wp.taskQueue) // No more tasks
		wp.wg.Wait()
	})
}

// SubmitTask queues a tile task, giving up when ctx is done
func (wp *WorkerPool) SubmitTask(ctx context.Context, task TileTask) error {
	select {
	case wp.taskQueue <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		// Abandoned frames skip their remaining tiles
		if err := task.Ctx.Err(); err != nil {
			task.Results <- TileResult{TileID: task.Tile.ID, Error: err}
			continue
		}

		// Tiles have non-overlapping bounds, so writing the shared buffer is safe
		stats, err := w.renderer.RenderTileBounds(task.Ctx, task.Snapshot, task.Tile.Bounds,
			task.Width, task.Height, task.PixelStats,
			tileRandom(task.Snapshot.FrameNumber, task.Tile.ID), task.SamplesPerPixel)

		task.Results <- TileResult{TileID: task.Tile.ID, Stats: stats, Error: err}
	}
}
