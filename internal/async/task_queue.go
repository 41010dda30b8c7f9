package async

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/contracts-extractor/internal/common"
	"github.com/joseph-ayodele/contracts-extractor/internal/entity"
	"github.com/joseph-ayodele/contracts-extractor/internal/export"
	"github.com/joseph-ayodele/contracts-extractor/internal/pipeline"
	"github.com/joseph-ayodele/contracts-extractor/internal/repository"
	"github.com/joseph-ayodele/contracts-extractor/internal/storage"
)

// FileProcessor extracts one file. *pipeline.Processor satisfies it.
type FileProcessor interface {
	Process(ctx context.Context, in pipeline.Input) pipeline.Result
}

// Exporter renders task results. *export.Service satisfies it.
type Exporter interface {
	ContractsXLSX(ctx context.Context, taskID uuid.UUID, results []entity.TaskResult) ([]byte, error)
}

// TaskQueue runs batch tasks on a fixed pool of workers.
type TaskQueue struct {
	proc     FileProcessor
	tasks    repository.TaskRepository
	store    storage.ObjectStore
	exporter Exporter
	logger   *slog.Logger
	workers  int
	timeout  time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

var _ Queue = (*TaskQueue)(nil)

type Option func(*TaskQueue)

func WithWorkers(n int) Option {
	return func(q *TaskQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *TaskQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

func WithTaskTimeout(d time.Duration) Option {
	return func(q *TaskQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewTaskQueue(proc FileProcessor, tasks repository.TaskRepository, store storage.ObjectStore,
	exporter Exporter, logger *slog.Logger, opts ...Option) *TaskQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &TaskQueue{
		proc:     proc,
		tasks:    tasks,
		store:    store,
		exporter: exporter,
		logger:   logger,
		workers:  2,
		timeout:  30 * time.Minute,
		ch:       make(chan Job, 64),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *TaskQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)
				for job := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					q.run(ctx, workerID, job)
					cancel()
				}
				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

// Enqueue never blocks: a full queue is reported as ErrQueueFull.
func (q *TaskQueue) Enqueue(_ context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "task_id", job.TaskID)
		return ErrQueueClosed
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	select {
	case q.ch <- job:
		q.logger.Info("task.queued", "task_id", job.TaskID, "files", len(job.Files), "req_id", job.RequestID)
		return nil
	default:
		q.logger.Warn("queue full, rejecting task", "task_id", job.TaskID)
		return ErrQueueFull
	}
}

func (q *TaskQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}

// run processes every file of the task, stores the results and the XLSX export, and
// completes the task. Per-file failures are recorded in the results; store failures fail
// the whole task.
func (q *TaskQueue) run(ctx context.Context, workerID int, job Job) {
	start := time.Now()
	ctx = common.WithTaskID(ctx, job.TaskID.String())
	if job.RequestID != "" {
		ctx = common.WithRequestID(ctx, job.RequestID)
	}
	log := q.logger.With("task_id", job.TaskID, "worker_id", workerID, "req_id", job.RequestID)
	log.Info("task.started", "files", len(job.Files), "queued_ms", start.Sub(job.SubmittedAt).Milliseconds())

	if err := q.tasks.MarkProcessing(ctx, job.TaskID); err != nil {
		q.fail(ctx, log, job.TaskID, fmt.Errorf("mark processing: %w", err))
		return
	}

	results := make([]entity.TaskResult, 0, len(job.Files))
	failed := 0
	for _, f := range job.Files {
		data, err := q.store.Get(ctx, f.Key)
		if err != nil {
			q.fail(ctx, log, job.TaskID, fmt.Errorf("load %s: %w", f.Name, err))
			return
		}
		res := q.proc.Process(ctx, pipeline.Input{Name: f.Name, Data: data, ContractType: job.ContractType})
		tr := res.TaskResult()
		tr.TaskID = job.TaskID
		tr.Seq = f.Seq
		if err := q.tasks.AddResult(ctx, tr); err != nil {
			q.fail(ctx, log, job.TaskID, fmt.Errorf("store result %s: %w", f.Name, err))
			return
		}
		if !tr.Succeeded() {
			failed++
		}
		results = append(results, tr)
		log.Debug("task.file.done", "seq", f.Seq, "file", f.Name, "ok", tr.Succeeded(), "elapsed_ms", tr.ProcessingMS)
	}

	xlsx, err := q.exporter.ContractsXLSX(ctx, job.TaskID, results)
	if err != nil {
		q.fail(ctx, log, job.TaskID, fmt.Errorf("export: %w", err))
		return
	}
	key := storage.ExportKey(job.TaskID)
	if err := q.store.Put(ctx, key, xlsx, export.ContentType); err != nil {
		q.fail(ctx, log, job.TaskID, fmt.Errorf("store export: %w", err))
		return
	}
	if err := q.tasks.Complete(ctx, job.TaskID, key); err != nil {
		log.Error("task.complete.failed", "error", err)
		return
	}
	log.Info("task.completed",
		"files", len(job.Files),
		"failed", failed,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
}

// fail records the failure on a context that outlives the task deadline.
func (q *TaskQueue) fail(ctx context.Context, log *slog.Logger, id uuid.UUID, cause error) {
	log.Error("task.failed", "error", cause)
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := q.tasks.Fail(ctx, id, cause.Error()); err != nil {
		log.Error("task.fail.record_failed", "error", err)
	}
}
