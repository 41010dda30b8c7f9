package async

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/contracts-extractor/internal/common"
)

var (
	ErrQueueClosed = fmt.Errorf("task queue is shutting down: %w", common.ErrUnavailable)
	ErrQueueFull   = fmt.Errorf("task queue is full: %w", common.ErrUnavailable)
)

// FileRef points at one uploaded file of a task in the object store.
type FileRef struct {
	Seq  int
	Name string
	Key  string
}

// Job asks a worker to process every file of a task.
type Job struct {
	TaskID       uuid.UUID
	Files        []FileRef
	ContractType string
	RequestID    string
	SubmittedAt  time.Time
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
