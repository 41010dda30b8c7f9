package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/contracts-extractor/constants"
)

// Task is one batch extraction request covering several uploaded files.
type Task struct {
	ID           uuid.UUID            `json:"task_id"`
	Status       constants.TaskStatus `json:"status"`
	ContractType string               `json:"contract_type,omitempty"`
	TotalFiles   int                  `json:"total_files"`
	Processed    int                  `json:"processed"`
	Failed       int                  `json:"failed"`
	ResultKey    string               `json:"result_key,omitempty"`
	Error        string               `json:"error,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	CompletedAt  *time.Time           `json:"completed_at,omitempty"`
}

// Progress is the percentage of files with a result.
func (t Task) Progress() int {
	if t.TotalFiles <= 0 {
		return 0
	}
	return t.Processed * 100 / t.TotalFiles
}

// TaskResult is the outcome for one file of a task.
type TaskResult struct {
	TaskID       uuid.UUID       `json:"task_id"`
	Seq          int             `json:"seq"`
	FileName     string          `json:"file_name"`
	Method       string          `json:"method,omitempty"`
	Record       *ContractRecord `json:"record,omitempty"`
	ProcessingMS int64           `json:"processing_ms"`
	Error        string          `json:"error,omitempty"`
}

// Succeeded reports whether the file produced a record.
func (r TaskResult) Succeeded() bool {
	return r.Error == "" && r.Record != nil
}
