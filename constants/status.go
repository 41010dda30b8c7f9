package constants

// TaskStatus is the canonical status for batch extraction tasks.
type TaskStatus string

// Stable values (store these exact strings in DB).
const (
	TaskStatusPending    TaskStatus = "pending"    // accepted, waiting for a worker
	TaskStatusProcessing TaskStatus = "processing" // a worker is running it
	TaskStatusCompleted  TaskStatus = "completed"  // every file has a result and the export exists
	TaskStatusFailed     TaskStatus = "failed"     // terminal infrastructure failure
)

// Terminal reports whether no further transitions are expected.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}
