package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/contracts-extractor/constants"
	"github.com/joseph-ayodele/contracts-extractor/internal/common"
	"github.com/joseph-ayodele/contracts-extractor/internal/entity"
)

func newTestStore(t *testing.T) *SQLTaskStore {
	t.Helper()
	store, err := Open(context.Background(), common.DatabaseConfig{Driver: DriverSQLite, DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	task, err := store.Create(ctx, entity.Task{TotalFiles: 2, ContractType: "lease"})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, constants.TaskStatusPending, task.Status)

	got, err := store.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, "lease", got.ContractType)
	assert.Equal(t, 2, got.TotalFiles)
	assert.Nil(t, got.CompletedAt)
	assert.WithinDuration(t, task.CreatedAt, got.CreatedAt, 0)

	require.NoError(t, store.MarkProcessing(ctx, task.ID))

	rec := entity.NewEmptyRecord(entity.PartialConfidence)
	rec.ContractInfo.ContractType = "lease"
	rec.TypeSpecific = entity.NewTypeSpecific(entity.LeaseFields{
		LeasedProperty: "Room 301",
		LeasePurpose:   "office",
		RentAmount:     "5000",
		Confidence:     0.9,
	})
	require.NoError(t, store.AddResult(ctx, entity.TaskResult{
		TaskID: task.ID, Seq: 1, FileName: "lease.pdf", Method: "pdf-text", Record: &rec, ProcessingMS: 1200,
	}))
	def := entity.DefaultRecord()
	require.NoError(t, store.AddResult(ctx, entity.TaskResult{
		TaskID: task.ID, Seq: 2, FileName: "broken.docx", Record: &def, Error: "open docx: zip: not a valid zip file",
	}))

	got, err = store.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStatusProcessing, got.Status)
	assert.Equal(t, 2, got.Processed)
	assert.Equal(t, 1, got.Failed)
	assert.Equal(t, 100, got.Progress())

	require.NoError(t, store.Complete(ctx, task.ID, "exports/"+task.ID.String()+".xlsx"))
	got, err = store.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStatusCompleted, got.Status)
	assert.Equal(t, "exports/"+task.ID.String()+".xlsx", got.ResultKey)
	require.NotNil(t, got.CompletedAt)

	results, err := store.ListResults(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "lease.pdf", results[0].FileName)
	assert.True(t, results[0].Succeeded())
	require.NotNil(t, results[0].Record)
	lease, ok := results[0].Record.TypeSpecific.Lease()
	require.True(t, ok)
	assert.Equal(t, "Room 301", lease.LeasedProperty)
	assert.Equal(t, rec, *results[0].Record)

	assert.False(t, results[1].Succeeded())
	assert.True(t, results[1].Record.OCRRequired)
}

func TestTaskFail(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	task, err := store.Create(ctx, entity.Task{TotalFiles: 1})
	require.NoError(t, err)
	require.NoError(t, store.Fail(ctx, task.ID, "object store unavailable"))

	got, err := store.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.TaskStatusFailed, got.Status)
	assert.Equal(t, "object store unavailable", got.Error)
	assert.True(t, got.Status.Terminal())
}

func TestTaskNotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	missing := uuid.New()

	_, err := store.Get(ctx, missing)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, store.MarkProcessing(ctx, missing), ErrTaskNotFound)
	assert.ErrorIs(t, store.Complete(ctx, missing, "k"), ErrTaskNotFound)
	assert.ErrorIs(t, store.AddResult(ctx, entity.TaskResult{TaskID: missing, Seq: 1}), ErrTaskNotFound)

	_, err = store.ListResults(ctx, missing)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestListResults_Empty(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	task, err := store.Create(ctx, entity.Task{TotalFiles: 3})
	require.NoError(t, err)

	results, err := store.ListResults(ctx, task.ID)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestHealthCheck(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, HealthCheck(context.Background(), store, 0, nil))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), common.DatabaseConfig{Driver: "mysql"}, nil)
	assert.ErrorIs(t, err, common.ErrDatabase)
}

func TestRebind(t *testing.T) {
	q := `UPDATE tasks SET status = ? WHERE id = ?`
	assert.Equal(t, q, sqliteDialect.rebind(q))
	assert.Equal(t, `UPDATE tasks SET status = $1 WHERE id = $2`, postgresDialect.rebind(q))
}
