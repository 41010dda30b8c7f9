package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/contracts-extractor/constants"
	"github.com/joseph-ayodele/contracts-extractor/internal/common"
	"github.com/joseph-ayodele/contracts-extractor/internal/entity"
)

var ErrTaskNotFound = fmt.Errorf("task: %w", common.ErrNotFound)

// TaskRepository persists batch tasks and their per-file results.
type TaskRepository interface {
	// Create stores a new pending task. A zero ID is replaced with a fresh one.
	Create(ctx context.Context, task entity.Task) (entity.Task, error)
	Get(ctx context.Context, id uuid.UUID) (entity.Task, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	// AddResult stores one file outcome and bumps the task counters.
	AddResult(ctx context.Context, res entity.TaskResult) error
	Complete(ctx context.Context, id uuid.UUID, resultKey string) error
	Fail(ctx context.Context, id uuid.UUID, msg string) error
	ListResults(ctx context.Context, id uuid.UUID) ([]entity.TaskResult, error)
	Ping(ctx context.Context) error
	Close() error
}

// SQLTaskStore implements TaskRepository on database/sql for sqlite and postgres.
type SQLTaskStore struct {
	db      *sql.DB
	pool    *pgxpool.Pool
	dialect dialect
	logger  *slog.Logger
}

var _ TaskRepository = (*SQLTaskStore)(nil)

func (s *SQLTaskStore) migrate(ctx context.Context) error {
	for _, stmt := range s.dialect.schema() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLTaskStore) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.dialect.rebind(query), args...)
}

func (s *SQLTaskStore) Create(ctx context.Context, task entity.Task) (entity.Task, error) {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	task.Status = constants.TaskStatusPending
	task.Processed, task.Failed = 0, 0
	task.CreatedAt = time.Now().UTC()
	task.CompletedAt = nil

	_, err := s.exec(ctx,
		`INSERT INTO tasks (id, status, contract_type, total_files, created_at) VALUES (?, ?, ?, ?, ?)`,
		task.ID.String(), string(task.Status), task.ContractType, task.TotalFiles, task.CreatedAt)
	if err != nil {
		s.logger.Error("task create failed", "task_id", task.ID, "err", err)
		return entity.Task{}, fmt.Errorf("%w: create task: %w", common.ErrDatabase, err)
	}
	s.logger.Info("task created", "task_id", task.ID, "files", task.TotalFiles)
	return task, nil
}

func (s *SQLTaskStore) Get(ctx context.Context, id uuid.UUID) (entity.Task, error) {
	row := s.db.QueryRowContext(ctx, s.dialect.rebind(
		`SELECT id, status, contract_type, total_files, processed, failed, result_key, error, created_at, completed_at
		   FROM tasks WHERE id = ?`), id.String())

	var (
		t         entity.Task
		rawID     string
		status    string
		completed sql.NullTime
	)
	err := row.Scan(&rawID, &status, &t.ContractType, &t.TotalFiles, &t.Processed, &t.Failed,
		&t.ResultKey, &t.Error, &t.CreatedAt, &completed)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Task{}, ErrTaskNotFound
	}
	if err != nil {
		return entity.Task{}, fmt.Errorf("%w: get task: %w", common.ErrDatabase, err)
	}
	if t.ID, err = uuid.Parse(rawID); err != nil {
		return entity.Task{}, fmt.Errorf("%w: task id %q: %w", common.ErrDatabase, rawID, err)
	}
	t.Status = constants.TaskStatus(status)
	t.CreatedAt = t.CreatedAt.UTC()
	if completed.Valid {
		ts := completed.Time.UTC()
		t.CompletedAt = &ts
	}
	return t, nil
}

func (s *SQLTaskStore) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	return s.update(ctx, id, "mark processing",
		`UPDATE tasks SET status = ? WHERE id = ?`,
		string(constants.TaskStatusProcessing), id.String())
}

func (s *SQLTaskStore) Complete(ctx context.Context, id uuid.UUID, resultKey string) error {
	err := s.update(ctx, id, "complete",
		`UPDATE tasks SET status = ?, result_key = ?, completed_at = ? WHERE id = ?`,
		string(constants.TaskStatusCompleted), resultKey, time.Now().UTC(), id.String())
	if err == nil {
		s.logger.Info("task completed", "task_id", id, "result_key", resultKey)
	}
	return err
}

func (s *SQLTaskStore) Fail(ctx context.Context, id uuid.UUID, msg string) error {
	err := s.update(ctx, id, "fail",
		`UPDATE tasks SET status = ?, error = ?, completed_at = ? WHERE id = ?`,
		string(constants.TaskStatusFailed), msg, time.Now().UTC(), id.String())
	if err == nil {
		s.logger.Warn("task failed", "task_id", id, "error", msg)
	}
	return err
}

func (s *SQLTaskStore) update(ctx context.Context, id uuid.UUID, op, query string, args ...any) error {
	res, err := s.exec(ctx, query, args...)
	if err != nil {
		s.logger.Error("task update failed", "op", op, "task_id", id, "err", err)
		return fmt.Errorf("%w: %s: %w", common.ErrDatabase, op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (s *SQLTaskStore) AddResult(ctx context.Context, res entity.TaskResult) error {
	var record sql.NullString
	if res.Record != nil {
		b, err := json.Marshal(res.Record)
		if err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
		record = sql.NullString{String: string(b), Valid: true}
	}
	failed := 0
	if !res.Succeeded() {
		failed = 1
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", common.ErrDatabase, err)
	}
	defer func() { _ = tx.Rollback() }()

	upd, err := tx.ExecContext(ctx, s.dialect.rebind(
		`UPDATE tasks SET processed = processed + 1, failed = failed + ? WHERE id = ?`),
		failed, res.TaskID.String())
	if err != nil {
		return fmt.Errorf("%w: add result: %w", common.ErrDatabase, err)
	}
	if n, err := upd.RowsAffected(); err == nil && n == 0 {
		return ErrTaskNotFound
	}
	_, err = tx.ExecContext(ctx, s.dialect.rebind(
		`INSERT INTO task_results (task_id, seq, file_name, method, record, processing_ms, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`),
		res.TaskID.String(), res.Seq, res.FileName, res.Method, record, res.ProcessingMS, res.Error)
	if err != nil {
		return fmt.Errorf("%w: add result: %w", common.ErrDatabase, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", common.ErrDatabase, err)
	}
	s.logger.Debug("task result stored", "task_id", res.TaskID, "seq", res.Seq, "file", res.FileName, "ok", failed == 0)
	return nil
}

func (s *SQLTaskStore) ListResults(ctx context.Context, id uuid.UUID) ([]entity.TaskResult, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(
		`SELECT seq, file_name, method, record, processing_ms, error
		   FROM task_results WHERE task_id = ? ORDER BY seq`), id.String())
	if err != nil {
		return nil, fmt.Errorf("%w: list results: %w", common.ErrDatabase, err)
	}
	defer rows.Close()

	results := []entity.TaskResult{}
	for rows.Next() {
		r := entity.TaskResult{TaskID: id}
		var record sql.NullString
		if err := rows.Scan(&r.Seq, &r.FileName, &r.Method, &record, &r.ProcessingMS, &r.Error); err != nil {
			return nil, fmt.Errorf("%w: scan result: %w", common.ErrDatabase, err)
		}
		if record.Valid && record.String != "" {
			var rec entity.ContractRecord
			if err := json.Unmarshal([]byte(record.String), &rec); err != nil {
				return nil, fmt.Errorf("decode record %d: %w", r.Seq, err)
			}
			r.Record = &rec
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list results: %w", common.ErrDatabase, err)
	}
	return results, nil
}

func (s *SQLTaskStore) Ping(ctx context.Context) error {
	if s.pool != nil {
		return s.pool.Ping(ctx)
	}
	return s.db.PingContext(ctx)
}

// Close closes the database connections gracefully.
func (s *SQLTaskStore) Close() error {
	s.logger.Info("closing database connections")
	err := s.db.Close()
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}
