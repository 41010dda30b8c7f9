package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/contracts-extractor/constants"
	"github.com/joseph-ayodele/contracts-extractor/internal/common"
	"github.com/joseph-ayodele/contracts-extractor/internal/entity"
	"github.com/joseph-ayodele/contracts-extractor/internal/export"
)

type taskView struct {
	TaskID       uuid.UUID            `json:"task_id"`
	Status       constants.TaskStatus `json:"status"`
	ContractType string               `json:"contract_type,omitempty"`
	TotalFiles   int                  `json:"total_files"`
	Processed    int                  `json:"processed"`
	Failed       int                  `json:"failed"`
	Progress     int                  `json:"progress"`
	Error        string               `json:"error,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	CompletedAt  *time.Time           `json:"completed_at,omitempty"`
}

func viewOf(t entity.Task) taskView {
	return taskView{
		TaskID:       t.ID,
		Status:       t.Status,
		ContractType: t.ContractType,
		TotalFiles:   t.TotalFiles,
		Processed:    t.Processed,
		Failed:       t.Failed,
		Progress:     t.Progress(),
		Error:        t.Error,
		CreatedAt:    t.CreatedAt,
		CompletedAt:  t.CompletedAt,
	}
}

func (s *Server) taskID(c *gin.Context) (uuid.UUID, error) {
	raw := c.Param("task_id")
	if err := common.NewValidator().Field("task_id", raw, common.UUID).Err(); err != nil {
		return uuid.Nil, err
	}
	return uuid.MustParse(raw), nil
}

func (s *Server) GetTask(c *gin.Context) {
	id, err := s.taskID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	task, err := s.tasks.Get(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(task))
}

// GetResults lists the per-file outcomes recorded so far. It works on unfinished tasks too.
func (s *Server) GetResults(c *gin.Context) {
	id, err := s.taskID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	task, err := s.tasks.Get(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	results, err := s.tasks.ListResults(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"task_id": id,
		"status":  task.Status,
		"results": results,
	})
}

// Download serves the XLSX export of a completed task.
func (s *Server) Download(c *gin.Context) {
	id, err := s.taskID(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	task, err := s.tasks.Get(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	if task.Status != constants.TaskStatusCompleted || task.ResultKey == "" {
		s.fail(c, common.NewAppError(common.CodeConflict,
			fmt.Sprintf("task is %s; the export is available once it completes", task.Status), common.ErrConflict))
		return
	}
	data, err := s.store.Get(c.Request.Context(), task.ResultKey)
	if err != nil {
		s.fail(c, fmt.Errorf("load export: %w", err))
		return
	}
	name := fmt.Sprintf("contracts_%s.xlsx", id.String()[:8])
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, export.ContentType, data)
}
