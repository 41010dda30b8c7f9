package server

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/contracts-extractor/constants"
	"github.com/joseph-ayodele/contracts-extractor/internal/async"
	"github.com/joseph-ayodele/contracts-extractor/internal/common"
	"github.com/joseph-ayodele/contracts-extractor/internal/entity"
	"github.com/joseph-ayodele/contracts-extractor/internal/storage"
)

// Upload accepts a batch of documents, stores them and queues a task for the workers.
func (s *Server) Upload(c *gin.Context) {
	ctx := c.Request.Context()

	form, err := c.MultipartForm()
	if err != nil {
		s.fail(c, invalid("request must be multipart/form-data", err))
		return
	}
	files := form.File["files"]
	contractType := c.PostForm("contract_type")
	if err := s.validateUpload(files, contractType); err != nil {
		s.fail(c, err)
		return
	}

	hint := ""
	if ct, ok := constants.CanonicalizeContractType(contractType); ok {
		hint = string(ct)
	}
	task, err := s.tasks.Create(ctx, entity.Task{TotalFiles: len(files), ContractType: hint})
	if err != nil {
		s.fail(c, fmt.Errorf("create task: %w", err))
		return
	}
	log := s.logger.With("req_id", GetRequestID(c), "task_id", task.ID.String())

	job := async.Job{
		TaskID:       task.ID,
		ContractType: hint,
		RequestID:    GetRequestID(c),
		SubmittedAt:  time.Now(),
	}
	for i, fh := range files {
		ref, err := s.storeUpload(ctx, task.ID, i+1, fh)
		if err != nil {
			s.abandon(ctx, log, task.ID, err)
			s.fail(c, err)
			return
		}
		job.Files = append(job.Files, ref)
	}

	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.abandon(ctx, log, task.ID, err)
		s.fail(c, err)
		return
	}

	log.Info("upload.accepted", "files", len(files), "contract_type", hint)
	c.JSON(http.StatusAccepted, gin.H{
		"task_id":     task.ID,
		"status":      task.Status,
		"total_files": task.TotalFiles,
		"message":     "files accepted for processing",
	})
}

func (s *Server) validateUpload(files []*multipart.FileHeader, contractType string) error {
	if len(files) == 0 {
		return invalid("at least one file is required in field \"files\"", nil)
	}
	if len(files) > s.upload.MaxFiles {
		return invalid(fmt.Sprintf("at most %d files per upload", s.upload.MaxFiles), nil)
	}
	v := common.NewValidator().Field("contract_type", contractType, common.ContractType)
	for i, fh := range files {
		v.Field(fmt.Sprintf("files[%d].name", i), fh.Filename, common.FileName)
		v.Field(fmt.Sprintf("files[%d].size", i), fh.Size, common.MaxBytes(s.upload.MaxFileSize))
	}
	return v.Err()
}

func (s *Server) storeUpload(ctx context.Context, taskID uuid.UUID, seq int, fh *multipart.FileHeader) (async.FileRef, error) {
	data, err := s.readPart(fh)
	if err != nil {
		return async.FileRef{}, err
	}
	key := storage.UploadKey(taskID, seq, fh.Filename)
	if err := s.store.Put(ctx, key, data, fh.Header.Get("Content-Type")); err != nil {
		return async.FileRef{}, fmt.Errorf("store upload %s: %w", fh.Filename, err)
	}
	return async.FileRef{Seq: seq, Name: fh.Filename, Key: key}, nil
}

// abandon marks a task that never reached the queue as failed.
func (s *Server) abandon(ctx context.Context, log *slog.Logger, id uuid.UUID, cause error) {
	if err := s.tasks.Fail(context.WithoutCancel(ctx), id, cause.Error()); err != nil {
		log.Warn("upload.abandon.failed", "error", err)
	}
}
