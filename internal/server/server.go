package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/contracts-extractor/internal/async"
	"github.com/joseph-ayodele/contracts-extractor/internal/common"
	"github.com/joseph-ayodele/contracts-extractor/internal/llm"
	"github.com/joseph-ayodele/contracts-extractor/internal/ocr"
	"github.com/joseph-ayodele/contracts-extractor/internal/repository"
	"github.com/joseph-ayodele/contracts-extractor/internal/storage"
)

const defaultHealthTimeout = 2 * time.Second

// DocumentOCR is the slice of *ocr.Extractor the API uses.
type DocumentOCR interface {
	Extract(ctx context.Context, name string, data []byte) (ocr.ExtractionResult, error)
}

// Deps are the collaborators the HTTP API is built from.
type Deps struct {
	Extractor llm.ContractExtractor
	OCR       DocumentOCR
	Tasks     repository.TaskRepository
	Store     storage.ObjectStore
	Queue     async.Queue
	Upload    common.UploadConfig
	Logger    *slog.Logger

	// CORSOrigins turns on CORS when non-empty.
	CORSOrigins []string

	// HealthTimeout bounds the database ping of GET /health.
	HealthTimeout time.Duration
}

// Server holds the handlers of the HTTP API.
type Server struct {
	extractor llm.ContractExtractor
	ocr       DocumentOCR
	tasks     repository.TaskRepository
	store     storage.ObjectStore
	queue     async.Queue
	upload    common.UploadConfig
	logger    *slog.Logger
	health    time.Duration
	cors      []string
}

func New(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.HealthTimeout <= 0 {
		d.HealthTimeout = defaultHealthTimeout
	}
	if d.Upload.MaxFiles <= 0 {
		d.Upload.MaxFiles = 20
	}
	if d.Upload.MaxFileSize <= 0 {
		d.Upload.MaxFileSize = 50 << 20
	}
	if d.Upload.MaxTextChars <= 0 {
		d.Upload.MaxTextChars = 1_000_000
	}
	return &Server{
		extractor: d.Extractor,
		ocr:       d.OCR,
		tasks:     d.Tasks,
		store:     d.Store,
		queue:     d.Queue,
		upload:    d.Upload,
		logger:    d.Logger,
		health:    d.HealthTimeout,
		cors:      d.CORSOrigins,
	}
}

// Router wires middleware and routes onto a fresh gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = 32 << 20
	if len(s.cors) > 0 {
		r.Use(CORS(s.cors))
	}
	r.Use(RequestID(), RequestLogger(s.logger), Recovery(s.logger))

	r.GET("/health", s.Health)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/extract", s.Extract)
		v1.POST("/ocr", s.OCRImage)
		v1.POST("/ocr/pdf", s.OCRPDF)
		v1.POST("/upload", s.Upload)
		v1.GET("/task/:task_id", s.GetTask)
		v1.GET("/task/:task_id/results", s.GetResults)
		v1.GET("/task/:task_id/download", s.Download)
	}
	return r
}
