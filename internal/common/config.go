package common

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	LLM      LLMConfig      `yaml:"llm"`
	OCR      OCRConfig      `yaml:"ocr"`
	Storage  StorageConfig  `yaml:"storage"`
	Queue    QueueConfig    `yaml:"queue"`
	Upload   UploadConfig   `yaml:"upload"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	HTTPAddr        string        `yaml:"http_addr"`
	GRPCAddr        string        `yaml:"grpc_addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// CORSOrigins enables CORS on the HTTP API when non-empty; "*" allows any origin.
	CORSOrigins     []string      `yaml:"cors_origins"`
}

// DatabaseConfig selects and tunes the task store. Driver is "sqlite" or "postgres".
type DatabaseConfig struct {
	Driver           string        `yaml:"driver"`
	DSN              string        `yaml:"dsn"`
	MaxConns         int32         `yaml:"max_conns"`
	MinConns         int32         `yaml:"min_conns"`
	MaxConnLifetime  time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime  time.Duration `yaml:"max_conn_idle_time"`
	DialTimeout      time.Duration `yaml:"dial_timeout"`
	StatementTimeout time.Duration `yaml:"statement_timeout"`
}

// LLMConfig points at any OpenAI-compatible chat endpoint.
type LLMConfig struct {
	BaseURL       string        `yaml:"base_url"`
	APIKey        string        `yaml:"api_key"`
	Model         string        `yaml:"model"`
	VisionModel   string        `yaml:"vision_model"`
	Temperature   float32       `yaml:"temperature"`
	MaxTokens     int           `yaml:"max_tokens"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxInputChars int           `yaml:"max_input_chars"`
}

// OCRConfig: Engine is "vision" (the LLM vision model) or "tesseract".
type OCRConfig struct {
	Engine          string `yaml:"engine"`
	Pdftotext       string `yaml:"pdftotext"`
	Pdftoppm        string `yaml:"pdftoppm"`
	Tesseract       string `yaml:"tesseract"`
	TesseractLang   string `yaml:"tesseract_lang"`
	DPI             int    `yaml:"dpi"`
	MaxPages        int    `yaml:"max_pages"`
	PageConcurrency int    `yaml:"page_concurrency"`
	MaxImageSide    int    `yaml:"max_image_side"`
	MaxImagePixels  int    `yaml:"max_image_pixels"`
	JPEGQuality     int    `yaml:"jpeg_quality"`
	MinTextChars    int    `yaml:"min_text_chars"`
}

// StorageConfig: Backend is "local" or "minio".
type StorageConfig struct {
	Backend  string      `yaml:"backend"`
	LocalDir string      `yaml:"local_dir"`
	Minio    MinioConfig `yaml:"minio"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type QueueConfig struct {
	Workers     int           `yaml:"workers"`
	Size        int           `yaml:"size"`
	TaskTimeout time.Duration `yaml:"task_timeout"`
}

// UploadConfig limits what callers may send to the API.
type UploadConfig struct {
	MaxFiles     int   `yaml:"max_files"`
	MaxFileSize  int64 `yaml:"max_file_size"`
	MaxTextChars int   `yaml:"max_text_chars"` // document_text of POST /extract, in runes
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json | text
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:        ":8080",
			GRPCAddr:        ":9090",
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          "sqlite",
			DSN:             "file:contracts.db?_pragma=busy_timeout(5000)",
			MaxConns:        10,
			MinConns:        1,
			MaxConnLifetime: 30 * time.Minute,
			MaxConnIdleTime: 5 * time.Minute,
			DialTimeout:     3 * time.Second,
		},
		LLM: LLMConfig{
			BaseURL:       "https://open.bigmodel.cn/api/paas/v4",
			Model:         "glm-4",
			VisionModel:   "glm-4v-plus-0111",
			Temperature:   0.1,
			MaxTokens:     4000,
			Timeout:       120 * time.Second,
			MaxInputChars: 60000,
		},
		OCR: OCRConfig{
			Engine:          "vision",
			Pdftotext:       "pdftotext",
			Pdftoppm:        "pdftoppm",
			Tesseract:       "tesseract",
			TesseractLang:   "chi_sim+eng",
			DPI:             108,
			MaxPages:        50,
			PageConcurrency: 4,
			MaxImageSide:    800,
			MaxImagePixels:  89_478_485,
			JPEGQuality:     85,
			MinTextChars:    20,
		},
		Storage: StorageConfig{
			Backend:  "local",
			LocalDir: "./data",
			Minio:    MinioConfig{Bucket: "contracts"},
		},
		Queue: QueueConfig{
			Workers:     2,
			Size:        64,
			TaskTimeout: 30 * time.Minute,
		},
		Upload: UploadConfig{
			MaxFiles:     20,
			MaxFileSize:  50 << 20,
			MaxTextChars: 1_000_000,
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// LoadConfig layers configuration: defaults, then the YAML file at path (or
// $CONFIG_FILE), then environment variables. A .env file in the working
// directory is loaded first; it never overrides variables already set.
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	cfg := DefaultConfig()
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.HTTPAddr = getEnv("HTTP_ADDR", c.Server.HTTPAddr)
	c.Server.GRPCAddr = getEnv("GRPC_ADDR", c.Server.GRPCAddr)
	c.Server.ShutdownTimeout = getEnvAsDuration("SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Server.CORSOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", c.Server.CORSOrigins)

	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.DSN = getEnv("DB_URL", c.Database.DSN)
	c.Database.MaxConns = getEnvAsInt32("DB_MAX_CONNS", c.Database.MaxConns)
	c.Database.MinConns = getEnvAsInt32("DB_MIN_CONNS", c.Database.MinConns)
	c.Database.MaxConnLifetime = getEnvAsDuration("DB_MAX_CONN_LIFETIME", c.Database.MaxConnLifetime)
	c.Database.MaxConnIdleTime = getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", c.Database.MaxConnIdleTime)
	c.Database.DialTimeout = getEnvAsDuration("DB_DIAL_TIMEOUT", c.Database.DialTimeout)
	c.Database.StatementTimeout = getEnvAsDuration("DB_STATEMENT_TIMEOUT", c.Database.StatementTimeout)

	c.LLM.BaseURL = getEnv("LLM_BASE_URL", c.LLM.BaseURL)
	c.LLM.APIKey = getEnv("LLM_API_KEY", getEnv("ZHIPU_API_KEY", getEnv("OPENAI_API_KEY", c.LLM.APIKey)))
	c.LLM.Model = getEnv("LLM_MODEL", c.LLM.Model)
	c.LLM.VisionModel = getEnv("LLM_VISION_MODEL", c.LLM.VisionModel)
	c.LLM.Temperature = getEnvAsFloat32("LLM_TEMPERATURE", c.LLM.Temperature)
	c.LLM.MaxTokens = getEnvAsInt("LLM_MAX_TOKENS", c.LLM.MaxTokens)
	c.LLM.Timeout = getEnvAsDuration("LLM_TIMEOUT", c.LLM.Timeout)
	c.LLM.MaxInputChars = getEnvAsInt("LLM_MAX_INPUT_CHARS", c.LLM.MaxInputChars)

	c.OCR.Engine = getEnv("OCR_ENGINE", c.OCR.Engine)
	c.OCR.Pdftotext = getEnv("PDFTOTEXT_BIN", c.OCR.Pdftotext)
	c.OCR.Pdftoppm = getEnv("PDFTOPPM_BIN", c.OCR.Pdftoppm)
	c.OCR.Tesseract = getEnv("TESSERACT_BIN", c.OCR.Tesseract)
	c.OCR.TesseractLang = getEnv("TESSERACT_LANG", c.OCR.TesseractLang)
	c.OCR.DPI = getEnvAsInt("OCR_DPI", c.OCR.DPI)
	c.OCR.MaxPages = getEnvAsInt("OCR_MAX_PAGES", c.OCR.MaxPages)
	c.OCR.PageConcurrency = getEnvAsInt("OCR_PAGE_CONCURRENCY", c.OCR.PageConcurrency)
	c.OCR.MaxImageSide = getEnvAsInt("OCR_MAX_IMAGE_SIDE", c.OCR.MaxImageSide)
	c.OCR.MaxImagePixels = getEnvAsInt("OCR_MAX_IMAGE_PIXELS", c.OCR.MaxImagePixels)
	c.OCR.JPEGQuality = getEnvAsInt("OCR_JPEG_QUALITY", c.OCR.JPEGQuality)
	c.OCR.MinTextChars = getEnvAsInt("OCR_MIN_TEXT_CHARS", c.OCR.MinTextChars)

	c.Storage.Backend = getEnv("STORAGE_BACKEND", c.Storage.Backend)
	c.Storage.LocalDir = getEnv("STORAGE_DIR", c.Storage.LocalDir)
	c.Storage.Minio.Endpoint = getEnv("MINIO_ENDPOINT", c.Storage.Minio.Endpoint)
	c.Storage.Minio.AccessKey = getEnv("MINIO_ACCESS_KEY", c.Storage.Minio.AccessKey)
	c.Storage.Minio.SecretKey = getEnv("MINIO_SECRET_KEY", c.Storage.Minio.SecretKey)
	c.Storage.Minio.Bucket = getEnv("MINIO_BUCKET", c.Storage.Minio.Bucket)
	c.Storage.Minio.UseSSL = getEnvAsBool("MINIO_USE_SSL", c.Storage.Minio.UseSSL)

	c.Queue.Workers = getEnvAsInt("QUEUE_WORKERS", c.Queue.Workers)
	c.Queue.Size = getEnvAsInt("QUEUE_SIZE", c.Queue.Size)
	c.Queue.TaskTimeout = getEnvAsDuration("QUEUE_TASK_TIMEOUT", c.Queue.TaskTimeout)

	c.Upload.MaxFiles = getEnvAsInt("UPLOAD_MAX_FILES", c.Upload.MaxFiles)
	c.Upload.MaxFileSize = getEnvAsInt64("UPLOAD_MAX_FILE_SIZE", c.Upload.MaxFileSize)
	c.Upload.MaxTextChars = getEnvAsInt("UPLOAD_MAX_TEXT_CHARS", c.Upload.MaxTextChars)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping blank entries.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks the settings every binary needs.
func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("DB_URL is required"))
	}
	switch c.Storage.Backend {
	case "local":
		if c.Storage.LocalDir == "" {
			errs = append(errs, errors.New("STORAGE_DIR is required for local storage"))
		}
	case "minio":
		if c.Storage.Minio.Endpoint == "" || c.Storage.Minio.Bucket == "" {
			errs = append(errs, errors.New("MINIO_ENDPOINT and MINIO_BUCKET are required for minio storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND must be local or minio, got %q", c.Storage.Backend))
	}
	if err := c.ValidateLLM(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return NewAppError(CodeConfig, "invalid configuration", errors.Join(errs...))
	}
	return nil
}

// ValidateLLM checks only what model-backed commands need.
func (c *Config) ValidateLLM() error {
	if c.LLM.APIKey == "" {
		return NewAppError(CodeConfig, "LLM_API_KEY is required", ErrInvalidInput)
	}
	switch c.OCR.Engine {
	case "vision", "tesseract":
	default:
		return NewAppError(CodeConfig, fmt.Sprintf("OCR_ENGINE must be vision or tesseract, got %q", c.OCR.Engine), ErrInvalidInput)
	}
	return nil
}
