package openai

import (
	"log/slog"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
)

// Config for the chat/vision client. Any OpenAI-compatible endpoint works.
type Config struct {
	APIKey      string        // bearer token
	BaseURL     string        // default https://open.bigmodel.cn/api/paas/v4
	Model       string        // text model, default "glm-4"
	VisionModel string        // OCR model, default "glm-4v-plus-0111"
	Timeout     time.Duration // http client timeout, default 120s

	// OCRPrompt is sent with every page image.
	OCRPrompt      string
	OCRTemperature float32 // default 0.1
	OCRMaxTokens   int     // default 4000
}

type Client struct {
	cfg    Config
	api    *goopenai.Client
	logger *slog.Logger
}

const defaultOCRPrompt = "Recognize all text in this image of a contract page. " +
	"Return the text exactly as written, in reading order, keeping paragraph breaks and table rows on their own lines. " +
	"Do not summarize, translate or add commentary."

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://open.bigmodel.cn/api/paas/v4"
	}
	if cfg.Model == "" {
		cfg.Model = "glm-4"
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = "glm-4v-plus-0111"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.OCRPrompt == "" {
		cfg.OCRPrompt = defaultOCRPrompt
	}
	if cfg.OCRTemperature <= 0 {
		cfg.OCRTemperature = 0.1
	}
	if cfg.OCRMaxTokens <= 0 {
		cfg.OCRMaxTokens = 4000
	}
	if logger == nil {
		logger = slog.Default()
	}

	oc := goopenai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = cfg.BaseURL
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		cfg:    cfg,
		api:    goopenai.NewClientWithConfig(oc),
		logger: logger,
	}
}
