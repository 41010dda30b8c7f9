package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/joseph-ayodele/contracts-extractor/internal/common"
	"github.com/joseph-ayodele/contracts-extractor/internal/ocr"
)

var _ ocr.TextRecognizer = (*Client)(nil)

// RecognizeText implements ocr.TextRecognizer by sending the image to the
// vision model as a data URL.
func (c *Client) RecognizeText(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("recognize text: %w", common.ErrInvalidInput)
	}
	start := time.Now()

	dataURL := "data:" + http.DetectContentType(image) + ";base64," + base64.StdEncoding.EncodeToString(image)
	creq := goopenai.ChatCompletionRequest{
		Model:       c.cfg.VisionModel,
		Temperature: c.cfg.OCRTemperature,
		MaxTokens:   c.cfg.OCRMaxTokens,
		Messages: []goopenai.ChatCompletionMessage{{
			Role: goopenai.ChatMessageRoleUser,
			MultiContent: []goopenai.ChatMessagePart{
				{
					Type:     goopenai.ChatMessagePartTypeImageURL,
					ImageURL: &goopenai.ChatMessageImageURL{URL: dataURL},
				},
				{
					Type: goopenai.ChatMessagePartTypeText,
					Text: c.cfg.OCRPrompt,
				},
			},
		}},
	}

	content, err := c.chat(ctx, creq)
	if err != nil {
		c.logger.Error("ocr.vision.error",
			"req_id", common.RequestIDFromContext(ctx),
			"model", c.cfg.VisionModel, "image_bytes", len(image), "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}
	text := trimReply(content)
	c.logger.Debug("ocr.vision.ok",
		"req_id", common.RequestIDFromContext(ctx),
		"image_bytes", len(image), "text_len", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}
