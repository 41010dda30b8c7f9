package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/joseph-ayodele/contracts-extractor/internal/common"
	"github.com/joseph-ayodele/contracts-extractor/internal/llm"
)

var _ llm.Completer = (*Client)(nil)

// Complete implements llm.Completer with a chat completion. The reply text
// is returned untouched; parsing it is the extractor's job.
func (c *Client) Complete(ctx context.Context, req llm.ChatRequest) (string, error) {
	start := time.Now()
	rid := common.RequestIDFromContext(ctx)

	creq := goopenai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: req.System},
			{Role: goopenai.ChatMessageRoleUser, Content: req.User},
		},
	}
	if req.JSONMode {
		creq.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	content, err := c.chat(ctx, creq)
	if err != nil {
		c.logger.Error("llm.chat.error",
			"req_id", rid, "model", c.cfg.Model, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}
	c.logger.Debug("llm.chat.ok",
		"req_id", rid, "model", c.cfg.Model, "content_len", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}

func (c *Client) chat(ctx context.Context, creq goopenai.ChatCompletionRequest) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, creq)
	if err != nil {
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: status %d: %s", common.ErrUpstream, apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("%w: %v", common.ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", common.ErrUpstream)
	}
	return resp.Choices[0].Message.Content, nil
}

// Ping checks credentials and reachability with a one-token completion.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.chat(ctx, goopenai.ChatCompletionRequest{
		Model:     c.cfg.Model,
		MaxTokens: 1,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: "ping"},
		},
	})
	return err
}

func trimReply(s string) string {
	return strings.TrimSpace(s)
}
