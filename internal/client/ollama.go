// Package client provides the Ollama API client used for model replies.
// Ollama exposes a local HTTP API, by default at http://localhost:11434.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ocode-ai/ocode/internal/cache"
	"github.com/ocode-ai/ocode/internal/recovery"
)

// Config configures the Ollama client.
type Config struct {
	BaseURL string // Default: http://localhost:11434
	Model   string // e.g. "gemma3", "llama3.2"
	Timeout time.Duration
}

// DefaultConfig returns default configuration for a local Ollama instance.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "http://localhost:11434",
		Model:   "gemma3",
		Timeout: 120 * time.Second,
	}
}

// Recorder is notified when a reply is served from the cache.
type Recorder interface {
	RecordCacheHit()
}

// OllamaClient talks to the Ollama chat API. An optional response cache
// short-circuits repeat conversational prompts.
type OllamaClient struct {
	cfg      *Config
	client   *http.Client
	cache    *cache.ResponseCache
	recorder Recorder
	logger   *zap.Logger
}

// NewOllamaClient creates a new Ollama client. The cache may be nil to
// disable memoization.
func NewOllamaClient(cfg *Config, responseCache *cache.ResponseCache, logger *zap.Logger) *OllamaClient {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OllamaClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache:  responseCache,
		logger: logger,
	}
}

// Model returns the configured model name.
func (c *OllamaClient) Model() string {
	return c.cfg.Model
}

// SetRecorder registers a sink for cache-hit counts.
func (c *OllamaClient) SetRecorder(r Recorder) {
	c.recorder = r
}

// Chat sends the conversation to the model and returns the assistant
// reply. Cacheable prompts are served from and stored to the response
// cache, keyed on the last user message plus recent context.
func (c *OllamaClient) Chat(ctx context.Context, messages []cache.Message) (string, error) {
	prompt := lastUserMessage(messages)

	if c.cache != nil && prompt != "" && c.cache.IsCacheable(prompt) {
		if reply, ok := c.cache.Get(prompt, c.cfg.Model, messages); ok {
			if c.recorder != nil {
				c.recorder.RecordCacheHit()
			}
			c.logger.Debug("cache hit", zap.String("model", c.cfg.Model))
			return reply, nil
		}
	}

	reply, err := c.chatWithRetry(ctx, messages)
	if err != nil {
		return "", err
	}

	if c.cache != nil && prompt != "" && c.cache.IsCacheable(prompt) {
		c.cache.Set(prompt, c.cfg.Model, reply, messages, 0)
	}
	return reply, nil
}

// chatWithRetry retries transient failures within the per-category
// retry budget.
func (c *OllamaClient) chatWithRetry(ctx context.Context, messages []cache.Message) (string, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		reply, err := c.chat(ctx, messages)
		if err == nil {
			return reply, nil
		}
		lastErr = err

		errType := recovery.Classify(err.Error())
		if !recovery.ShouldRetry(errType, attempt) {
			break
		}
		c.logger.Warn("model request failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.String("error_type", errType.String()),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 500 * time.Millisecond):
		}
	}
	return "", lastErr
}

func (c *OllamaClient) chat(ctx context.Context, messages []cache.Message) (string, error) {
	body := chatRequest{
		Model:    c.cfg.Model,
		Messages: messages,
		Stream:   false,
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/api/chat", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("connection failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("parse chat response: %w", err)
	}
	return chatResp.Message.Content, nil
}

// IsAvailable checks whether the Ollama server answers at all.
func (c *OllamaClient) IsAvailable(ctx context.Context) bool {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// ListModels returns the model names the server has pulled.
func (c *OllamaClient) ListModels(ctx context.Context) ([]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("create tags request: %w", err)
	}
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("connection failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("parse tags response: %w", err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

func lastUserMessage(messages []cache.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content
		}
	}
	return ""
}

// ============================================================
// Ollama API Types
// ============================================================

type chatRequest struct {
	Model    string          `json:"model"`
	Messages []cache.Message `json:"messages"`
	Stream   bool            `json:"stream"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}
