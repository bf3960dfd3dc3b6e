package azureopenai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"shopSense/domain"
	"strings"
	"time"
)

// GatewayError marks transport and HTTP-level failures of the completion
// service. Callers branch on it with errors.As to decide their fallback.
type GatewayError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("completion gateway unavailable: %v", e.Err)
	}
	return fmt.Sprintf("completion gateway returned status %d: %s", e.StatusCode, e.Body)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

type Config struct {
	Endpoint       string
	APIKey         string
	APIVersion     string
	ChatDeployment string
}

type OpenAIRepository struct {
	cfg        Config
	httpClient *http.Client
}

func NewOpenAIRepository(cfg Config) *OpenAIRepository {
	return &OpenAIRepository{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type chatCompletionRequest struct {
	Messages    []domain.ChatMessage `json:"messages"`
	MaxTokens   int                  `json:"max_tokens,omitempty"`
	Temperature float32              `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// ChatCompletion performs a single chat completion call. No retries happen
// here: the retry decision (or forfeiting the result) belongs to the caller.
func (r *OpenAIRepository) ChatCompletion(ctx context.Context, messages []domain.ChatMessage, maxTokens int, temperature float32) (string, error) {
	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimSuffix(r.cfg.Endpoint, "/"), r.cfg.ChatDeployment, r.cfg.APIVersion)

	payload := chatCompletionRequest{
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", r.cfg.APIKey)

	res, err := r.httpClient.Do(req)
	if err != nil {
		return "", &GatewayError{Err: err}
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", &GatewayError{Err: err}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", &GatewayError{StatusCode: res.StatusCode, Body: string(resBody)}
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(resBody, &completion); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", errors.New("completion response contained no choices")
	}

	return completion.Choices[0].Message.Content, nil
}
