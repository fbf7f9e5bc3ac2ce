package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/devwithfarshi/ai-playground/internal/adapter"
	"github.com/devwithfarshi/ai-playground/internal/generation"
	"github.com/devwithfarshi/ai-playground/internal/openai"
	"github.com/devwithfarshi/ai-playground/internal/sse"
)

var _ adapter.StreamingChatAdapter = (*OpenAIAdapter)(nil)

// OpenAIAdapter sends requests to an OpenAI compatible chat completions API.
type OpenAIAdapter struct {
	apiKey         string
	baseURL        string
	org            string
	requestTimeout time.Duration
	httpClient     *http.Client
}

// Config holds configuration for the OpenAI adapter.
type Config struct {
	APIKey       string
	BaseURL      string // optional, defaults to https://api.openai.com/v1
	Organization string // optional
	// RequestTimeout bounds non-streaming calls. Zero means no limit.
	RequestTimeout time.Duration
	// ResponseHeaderTimeout bounds the wait for upstream headers. Zero means no limit.
	ResponseHeaderTimeout time.Duration
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// APIError is a non-2xx reply from the provider.
type APIError struct {
	StatusCode int
	Message    string
	Type       string
	Code       string
}

func (e *APIError) Error() string {
	var details []string
	if e.Type != "" {
		details = append(details, "type="+e.Type)
	}
	if e.Code != "" {
		details = append(details, "code="+e.Code)
	}
	if len(details) == 0 {
		return "openai: " + e.Message
	}
	return fmt.Sprintf("openai: %s (%s)", e.Message, strings.Join(details, ", "))
}

// New creates an OpenAIAdapter instance.
func New(cfg Config) (*OpenAIAdapter, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("openai: api key required")
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	client := cfg.HTTPClient
	if client == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.ResponseHeaderTimeout = cfg.ResponseHeaderTimeout
		client = &http.Client{Transport: transport}
	}

	return &OpenAIAdapter{
		apiKey:         cfg.APIKey,
		baseURL:        baseURL,
		org:            cfg.Organization,
		requestTimeout: cfg.RequestTimeout,
		httpClient:     client,
	}, nil
}

func (a *OpenAIAdapter) Name() string { return "openai" }

// CreateCompletion sends a non-streaming chat completion request.
func (a *OpenAIAdapter) CreateCompletion(ctx context.Context, req generation.Request) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", errors.New("openai: empty prompt")
	}
	if a.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.requestTimeout)
		defer cancel()
	}

	resp, err := a.send(ctx, openai.NewUserRequest(req.Model, req.Prompt, req.EffectiveTemperature(), false))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("openai: read response: %w", err)
	}

	var completion openai.ChatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", fmt.Errorf("openai: unmarshal response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("openai: response contained no choices")
	}
	return completion.FirstContent(), nil
}

// streamRecord is a chunk that may instead carry an in-band error.
type streamRecord struct {
	openai.ChatCompletionChunk
	Error *openai.ErrorDetail `json:"error,omitempty"`
}

// CreateCompletionStream opens a streaming request and forwards every
// non-empty content delta. The channel closes after [DONE], EOF or failure.
func (a *OpenAIAdapter) CreateCompletionStream(ctx context.Context, req generation.Request) (<-chan adapter.StreamEvent, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, errors.New("openai: empty prompt")
	}

	resp, err := a.send(ctx, openai.NewUserRequest(req.Model, req.Prompt, req.EffectiveTemperature(), true))
	if err != nil {
		return nil, err
	}

	ch := make(chan adapter.StreamEvent, 10)
	go func() {
		defer close(ch)
		defer resp.Body.Close()

		fail := func(err error) {
			ev := adapter.StreamEvent{Error: err}
			if adapter.Send(ctx, ch, ev) {
				return
			}
			// cancelled: deliver only if there is room, the consumer may be gone
			select {
			case ch <- ev:
			default:
			}
		}

		var lines sse.LineBuffer
		buf := make([]byte, 8192)
		for {
			if err := ctx.Err(); err != nil {
				fail(err)
				return
			}
			n, readErr := resp.Body.Read(buf)
			if n > 0 {
				for _, line := range lines.Push(buf[:n]) {
					done, err := a.handleStreamLine(ctx, ch, line)
					if err != nil {
						fail(err)
						return
					}
					if done {
						return
					}
				}
			}
			if readErr == nil {
				continue
			}
			if errors.Is(readErr, io.EOF) {
				if rest := lines.Residual(); rest != "" {
					if _, err := a.handleStreamLine(ctx, ch, rest); err != nil {
						fail(err)
					}
				}
				return
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				fail(ctxErr)
				return
			}
			fail(fmt.Errorf("openai: read stream: %w", readErr))
			return
		}
	}()
	return ch, nil
}

func (a *OpenAIAdapter) handleStreamLine(ctx context.Context, ch chan<- adapter.StreamEvent, line string) (bool, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "data:") {
		return false, nil
	}
	payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
	if payload == "" {
		return false, nil
	}
	if payload == openai.DoneSentinel {
		return true, nil
	}
	var rec streamRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return false, fmt.Errorf("openai: parse chunk: %w", err)
	}
	if rec.Error != nil && rec.Error.Message != "" {
		return false, &APIError{StatusCode: http.StatusOK, Message: rec.Error.Message, Type: rec.Error.Type, Code: codeString(rec.Error.Code)}
	}
	if delta := rec.GetDelta().Content; delta != "" {
		if !adapter.Send(ctx, ch, adapter.StreamEvent{Delta: delta}) {
			return false, ctx.Err()
		}
	}
	return false, nil
}

func (a *OpenAIAdapter) send(ctx context.Context, payload openai.ChatCompletionRequest) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("openai: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("openai: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)
	if payload.Stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}
	if a.org != "" {
		httpReq.Header.Set("OpenAI-Organization", a.org)
	}

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("openai: send request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return nil, decodeAPIError(resp.StatusCode, data)
	}
	return resp, nil
}

func decodeAPIError(status int, body []byte) error {
	var errResp openai.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return &APIError{
			StatusCode: status,
			Message:    errResp.Error.Message,
			Type:       errResp.Error.Type,
			Code:       codeString(errResp.Error.Code),
		}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: fmt.Sprintf("http %d: %s", status, msg)}
}

func codeString(code any) string {
	switch v := code.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprint(v)
	}
}
