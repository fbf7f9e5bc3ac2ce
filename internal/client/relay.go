package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/devwithfarshi/ai-playground/internal/generation"
	"github.com/devwithfarshi/ai-playground/internal/openai"
	"github.com/devwithfarshi/ai-playground/internal/sse"
)

// HTTPClient abstracts the Do method for easier testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// RelayClient talks to the playground relay API.
type RelayClient struct {
	baseURL    *url.URL
	httpClient HTTPClient
	logger     *log.Logger
}

// HTTPError is a non-2xx reply from the relay.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string { return e.Message }

type errorResponse struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// NewRelayClient constructs a client for the API rooted at baseURL, for
// example http://localhost:5000/api. A nil httpClient gets one without an
// overall timeout so long streams are not cut.
func NewRelayClient(baseURL string, httpClient HTTPClient) (*RelayClient, error) {
	parsed, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host required", baseURL)
	}
	if httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.ResponseHeaderTimeout = 2 * time.Minute
		httpClient = &http.Client{Transport: transport}
	}
	return &RelayClient{baseURL: parsed, httpClient: httpClient}, nil
}

// SetLogger routes decode anomalies and stream warnings to l.
func (c *RelayClient) SetLogger(l *log.Logger) {
	c.logger = l
}

// BaseURL returns the API root the client targets.
func (c *RelayClient) BaseURL() string {
	return strings.TrimSuffix(c.baseURL.String(), "/")
}

// Generate requests a complete reply.
func (c *RelayClient) Generate(ctx context.Context, req generation.Request) (generation.Result, error) {
	req.Stream = false
	resp, err := c.post(ctx, "generate", req)
	if err != nil {
		return generation.Result{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return generation.Result{}, fmt.Errorf("read response: %w", err)
	}
	return decodeResult(data, req), nil
}

// Stream requests an incremental reply. onEvent observes every event as it
// arrives. complete is false when the relay closed the stream without a
// terminal record; res then holds the partial reply.
func (c *RelayClient) Stream(ctx context.Context, req generation.Request, onEvent func(generation.Event)) (res generation.Result, complete bool, err error) {
	req.Stream = true
	resp, err := c.post(ctx, "generate", req)
	if err != nil {
		return generation.Result{}, false, err
	}
	defer resp.Body.Close()

	agg := sse.Aggregator{OnEvent: onEvent}
	if c.logger != nil {
		agg.Logger = c.logger
	}
	res, err = agg.Consume(ctx, resp.Body)
	return res, agg.Terminated(), err
}

// Models lists the models the relay accepts.
func (c *RelayClient) Models(ctx context.Context) ([]openai.Model, error) {
	resp, err := c.do(ctx, http.MethodGet, "models", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var out openai.ModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode models: %w", err)
	}
	return out.Data, nil
}

func (c *RelayClient) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, path, buf)
}

func (c *RelayClient) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	rel, err := url.Parse(path)
	if err != nil {
		return nil, err
	}
	endpoint := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return nil, decodeHTTPError(resp.StatusCode, data)
	}
	return resp, nil
}

func decodeHTTPError(status int, data []byte) error {
	var payload errorResponse
	if err := json.Unmarshal(data, &payload); err == nil {
		msg := strings.TrimSpace(payload.Message)
		if detail := strings.TrimSpace(payload.Error); detail != "" {
			if msg == "" {
				msg = detail
			} else {
				msg = msg + ": " + detail
			}
		}
		if msg != "" {
			return &HTTPError{Status: status, Message: msg}
		}
	}
	return &HTTPError{Status: status, Message: fmt.Sprintf("HTTP error! status: %d", status)}
}

// decodeResult accepts the relay result and the looser shapes older relays
// produced. The reply falls back to response, then content, then the raw body.
func decodeResult(data []byte, req generation.Request) generation.Result {
	var loose struct {
		Reply       string    `json:"reply"`
		Response    string    `json:"response"`
		Content     string    `json:"content"`
		UsedModel   string    `json:"usedModel"`
		Temperature *float64  `json:"temperature"`
		CreatedAt   time.Time `json:"createdAt"`
	}
	res := generation.Result{
		UsedModel:   req.Model,
		Temperature: req.EffectiveTemperature(),
	}
	if err := json.Unmarshal(data, &loose); err != nil {
		res.Reply = strings.TrimSpace(string(data))
		res.CreatedAt = time.Now().UTC()
		return res
	}
	switch {
	case loose.Reply != "":
		res.Reply = loose.Reply
	case loose.Response != "":
		res.Reply = loose.Response
	case loose.Content != "":
		res.Reply = loose.Content
	default:
		res.Reply = strings.TrimSpace(string(data))
	}
	if loose.UsedModel != "" {
		res.UsedModel = loose.UsedModel
	}
	if loose.Temperature != nil {
		res.Temperature = *loose.Temperature
	}
	res.CreatedAt = loose.CreatedAt
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now().UTC()
	}
	return res
}
