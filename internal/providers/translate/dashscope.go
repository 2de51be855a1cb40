package translate

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

	"github.com/rs/zerolog"

	"imageforge/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("translate: api key is required")

// Options configures the DashScope translation client.
type Options struct {
	APIKey         string
	BaseURL        string
	Model          string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client translates prompt text through the DashScope chat API. Translation
// is best-effort: every failure degrades to a passthrough value so the
// generation pipeline is never gated on it.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *infra.Logger
}

type chatRequest struct {
	Model string    `json:"model"`
	Input chatInput `json:"input"`
}

type chatInput struct {
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Output struct {
		Text string `json:"text"`
	} `json:"output"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://dashscope.aliyuncs.com/api/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "qwen-max"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		logger:     logger,
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c != nil && c.apiKey != ""
}

// Translate converts text into English for the remote generation backend.
// On any failure it returns Passthrough(text) and logs the reason; callers
// never see an error from this method.
func (c *Client) Translate(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	translated, err := c.translate(ctx, text)
	if err != nil {
		c.logger.Warn().Err(err).Msg("translate: falling back to passthrough")
		return Passthrough(text)
	}
	return translated
}

// Passthrough wraps untranslated text so downstream consumers can tell it
// apart from a real translation.
func Passthrough(text string) string {
	return fmt.Sprintf("[原文: %s]", text)
}

func (c *Client) translate(ctx context.Context, text string) (string, error) {
	if !c.HasCredentials() {
		return "", ErrMissingAPIKey
	}
	payload := chatRequest{
		Model: c.model,
		Input: chatInput{Messages: []chatMessage{{
			Role:    "user",
			Content: "请将以下中文翻译成英文，只返回翻译结果，不要解释：\n" + text,
		}}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("translate: encode request: %w", err)
	}
	endpoint := c.baseURL + "/services/aigc/text-generation/generation"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("translate: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("translate: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("translate: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("translate: decode response: %w", err)
	}
	if decoded.Code != "" {
		return "", fmt.Errorf("translate: %s (%s)", decoded.Message, decoded.Code)
	}
	out := strings.TrimSpace(decoded.Output.Text)
	if out == "" {
		return "", errors.New("translate: empty translation")
	}
	return out, nil
}
