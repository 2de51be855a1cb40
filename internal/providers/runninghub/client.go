package runninghub

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"imageforge/internal/infra"
)

// maxUploadBytes caps reference-image uploads at 10 MiB; larger files are
// rejected before any network call.
const maxUploadBytes = 10 * 1024 * 1024

var allowedUploadExts = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// Options configures the RunningHub workflow API client.
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *infra.Logger
	// InsecureSkipTLS disables certificate verification. The upstream host
	// does not present a verifiable chain; see the design notes for the risk
	// assessment.
	InsecureSkipTLS bool
	RequestTimeout  time.Duration
}

// Client exposes the raw upload / create / status / outputs / download
// primitives of the RunningHub workflow API. All responses use code == 0 as
// the success sentinel; any other code is an application-level failure
// regardless of the HTTP status.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

// UploadedAsset is the transient handle returned by Upload. It is consumed
// immediately by job submission and never reused across requests.
type UploadedAsset struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
}

// Job identifies one submitted remote generation task.
type Job struct {
	TaskID    string
	ClientID  string
	State     State
	CreatedAt time.Time
}

// Output is one artifact produced by a succeeded job.
type Output struct {
	FileURL  string `json:"fileUrl"`
	FileType string `json:"fileType"`
}

type apiEnvelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type createPayload struct {
	WorkflowID     int64            `json:"workflowId"`
	APIKey         string           `json:"apiKey"`
	NodeInfoList   []NodeAssignment `json:"nodeInfoList"`
	NegativePrompt string           `json:"negative_prompt,omitempty"`
}

type taskPayload struct {
	TaskID   string `json:"taskId"`
	APIKey   string `json:"apiKey"`
	ClientID string `json:"clientId,omitempty"`
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
		if opts.InsecureSkipTLS {
			httpClient.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			}
		}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://www.runninghub.cn"
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
		httpClient: httpClient,
		logger:     logger,
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c != nil && c.apiKey != ""
}

// Upload sends a reference image to the remote service and returns its
// transient handle. Unsupported extensions and oversized files fail locally.
func (c *Client) Upload(ctx context.Context, path string) (*UploadedAsset, error) {
	ext := strings.ToLower(filepath.Ext(path))
	mimeType, ok := allowedUploadExts[ext]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported image format %q", ErrUpload, ext)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", ErrUpload, path, err)
	}
	if info.Size() > maxUploadBytes {
		return nil, fmt.Errorf("%w: file is %d bytes, limit is %d", ErrUpload, info.Size(), maxUploadBytes)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrUpload, path, err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("%w: build form: %v", ErrUpload, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("%w: read file: %v", ErrUpload, err)
	}
	_ = writer.WriteField("apiKey", c.apiKey)
	_ = writer.WriteField("fileType", "image")
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("%w: finalize form: %v", ErrUpload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/task/openapi/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUpload, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var asset UploadedAsset
	if err := c.do(req, &asset); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}
	c.logger.Info().Str("file_name", asset.FileName).Str("mime", mimeType).Msg("runninghub: uploaded reference image")
	return &asset, nil
}

// CreateJob submits a generation job against the given workflow and returns
// its identifiers. The node assignments are resolved by the caller ahead of
// time from the workflow descriptor.
func (c *Client) CreateJob(ctx context.Context, workflowID int64, nodes []NodeAssignment, negativePrompt string) (*Job, error) {
	payload := createPayload{
		WorkflowID:     workflowID,
		APIKey:         c.apiKey,
		NodeInfoList:   nodes,
		NegativePrompt: strings.TrimSpace(negativePrompt),
	}
	var data struct {
		TaskID   string `json:"taskId"`
		ClientID string `json:"clientId"`
	}
	if err := c.postJSON(ctx, "/task/openapi/create", payload, &data); err != nil {
		return nil, err
	}
	if data.TaskID == "" {
		return nil, fmt.Errorf("%w: create returned no task id", ErrProtocol)
	}
	c.logger.Info().Str("task_id", data.TaskID).Str("client_id", data.ClientID).Msg("runninghub: job created")
	return &Job{TaskID: data.TaskID, ClientID: data.ClientID, State: StateCreated, CreatedAt: time.Now()}, nil
}

// PollStatus performs a single status check and returns the raw backend
// status string. Transient failures are the caller's concern.
func (c *Client) PollStatus(ctx context.Context, taskID, clientID string) (string, error) {
	var status string
	payload := taskPayload{TaskID: taskID, APIKey: c.apiKey, ClientID: clientID}
	if err := c.postJSON(ctx, "/task/openapi/status", payload, &status); err != nil {
		return "", err
	}
	return status, nil
}

// FetchOutputs lists the artifacts of a succeeded job. An empty list is a
// failure condition for the caller.
func (c *Client) FetchOutputs(ctx context.Context, taskID, clientID string) ([]Output, error) {
	var outputs []Output
	payload := taskPayload{TaskID: taskID, APIKey: c.apiKey, ClientID: clientID}
	if err := c.postJSON(ctx, "/task/openapi/outputs", payload, &outputs); err != nil {
		return nil, err
	}
	return outputs, nil
}

// Download fetches raw artifact bytes from a signed output URL.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrDownload, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrDownload, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrDownload, err)
	}
	return data, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: encode request: %v", ErrProtocol, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrProtocol, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")
	return c.do(req, out)
}

// do executes a request and decodes the code/data envelope into out.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: http request: %v", ErrProtocol, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrProtocol, err)
	}
	var envelope apiEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("%w: malformed response (status %d): %v", ErrProtocol, resp.StatusCode, err)
	}
	if envelope.Code != 0 {
		return fmt.Errorf("%w: api code %d: %s", ErrProtocol, envelope.Code, envelope.Msg)
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("%w: decode data: %v", ErrProtocol, err)
		}
	}
	return nil
}
