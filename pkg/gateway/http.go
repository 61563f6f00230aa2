package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds each gateway call. The source widget let a stalled
// request hang forever; expiry here surfaces as an ordinary failure.
const DefaultTimeout = 30 * time.Second

// ClientOption configures the HTTP gateway clients.
type ClientOption func(*clientConfig)

type clientConfig struct {
	httpClient *http.Client
	timeout    time.Duration
}

// WithHTTPClient swaps the underlying http.Client, mainly for tests.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(cfg *clientConfig) {
		if client != nil {
			cfg.httpClient = client
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(cfg *clientConfig) {
		if timeout > 0 {
			cfg.timeout = timeout
		}
	}
}

func newClientConfig(options []ClientOption) clientConfig {
	cfg := clientConfig{
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// HTTPUploadClient posts multipart uploads to an upload endpoint and decodes
// the UploadResult envelope.
type HTTPUploadClient struct {
	endpoint string
	cfg      clientConfig
}

// NewHTTPUploadClient builds an upload client for the given endpoint URL.
func NewHTTPUploadClient(endpoint string, options ...ClientOption) (*HTTPUploadClient, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("gateway: upload endpoint is required")
	}
	return &HTTPUploadClient{endpoint: endpoint, cfg: newClientConfig(options)}, nil
}

// Upload sends the file as a multipart form under the "file" part, tagging
// the originating field name alongside it.
func (c *HTTPUploadClient) Upload(ctx context.Context, req UploadRequest) (UploadResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", req.FileName)
	if err != nil {
		return UploadResult{}, fmt.Errorf("gateway: build multipart body: %w", err)
	}
	if _, err := io.Copy(part, req.Content); err != nil {
		return UploadResult{}, fmt.Errorf("gateway: read file content: %w", err)
	}
	if err := writer.WriteField("field", req.FieldName); err != nil {
		return UploadResult{}, fmt.Errorf("gateway: build multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("gateway: build multipart body: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("gateway: build upload request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.cfg.httpClient.Do(httpReq)
	if err != nil {
		return UploadResult{}, fmt.Errorf("gateway: upload request: %w", err)
	}
	defer resp.Body.Close()

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return UploadResult{}, fmt.Errorf("gateway: decode upload response: %w", err)
	}
	return result, nil
}

// HTTPCartClient posts the submission payload as JSON to a cart endpoint.
type HTTPCartClient struct {
	endpoint string
	cfg      clientConfig
}

// NewHTTPCartClient builds a cart client for the given endpoint URL.
func NewHTTPCartClient(endpoint string, options ...ClientOption) (*HTTPCartClient, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("gateway: cart endpoint is required")
	}
	return &HTTPCartClient{endpoint: endpoint, cfg: newClientConfig(options)}, nil
}

// Submit sends the cart-add request and decodes the SubmitResult envelope.
func (c *HTTPCartClient) Submit(ctx context.Context, req SubmitRequest) (SubmitResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("gateway: encode cart payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return SubmitResult{}, fmt.Errorf("gateway: build cart request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.cfg.httpClient.Do(httpReq)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("gateway: cart request: %w", err)
	}
	defer resp.Body.Close()

	var result SubmitResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return SubmitResult{}, fmt.Errorf("gateway: decode cart response: %w", err)
	}
	return result, nil
}
