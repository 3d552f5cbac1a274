package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds each request; a hang surfaces as NetworkUnreachable.
const DefaultTimeout = 10 * time.Second

// HTTPClient makes REST calls to one FFT analyzer device.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// New creates a client targeting the given endpoint. The endpoint must have
// been validated by the caller. A timeout of zero selects DefaultTimeout.
func New(ep Endpoint, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		baseURL: ep.BaseURL(),
		client:  &http.Client{Timeout: timeout},
	}
}

// Status fetches GET /api/status.
func (c *HTTPClient) Status(ctx context.Context) (*StatusResponse, error) {
	var s StatusResponse
	if err := c.get(ctx, "/api/status", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// StartAnalysis sends POST /api/fft/start.
func (c *HTTPClient) StartAnalysis(ctx context.Context) (*ControlResponse, error) {
	var out ControlResponse
	if err := c.post(ctx, "/api/fft/start", struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StopAnalysis sends POST /api/fft/stop.
func (c *HTTPClient) StopAnalysis(ctx context.Context) (*ControlResponse, error) {
	var out ControlResponse
	if err := c.post(ctx, "/api/fft/stop", struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchData fetches GET /api/fft/data.
func (c *HTTPClient) FetchData(ctx context.Context) (*FFTData, error) {
	var d FFTData
	if err := c.get(ctx, "/api/fft/data", &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// FetchRaw fetches GET /api/fft/raw.
func (c *HTTPClient) FetchRaw(ctx context.Context) (*RawData, error) {
	var d RawData
	if err := c.get(ctx, "/api/fft/raw", &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// UpdateSettings sends POST /api/fft/settings.
func (c *HTTPClient) UpdateSettings(ctx context.Context, s Settings) (*ControlResponse, error) {
	var out ControlResponse
	if err := c.post(ctx, "/api/fft/settings", s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, out interface{}) error {
	op := "GET " + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &TransportError{Kind: NetworkUnreachable, Op: op, Err: err}
	}
	return c.do(req, op, out)
}

func (c *HTTPClient) post(ctx context.Context, path string, body, out interface{}) error {
	op := "POST " + path
	data, err := json.Marshal(body)
	if err != nil {
		return &TransportError{Kind: ProtocolError, Op: op, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return &TransportError{Kind: NetworkUnreachable, Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, op, out)
}

func (c *HTTPClient) do(req *http.Request, op string, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Kind: NetworkUnreachable, Op: op, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &TransportError{
			Kind: ProtocolError,
			Op:   op,
			Err:  fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(body)),
		}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &TransportError{Kind: ProtocolError, Op: op, Err: fmt.Errorf("decode: %w", err)}
		}
	}
	return nil
}
