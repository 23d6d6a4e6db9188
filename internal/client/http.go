package client

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

	"github.com/alfredjeanlab/confighelper/internal/model"
)

// DefaultTimeout bounds every request made by an HTTPClient.
const DefaultTimeout = 30 * time.Second

// HTTPClient implements Client over the service's HTTP/JSON API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:9485").
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

func (c *HTTPClient) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Init(ctx context.Context) (*InitResponse, error) {
	var resp InitResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/init", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Import converts YAML text to a Config on the server.
func (c *HTTPClient) Import(ctx context.Context, yaml string) (*model.Config, error) {
	var resp importResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/import", importRequest{Config: yaml}, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Config == nil {
		return nil, errors.New("import: server reported failure")
	}
	return resp.Config, nil
}

// Export converts cfg to YAML text on the server.
func (c *HTTPClient) Export(ctx context.Context, cfg *model.Config) (string, error) {
	var resp exportResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/export", exportRequest{Config: cfg}, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", errors.New("export: server reported failure")
	}
	return resp.YAML, nil
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
