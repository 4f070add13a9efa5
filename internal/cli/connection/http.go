package connection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yndnr/restgate-go/internal/infra/buildinfo"
	"github.com/yndnr/restgate-go/internal/infra/tlsroots"
	"github.com/yndnr/restgate-go/pkg/token"
)

// Request headers understood by the server.
const (
	HeaderToken     = "x-token"
	HeaderPublicKey = "X-Requested-With"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// Options configures an HTTPClient.
type Options struct {
	Server   string
	Endpoint string // e.g. "/api"
	Version  string // e.g. "v1"

	Token     string
	PublicKey string

	// CAFile adds a PEM bundle to the system roots.
	CAFile   string
	Insecure bool

	Timeout time.Duration
}

// HTTPClient provides HTTP communication with the server.
type HTTPClient struct {
	baseURL   string
	apiPrefix string
	client    *http.Client
	token     string
	publicKey string
	userAgent string
}

// NewHTTPClient creates a new HTTP client.
func NewHTTPClient(opts Options) (*HTTPClient, error) {
	baseURL := strings.TrimRight(opts.Server, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.CAFile != "" || opts.Insecure {
		pool := tlsroots.NewPool()
		if opts.CAFile != "" {
			if err := pool.AddCertFile(opts.CAFile); err != nil {
				return nil, fmt.Errorf("load ca file: %w", err)
			}
		}
		transport.TLSClientConfig = pool.ClientConfig(opts.Insecure)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &HTTPClient{
		baseURL:   baseURL,
		apiPrefix: apiPrefix(opts.Endpoint, opts.Version),
		token:     opts.Token,
		publicKey: opts.PublicKey,
		userAgent: "restgate-cli/" + buildinfo.Get().Version,
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}, nil
}

func apiPrefix(endpoint, version string) string {
	var parts []string
	for _, p := range []string{endpoint, version} {
		if p = strings.Trim(p, "/"); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "/" + strings.Join(parts, "/")
}

// BaseURL returns the base URL of the client.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// APIURL returns the absolute URL of a resource path.
func (c *HTTPClient) APIURL(path string) string {
	return c.baseURL + c.apiPrefix + "/" + strings.TrimLeft(path, "/")
}

// SetToken replaces the session token sent with API requests.
func (c *HTTPClient) SetToken(t string) {
	c.token = t
}

// Do sends method to the resource path with an optional JSON body.
func (c *HTTPClient) Do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.APIURL(path), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(HeaderToken, c.token)
	}
	return c.send(req)
}

// Get performs a GET request on a resource path.
func (c *HTTPClient) Get(ctx context.Context, path string) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with a JSON body.
func (c *HTTPClient) Post(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

// Put performs a PUT request with a JSON body.
func (c *HTTPClient) Put(ctx context.Context, path string, body any) (*http.Response, error) {
	return c.Do(ctx, http.MethodPut, path, body)
}

// Delete performs a DELETE request.
func (c *HTTPClient) Delete(ctx context.Context, path string) (*http.Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil)
}

// Probe performs a GET on a server path outside the API, e.g. /health.
func (c *HTTPClient) Probe(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return c.send(req)
}

// Login runs the challenge login and returns the issued token. The token
// is also kept for subsequent requests.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	if c.publicKey == "" {
		return "", fmt.Errorf("public key is required to log in")
	}
	body := map[string]string{
		"email": email,
		"pass":  token.ChallengeResponse(c.publicKey, token.Digest(password)),
	}

	data, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL("login"), bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderPublicKey, c.publicKey)

	resp, err := c.send(req)
	if err != nil {
		return "", err
	}
	var result struct {
		Token string `json:"token"`
	}
	if err := ParseResponse(resp, &result); err != nil {
		return "", err
	}
	if result.Token == "" {
		return "", fmt.Errorf("server returned no token")
	}
	c.token = result.Token
	return result.Token, nil
}

func (c *HTTPClient) send(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	return c.client.Do(req)
}

// APIError is the error payload returned by the server.
type APIError struct {
	Status  int    `json:"status_code"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements error.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	return msg
}

// ParseResponse decodes a JSON response body into target and closes it.
// Error statuses become *APIError when the body carries one.
func ParseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err == nil && apiErr.Message != "" {
			if apiErr.Status == 0 {
				apiErr.Status = resp.StatusCode
			}
			return apiErr
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil && err != io.EOF {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}
