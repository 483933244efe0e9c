package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"go.uber.org/zap"

	"github.com/studiowebux/rhc/internal/types"
)

const (
	contentTypeText       = "text/plain; charset=utf-8"
	contentTypeJSON       = "application/json"
	contentTypeURLEncoded = "application/x-www-form-urlencoded"
)

// Options configures the HTTP client. Zero durations mean no limit.
type Options struct {
	ConnectTimeout time.Duration // dial
	ReadTimeout    time.Duration // waiting for response headers
	Timeout        time.Duration // whole exchange
}

// Client sends resolved definitions
type Client struct {
	http   *http.Client
	logger *zap.Logger
}

// New creates a client with the given timeouts
func New(opts Options, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	dialer := &net.Dialer{Timeout: opts.ConnectTimeout}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ResponseHeaderTimeout: opts.ReadTimeout,
		TLSHandshakeTimeout:   opts.ConnectTimeout,
	}

	return &Client{
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		logger: logger,
	}
}

// Do sends def and reads the whole response
func (c *Client) Do(ctx context.Context, def *types.Definition) (*types.Response, error) {
	req, err := BuildRequest(ctx, def)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	duration := time.Since(startTime)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	headers := make(map[string]string, len(resp.Header))
	for key, values := range resp.Header {
		headers[key] = strings.Join(values, ", ")
	}

	c.logger.Debug("request sent",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration))

	return &types.Response{
		Status:      resp.StatusCode,
		StatusText:  resp.Status,
		Headers:     headers,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        string(bodyBytes),
		Duration:    duration,
	}, nil
}

// BuildRequest turns a definition into an http.Request. Query parameters,
// headers and form fields keep their definition order.
func BuildRequest(ctx context.Context, def *types.Definition) (*http.Request, error) {
	if def == nil {
		return nil, fmt.Errorf("no definition to send")
	}

	target, err := url.Parse(def.Request.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", def.Request.URL, err)
	}
	if len(def.Query) > 0 {
		query := encodePairs(def.Query)
		if target.RawQuery == "" {
			target.RawQuery = query
		} else {
			target.RawQuery += "&" + query
		}
	}

	body, contentType, err := encodeBody(def.Body)
	if err != nil {
		return nil, err
	}

	method := string(def.Request.Method)
	if method == "" {
		method = http.MethodGet
	}

	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for _, h := range def.Headers {
		req.Header.Add(h.Name, h.Value)
	}
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}

	return req, nil
}

func encodeBody(body *types.Body) (string, string, error) {
	if body == nil {
		return "", "", nil
	}

	switch body.Kind {
	case types.BodyText:
		return body.Content, contentTypeText, nil
	case types.BodyJSON:
		// definitions may carry comments and trailing commas
		clean := jsonc.ToJSON([]byte(body.Content))
		if !json.Valid(clean) {
			return "", "", fmt.Errorf("json body is not valid JSON")
		}
		return string(clean), contentTypeJSON, nil
	case types.BodyURLEncoded:
		return encodePairs(body.Form), contentTypeURLEncoded, nil
	default:
		return "", "", fmt.Errorf("unknown body kind %s", body.Kind)
	}
}

func encodePairs(pairs []types.KeyValue) string {
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = url.QueryEscape(p.Name) + "=" + url.QueryEscape(p.Value)
	}
	return strings.Join(parts, "&")
}

// FormatDuration formats a duration to a human-readable string
func FormatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// FormatSize formats byte size to human-readable string
func FormatSize(bytes int) string {
	if bytes < 1024 {
		return fmt.Sprintf("%dB", bytes)
	}
	if bytes < 1024*1024 {
		return fmt.Sprintf("%.2fKB", float64(bytes)/1024.0)
	}
	return fmt.Sprintf("%.2fMB", float64(bytes)/(1024.0*1024.0))
}

// IsSuccessStatus returns true if status code is 2xx
func IsSuccessStatus(status int) bool {
	return status >= 200 && status < 300
}

// IsClientErrorStatus returns true if status code is 4xx
func IsClientErrorStatus(status int) bool {
	return status >= 400 && status < 500
}

// IsServerErrorStatus returns true if status code is 5xx
func IsServerErrorStatus(status int) bool {
	return status >= 500 && status < 600
}
