package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/five82/courier/internal/catalog"
)

// Source is the read-only view of the catalog the dispatcher validates against.
type Source interface {
	Loaded() bool
	HasFormat(name string) bool
	HasPattern(name string) bool
	Params(pattern string) (catalog.Params, bool)
}

// Ensure *catalog.Catalog satisfies Source at compile time.
var _ Source = (*catalog.Catalog)(nil)

// Config configures a Dispatcher.
type Config struct {
	// Endpoint is the one URL every request is sent to. A missing scheme
	// defaults to http.
	Endpoint string
	// Timeout bounds each request. Zero uses DefaultTimeout.
	Timeout   time.Duration
	UserAgent string
	// HTTPClient overrides the default client.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Dispatcher validates (format, pattern) pairs and sends the matching request.
type Dispatcher struct {
	source    Source
	endpoint  *url.URL
	http      *http.Client
	timeout   time.Duration
	userAgent string
	logger    *slog.Logger
}

const (
	DefaultTimeout   = 30 * time.Second
	defaultUserAgent = "courier/0.1"
	maxBodyBytes     = 8 << 20
	bodyPreviewRunes = 200
)

// New builds a Dispatcher for source.
func New(source Source, cfg Config) (*Dispatcher, error) {
	if source == nil {
		return nil, errors.New("dispatcher requires a catalog")
	}
	endpoint, err := parseEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Dispatcher{
		source:    source,
		endpoint:  endpoint,
		http:      client,
		timeout:   timeout,
		userAgent: userAgent,
		logger:    logger.With("component", "dispatch"),
	}, nil
}

// Endpoint returns the URL requests are sent to.
func (d *Dispatcher) Endpoint() string { return d.endpoint.String() }

// Timeout returns the per-request time limit.
func (d *Dispatcher) Timeout() time.Duration { return d.timeout }

// Dispatch sends one request for pattern in the style named by format and
// blocks until it completes or times out. It never panics or returns an
// error: every failure is described by the returned Outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, format, pattern string) Outcome {
	if ctx == nil {
		ctx = context.Background()
	}
	out := Outcome{
		ID:      uuid.NewString(),
		Format:  format,
		Pattern: pattern,
		Started: time.Now(),
	}
	log := d.logger.With("id", out.ID, "format", format, "pattern", pattern)

	if rerr := d.validate(format, pattern); rerr != nil {
		log.Warn("dispatch rejected", "reason", rerr.Reason.String(), "value", rerr.Value)
		return out.finish(StateRejected, rerr)
	}

	params, ok := d.source.Params(pattern)
	if !ok {
		log.Error("pattern validated but has no parameters")
		return out.finish(StateFailed, &Error{Kind: ErrInconsistent, Value: pattern})
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := d.newRequest(ctx, Style(format), params)
	if err != nil {
		log.Error("build request failed", "error", err)
		return out.finish(StateFailed, &Error{Kind: ErrEncode, Value: pattern, Err: err})
	}
	log.Debug("sending request", "method", req.Method, "url", req.URL.String(), "params", len(params))

	resp, err := d.http.Do(req)
	if err != nil {
		terr := transportError(err)
		log.Error("request failed", "timeout", terr.Timeout, "error", err)
		return out.finish(StateFailed, terr)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		terr := transportError(fmt.Errorf("read response: %w", err))
		log.Error("reading response failed", "status", resp.StatusCode, "timeout", terr.Timeout, "error", err)
		return out.finish(StateFailed, terr)
	}
	if len(body) > maxBodyBytes {
		body = body[:maxBodyBytes]
		out.Truncated = true
	}

	out.StatusCode = resp.StatusCode
	out.Status = resp.Status
	out.Header = resp.Header.Clone()
	out.URL = resp.Request.URL.String()
	out.RawBody = string(body)
	out.JSON, out.IsJSON = parseJSON(body)
	out = out.finish(StateSucceeded, nil)

	attrs := []any{
		"status", out.StatusCode,
		"json", out.IsJSON,
		"bytes", len(body),
		"duration", out.Duration,
	}
	if out.OK() {
		log.Info("dispatch succeeded", attrs...)
	} else {
		log.Warn("remote returned error status", attrs...)
	}
	log.Debug("response body", "preview", preview(out.RawBody))
	return out
}

// validate checks the catalog state, then format, then pattern.
func (d *Dispatcher) validate(format, pattern string) *Error {
	if !d.source.Loaded() {
		return rejected(ReasonUnloaded, "")
	}
	if !d.source.HasFormat(format) {
		return rejected(ReasonUnknownFormat, format)
	}
	if !Style(format).Valid() {
		return rejected(ReasonUnsupportedFormat, format)
	}
	if !d.source.HasPattern(pattern) {
		return rejected(ReasonUnknownPattern, pattern)
	}
	return nil
}

func (d *Dispatcher) newRequest(ctx context.Context, style Style, params catalog.Params) (*http.Request, error) {
	target := *d.endpoint
	var (
		method      = http.MethodPost
		body        io.Reader
		contentType string
	)

	switch style {
	case StyleGet:
		method = http.MethodGet
		query := target.Query()
		for key, value := range params {
			query.Set(key, formatValue(value))
		}
		target.RawQuery = query.Encode()
	case StylePostJSON:
		payload, err := encodeJSON(params)
		if err != nil {
			return nil, fmt.Errorf("encode json body: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	case StylePostForm:
		body = strings.NewReader(formValues(params).Encode())
		contentType = "application/x-www-form-urlencoded"
	default:
		return nil, fmt.Errorf("unsupported style %q", style)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", d.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

func (o Outcome) finish(state State, err *Error) Outcome {
	o.State = state
	o.Err = err
	o.Duration = time.Since(o.Started)
	return o
}

func transportError(err error) *Error {
	return &Error{Kind: ErrTransport, Timeout: isTimeout(err), Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

func parseJSON(body []byte) (any, bool) {
	if len(bytes.TrimSpace(body)) == 0 || !json.Valid(body) {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}

func preview(body string) string {
	runes := []rune(body)
	if len(runes) <= bodyPreviewRunes {
		return body
	}
	return string(runes[:bodyPreviewRunes]) + "..."
}

func parseEndpoint(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, errors.New("endpoint is required")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse endpoint %q: missing host", raw)
	}
	u.Fragment = ""
	return u, nil
}
