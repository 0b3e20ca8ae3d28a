// Package request executes single calls against the CMS API and retains the
// outcome of the latest call for the caller to inspect.
//
// A Client performs one attempt per Perform: no retries, no backoff. It attaches
// the bearer token from an injected TokenSource, negotiates the body encoding,
// classifies the response and fires a failure notification unless hidden.
package request

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/suntech-x/cmsadmin/pkg/endpoints"
	"github.com/suntech-x/cmsadmin/pkg/httpclient"
	"github.com/suntech-x/cmsadmin/pkg/notify"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerRequestID     = "X-Request-ID"

	contentTypeJSON = "application/json"

	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:8000"

	unknownErrorMessage = "Unknown error occurred"
	maxLoggedBodyBytes  = 256
)

// Options describes one request. Method defaults to GET.
//
// Body may be nil, a *Multipart (sent untouched), a string, []byte or
// json.RawMessage (sent verbatim), or any value encoding/json can marshal.
type Options struct {
	Method  string
	Headers map[string]string
	Body    any
}

// Multipart is a binary form payload; the transport chooses the boundary.
type Multipart = httpclient.Multipart

// File is one file part of a Multipart payload.
type File = httpclient.File

// TokenSource yields the bearer token for the next call. An empty token means
// the Authorization header is omitted.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// Logger defines the logging surface the client relies on.
type Logger interface {
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}

// State is a snapshot of the client's retained view of its latest call.
type State struct {
	Data    json.RawMessage
	Err     error
	Loading bool
	// Status is the HTTP status of the latest settled call; zero when none or on network failure.
	Status int
}

// Client performs calls and retains the latest outcome. It is safe for
// concurrent use; overlapping calls on one instance resolve as last-to-settle-wins.
type Client struct {
	transport         httpclient.Client
	baseURL           string
	tokens            TokenSource
	notifier          notify.Notifier
	hideNotifications bool
	log               Logger
	newRequestID      func() string
	now               func() time.Time

	mu       sync.Mutex
	inFlight int
	data     json.RawMessage
	err      error
	status   int
	outcome  Outcome
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the URL relative paths are joined to.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base = strings.TrimSpace(base); base != "" {
			c.baseURL = base
		}
	}
}

// WithTokenSource injects the credential provider consulted before every call.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithNotifier sets the sink for failure notifications.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithHiddenNotifications suppresses failure notifications for this client.
func WithHiddenNotifications(hide bool) Option {
	return func(c *Client) { c.hideNotifications = hide }
}

// WithLogger sets the client logger.
func WithLogger(log Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New builds a Client over transport.
func New(transport httpclient.Client, opts ...Option) *Client {
	c := &Client{
		transport:    transport,
		baseURL:      DefaultBaseURL,
		log:          noopLogger{},
		newRequestID: func() string { return uuid.NewString() },
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Perform executes exactly one HTTP call against url.
//
// On success the parsed JSON payload is returned and retained as Data. A 2xx
// response without a JSON body yields "{}". On failure the returned payload is
// nil and the error is an *Error, also retained as Err. If ctx is done by the
// time the call settles, retained state is left alone and ctx.Err() is returned.
func (c *Client) Perform(ctx context.Context, url string, opts Options) (json.RawMessage, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	c.begin()
	defer c.end()

	method := strings.ToUpper(strings.TrimSpace(opts.Method))
	if method == "" {
		method = http.MethodGet
	}
	fullURL := c.resolveURL(url)
	headers := c.buildHeaders(ctx, opts.Headers)
	requestID := headerValue(headers, headerRequestID)

	req := &httpclient.Request{Method: method, URL: fullURL, Headers: headers}
	if err := encodeBody(req, opts.Body); err != nil {
		return nil, c.fail(ctx, req, requestID, &Error{Message: err.Error(), Err: err})
	}

	c.log.DebugObj("api request", "request_meta", map[string]any{
		"method":     method,
		"url":        fullURL,
		"request_id": requestID,
	})

	resp, err := c.transport.Do(ctx, req)
	if ctxErr := ctx.Err(); ctxErr != nil {
		c.log.DebugObj("api request abandoned", "request_meta", map[string]any{
			"method":     method,
			"url":        fullURL,
			"request_id": requestID,
			"reason":     ctxErr.Error(),
		})
		return nil, ctxErr
	}
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = unknownErrorMessage
		}
		return nil, c.fail(ctx, req, requestID, &Error{Message: msg, Network: true, Err: err})
	}

	status := resp.StatusCode()
	if status >= 200 && status < 300 {
		payload := c.successPayload(resp, requestID)
		c.settle(func() {
			c.status = status
			c.data = payload
			c.outcome = Outcome{Kind: Success, StatusCode: status, Body: payload}
		})
		return payload, nil
	}

	reqErr := &Error{
		StatusCode: status,
		StatusText: resp.StatusText(),
		Message:    errorMessage(status, resp.StatusText(), resp.Body()),
	}
	return nil, c.fail(ctx, req, requestID, reqErr)
}

// State returns a snapshot of the latest outcome and the in-flight flag.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Data: c.data, Err: c.err, Loading: c.inFlight > 0, Status: c.status}
}

// Outcome returns the tagged outcome of the latest settled call.
func (c *Client) Outcome() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome
}

// begin clears the previous outcome and marks a call in flight.
func (c *Client) begin() {
	c.mu.Lock()
	c.inFlight++
	c.data = nil
	c.err = nil
	c.status = 0
	c.outcome = Outcome{}
	c.mu.Unlock()
}

func (c *Client) end() {
	c.mu.Lock()
	if c.inFlight > 0 {
		c.inFlight--
	}
	c.mu.Unlock()
}

func (c *Client) settle(fn func()) {
	c.mu.Lock()
	fn()
	c.mu.Unlock()
}

// fail records reqErr and fires the failure notification.
func (c *Client) fail(ctx context.Context, req *httpclient.Request, requestID string, reqErr *Error) error {
	c.settle(func() {
		c.status = reqErr.StatusCode
		c.err = reqErr
		kind := Failure
		if reqErr.Network {
			kind = NetworkFailure
		}
		c.outcome = Outcome{Kind: kind, StatusCode: reqErr.StatusCode, Message: reqErr.Message}
	})

	c.log.WarnObj("api request failed", "request_error", map[string]any{
		"method":      req.Method,
		"url":         req.URL,
		"request_id":  requestID,
		"status_code": reqErr.StatusCode,
		"error":       reqErr.Message,
	})

	if c.hideNotifications || c.notifier == nil {
		return reqErr
	}
	n := notify.Notification{
		Variant:     notify.VariantDestructive,
		Title:       "Error",
		Description: reqErr.Message,
		StatusCode:  reqErr.StatusCode,
		Method:      req.Method,
		URL:         req.URL,
		RequestID:   requestID,
		At:          c.now().UTC(),
	}
	if err := c.notifier.Notify(ctx, n); err != nil {
		c.log.WarnObj("failure notification not delivered", "notify_error", map[string]any{
			"request_id": requestID,
			"error":      err.Error(),
		})
	}
	return reqErr
}

func (c *Client) resolveURL(url string) string {
	if endpoints.IsAbsolute(url) {
		return url
	}
	return endpoints.Join(c.baseURL, url)
}

// buildHeaders merges the bearer token, a request id and caller headers. Caller
// headers win over the generated ones.
func (c *Client) buildHeaders(ctx context.Context, callerHeaders map[string]string) map[string]string {
	headers := make(map[string]string, len(callerHeaders)+3)

	if token := c.token(ctx); token != "" {
		headers[headerAuthorization] = "Bearer " + token
	}
	for k, v := range callerHeaders {
		headers[k] = v
	}
	if headerValue(headers, headerRequestID) == "" {
		headers[headerRequestID] = c.newRequestID()
	}
	return headers
}

func (c *Client) token(ctx context.Context) string {
	if c.tokens == nil {
		return ""
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		c.log.WarnObj("token lookup failed; sending request without authorization", "token_error", err.Error())
		return ""
	}
	return strings.TrimSpace(token)
}

func (c *Client) successPayload(resp httpclient.Response, requestID string) json.RawMessage {
	body := bytes.TrimSpace(resp.Body())
	if len(body) > 0 && json.Valid(body) {
		out := make(json.RawMessage, len(body))
		copy(out, body)
		return out
	}
	if len(body) > 0 {
		snippet := string(body)
		if len(snippet) > maxLoggedBodyBytes {
			snippet = snippet[:maxLoggedBodyBytes]
		}
		c.log.WarnObj("successful response carried a non-JSON body", "response_meta", map[string]any{
			"status_code": resp.StatusCode(),
			"request_id":  requestID,
			"body":        snippet,
		})
	}
	return json.RawMessage("{}")
}

// encodeBody applies the body negotiation rules onto req.
func encodeBody(req *httpclient.Request, body any) error {
	var raw []byte
	switch b := body.(type) {
	case nil:
		return nil
	case *Multipart:
		if b == nil {
			return nil
		}
		req.Multipart = b
		return nil
	case Multipart:
		req.Multipart = &b
		return nil
	case json.RawMessage:
		raw = b
	case []byte:
		raw = b
	case string:
		raw = []byte(b)
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		raw = encoded
	}

	if headerValue(req.Headers, headerContentType) == "" {
		req.Headers[headerContentType] = contentTypeJSON
	}
	req.Body = raw
	return nil
}

// headerValue looks up name case-insensitively.
func headerValue(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// errorMessage extracts a human-readable message from an error envelope.
func errorMessage(status int, statusText string, body []byte) string {
	fallback := fmt.Sprintf("Error %d: %s", status, statusText)

	var envelope struct {
		Message any `json:"message"`
		Error   any `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fallback
	}
	if msg := messageText(envelope.Message); msg != "" {
		return msg
	}
	if msg := messageText(envelope.Error); msg != "" {
		return msg
	}
	return fallback
}

// messageText renders a message field that may be a string or a list of strings.
func messageText(v any) string {
	switch m := v.(type) {
	case string:
		return strings.TrimSpace(m)
	case []any:
		parts := make([]string, 0, len(m))
		for _, item := range m {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, "; ")
	}
	return ""
}

// IsNotFound reports whether err is a request failure with status 404.
func IsNotFound(err error) bool {
	var reqErr *Error
	return errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusNotFound
}
