package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// Options tunes the resty-backed client.
type Options struct {
	// Timeout of zero keeps the transport default (no client-imposed timeout).
	Timeout time.Duration
	// RatePerSecond of zero disables client-side throttling.
	RatePerSecond float64
}

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client  *resty.Client
	limiter *rate.Limiter
}

// NewRestyClient creates a new RestyClient with the specified options.
func NewRestyClient(opts Options) *RestyClient {
	rc := &RestyClient{client: newRestyBaseClient(opts.Timeout)}
	if opts.RatePerSecond > 0 {
		burst := int(opts.RatePerSecond)
		if burst < 1 {
			burst = 1
		}
		rc.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), burst)
	}
	return rc
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c
}

// Do performs a single HTTP request. Non-2xx statuses are returned as responses, not errors.
func (r *RestyClient) Do(ctx context.Context, in *Request) (Response, error) {
	if in == nil {
		return nil, fmt.Errorf("request is nil")
	}
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req := r.client.R().SetContext(ctx)
	if len(in.Headers) > 0 {
		req.SetHeaders(in.Headers)
	}

	switch {
	case in.Multipart != nil:
		if len(in.Multipart.Fields) > 0 {
			req.SetMultipartFormData(in.Multipart.Fields)
		}
		for _, f := range in.Multipart.Files {
			req.SetMultipartField(f.Field, f.Name, f.ContentType, f.Reader)
		}
	case in.Body != nil:
		req.SetBody(in.Body)
	}

	method := strings.ToUpper(strings.TrimSpace(in.Method))
	if method == "" {
		method = http.MethodGet
	}

	resp, err := req.Execute(method, in.URL)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte        { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int     { return r.resp.StatusCode() }
func (r *restyResponseAdapter) StatusText() string  { return http.StatusText(r.resp.StatusCode()) }
func (r *restyResponseAdapter) Header() http.Header { return r.resp.Header() }
