package request

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/suntech-x/cmsadmin/pkg/httpclient"
	"github.com/suntech-x/cmsadmin/pkg/notify"
)

// fakeResponse implements httpclient.Response.
type fakeResponse struct {
	status int
	text   string
	body   string
}

func (f fakeResponse) Body() []byte        { return []byte(f.body) }
func (f fakeResponse) StatusCode() int     { return f.status }
func (f fakeResponse) StatusText() string  { return f.text }
func (f fakeResponse) Header() http.Header { return http.Header{} }

// fakeTransport records requests and optionally blocks until released.
type fakeTransport struct {
	mu      sync.Mutex
	reqs    []*httpclient.Request
	resp    httpclient.Response
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeTransport) Do(ctx context.Context, req *httpclient.Request) (httpclient.Response, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeTransport) last() *httpclient.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reqs[len(f.reqs)-1]
}

// recorder collects notifications.
type recorder struct {
	mu    sync.Mutex
	items []notify.Notification
}

func (r *recorder) Notify(_ context.Context, n notify.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func staticToken(token string) TokenSource {
	return TokenFunc(func(context.Context) (string, error) { return token, nil })
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *recorder) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	rec := &recorder{}
	opts = append([]Option{WithBaseURL(srv.URL + "/"), WithNotifier(rec)}, opts...)
	return New(httpclient.NewRestyClient(httpclient.Options{}), opts...), rec
}

func TestPerformCreateReturnsPayloadWithoutNotification(t *testing.T) {
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/category" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("unexpected content type %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"name_en":"A"}` {
			t.Errorf("unexpected body %s", body)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1,"name_en":"A"}`))
	})

	payload, err := client.Perform(context.Background(), "category", Options{
		Method: http.MethodPost,
		Body:   map[string]string{"name_en": "A"},
	})
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}

	var got struct {
		ID     int    `json:"id"`
		NameEN string `json:"name_en"`
	}
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if got.ID != 1 || got.NameEN != "A" {
		t.Fatalf("unexpected payload %s", payload)
	}
	if rec.count() != 0 {
		t.Fatalf("expected no notification, got %d", rec.count())
	}

	state := client.State()
	if state.Status != http.StatusCreated || state.Err != nil || string(state.Data) != string(payload) {
		t.Fatalf("unexpected state %+v", state)
	}
	if out := client.Outcome(); out.Kind != Success || out.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestPerformDeleteNotFoundNotifiesOnce(t *testing.T) {
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not found"}`))
	})

	payload, err := client.Perform(context.Background(), "category/999", Options{Method: http.MethodDelete})
	if payload != nil {
		t.Fatalf("expected nil payload, got %s", payload)
	}
	var reqErr *Error
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if reqErr.Message != "Not found" || reqErr.StatusCode != http.StatusNotFound || reqErr.Network {
		t.Fatalf("unexpected error %+v", reqErr)
	}
	if !IsNotFound(err) {
		t.Fatalf("IsNotFound should report true")
	}
	if rec.count() != 1 {
		t.Fatalf("expected one notification, got %d", rec.count())
	}
	n := rec.items[0]
	if n.Variant != notify.VariantDestructive || n.Description != "Not found" || n.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected notification %+v", n)
	}

	state := client.State()
	if state.Data != nil || state.Err == nil || state.Status != http.StatusNotFound || state.Loading {
		t.Fatalf("unexpected state %+v", state)
	}
}

func TestPerformErrorMessageFallbacks(t *testing.T) {
	cases := []struct {
		name   string
		status int
		text   string
		body   string
		want   string
	}{
		{name: "error field", status: 400, text: "Bad Request", body: `{"error":"bad input"}`, want: "bad input"},
		{name: "message list", status: 422, text: "Unprocessable Entity", body: `{"message":["a is required","b is required"]}`, want: "a is required; b is required"},
		{name: "unparsable", status: 500, text: "Internal Server Error", body: `<html>oops</html>`, want: "Error 500: Internal Server Error"},
		{name: "empty body", status: 502, text: "Bad Gateway", body: ``, want: "Error 502: Bad Gateway"},
		{name: "no message fields", status: 403, text: "Forbidden", body: `{"code":7}`, want: "Error 403: Forbidden"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			transport := &fakeTransport{resp: fakeResponse{status: tc.status, text: tc.text, body: tc.body}}
			client := New(transport)
			_, err := client.Perform(context.Background(), "x", Options{})
			if err == nil || err.Error() != tc.want {
				t.Fatalf("got %v, want %q", err, tc.want)
			}
		})
	}
}

func TestPerformOmitsAuthorizationWithoutToken(t *testing.T) {
	for _, ts := range []TokenSource{nil, staticToken(""), TokenFunc(func(context.Context) (string, error) {
		return "", errors.New("store unavailable")
	})} {
		transport := &fakeTransport{resp: fakeResponse{status: 200, body: `{}`}}
		client := New(transport, WithTokenSource(ts))
		if _, err := client.Perform(context.Background(), "api/v1/profile", Options{}); err != nil {
			t.Fatalf("Perform: %v", err)
		}
		if v := headerValue(transport.last().Headers, "Authorization"); v != "" {
			t.Fatalf("expected no Authorization header, got %q", v)
		}
	}
}

func TestPerformAttachesBearerToken(t *testing.T) {
	transport := &fakeTransport{resp: fakeResponse{status: 200, body: `{"id":1}`}}
	client := New(transport, WithTokenSource(staticToken("abc")))
	if _, err := client.Perform(context.Background(), "api/v1/profile", Options{}); err != nil {
		t.Fatalf("Perform: %v", err)
	}
	req := transport.last()
	if got := req.Headers["Authorization"]; got != "Bearer abc" {
		t.Fatalf("unexpected Authorization %q", got)
	}
	if req.Method != http.MethodGet {
		t.Fatalf("expected default GET, got %s", req.Method)
	}
	if req.URL != "http://localhost:8000/api/v1/profile" {
		t.Fatalf("unexpected url %q", req.URL)
	}
	if req.Headers["X-Request-ID"] == "" {
		t.Fatalf("expected generated request id")
	}
}

func TestPerformMultipartLeavesContentTypeAlone(t *testing.T) {
	transport := &fakeTransport{resp: fakeResponse{status: 200, body: `{"id":"img"}`}}
	client := New(transport)
	body := &Multipart{Files: []File{{Field: "file", Name: "a.png", Reader: strings.NewReader("x")}}}

	if _, err := client.Perform(context.Background(), "upload/image", Options{Method: http.MethodPost, Body: body}); err != nil {
		t.Fatalf("Perform: %v", err)
	}
	req := transport.last()
	if v := headerValue(req.Headers, "Content-Type"); v != "" {
		t.Fatalf("expected no Content-Type, got %q", v)
	}
	if req.Multipart != body || req.Body != nil {
		t.Fatalf("multipart payload not passed through")
	}
}

func TestPerformKeepsCallerContentType(t *testing.T) {
	transport := &fakeTransport{resp: fakeResponse{status: 200, body: `{}`}}
	client := New(transport)
	_, err := client.Perform(context.Background(), "post", Options{
		Method:  http.MethodPost,
		Headers: map[string]string{"content-type": "text/plain"},
		Body:    "hello",
	})
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}
	req := transport.last()
	if headerValue(req.Headers, "Content-Type") != "text/plain" {
		t.Fatalf("caller content type overridden: %v", req.Headers)
	}
	if _, dup := req.Headers["Content-Type"]; dup {
		t.Fatalf("duplicate content type header added")
	}
	if string(req.Body) != "hello" {
		t.Fatalf("string body altered: %q", req.Body)
	}
}

func TestPerformUnparsableSuccessIsEmptyObject(t *testing.T) {
	for _, body := range []string{"", "OK", "  "} {
		transport := &fakeTransport{resp: fakeResponse{status: 200, body: body}}
		rec := &recorder{}
		client := New(transport, WithNotifier(rec))
		payload, err := client.Perform(context.Background(), "category/1", Options{Method: http.MethodDelete})
		if err != nil {
			t.Fatalf("Perform(%q): %v", body, err)
		}
		if string(payload) != "{}" {
			t.Fatalf("expected {}, got %s", payload)
		}
		if rec.count() != 0 {
			t.Fatalf("unexpected notification")
		}
	}
}

func TestPerformNetworkFailure(t *testing.T) {
	transport := &fakeTransport{err: errors.New("dial tcp: connection refused")}
	rec := &recorder{}
	client := New(transport, WithNotifier(rec))

	payload, err := client.Perform(context.Background(), "category", Options{})
	if payload != nil {
		t.Fatalf("expected nil payload")
	}
	var reqErr *Error
	if !errors.As(err, &reqErr) || !reqErr.Network || reqErr.StatusCode != 0 {
		t.Fatalf("expected network error, got %#v", err)
	}
	if reqErr.Message != "dial tcp: connection refused" {
		t.Fatalf("unexpected message %q", reqErr.Message)
	}
	if out := client.Outcome(); out.Kind != NetworkFailure {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if rec.count() != 1 {
		t.Fatalf("expected one notification, got %d", rec.count())
	}
}

func TestPerformHiddenNotifications(t *testing.T) {
	transport := &fakeTransport{resp: fakeResponse{status: 401, text: "Unauthorized", body: `{"message":"expired"}`}}
	rec := &recorder{}
	client := New(transport, WithNotifier(rec), WithHiddenNotifications(true))
	if _, err := client.Perform(context.Background(), "api/v1/profile", Options{}); err == nil {
		t.Fatalf("expected error")
	}
	if rec.count() != 0 {
		t.Fatalf("notifications should be hidden")
	}
}

func TestPerformLoadingFlagAndReset(t *testing.T) {
	transport := &fakeTransport{
		resp:    fakeResponse{status: 200, body: `{"ok":true}`},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	client := New(transport)

	// Seed a failure so the reset is observable.
	client.settle(func() {
		client.err = errors.New("old")
		client.status = 500
	})

	if client.State().Loading {
		t.Fatalf("loading before invocation")
	}

	done := make(chan error, 1)
	go func() {
		_, err := client.Perform(context.Background(), "category", Options{})
		done <- err
	}()

	<-transport.started
	mid := client.State()
	if !mid.Loading || mid.Err != nil || mid.Status != 0 || mid.Data != nil {
		t.Fatalf("expected reset in-flight state, got %+v", mid)
	}

	close(transport.release)
	if err := <-done; err != nil {
		t.Fatalf("Perform: %v", err)
	}
	after := client.State()
	if after.Loading || after.Status != 200 || string(after.Data) != `{"ok":true}` {
		t.Fatalf("unexpected settled state %+v", after)
	}
}

func TestPerformCancelledCallDoesNotMutateState(t *testing.T) {
	transport := &fakeTransport{
		resp:    fakeResponse{status: 200, body: `{"late":true}`},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	rec := &recorder{}
	client := New(transport, WithNotifier(rec))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := client.Perform(ctx, "category", Options{})
		done <- err
	}()

	<-transport.started
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	state := client.State()
	if state.Loading || state.Data != nil || state.Err != nil || state.Status != 0 {
		t.Fatalf("cancelled call mutated state: %+v", state)
	}
	if client.Outcome().Kind != None {
		t.Fatalf("expected no outcome")
	}
	if rec.count() != 0 {
		t.Fatalf("cancelled call should not notify")
	}
}

func TestPerformAbsoluteURL(t *testing.T) {
	transport := &fakeTransport{resp: fakeResponse{status: 200, body: `{}`}}
	client := New(transport, WithBaseURL("http://api.local"))
	if _, err := client.Perform(context.Background(), "https://other.example.com/x", Options{}); err != nil {
		t.Fatalf("Perform: %v", err)
	}
	if got := transport.last().URL; got != "https://other.example.com/x" {
		t.Fatalf("absolute url rewritten: %q", got)
	}
}

func TestPerformEncodeFailureIsReported(t *testing.T) {
	transport := &fakeTransport{resp: fakeResponse{status: 200, body: `{}`}}
	client := New(transport)
	_, err := client.Perform(context.Background(), "post", Options{Method: http.MethodPost, Body: map[string]any{"bad": make(chan int)}})
	var reqErr *Error
	if !errors.As(err, &reqErr) || reqErr.Network || reqErr.StatusCode != 0 {
		t.Fatalf("expected local encode failure, got %+v", err)
	}
	if out := client.Outcome(); out.Kind != Failure || out.StatusCode != 0 {
		t.Fatalf("expected failure outcome, got %+v", out)
	}
	if len(transport.reqs) != 0 {
		t.Fatalf("request should not be sent")
	}
}

func TestPerformRepeatedGetIsStable(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":1}],"totalPages":1,"totalItems":1}`))
	})
	first, err := client.Perform(context.Background(), "category/list?page=1&limit=10&q=&type=", Options{})
	if err != nil {
		t.Fatalf("first Perform: %v", err)
	}
	second, err := client.Perform(context.Background(), "category/list?page=1&limit=10&q=&type=", Options{})
	if err != nil {
		t.Fatalf("second Perform: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("payloads differ: %s vs %s", first, second)
	}
}
