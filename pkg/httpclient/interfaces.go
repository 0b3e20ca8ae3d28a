package httpclient

import (
	"context"
	"io"
	"net/http"
)

// Request is a single outgoing HTTP call. Body and Multipart are mutually exclusive;
// when Multipart is set the transport owns the Content-Type (boundary included).
type Request struct {
	Method    string
	URL       string
	Headers   map[string]string
	Body      []byte
	Multipart *Multipart
}

// Multipart is a multipart/form-data payload.
type Multipart struct {
	Fields map[string]string
	Files  []File
}

// File is one file part of a multipart payload.
type File struct {
	Field       string
	Name        string
	ContentType string
	Reader      io.Reader
}

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	// StatusText is the reason phrase for the status code, e.g. "Not Found".
	StatusText() string
	Header() http.Header
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Do(ctx context.Context, req *Request) (Response, error)
}
