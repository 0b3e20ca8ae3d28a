package notify

import (
	"context"
	"time"
)

const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
)

// Notification is a user-visible message about a call, typically a failure.
type Notification struct {
	Variant     string    `json:"variant"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StatusCode  int       `json:"status_code,omitempty"`
	Method      string    `json:"method,omitempty"`
	URL         string    `json:"url,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
	At          time.Time `json:"at"`
}

// Notifier surfaces notifications to the user or downstream sinks.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, n Notification) error

func (f Func) Notify(ctx context.Context, n Notification) error { return f(ctx, n) }
