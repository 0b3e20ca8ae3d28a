package notify

import "context"

// Sink delivers notifications to one destination (log, webhook, queue, topic).
type Sink interface {
	ID() string
	Type() string
	Notify(ctx context.Context, n Notification) error
}
