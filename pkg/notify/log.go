package notify

import "context"

// logSink writes notifications to the application log. It is the terminal
// stand-in for an on-screen toast.
type logSink struct {
	id  string
	log Logger
}

func newLogSink(_ context.Context, cfg SinkConfig, log Logger) (Sink, error) {
	return &logSink{id: cfg.ID, log: ensureLogger(log)}, nil
}

// NewLogNotifier returns a Notifier that only logs.
func NewLogNotifier(log Logger) Notifier {
	return &logSink{id: TypeLog, log: ensureLogger(log)}
}

func (l *logSink) ID() string   { return l.id }
func (l *logSink) Type() string { return TypeLog }

func (l *logSink) Notify(_ context.Context, n Notification) error {
	if n.Variant == VariantDestructive {
		l.log.ErrorObj(n.Title, "notification", n)
		return nil
	}
	l.log.InfoObj(n.Title, "notification", n)
	return nil
}
