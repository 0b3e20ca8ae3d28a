package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Fanout dispatches notifications to all configured sinks.
type Fanout struct {
	sinks []Sink
}

// NewFanout builds a dispatcher that fans out notifications across sinks.
func NewFanout(sinks []Sink) *Fanout {
	cp := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s == nil {
			continue
		}
		cp = append(cp, s)
	}
	return &Fanout{sinks: cp}
}

// Notify forwards the notification to every registered sink and joins their errors.
func (f *Fanout) Notify(ctx context.Context, n Notification) error {
	_, err := f.Deliver(ctx, n)
	return err
}

// Deliver is Notify that also reports how many sinks accepted the notification.
func (f *Fanout) Deliver(ctx context.Context, n Notification) (int, error) {
	if f == nil || len(f.sinks) == 0 {
		return 0, nil
	}

	var errs []error
	successful := 0
	for _, s := range f.sinks {
		if err := s.Notify(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("%s notifier[%s]: %w", s.Type(), s.ID(), err))
		} else {
			successful++
		}
	}
	return successful, errors.Join(errs...)
}

// Size returns the number of active sinks.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.sinks)
}

// Close releases sinks holding connections.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	return closeAll(f.sinks)
}

func closeAll(sinks []Sink) error {
	var errs []error
	for _, s := range sinks {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close notifier[%s]: %w", s.ID(), err))
			}
		}
	}
	return errors.Join(errs...)
}
