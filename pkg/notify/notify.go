// Package notify holds Notifier implementations that do not need a live
// client connection.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/cbodonnell/twentyone/pkg/effects"
	"github.com/cbodonnell/twentyone/pkg/log"
)

var (
	_ effects.Notifier = &LogNotifier{}
	_ effects.Notifier = Multi{}
)

// LogNotifier writes every effect to the log at debug level.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Announce(ctx context.Context, title, subtitle, message string) error {
	log.Debug("Announcement: %s | %s | %s", title, subtitle, message)
	return nil
}

func (n *LogNotifier) Private(ctx context.Context, recipientID, title, message string) error {
	log.Debug("Private to %s: %s | %s", recipientID, title, message)
	return nil
}

func (n *LogNotifier) CutIn(ctx context.Context, skill, actorID, targetID string, result map[string]interface{}) error {
	log.Debug("Cut-in %s: %s -> %s %v", skill, actorID, targetID, result)
	return nil
}

func (n *LogNotifier) Warn(ctx context.Context, recipientID, message string) error {
	log.Debug("Warning to %s: %s", recipientID, message)
	return nil
}

func (n *LogNotifier) Reveal(ctx context.Context, playerID string, die, value int) error {
	log.Debug("Reveal %s: d%d shows %d", playerID, die, value)
	return nil
}

// Multi delivers each effect to every notifier in turn. A failing notifier
// does not stop the others; their errors are joined.
type Multi []effects.Notifier

func (m Multi) each(name string, fn func(n effects.Notifier) error) error {
	var errs []error
	for i, n := range m {
		if err := fn(n); err != nil {
			errs = append(errs, fmt.Errorf("notifier %d failed to deliver %s: %w", i, name, err))
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Announce(ctx context.Context, title, subtitle, message string) error {
	return m.each("announcement", func(n effects.Notifier) error { return n.Announce(ctx, title, subtitle, message) })
}

func (m Multi) Private(ctx context.Context, recipientID, title, message string) error {
	return m.each("private feedback", func(n effects.Notifier) error { return n.Private(ctx, recipientID, title, message) })
}

func (m Multi) CutIn(ctx context.Context, skill, actorID, targetID string, result map[string]interface{}) error {
	return m.each("cut-in", func(n effects.Notifier) error { return n.CutIn(ctx, skill, actorID, targetID, result) })
}

func (m Multi) Warn(ctx context.Context, recipientID, message string) error {
	return m.each("warning", func(n effects.Notifier) error { return n.Warn(ctx, recipientID, message) })
}

func (m Multi) Reveal(ctx context.Context, playerID string, die, value int) error {
	return m.each("reveal", func(n effects.Notifier) error { return n.Reveal(ctx, playerID, die, value) })
}
