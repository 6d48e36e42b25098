// Package effects describes the presentation side effects a committed game
// transition asks for. The game returns them; a dispatcher executes them.
package effects

import (
	"context"
	"fmt"
	"time"
)

type Kind string

const (
	KindAnnouncement    Kind = "announcement"
	KindPrivateFeedback Kind = "private"
	KindSkillCutIn      Kind = "cutin"
	KindWarning         Kind = "warning"
	KindRevealRoll      Kind = "reveal"
)

// Effect is a single fire-and-forget presentation event. Which fields are
// set depends on Kind.
type Effect struct {
	Kind Kind `json:"kind"`

	// RecipientID addresses private feedback and warnings
	RecipientID string `json:"recipientId,omitempty"`
	Title       string `json:"title,omitempty"`
	Subtitle    string `json:"subtitle,omitempty"`
	Message     string `json:"message,omitempty"`

	// Skill cut-ins
	Skill    string                 `json:"skill,omitempty"`
	ActorID  string                 `json:"actorId,omitempty"`
	TargetID string                 `json:"targetId,omitempty"`
	Result   map[string]interface{} `json:"result,omitempty"`

	// Reveals
	PlayerID string `json:"playerId,omitempty"`
	Die      int    `json:"die,omitempty"`
	Value    int    `json:"value,omitempty"`
	// Delay is waited before the reveal is shown
	Delay time.Duration `json:"-"`
}

// Public reports whether every participant may observe the effect.
func (e Effect) Public() bool {
	return e.Kind != KindPrivateFeedback && e.Kind != KindWarning
}

func Announcement(title, subtitle, message string) Effect {
	return Effect{Kind: KindAnnouncement, Title: title, Subtitle: subtitle, Message: message}
}

func Private(recipientID, title, message string) Effect {
	return Effect{Kind: KindPrivateFeedback, RecipientID: recipientID, Title: title, Message: message}
}

func CutIn(skill, actorID, targetID string, result map[string]interface{}) Effect {
	return Effect{Kind: KindSkillCutIn, Skill: skill, ActorID: actorID, TargetID: targetID, Result: result}
}

func Warning(recipientID, message string) Effect {
	return Effect{Kind: KindWarning, RecipientID: recipientID, Message: message}
}

func Reveal(playerID string, die, value int, delay time.Duration) Effect {
	return Effect{Kind: KindRevealRoll, PlayerID: playerID, Die: die, Value: value, Delay: delay}
}

// Notifier is the presentation collaborator.
type Notifier interface {
	Announce(ctx context.Context, title, subtitle, message string) error
	Private(ctx context.Context, recipientID, title, message string) error
	CutIn(ctx context.Context, skill, actorID, targetID string, result map[string]interface{}) error
	Warn(ctx context.Context, recipientID, message string) error
	Reveal(ctx context.Context, playerID string, die, value int) error
}

// Deliver hands one effect to the notifier, waiting out any reveal delay.
func Deliver(ctx context.Context, n Notifier, e Effect) error {
	switch e.Kind {
	case KindAnnouncement:
		return n.Announce(ctx, e.Title, e.Subtitle, e.Message)
	case KindPrivateFeedback:
		return n.Private(ctx, e.RecipientID, e.Title, e.Message)
	case KindSkillCutIn:
		return n.CutIn(ctx, e.Skill, e.ActorID, e.TargetID, e.Result)
	case KindWarning:
		return n.Warn(ctx, e.RecipientID, e.Message)
	case KindRevealRoll:
		if e.Delay > 0 {
			timer := time.NewTimer(e.Delay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
		return n.Reveal(ctx, e.PlayerID, e.Die, e.Value)
	default:
		return fmt.Errorf("unknown effect kind: %s", e.Kind)
	}
}
