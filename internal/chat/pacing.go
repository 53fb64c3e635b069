package chat

import (
	"context"
	"time"
)

// Pacing holds the cosmetic delays before a reply appears: a pause before
// the typing indicator shows, then the typing time.
type Pacing struct {
	BeforeTyping time.Duration
	Typing       time.Duration
}

// DefaultPacing matches the web chat: 500ms, then 1.5s of typing.
func DefaultPacing() Pacing {
	return Pacing{BeforeTyping: 500 * time.Millisecond, Typing: 1500 * time.Millisecond}
}

// Total is the full delay before a reply is shown.
func (p Pacing) Total() time.Duration {
	return p.BeforeTyping + p.Typing
}

// Wait blocks for the full delay or until ctx is done.
func (p Pacing) Wait(ctx context.Context) error {
	d := p.Total()
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
