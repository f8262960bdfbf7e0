// Package announce posts short public messages when an item is hidden or
// found. Announcements are fire-and-forget: callers log failures and move
// on, a dead announcement channel must never block a hunt.
package announce

import (
	"context"
	"time"
)

// Sink is the public-notification channel.
type Sink interface {
	// AnnounceHidden posts that a new item was hidden.
	AnnounceHidden(ctx context.Context, itemName string) error

	// AnnounceFound posts that an item was found.
	AnnounceFound(ctx context.Context, itemName string) error
}

// RequestTimeout bounds each outbound announcement call.
const RequestTimeout = 15 * time.Second

// Noop discards all announcements. Used when no channel is configured.
type Noop struct{}

func (Noop) AnnounceHidden(ctx context.Context, itemName string) error { return nil }
func (Noop) AnnounceFound(ctx context.Context, itemName string) error  { return nil }
