package shortener

import (
	"errors"
	"time"
)

// DefaultTTL is applied when a link is created without a positive time-to-live.
const DefaultTTL = time.Hour

var (
	// ErrNotFound is returned when an id is unknown or its link has expired.
	ErrNotFound = errors.New("short link not found")

	// ErrGenerationExhausted is returned when no free id could be generated
	// within the configured number of attempts.
	ErrGenerationExhausted = errors.New("short id generation exhausted")
)

// ShortLink maps a short id to its target URL.
type ShortLink struct {
	ID        string
	Target    string
	CreatedAt time.Time
	ExpiresAt time.Time
	Clicks    int64
}

// ExpiredAt reports whether the link is no longer resolvable at now.
// A link is expired from the instant ExpiresAt is reached.
func (l *ShortLink) ExpiredAt(now time.Time) bool {
	return !now.Before(l.ExpiresAt)
}
