package analytics

import "time"

const (
	// TopicLinkCreated carries LinkCreatedEvent payloads.
	TopicLinkCreated = "link.created"
	// TopicLinkResolved carries LinkResolvedEvent payloads.
	TopicLinkResolved = "link.resolved"
)

// LinkCreatedEvent represents an event emitted when a short link is returned from /shorten.
type LinkCreatedEvent struct {
	Code      string    `json:"code"`
	Target    string    `json:"target"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
}

// LinkResolvedEvent represents an event emitted when a short link is resolved.
type LinkResolvedEvent struct {
	Code       string    `json:"code"`
	ResolvedAt time.Time `json:"resolvedAt"`
	ClientIP   string    `json:"clientIp"`
	UserAgent  string    `json:"userAgent"`
	Referrer   string    `json:"referrer"`
}
