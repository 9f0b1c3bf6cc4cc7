package handlers

import (
	"time"

	"github.com/serroba/shortly-go/internal/shortener"
)

// LinkStore is the short link table the handlers read from and write to.
type LinkStore interface {
	Create(target string, ttl time.Duration) (shortener.ShortLink, error)
	Resolve(id string) (string, error)
	ClickCount(id string) int64
	Exists(id string) bool
}
