package handlers_test

import (
	"time"

	"github.com/serroba/shortly-go/internal/shortener"
)

// mockStore lets tests force store failures the in-memory store never produces.
type mockStore struct {
	link       shortener.ShortLink
	createErr  error
	resolveErr error
	exists     bool
	clicks     int64
}

func (m *mockStore) Create(target string, ttl time.Duration) (shortener.ShortLink, error) {
	if m.createErr != nil {
		return shortener.ShortLink{}, m.createErr
	}

	link := m.link
	link.Target = target
	link.ExpiresAt = link.CreatedAt.Add(ttl)

	return link, nil
}

func (m *mockStore) Resolve(_ string) (string, error) {
	if m.resolveErr != nil {
		return "", m.resolveErr
	}

	m.clicks++

	return m.link.Target, nil
}

func (m *mockStore) ClickCount(_ string) int64 {
	return m.clicks
}

func (m *mockStore) Exists(_ string) bool {
	return m.exists
}
