package analytics_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/serroba/shortly-go/internal/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSubscriber struct {
	createdChan  chan *message.Message
	resolvedChan chan *message.Message
	subscribeErr error
	mu           sync.Mutex
	closed       bool
}

func newMockSubscriber() *mockSubscriber {
	return &mockSubscriber{
		createdChan:  make(chan *message.Message, 10),
		resolvedChan: make(chan *message.Message, 10),
	}
}

func (m *mockSubscriber) Subscribe(_ context.Context, topic string) (<-chan *message.Message, error) {
	if m.subscribeErr != nil {
		return nil, m.subscribeErr
	}

	switch topic {
	case analytics.TopicLinkCreated:
		return m.createdChan, nil
	case analytics.TopicLinkResolved:
		return m.resolvedChan, nil
	default:
		return nil, errors.New("unknown topic")
	}
}

func (m *mockSubscriber) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.createdChan)
		close(m.resolvedChan)
	}

	return nil
}

type mockStore struct {
	createdEvents   []*analytics.LinkCreatedEvent
	resolvedEvents  []*analytics.LinkResolvedEvent
	saveCreatedErr  error
	saveResolvedErr error
	mu              sync.Mutex
}

func (m *mockStore) SaveLinkCreated(_ context.Context, event *analytics.LinkCreatedEvent) error {
	if m.saveCreatedErr != nil {
		return m.saveCreatedErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.createdEvents = append(m.createdEvents, event)

	return nil
}

func (m *mockStore) SaveLinkResolved(_ context.Context, event *analytics.LinkResolvedEvent) error {
	if m.saveResolvedErr != nil {
		return m.saveResolvedErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.resolvedEvents = append(m.resolvedEvents, event)

	return nil
}

func newMessage(t *testing.T, event any) *message.Message {
	t.Helper()

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	return message.NewMessage(uuid.NewString(), payload)
}

func waitAck(t *testing.T, msg *message.Message) {
	t.Helper()

	select {
	case <-msg.Acked():
	case <-msg.Nacked():
		t.Fatal("message was nacked")
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for ack")
	}
}

func waitNack(t *testing.T, msg *message.Message) {
	t.Helper()

	select {
	case <-msg.Nacked():
	case <-msg.Acked():
		t.Fatal("message should have been nacked")
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for nack")
	}
}

func TestNewConsumerGroup(t *testing.T) {
	t.Run("stores link created events", func(t *testing.T) {
		sub := newMockSubscriber()
		store := &mockStore{}
		group := analytics.NewConsumerGroup(sub, store, zap.NewNop())

		require.NoError(t, group.Start(context.Background()))

		msg := newMessage(t, &analytics.LinkCreatedEvent{
			Code:      "abc123",
			Target:    "https://example.com",
			CreatedAt: time.Now(),
			ExpiresAt: time.Now().Add(time.Hour),
		})
		sub.createdChan <- msg

		waitAck(t, msg)

		store.mu.Lock()
		assert.Len(t, store.createdEvents, 1)
		assert.Equal(t, "https://example.com", store.createdEvents[0].Target)
		store.mu.Unlock()

		require.NoError(t, group.Shutdown())
	})

	t.Run("stores link resolved events", func(t *testing.T) {
		sub := newMockSubscriber()
		store := &mockStore{}
		group := analytics.NewConsumerGroup(sub, store, zap.NewNop())

		require.NoError(t, group.Start(context.Background()))

		msg := newMessage(t, &analytics.LinkResolvedEvent{
			Code:       "abc123",
			ResolvedAt: time.Now(),
			ClientIP:   "127.0.0.1",
		})
		sub.resolvedChan <- msg

		waitAck(t, msg)

		store.mu.Lock()
		assert.Len(t, store.resolvedEvents, 1)
		assert.Equal(t, "127.0.0.1", store.resolvedEvents[0].ClientIP)
		store.mu.Unlock()

		require.NoError(t, group.Shutdown())
	})

	t.Run("nacks when the store fails", func(t *testing.T) {
		sub := newMockSubscriber()
		store := &mockStore{saveResolvedErr: errors.New("store error")}
		group := analytics.NewConsumerGroup(sub, store, zap.NewNop())

		require.NoError(t, group.Start(context.Background()))

		msg := newMessage(t, &analytics.LinkResolvedEvent{Code: "abc123"})
		sub.resolvedChan <- msg

		waitNack(t, msg)

		require.NoError(t, group.Shutdown())
	})

	t.Run("fails to start when subscribing fails", func(t *testing.T) {
		sub := &mockSubscriber{subscribeErr: errors.New("subscribe error")}
		group := analytics.NewConsumerGroup(sub, &mockStore{}, zap.NewNop())

		err := group.Start(context.Background())

		assert.Error(t, err)
	})
}
