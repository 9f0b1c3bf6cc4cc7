package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortly-go/internal/messaging"
	"github.com/serroba/shortly-go/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger(t *testing.T) {
	t.Run("logs completed requests and propagates the request id", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		router, api := setupTestAPI(t, middleware.RequestLogger(zap.New(core)))
		ids := make(chan string, 1)

		huma.Get(api, "/test", func(ctx context.Context, _ *struct{}) (*testOutput, error) {
			ids <- messaging.CorrelationIDFromContext(ctx)

			return &testOutput{Body: "ok"}, nil
		})

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(middleware.RequestIDHeader, "req-123")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "req-123", w.Header().Get(middleware.RequestIDHeader))
		assert.Equal(t, "req-123", <-ids)

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, "request completed", entry.Message)
		assert.Equal(t, "req-123", entry.ContextMap()["requestId"])
		assert.Equal(t, "/test", entry.ContextMap()["path"])
		assert.EqualValues(t, http.StatusOK, entry.ContextMap()["status"])
	})

	t.Run("generates an id when none is sent", func(t *testing.T) {
		router, api := setupTestAPI(t, middleware.RequestLogger(zap.NewNop()))

		huma.Get(api, "/test", func(_ context.Context, _ *struct{}) (*testOutput, error) {
			return &testOutput{Body: "ok"}, nil
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Len(t, w.Header().Get(middleware.RequestIDHeader), 36)
	})

	t.Run("logs client errors as warnings", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		router, api := setupTestAPI(t, middleware.RequestLogger(zap.New(core)))

		huma.Get(api, "/missing", func(_ context.Context, _ *struct{}) (*testOutput, error) {
			return nil, huma.Error404NotFound("short link not found")
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

		require.Equal(t, http.StatusNotFound, w.Code)
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
	})
}

type recordingObserver struct {
	operation string
	status    int
	elapsed   time.Duration
	calls     int
}

func (r *recordingObserver) ObserveRequest(operation string, status int, elapsed time.Duration) {
	r.operation = operation
	r.status = status
	r.elapsed = elapsed
	r.calls++
}

func TestMetrics(t *testing.T) {
	obs := &recordingObserver{}
	router, api := setupTestAPI(t, middleware.Metrics(obs))

	huma.Register(api, huma.Operation{
		OperationID:   "create-thing",
		Method:        http.MethodPost,
		Path:          "/things",
		DefaultStatus: http.StatusCreated,
	}, func(_ context.Context, _ *struct{}) (*testOutput, error) {
		return &testOutput{Body: "ok"}, nil
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/things", nil))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, obs.calls)
	assert.Equal(t, "create-thing", obs.operation)
	assert.Equal(t, http.StatusCreated, obs.status)
	assert.GreaterOrEqual(t, obs.elapsed, time.Duration(0))
}
