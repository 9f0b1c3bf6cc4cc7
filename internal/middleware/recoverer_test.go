package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/serroba/shortly-go/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecoverer(t *testing.T) {
	t.Run("returns 500 and logs one error when an operation panics", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		router := chi.NewMux()
		api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
		api.UseMiddleware(middleware.Recoverer(api, zap.New(core)))

		huma.Register(api, huma.Operation{
			OperationID: "explode",
			Method:      http.MethodGet,
			Path:        "/explode",
		}, func(_ context.Context, _ *struct{}) (*testOutput, error) {
			panic("boom")
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/explode", nil))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Internal Server Error")

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, zapcore.ErrorLevel, entry.Level)
		assert.Equal(t, "unhandled panic", entry.Message)
		assert.Equal(t, "boom", entry.ContextMap()["panic"])
		assert.Equal(t, "explode", entry.ContextMap()["operation"])
	})

	t.Run("passes through when nothing panics", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		router := chi.NewMux()
		api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
		api.UseMiddleware(middleware.Recoverer(api, zap.New(core)))

		huma.Get(api, "/ok", func(_ context.Context, _ *struct{}) (*testOutput, error) {
			return &testOutput{Body: "ok"}, nil
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, logs.Len())
	})
}
