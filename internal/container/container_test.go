package container_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/shortly-go/internal/container"
	"github.com/serroba/shortly-go/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	injector := do.New()
	container.ServerPackages(injector, &container.Options{
		Host:       "localhost",
		Port:       8000,
		BaseURL:    "https://sho.rt/",
		CodeLength: 6,
		DefaultTTL: 3600,
		LogFormat:  "json",
	})

	_ = do.MustInvoke[huma.API](injector)
	group := do.MustInvoke[*messaging.ConsumerGroup](injector)
	require.NoError(t, group.Start(context.Background()))

	srv := httptest.NewServer(do.MustInvoke[*chi.Mux](injector))
	t.Cleanup(func() {
		srv.Close()
		assert.NoError(t, injector.Shutdown())
	})

	return srv
}

func noRedirectClient() *http.Client {
	return &http.Client{
		Timeout: 5 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func TestServer(t *testing.T) {
	srv := newServer(t)
	client := noRedirectClient()

	resp, err := client.Post(srv.URL+"/shorten", "application/json",
		strings.NewReader(`{"url":"https://example.com/landing"}`))
	require.NoError(t, err)

	var created struct {
		Code     string `json:"code"`
		ShortURL string `json:"shortUrl"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Len(t, created.Code, 6)
	assert.Equal(t, "https://sho.rt/"+created.Code, created.ShortURL)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	t.Run("redirects", func(t *testing.T) {
		resp, err := client.Get(srv.URL + "/" + created.Code)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "https://example.com/landing", resp.Header.Get("Location"))
	})

	t.Run("reports health", func(t *testing.T) {
		resp, err := client.Get(srv.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()

		var body struct {
			Status     string            `json:"status"`
			Components map[string]string `json:"components"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

		assert.Equal(t, "healthy", body.Status)
		assert.Equal(t, map[string]string{"routes": "up"}, body.Components)
	})

	t.Run("exposes metrics", func(t *testing.T) {
		resp, err := client.Get(srv.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()

		var sb strings.Builder
		_, err = io.Copy(&sb, resp.Body)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, sb.String(), `shortly_http_requests_total{operation="shorten-url",status="201"} 1`)
		assert.Contains(t, sb.String(), "shortly_links_stored 1")
	})
}

func TestOptions(t *testing.T) {
	opts := &container.Options{Host: "localhost", Port: 9000, DefaultTTL: 90}

	assert.Equal(t, "http://localhost:9000", opts.PublicBaseURL())
	assert.Equal(t, 90*time.Second, opts.LinkTTL())

	assert.Equal(t, "localhost:9000", opts.ListenAddr())

	opts.Host = "0.0.0.0"
	assert.Equal(t, "0.0.0.0:9000", opts.ListenAddr())
	assert.Equal(t, "http://localhost:9000", opts.PublicBaseURL())

	opts.Host = "::"
	assert.Equal(t, "[::]:9000", opts.ListenAddr())
	assert.Equal(t, "http://localhost:9000", opts.PublicBaseURL())

	opts.BaseURL = "https://sho.rt/"
	assert.Equal(t, "https://sho.rt", opts.PublicBaseURL())
}

func TestNewLogger(t *testing.T) {
	logger := container.NewLogger("console", true, "")

	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	file := t.TempDir() + "/shortly.log"
	logger = container.NewLogger("json", false, file)
	logger.Info("written")
	_ = logger.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"written"`)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}
