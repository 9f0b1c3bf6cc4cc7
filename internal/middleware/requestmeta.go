package middleware

import (
	"net"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/shortly-go/internal/handlers"
)

// RequestMeta adds client IP, user-agent, and referrer to the request context.
func RequestMeta(ctx huma.Context, next func(huma.Context)) {
	meta := handlers.RequestMeta{
		ClientIP:  clientIP(ctx),
		UserAgent: ctx.Header("User-Agent"),
		Referrer:  ctx.Header("Referer"),
	}

	next(huma.WithContext(ctx, handlers.ContextWithRequestMeta(ctx.Context(), meta)))
}

// clientIP prefers proxy headers over the socket address.
func clientIP(ctx huma.Context) string {
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")

		return strings.TrimSpace(first)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	addr := ctx.RemoteAddr()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}

	return addr
}
