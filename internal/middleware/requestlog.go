package middleware

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/serroba/shortly-go/internal/messaging"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestLogger assigns every request an id, echoes it in the response and
// logs the outcome once the handler returns.
func RequestLogger(logger *zap.Logger) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()

		requestID := ctx.Header(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx.SetHeader(RequestIDHeader, requestID)
		ctx = huma.WithContext(ctx, messaging.ContextWithCorrelationID(ctx.Context(), requestID))

		next(ctx)

		status := ctx.Status()
		fields := []zap.Field{
			zap.String("requestId", requestID),
			zap.String("method", ctx.Method()),
			zap.String("path", ctx.URL().Path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
		}

		if op := ctx.Operation(); op != nil {
			fields = append(fields, zap.String("operation", op.OperationID))
		}

		switch {
		case status >= 500:
			logger.Error("request failed", fields...)
		case status >= 400:
			logger.Warn("request rejected", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}
