package middleware

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// RequestObserver receives one observation per served request.
type RequestObserver interface {
	ObserveRequest(operation string, status int, elapsed time.Duration)
}

// Metrics reports each request to observer, labelled by operation id.
func Metrics(observer RequestObserver) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()

		next(ctx)

		operation := "unknown"
		if op := ctx.Operation(); op != nil && op.OperationID != "" {
			operation = op.OperationID
		}

		observer.ObserveRequest(operation, ctx.Status(), time.Since(start))
	}
}
