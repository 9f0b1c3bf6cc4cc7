package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

// Recoverer turns a panicking operation into a logged 500 response.
func Recoverer(api huma.API, logger *zap.Logger) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			// net/http uses this panic to abort a response on purpose.
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			fields := []zap.Field{
				zap.String("method", ctx.Method()),
				zap.String("path", ctx.URL().Path),
				zap.String("panic", fmt.Sprint(rec)),
				zap.Stack("stack"),
			}
			if op := ctx.Operation(); op != nil {
				fields = append(fields, zap.String("operation", op.OperationID))
			}

			logger.Error("unhandled panic", fields...)

			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "Internal Server Error")
		}()

		next(ctx)
	}
}
