package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/rs/zerolog"
)

// RequestLogger writes one line per handled request. Responses of 400 and
// above are logged at warn level.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx *echo.Context) error {
			start := time.Now()

			err := next(ctx)

			status := http.StatusOK
			size := int64(0)

			if res, unwrapErr := echo.UnwrapResponse(ctx.Response()); unwrapErr == nil && res != nil {
				status = res.Status
				size = res.Size
			}

			req := ctx.Request()
			event := log.Info()

			if err != nil || status >= http.StatusBadRequest {
				event = log.Warn().Err(err)
			}

			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", status).
				Int64("size", size).
				Dur("latency", time.Since(start)).
				Str("user_agent", req.UserAgent()).
				Str("request_id", GetRequestID(ctx)).
				Msg("The mock API has handled a request")

			return err
		}
	}
}
