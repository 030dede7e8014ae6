package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
)

type RequestIDConfig struct {
	Skipper   middleware.Skipper
	Generator func() string
	// Validator rejects malformed incoming ids with 400. Nil accepts any id.
	Validator func(string) error
}

func DefaultRequestIDConfig() RequestIDConfig {
	return RequestIDConfig{
		Skipper:   middleware.DefaultSkipper,
		Generator: uuid.NewString,
		Validator: nil,
	}
}

// RequestID echoes the caller's X-Request-ID back on the response and
// generates one when the request carries none.
func RequestID(skipper middleware.Skipper) echo.MiddlewareFunc {
	config := DefaultRequestIDConfig()
	if skipper != nil {
		config.Skipper = skipper
	}

	return RequestIDWithConfig(config)
}

func RequestIDWithConfig(config RequestIDConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = middleware.DefaultSkipper
	}

	if config.Generator == nil {
		config.Generator = uuid.NewString
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx *echo.Context) error {
			if config.Skipper(ctx) {
				return next(ctx)
			}

			req := ctx.Request()
			rid := strings.TrimSpace(req.Header.Get(HeaderXRequestID))

			switch {
			case rid == "":
				rid = config.Generator()
				req.Header.Set(HeaderXRequestID, rid)
			case config.Validator != nil:
				if err := config.Validator(rid); err != nil {
					return echo.NewHTTPError(
						http.StatusBadRequest,
						fmt.Sprintf("invalid %s: %v", HeaderXRequestID, err),
					)
				}
			}

			ctx.Response().Header().Set(HeaderXRequestID, rid)
			ctx.Set(ContextKeyRequestID, rid)

			return next(ctx)
		}
	}
}
