// Package middleware holds the echo middleware of the mock API server.
package middleware

import (
	"github.com/labstack/echo/v5"
)

const (
	ContextKeyRequestID = "requestID"
	HeaderXRequestID    = "X-Request-ID"
)

func GetRequestID(c *echo.Context) string {
	if requestID, ok := c.Get(ContextKeyRequestID).(string); ok {
		return requestID
	}

	return ""
}
