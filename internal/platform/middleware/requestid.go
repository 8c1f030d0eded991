// Package middleware carries the HTTP cross-cutting concerns of the console
// server: request identification, structured request logging, panic
// recovery, per-client rate limiting and request deadlines.
package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDHeader echoes the assigned id back to the caller so it can be
// quoted in support requests.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns each request a uuid, honoring one supplied by the
// caller. Downstream middleware reads it via c.Get("request_id").
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(RequestIDHeader)
			if rid == "" {
				rid = uuid.New().String()
			}
			c.Set("request_id", rid)
			c.Response().Header().Set(RequestIDHeader, rid)
			return next(c)
		}
	}
}
