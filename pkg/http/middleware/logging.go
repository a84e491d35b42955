package middleware

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs HTTP requests. Metrics scrapes and the
// long-lived websocket upgrade are skipped to keep the log readable.
func RequestLogging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.URL.Path == "/metrics" || req.URL.Path == "/ws" {
				return next(c)
			}
			res := c.Response()
			start := time.Now()

			err := next(c)

			latency := time.Since(start)
			log.Printf("[%s] %s %s - %d (%s)",
				req.Method,
				req.URL.Path,
				req.RemoteAddr,
				res.Status,
				latency,
			)

			return err
		}
	}
}
