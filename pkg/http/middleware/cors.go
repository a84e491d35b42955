package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
	MaxAge       int
}

// CORS returns CORS middleware.
func CORS(cfg CORSConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			origin := c.Request().Header.Get("Origin")

			if len(cfg.AllowOrigins) > 0 {
				allowed := false
				for _, o := range cfg.AllowOrigins {
					if o == "*" || o == origin {
						allowed = true
						break
					}
				}
				if !allowed {
					return next(c)
				}
			}

			if origin != "" {
				c.Response().Header().Set("Access-Control-Allow-Origin", origin)
			} else if len(cfg.AllowOrigins) > 0 && cfg.AllowOrigins[0] == "*" {
				c.Response().Header().Set("Access-Control-Allow-Origin", "*")
			}

			if len(cfg.AllowMethods) > 0 {
				c.Response().Header().Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowMethods, ", "))
			}

			if len(cfg.AllowHeaders) > 0 {
				c.Response().Header().Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowHeaders, ", "))
			}

			// Handle preflight
			if c.Request().Method == http.MethodOptions {
				if cfg.MaxAge > 0 {
					c.Response().Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				}
				return c.NoContent(http.StatusNoContent)
			}

			return next(c)
		}
	}
}
