// app/echoServer/middleware.go
package echoServer

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"rentalhub/app/echoServer/httperr"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func RegisterMiddlewares(e *echo.Echo) {

	e.Use(middleware.Recover())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))

	e.Use(Slog())
}

func Slog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			lat := time.Since(start).Milliseconds()

			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			slog.Info("http",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"latency_ms", lat,
				"req_id", rid,
				"ip", c.RealIP(),
			)
			return err
		}
	}
}

const apiKeyHeader = "X-API-KEY"

// APIKey guards mutating calls; GETs pass through unauthenticated.
// Health and the swagger UI are mounted outside the guarded group.
func APIKey(key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Method == http.MethodGet {
				return next(c)
			}

			got := req.Header.Get(apiKeyHeader)
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				slog.Warn("invalid api key",
					"method", req.Method,
					"path", req.URL.Path,
					"ip", c.RealIP(),
				)
				return httperr.JSON(c, http.StatusUnauthorized, "missing or invalid API key")
			}
			return next(c)
		}
	}
}
