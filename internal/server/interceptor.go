package server

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	userIDHeader = "X-User-ID"
	userIDKey    = "user_id"
)

// RequestTimeMiddleware logs the time spent on every request.
func RequestTimeMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			logrus.Infof("request time: %s %s: %v", c.Request().Method, c.Path(), time.Since(start))
			return err
		}
	}
}

// UserScopeMiddleware puts the user scope from the X-User-ID header into the context.
// A request without the header works in the single-user scope.
func UserScopeMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(userIDKey, strings.TrimSpace(c.Request().Header.Get(userIDHeader)))
			return next(c)
		}
	}
}

func userID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}
