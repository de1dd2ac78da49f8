package logger

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	RequestIDHeader = "X-Request-ID"
	contextKey      = "logger"
)

// New builds the process logger. Production emits JSON, everything else
// human-readable console output.
func New(env, level string) (*zap.Logger, error) {
	var logConfig zap.Config
	if env == "production" {
		logConfig = zap.NewProductionConfig()
	} else {
		logConfig = zap.NewDevelopmentConfig()
		logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}
	logConfig.Level.SetLevel(lvl)

	return logConfig.Build()
}

// FromContext returns the request-scoped logger, or a no-op logger when the
// middleware did not run (tests, background jobs).
func FromContext(c echo.Context) *zap.Logger {
	if l, ok := c.Get(contextKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// Middleware tags every request with a request id and writes one access-log
// line when the handler returns.
func Middleware(base *zap.Logger, newID func() string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			requestID := c.Request().Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = newID()
			}
			c.Response().Header().Set(RequestIDHeader, requestID)

			reqLogger := base.With(zap.String("request_id", requestID))
			c.Set(contextKey, reqLogger)

			err := next(c)
			if err != nil {
				// Let echo render the error so the logged status is final.
				c.Error(err)
			}

			fields := []zapcore.Field{
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.String("route", c.Path()),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", c.RealIP()),
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}
			// Inner middleware may already have rendered the error, so the
			// final status decides the level.
			switch status := c.Response().Status; {
			case status >= 500:
				reqLogger.Error("HTTP request failed", fields...)
			case status >= 400:
				reqLogger.Warn("HTTP request failed", fields...)
			default:
				reqLogger.Info("HTTP request completed", fields...)
			}
			return nil
		}
	}
}
