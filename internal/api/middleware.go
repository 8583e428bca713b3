package api

import (
	"errors"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"alcyxob/fitness-planner/internal/errs"
	"alcyxob/fitness-planner/internal/repository"
	"alcyxob/fitness-planner/internal/service"
	"alcyxob/fitness-planner/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Kind   errs.Kind         `json:"kind,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// RequestLogger logs one line per request. Bodies are never logged: they carry
// health data and image payloads.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("dur", time.Since(start)),
			zap.String("client", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.Last().Error()))
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}

// Recovery turns a handler panic into a 500 and logs the stack.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.String("path", c.Request.URL.Path),
					zap.Any("reason", r),
					zap.ByteString("stack", debug.Stack()),
				)
				abortWithError(c, http.StatusInternalServerError, "Internal server error")
			}
		}()
		c.Next()
	}
}

// WithCORS wraps the router with the CORS policy for the web client.
func WithCORS(h http.Handler, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"https://*", "http://*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Retry-After"},
		MaxAge:         300,
	})(h)
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: message})
}

// respondError maps a service error to a status code and a user-facing message.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, errs.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		abortWithError(c, http.StatusNotFound, capitalize(err.Error()))
		return
	case errors.Is(err, service.ErrDayOutOfRange):
		abortWithError(c, http.StatusBadRequest, "Day index is out of range")
		return
	case errors.Is(err, service.ErrNoPreferences):
		abortWithError(c, http.StatusUnprocessableEntity, "This plan cannot be regenerated: it has no stored preferences")
		return
	case errors.Is(err, service.ErrArchiveDisabled):
		abortWithError(c, http.StatusNotFound, "Image archive is not configured")
		return
	case errors.Is(err, storage.ErrInvalidObjectKey):
		abortWithError(c, http.StatusBadRequest, "Invalid image key")
		return
	}

	var e *errs.Error
	if !errors.As(err, &e) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error: errs.UserMessage(err),
			Kind:  errs.KindUnknown,
		})
		return
	}

	code := http.StatusInternalServerError
	switch e.Kind {
	case errs.KindValidation:
		code = http.StatusBadRequest
	case errs.KindMissingCredential:
		code = http.StatusPreconditionFailed
	case errs.KindRateLimited:
		code = http.StatusTooManyRequests
		if e.RetryAfter > 0 {
			secs := int((e.RetryAfter + time.Second - 1) / time.Second)
			c.Header("Retry-After", strconv.Itoa(secs))
		}
	case errs.KindInvalidCredential:
		code = http.StatusUnauthorized
	case errs.KindMalformedResponse, errs.KindNoContent:
		code = http.StatusBadGateway
	}
	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:  errs.UserMessage(err),
		Kind:   e.Kind,
		Fields: e.Fields,
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
