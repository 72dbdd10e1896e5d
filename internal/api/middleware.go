package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"triance/backend/internal/logger"
	"triance/backend/internal/service"
)

// Error codes that do not come from a service.Kind.
const (
	errBadRequest         = "bad_request"
	errInternal           = "internal_error"
	errStorageUnavailable = "storage_unavailable"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// RequestLogger logs one line per request once the handler chain has run.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if log == nil {
			return
		}

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []interface{}{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "error", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

// CORS allows the web frontend at origins to call the API. An empty list
// allows any origin without credentials.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowOrigins = nil
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	}
	return cors.New(cfg)
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, kind, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: kind, Detail: message})
}

// respondError maps a service failure onto its status code. Errors outside
// the service taxonomy are logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	switch kind := service.KindOf(err); kind {
	case service.KindNotFound:
		abortWithError(c, http.StatusNotFound, string(kind), err.Error())
	case service.KindConflict:
		abortWithError(c, http.StatusConflict, string(kind), err.Error())
	case service.KindValidation:
		abortWithError(c, http.StatusUnprocessableEntity, string(kind), err.Error())
	default:
		if errors.Is(err, service.ErrStorageUnavailable) {
			abortWithError(c, http.StatusServiceUnavailable, errStorageUnavailable, err.Error())
			return
		}
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, errInternal, "Internal Server Error")
	}
}

// bindJSON decodes the body into req. A field holding a value of the wrong
// type (a fractional rep count, a string weight, an unparsable timestamp)
// answers 422. Syntax errors, an empty body or a body of the wrong shape
// answer 400.
func bindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var (
		typeErr *json.UnmarshalTypeError
		timeErr *time.ParseError
	)
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		abortWithError(c, http.StatusUnprocessableEntity, string(service.KindValidation),
			fmt.Sprintf("%s: expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value))
	case errors.As(err, &timeErr):
		abortWithError(c, http.StatusUnprocessableEntity, string(service.KindValidation), "invalid timestamp: "+timeErr.Error())
	default:
		abortWithError(c, http.StatusBadRequest, errBadRequest, "Invalid request body: "+err.Error())
	}
	return false
}

// uuidParam parses the named path parameter, answering 422 when it is not
// a UUID.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusUnprocessableEntity, string(service.KindValidation), "invalid "+name+": must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}
