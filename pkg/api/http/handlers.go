package http

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// stateKey extracts the key from the wildcard path parameter. The
// wildcard always carries a leading slash.
func stateKey(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("key"), "/")
}

// handleHealth answers liveness and readiness probes. The in-memory
// fallback keeps the service functional without a sidecar, so there is
// no degraded readiness state to report.
func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// handleGetState handles GET /api/v1/state/{key}.
func (s *Server) handleGetState(c *gin.Context) {
	key := stateKey(c)
	if key == "" {
		c.String(http.StatusBadRequest, "missing key")
		return
	}

	start := time.Now()
	value, ok, err := s.state.GetState(c.Request.Context(), s.storeName, key)
	if err != nil {
		s.metrics.RecordStateOperation("get", "error", time.Since(start))
		s.logger.Error("get state failed", zap.String("key", key), zap.Error(err))
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	if !ok {
		s.metrics.RecordStateOperation("get", "missing", time.Since(start))
		c.String(http.StatusNotFound, "not found")
		return
	}

	s.metrics.RecordStateOperation("get", "ok", time.Since(start))
	c.Data(http.StatusOK, "application/octet-stream", value)
}

// handleSaveState handles POST /api/v1/state/{key}. The raw request
// body is the value; an empty body stores an empty value.
func (s *Server) handleSaveState(c *gin.Context) {
	key := stateKey(c)
	if key == "" {
		c.String(http.StatusBadRequest, "missing key")
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, "unreadable body")
		return
	}

	start := time.Now()
	if err := s.state.SaveState(c.Request.Context(), s.storeName, key, body); err != nil {
		s.metrics.RecordStateOperation("save", "error", time.Since(start))
		s.logger.Error("save state failed", zap.String("key", key), zap.Error(err))
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	s.metrics.RecordStateOperation("save", "ok", time.Since(start))
	c.Status(http.StatusNoContent)
}

// handleDeleteState handles DELETE /api/v1/state/{key}.
func (s *Server) handleDeleteState(c *gin.Context) {
	key := stateKey(c)
	if key == "" {
		c.String(http.StatusBadRequest, "missing key")
		return
	}

	start := time.Now()
	if err := s.state.DeleteState(c.Request.Context(), s.storeName, key); err != nil {
		s.metrics.RecordStateOperation("delete", "error", time.Since(start))
		s.logger.Error("delete state failed", zap.String("key", key), zap.Error(err))
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	s.metrics.RecordStateOperation("delete", "ok", time.Since(start))
	c.Status(http.StatusNoContent)
}
