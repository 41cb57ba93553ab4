package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/outfit-advisor/internal/domain/outfit"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	advisorSvc outfit.Service
	logger     *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(advisorSvc outfit.Service, logger *slog.Logger) *Handler {
	return &Handler{
		advisorSvc: advisorSvc,
		logger:     logger.With("component", "http.handler"),
	}
}

// Root answers liveness probes.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "outfit advisor is running"})
}

// ChatStream streams outfit advice for the message query parameter using
// Server-Sent Events. Every event is one `data: <json>` frame.
func (h *Handler) ChatStream(c *gin.Context) {
	message := strings.TrimSpace(c.Query("message"))
	if message == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, codeInvalidRequest, "message query parameter is required", nil))
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, codeStreamUnsupported, "streaming not supported", nil))
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Status(http.StatusOK)

	logger := h.logger.With("request_id", requestID(c))
	broken := false
	// The channel is drained to the end even after a failed write; the
	// producer stops once the request context is cancelled.
	for event := range h.advisorSvc.Stream(c.Request.Context(), message) {
		if event.Type == outfit.EventError {
			logger.Error("recommendation failed", "message", event.Message)
		}
		if broken {
			continue
		}
		if err := writeEvent(c.Writer, event); err != nil {
			logger.Warn("write stream event failed", "error", err)
			broken = true
			continue
		}
		flusher.Flush()
	}
}

func writeEvent(w gin.ResponseWriter, event outfit.Event) error {
	var buf bytes.Buffer
	buf.WriteString("data: ")
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(event); err != nil {
		return err
	}
	buf.WriteString("\n")
	_, err := w.Write(buf.Bytes())
	return err
}
