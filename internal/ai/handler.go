package ai

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"assettracker-backend/internal/shared/server/respond"
)

// Handler exposes the extraction endpoints.
type Handler struct {
	Extractor      *Extractor
	MaxUploadBytes int64
}

// Register mounts the AI routes. The health probe stays outside auth so
// uptime checks work without a token.
func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/ai/parse-receipt", h.parseReceipt)
}

// RegisterHealth mounts the unauthenticated health probe.
func (h *Handler) RegisterHealth(r gin.IRoutes) {
	r.GET("/ai/health", h.health)
}

func (h *Handler) health(c *gin.Context) {
	respond.OK(c, gin.H{
		"status":          "healthy",
		"service":         "receipt extraction",
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
		"parserAvailable": h.Extractor != nil && h.Extractor.Invoker != nil,
	})
}

func (h *Handler) parseReceipt(c *gin.Context) {
	if h.Extractor == nil || h.Extractor.Invoker == nil {
		respond.Error(c, http.StatusServiceUnavailable, "unavailable", "receipt extraction is not configured", nil)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_body", "multipart field 'file' is required", nil)
		return
	}
	if h.MaxUploadBytes > 0 && fileHeader.Size > h.MaxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_failed",
			fmt.Sprintf("file exceeds %d byte limit", h.MaxUploadBytes), nil)
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if !supportedMimeType(mimeType) {
		respond.Error(c, http.StatusBadRequest, "validation_failed",
			fmt.Sprintf("unsupported content type %q", mimeType), nil)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_body", "failed to read uploaded file", nil)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_body", "failed to read uploaded file", nil)
		return
	}

	result := h.Extractor.Extract(c.Request.Context(), data, mimeType)

	extractedText := result.RawText
	if len(extractedText) > 500 {
		extractedText = extractedText[:500] + "..."
	}
	respond.OK(c, gin.H{
		"success":       true,
		"data":          result.Fields,
		"extractedText": extractedText,
	})
}

func supportedMimeType(mimeType string) bool {
	return mimeType == "application/pdf" || strings.HasPrefix(mimeType, "image/")
}
