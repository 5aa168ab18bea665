package receipts

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"assettracker-backend/internal/shared/server/middleware"
	"assettracker-backend/internal/shared/server/respond"
)

// Handler exposes document endpoints.
type Handler struct {
	Service *Service
}

// Register mounts the document routes on an authenticated group.
func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/receipts/upload", h.upload)
	r.GET("/receipts", h.list)
	r.POST("/receipts/link", h.link)
	r.GET("/receipts/view/:id", h.view)
	r.GET("/receipts/download/:id", h.download)
	r.GET("/receipts/:id/download", h.download)
	r.DELETE("/receipts/:id", h.delete)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	externalID := middleware.ExternalIDFromContext(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_body", "multipart field 'file' is required", nil)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_body", "failed to read uploaded file", nil)
		return
	}
	defer f.Close()

	result, err := h.Service.Upload(c.Request.Context(), userID, externalID, Upload{
		OriginalName: fileHeader.Filename,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		Size:         fileHeader.Size,
		DocumentType: c.PostForm("documentType"),
		Body:         f,
	})
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			respond.Error(c, http.StatusBadRequest, "validation_failed", verr.Error(), gin.H{"field": verr.Field})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store document", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"success": true, "data": toUploadResponse(result)})
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	items, err := h.Service.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}

	out := make([]Response, 0, len(items))
	for _, receipt := range items {
		out = append(out, toResponse(receipt))
	}
	respond.OK(c, gin.H{"success": true, "data": out})
}

func (h *Handler) link(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req LinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_body", "request body must be valid JSON", nil)
		return
	}
	if req.AssetID <= 0 || req.DocumentID <= 0 {
		respond.Error(c, http.StatusBadRequest, "validation_failed", "assetId and documentId are required", nil)
		return
	}

	link, err := h.Service.Link(c.Request.Context(), userID, req.AssetID, req.DocumentID)
	if err != nil {
		switch {
		case errors.Is(err, ErrAssetNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "asset not found", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, ErrAlreadyLinked):
			respond.Error(c, http.StatusConflict, "conflict", "document already linked to asset", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to link document", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"success": true, "data": LinkResponse{
		ID:         link.ID,
		AssetID:    link.AssetID,
		DocumentID: link.DocumentID,
	}})
}

func (h *Handler) view(c *gin.Context) {
	h.signedURL(c, func(userID, receiptID int64) (string, error) {
		return h.Service.ViewURL(c.Request.Context(), userID, receiptID)
	})
}

func (h *Handler) download(c *gin.Context) {
	h.signedURL(c, func(userID, receiptID int64) (string, error) {
		return h.Service.DownloadURL(c.Request.Context(), userID, receiptID)
	})
}

func (h *Handler) signedURL(c *gin.Context, fn func(userID, receiptID int64) (string, error)) {
	userID := middleware.UserIDFromContext(c)
	receiptID, ok := pathID(c)
	if !ok {
		return
	}

	url, err := fn(userID, receiptID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to sign document URL", nil)
		return
	}
	respond.OK(c, gin.H{"success": true, "data": gin.H{"url": url}})
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	receiptID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Service.Delete(c.Request.Context(), userID, receiptID); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete document", nil)
		return
	}
	respond.OK(c, gin.H{"success": true, "data": gin.H{"deleted": true}})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusBadRequest, "invalid_id", "id must be a positive integer", nil)
		return 0, false
	}
	return id, true
}
