package assets

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"assettracker-backend/internal/shared/server/middleware"
	"assettracker-backend/internal/shared/server/respond"
)

// Handler exposes asset endpoints.
type Handler struct {
	Service *Service
}

// Register mounts the asset routes on an authenticated group.
func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/assets", h.list)
	r.POST("/assets", h.create)
	r.GET("/assets/:id", h.get)
	r.PUT("/assets/:id", h.update)
	r.DELETE("/assets/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	items, err := h.Service.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list assets", nil)
		return
	}

	out := make([]Response, 0, len(items))
	for _, item := range items {
		out = append(out, toResponse(item.Asset, item.Documents))
	}
	respond.OK(c, gin.H{"success": true, "data": out})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	assetID, ok := pathID(c)
	if !ok {
		return
	}

	asset, docs, err := h.Service.GetWithDocuments(c.Request.Context(), userID, assetID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "asset not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load asset", nil)
		return
	}
	respond.OK(c, gin.H{"success": true, "data": toResponse(asset, docs)})
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_body", "request body must be valid JSON", nil)
		return
	}

	asset, err := h.Service.Create(c.Request.Context(), userID, req)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			respond.Error(c, http.StatusBadRequest, "validation_failed", verr.Error(), gin.H{"field": verr.Field})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create asset", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"success": true, "data": toResponse(asset, nil)})
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	assetID, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_body", "request body must be valid JSON", nil)
		return
	}

	asset, err := h.Service.Update(c.Request.Context(), userID, assetID, req)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			respond.Error(c, http.StatusBadRequest, "validation_failed", verr.Error(), gin.H{"field": verr.Field})
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "asset not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update asset", nil)
		}
		return
	}
	respond.OK(c, gin.H{"success": true, "data": toResponse(asset, nil)})
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	assetID, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.Service.Delete(c.Request.Context(), userID, assetID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "asset not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete asset", nil)
		return
	}
	respond.OK(c, gin.H{
		"success": true,
		"data": gin.H{
			"deletedObjects":   result.DeletedObjects,
			"deletedDocuments": result.DeletedDocuments,
		},
	})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusBadRequest, "invalid_id", "id must be a positive integer", nil)
		return 0, false
	}
	return id, true
}
