package reminders

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"assettracker-backend/internal/shared/server/middleware"
	"assettracker-backend/internal/shared/server/respond"
)

// Handler exposes reminder endpoints.
type Handler struct {
	Service *Service
}

// Register mounts the reminder routes on an authenticated group.
// /reminders/upcoming must be declared before /reminders/:id so gin does not
// treat "upcoming" as an id.
func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/reminders", h.list)
	r.GET("/reminders/upcoming", h.upcoming)
	r.POST("/reminders", h.create)
	r.GET("/reminders/:id", h.get)
	r.PUT("/reminders/:id", h.update)
	r.POST("/reminders/:id/complete", h.complete)
	r.DELETE("/reminders/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	items, err := h.Service.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list reminders", nil)
		return
	}
	respond.OK(c, gin.H{"success": true, "data": toResponses(items)})
}

func (h *Handler) upcoming(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	items, err := h.Service.Upcoming(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list upcoming reminders", nil)
		return
	}
	respond.OK(c, gin.H{"success": true, "data": toResponses(items)})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	reminderID, ok := pathID(c)
	if !ok {
		return
	}

	reminder, err := h.Service.Get(c.Request.Context(), userID, reminderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "reminder not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load reminder", nil)
		return
	}
	respond.OK(c, gin.H{"success": true, "data": toResponse(reminder)})
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_body", "request body must be valid JSON", nil)
		return
	}

	reminder, err := h.Service.Create(c.Request.Context(), userID, req)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			respond.Error(c, http.StatusBadRequest, "validation_failed", verr.Error(), gin.H{"field": verr.Field})
		case errors.Is(err, ErrAssetNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "linked asset not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create reminder", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"success": true, "data": toResponse(reminder)})
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	reminderID, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_body", "request body must be valid JSON", nil)
		return
	}

	reminder, err := h.Service.Update(c.Request.Context(), userID, reminderID, req)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			respond.Error(c, http.StatusBadRequest, "validation_failed", verr.Error(), gin.H{"field": verr.Field})
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "reminder not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update reminder", nil)
		}
		return
	}
	respond.OK(c, gin.H{"success": true, "data": toResponse(reminder)})
}

func (h *Handler) complete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	reminderID, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.Service.Complete(c.Request.Context(), userID, reminderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "reminder not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to complete reminder", nil)
		return
	}

	payload := gin.H{"reminder": toResponse(result.Completed)}
	if result.Next != nil {
		payload["nextReminder"] = toResponse(*result.Next)
	}
	respond.OK(c, gin.H{"success": true, "data": payload})
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	reminderID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Service.Delete(c.Request.Context(), userID, reminderID); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "reminder not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete reminder", nil)
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
