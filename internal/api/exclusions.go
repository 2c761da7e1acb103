package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/pie/internal/preferences"
)

// ExclusionRequest names one exclusion path, or several for a multi-selection removal
type ExclusionRequest struct {
	Path  string   `json:"path"`
	Paths []string `json:"paths,omitempty"`
}

// ExclusionListResponse represents the exclusion list
type ExclusionListResponse struct {
	Exclusions []string `json:"exclusions"`
}

// selection returns the paths named by the request
func (r ExclusionRequest) selection() []string {
	if len(r.Paths) > 0 {
		return r.Paths
	}
	if r.Path != "" {
		return []string{r.Path}
	}
	return nil
}

// ListExclusions handles GET /api/settings/exclusions
func (h *SettingsHandler) ListExclusions(c *gin.Context) {
	exclusions, err := h.service.Exclusions()
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ExclusionListResponse{Exclusions: exclusions})
}

// AddExclusion handles POST /api/settings/exclusions
func (h *SettingsHandler) AddExclusion(c *gin.Context) {
	var req ExclusionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.AddExclusion(ctx, req.Path); err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.respondWithExclusions(c, http.StatusCreated)
}

// RemoveExclusions handles DELETE /api/settings/exclusions
func (h *SettingsHandler) RemoveExclusions(c *gin.Context) {
	var req ExclusionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	paths := req.selection()
	if !preferences.ExclusionSelection(len(paths)).AllowRemove {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "empty_selection",
			Message: "Select at least one path to remove",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.RemoveExclusions(ctx, paths); err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.respondWithExclusions(c, http.StatusOK)
}

// GetSelection handles GET /api/settings/exclusions/selection?count=N
func (h *SettingsHandler) GetSelection(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("count", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_count",
			Message: "count must be an integer",
		})
		return
	}

	c.JSON(http.StatusOK, h.service.ExclusionSelection(count))
}

func (h *SettingsHandler) respondWithExclusions(c *gin.Context, status int) {
	exclusions, err := h.service.Exclusions()
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(status, ExclusionListResponse{Exclusions: exclusions})
}
