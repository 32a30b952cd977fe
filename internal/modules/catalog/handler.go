package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"beatlab/internal/pkg/response"
	"beatlab/internal/pkg/validator"
	"beatlab/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

/* ---------- PUBLIC HANDLERS ---------- */

// ListBeats handles GET /api/v1/beats
func (h *Handler) ListBeats(c *gin.Context) {
	beats, err := h.service.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"beats": beats})
}

// GetBeatByID handles GET /api/v1/beats/:id
func (h *Handler) GetBeatByID(c *gin.Context) {
	beatID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid beat ID")
		return
	}

	beat, err := h.service.GetByID(c.Request.Context(), beatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Beat not found")
			return
		}
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"beat": beat})
}

// FilterBeats handles GET /api/v1/beats/filter?genre=&mood=&min_bpm=&max_bpm=
func (h *Handler) FilterBeats(c *gin.Context) {
	var f repository.BeatFilters

	f.Genre = c.Query("genre")
	f.Mood = c.Query("mood")

	if minBpm := c.Query("min_bpm"); minBpm != "" {
		if val, err := strconv.Atoi(minBpm); err == nil && val > 0 {
			f.MinBPM = val
		}
	}
	if maxBpm := c.Query("max_bpm"); maxBpm != "" {
		if val, err := strconv.Atoi(maxBpm); err == nil && val > 0 {
			f.MaxBPM = val
		}
	}

	beats, err := h.service.Filter(c.Request.Context(), f)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"beats": beats})
}

/* ---------- ADMIN HANDLERS ---------- */

// CreateBeat handles POST /api/v1/beats (admin)
func (h *Handler) CreateBeat(c *gin.Context) {
	var req CreateBeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err.Error())
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid beat payload", errs)
		return
	}

	beat, err := h.service.CreateBeat(c.Request.Context(), c.GetString("role"), req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    gin.H{"beat": beat},
		"message": "Beat created successfully",
	})
}

// UpdateBeat handles PUT /api/v1/beats/:id (admin)
func (h *Handler) UpdateBeat(c *gin.Context) {
	beatID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid beat ID")
		return
	}

	var req UpdateBeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err.Error())
		return
	}

	beat, err := h.service.UpdateBeat(c.Request.Context(), c.GetString("role"), beatID, req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"beat": beat})
}

// DeleteBeat handles DELETE /api/v1/beats/:id (admin, soft delete)
func (h *Handler) DeleteBeat(c *gin.Context) {
	beatID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid beat ID")
		return
	}

	if err := h.service.DeleteBeat(c.Request.Context(), c.GetString("role"), beatID); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

/* ---------- ROUTE REGISTRATION ---------- */

func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	beats := r.Group("/beats")
	{
		beats.GET("", h.ListBeats)
		beats.GET("/filter", h.FilterBeats)
		beats.GET("/:id", h.GetBeatByID)
	}
}

func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	beats := r.Group("/beats")
	{
		beats.POST("", h.CreateBeat)
		beats.PUT("/:id", h.UpdateBeat)
		beats.DELETE("/:id", h.DeleteBeat)
	}
}

/* ---------- ERROR HANDLING ---------- */

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Beat not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Admin access required")
	case errors.Is(err, ErrInvalidLicenseType):
		response.Error(c, http.StatusBadRequest, "INVALID_LICENSE_TYPE", "Invalid license type. Must be one of: Basic, Premium, Exclusive")
	case errors.Is(err, ErrInvalidFilePayload):
		response.Error(c, http.StatusBadRequest, "INVALID_FILE", "File payload is not valid base64")
	case errors.Is(err, ErrInvalidBPM):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "BPM must be greater than zero")
	case errors.Is(err, ErrInvalidPrice):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Price cannot be negative")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
