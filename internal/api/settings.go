package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/pie/internal/logger"
	"github.com/stwalsh4118/pie/internal/models"
	"github.com/stwalsh4118/pie/internal/preferences"
	"github.com/stwalsh4118/pie/internal/toolcheck"
)

// Request/Response DTOs

// UpdateFieldRequest carries a new value for a single settings field
type UpdateFieldRequest struct {
	Value any `json:"value"`
}

// ToolPathRequest carries a candidate tool path
type ToolPathRequest struct {
	Path string `json:"path"`
}

// SettingsResponse represents the full settings state in API responses
type SettingsResponse struct {
	Settings   *models.Settings                    `json:"settings"`
	Validity   map[models.ToolKind]models.Validity `json:"validity"`
	Exclusions []string                            `json:"exclusions"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// StorageFailureResponse is returned when a change was applied in memory
// but could not be persisted
type StorageFailureResponse struct {
	ErrorResponse
	Settings *models.Settings `json:"settings"`
}

// ToolOption describes a configurable external tool
type ToolOption struct {
	Kind         models.ToolKind `json:"kind"`
	SelfCheckArg string          `json:"self_check_arg"`
	DefaultPath  string          `json:"default_path"`
}

// FieldOption describes a settable field
type FieldOption struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// OptionsResponse lists the fixed choices a settings form needs
type OptionsResponse struct {
	NvencPresets []string      `json:"nvenc_presets"`
	Tools        []ToolOption  `json:"tools"`
	Fields       []FieldOption `json:"fields"`
}

// EncodersResponse lists the hardware encoders of the configured ffmpeg
type EncodersResponse struct {
	Path     string                      `json:"path"`
	Encoders []toolcheck.HardwareEncoder `json:"encoders"`
	Nvenc    bool                        `json:"nvenc"`
}

// EncoderDetector lists hardware encoders for an ffmpeg binary
type EncoderDetector interface {
	DetectEncoders(ctx context.Context, ffmpegPath string) ([]toolcheck.HardwareEncoder, error)
}

// SettingsHandler handles settings-related API requests
type SettingsHandler struct {
	service  *preferences.Service
	detector EncoderDetector
}

// NewSettingsHandler creates a new settings handler instance
func NewSettingsHandler(service *preferences.Service, detector EncoderDetector) *SettingsHandler {
	return &SettingsHandler{
		service:  service,
		detector: detector,
	}
}

// snapshot builds the full settings response from the service
func (h *SettingsHandler) snapshot() SettingsResponse {
	exclusions, err := h.service.Exclusions()
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Returning settings with unreadable exclusion list")
		exclusions = []string{}
	}

	return SettingsResponse{
		Settings:   h.service.Settings(),
		Validity:   h.service.Validities(),
		Exclusions: exclusions,
	}
}

// writeServiceError maps preference errors to HTTP responses
func (h *SettingsHandler) writeServiceError(c *gin.Context, err error) {
	switch {
	case preferences.IsUnknownField(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown_field", Message: err.Error()})
	case preferences.IsInvalidValue(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_value", Message: err.Error()})
	case preferences.IsUnknownToolKind(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown_tool", Message: err.Error()})
	case preferences.IsEmptyEntry(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty_path", Message: "Exclusion path cannot be empty"})
	case preferences.IsDuplicateEntry(err):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "duplicate_path", Message: "Path is already excluded"})
	case preferences.IsEntryNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: err.Error()})
	case preferences.IsCorruptExclusions(err):
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "corrupt_exclusions",
			Message: "Stored exclusion list is unreadable; restore defaults to repair it",
		})
	case preferences.IsShutdown(err):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "shutting_down", Message: "Settings service is shutting down"})
	case preferences.IsStorageUnavailable(err):
		c.JSON(http.StatusServiceUnavailable, StorageFailureResponse{
			ErrorResponse: ErrorResponse{
				Error:   "storage_unavailable",
				Message: "Change applied for this session but could not be saved",
			},
			Settings: h.service.Settings(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: "Unexpected settings failure"})
	}
}

// GetSettings handles GET /api/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.snapshot())
}

// GetOptions handles GET /api/settings/options
func (h *SettingsHandler) GetOptions(c *gin.Context) {
	defaults := models.DefaultSettings()

	tools := make([]ToolOption, 0, len(models.ToolKinds))
	for _, kind := range models.ToolKinds {
		path, _ := defaults.ToolPath(kind)
		tools = append(tools, ToolOption{
			Kind:         kind,
			SelfCheckArg: kind.SelfCheckArg(),
			DefaultPath:  path,
		})
	}

	names := models.FieldNames()
	fields := make([]FieldOption, 0, len(names))
	for _, name := range names {
		field, _ := models.LookupField(name)
		fields = append(fields, FieldOption{Name: name, Kind: field.Kind.String()})
	}

	c.JSON(http.StatusOK, OptionsResponse{
		NvencPresets: models.NvencPresets,
		Tools:        tools,
		Fields:       fields,
	})
}

// UpdateField handles PATCH /api/settings/fields/:name
func (h *SettingsHandler) UpdateField(c *gin.Context) {
	name := c.Param("name")

	var req UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}
	if req.Value == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Field value is required",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.SetField(ctx, name, req.Value); err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.snapshot())
}

// SetToolPath handles PUT /api/settings/tools/:kind
func (h *SettingsHandler) SetToolPath(c *gin.Context) {
	kind := models.ToolKind(c.Param("kind"))

	var req ToolPathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	// The service detaches from request cancellation; the validator timeout bounds the probe
	result, err := h.service.SetToolPath(c.Request.Context(), kind, req.Path)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if !result.Accepted {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetEncoders handles GET /api/settings/tools/ffmpeg/encoders
func (h *SettingsHandler) GetEncoders(c *gin.Context) {
	settings := h.service.Settings()
	if settings == nil {
		settings = models.DefaultSettings()
	}

	encoders, err := h.detector.DetectEncoders(c.Request.Context(), settings.PathFfmpeg)
	if err != nil {
		logger.Log.Warn().
			Err(err).
			Str("path", settings.PathFfmpeg).
			Msg("Failed to detect hardware encoders")

		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "encoder_detection_failed",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, EncodersResponse{
		Path:     settings.PathFfmpeg,
		Encoders: encoders,
		Nvenc:    toolcheck.HasAccel(encoders, toolcheck.HardwareAccelNVENC),
	})
}

// RestoreDefaults handles POST /api/settings/restore-defaults
func (h *SettingsHandler) RestoreDefaults(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.service.RestoreDefaults(ctx); err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.snapshot())
}

// SetupSettingsRoutes registers settings-related routes
func SetupSettingsRoutes(apiGroup *gin.RouterGroup, service *preferences.Service, detector EncoderDetector) {
	handler := NewSettingsHandler(service, detector)

	apiGroup.GET("/settings", handler.GetSettings)
	apiGroup.GET("/settings/options", handler.GetOptions)
	apiGroup.PATCH("/settings/fields/:name", handler.UpdateField)
	apiGroup.PUT("/settings/tools/:kind", handler.SetToolPath)
	apiGroup.GET("/settings/tools/ffmpeg/encoders", handler.GetEncoders)
	apiGroup.POST("/settings/restore-defaults", handler.RestoreDefaults)

	// Exclusion list endpoints
	apiGroup.GET("/settings/exclusions", handler.ListExclusions)
	apiGroup.POST("/settings/exclusions", handler.AddExclusion)
	apiGroup.DELETE("/settings/exclusions", handler.RemoveExclusions)
	apiGroup.GET("/settings/exclusions/selection", handler.GetSelection)
}
