package handler

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/housing-survey-dashboard/internal/pkg/errors"
	"github.com/housing-survey-dashboard/internal/pkg/utils"
	"github.com/housing-survey-dashboard/internal/pkg/validator"
	"github.com/housing-survey-dashboard/internal/usecase"
	"github.com/housing-survey-dashboard/internal/usecase/dto"
)

// DashboardHandler - обработчик взаимодействий с дашбордом
type DashboardHandler struct {
	dashboardUC  *usecase.DashboardUseCase
	allowedTypes map[string]struct{}
	maxBytes     int64
	logger       *zap.Logger
}

// NewDashboardHandler создает новый экземпляр DashboardHandler
func NewDashboardHandler(
	dashboardUC *usecase.DashboardUseCase,
	allowedTypes []string,
	maxBytes int,
	logger *zap.Logger,
) *DashboardHandler {
	allowed := make(map[string]struct{}, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[strings.TrimPrefix(strings.ToLower(t), ".")] = struct{}{}
	}
	return &DashboardHandler{
		dashboardUC:  dashboardUC,
		allowedTypes: allowed,
		maxBytes:     int64(maxBytes),
		logger:       logger,
	}
}

// CreateSession godoc
// @Summary Create dashboard session
// @Description Создаёт сессию над набором по умолчанию и возвращает начальное представление
// @Tags Sessions
// @Produce json
// @Success 201 {object} utils.SuccessResponse{data=domain.DashboardView}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/sessions [post]
func (h *DashboardHandler) CreateSession(c *fiber.Ctx) error {
	resp, err := h.dashboardUC.CreateSession(c.UserContext())
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Status(fiber.StatusCreated)
	return sendView(c, resp)
}

// GetView godoc
// @Summary Get dashboard view
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} utils.SuccessResponse{data=domain.DashboardView}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id} [get]
func (h *DashboardHandler) GetView(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	resp, err := h.dashboardUC.GetView(c.UserContext(), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return sendView(c, resp)
}

// GetMap godoc
// @Summary Get map payload
// @Description Отфильтрованные проекты в GeoJSON и принудительный viewport карты
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} utils.SuccessResponse{data=domain.MapPayload}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/map [get]
func (h *DashboardHandler) GetMap(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	payload, err := h.dashboardUC.GetMap(c.UserContext(), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, payload, &utils.Meta{
		Total:    len(payload.Features.Features),
		Revision: payload.Revision,
	})
}

// DeleteSession godoc
// @Summary End dashboard session
// @Tags Sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id} [delete]
func (h *DashboardHandler) DeleteSession(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	if err := h.dashboardUC.DeleteSession(c.UserContext(), id); err != nil {
		return utils.SendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Upload godoc
// @Summary Upload survey file
// @Description Заменяет набор сессии загруженным файлом (xlsx, csv, geojson, json). При ошибке разбора прежний набор остаётся активным.
// @Tags Interactions
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param file formData file true "Survey file"
// @Success 200 {object} utils.SuccessResponse{data=domain.DashboardView}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 413 {object} utils.ErrorResponse
// @Failure 415 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Failure 429 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/upload [post]
func (h *DashboardHandler) Upload(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"file": "required",
		}))
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), ".")
	if _, ok := h.allowedTypes[ext]; !ok {
		return utils.SendError(c, errors.ErrUnsupportedFormat.WithDetails(map[string]interface{}{
			"file": fh.Filename,
		}))
	}
	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		return utils.SendError(c, errors.ErrUploadTooLarge.WithDetails(map[string]interface{}{
			"max_bytes": h.maxBytes,
		}))
	}

	f, err := fh.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", zap.Error(err))
		return utils.SendError(c, errors.ErrInternalServer)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.logger.Error("Failed to read uploaded file", zap.Error(err))
		return utils.SendError(c, errors.ErrInternalServer)
	}

	req := dto.UploadRequest{FileName: fh.Filename, Data: data}
	if err := validator.ValidateRequest(&req); err != nil {
		return utils.SendError(c, errors.ErrMalformedInput.WithDetails(map[string]interface{}{
			"reason": "empty file",
		}))
	}

	resp, err := h.dashboardUC.Upload(c.UserContext(), id, req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return sendView(c, resp)
}

// ChangeFilters godoc
// @Summary Change cascading filters
// @Tags Interactions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.FiltersRequest true "Filter values"
// @Success 200 {object} utils.SuccessResponse{data=domain.DashboardView}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/filters [put]
func (h *DashboardHandler) ChangeFilters(c *fiber.Ctx) error {
	var req dto.FiltersRequest
	return h.handleBody(c, &req, func(id uuid.UUID) (*dto.ViewResponse, error) {
		return h.dashboardUC.ChangeFilters(c.UserContext(), id, req)
	})
}

// MoveMap godoc
// @Summary Report map viewport
// @Tags Interactions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.ViewportRequest true "Viewport corners"
// @Success 200 {object} utils.SuccessResponse{data=domain.DashboardView}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/viewport [post]
func (h *DashboardHandler) MoveMap(c *fiber.Ctx) error {
	var req dto.ViewportRequest
	return h.handleBody(c, &req, func(id uuid.UUID) (*dto.ViewResponse, error) {
		return h.dashboardUC.MoveMap(c.UserContext(), id, req)
	})
}

// ClickMap godoc
// @Summary Report map click
// @Tags Interactions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.ClickRequest true "Clicked point"
// @Success 200 {object} utils.SuccessResponse{data=domain.DashboardView}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/click [post]
func (h *DashboardHandler) ClickMap(c *fiber.Ctx) error {
	var req dto.ClickRequest
	return h.handleBody(c, &req, func(id uuid.UUID) (*dto.ViewResponse, error) {
		return h.dashboardUC.ClickMap(c.UserContext(), id, req)
	})
}

// SelectRecord godoc
// @Summary Select project from the list
// @Tags Interactions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.RecordRequest true "Record"
// @Success 200 {object} utils.SuccessResponse{data=domain.DashboardView}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/select [post]
func (h *DashboardHandler) SelectRecord(c *fiber.Ctx) error {
	var req dto.RecordRequest
	return h.handleBody(c, &req, func(id uuid.UUID) (*dto.ViewResponse, error) {
		return h.dashboardUC.SelectRecord(c.UserContext(), id, req)
	})
}

// ZoomToRecord godoc
// @Summary Zoom the map to a project
// @Tags Interactions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.RecordRequest true "Record"
// @Success 200 {object} utils.SuccessResponse{data=domain.DashboardView}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/zoom [post]
func (h *DashboardHandler) ZoomToRecord(c *fiber.Ctx) error {
	var req dto.RecordRequest
	return h.handleBody(c, &req, func(id uuid.UUID) (*dto.ViewResponse, error) {
		return h.dashboardUC.ZoomToRecord(c.UserContext(), id, req)
	})
}

// ClearZoom godoc
// @Summary Clear zoom target
// @Tags Interactions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} utils.SuccessResponse{data=domain.DashboardView}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/zoom [delete]
func (h *DashboardHandler) ClearZoom(c *fiber.Ctx) error {
	id, err := sessionID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	resp, err := h.dashboardUC.ClearZoom(c.UserContext(), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return sendView(c, resp)
}

// handleBody - общий путь для JSON-взаимодействий: id сессии, разбор и валидация тела, вызов use case
func (h *DashboardHandler) handleBody(c *fiber.Ctx, req interface{}, call func(id uuid.UUID) (*dto.ViewResponse, error)) error {
	id, err := sessionID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	if err := c.BodyParser(req); err != nil {
		h.logger.Debug("Invalid request body", zap.String("path", c.Path()), zap.Error(err))
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"body": "invalid json",
		}))
	}
	if err := validator.ValidateRequest(req); err != nil {
		return utils.SendError(c, err)
	}

	resp, err := call(id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return sendView(c, resp)
}

func sessionID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"id": "must be a uuid",
		})
	}
	return id, nil
}

func sendView(c *fiber.Ctx, resp *dto.ViewResponse) error {
	changed := resp.Changed
	return utils.SendSuccess(c, resp.View, &utils.Meta{
		Total:    resp.View.FilteredCount,
		Revision: resp.View.Revision,
		Changed:  &changed,
	})
}
