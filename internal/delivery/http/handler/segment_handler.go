package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/rail-fusion/internal/pkg/errors"
	"github.com/rail-fusion/internal/pkg/utils"
	"github.com/rail-fusion/internal/usecase/dto"
)

// SegmentHandler отдаёт участки сети со скоростью
type SegmentHandler struct {
	service QueryService
	logger  *zap.Logger
}

func NewSegmentHandler(service QueryService, logger *zap.Logger) *SegmentHandler {
	return &SegmentHandler{service: service, logger: logger}
}

// ListSegments godoc
// @Summary Участки сети с максимальной скоростью
// @Description Возвращает FeatureCollection участков с геометрией, кодом линии и максимальной скоростью.
// @Tags Segments
// @Produce application/geo+json
// @Param line_code query string false "Коды линий через запятую"
// @Param min_speed query int false "Минимальная скорость, км/ч"
// @Success 200 {object} object "GeoJSON FeatureCollection"
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/segments [get]
func (h *SegmentHandler) ListSegments(c *fiber.Ctx) error {
	minSpeed, err := queryInt64(c, "min_speed")
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidSpeed)
	}

	req := dto.SegmentsRequest{
		LineCodes: queryList(c, "line_code"),
		MinSpeed:  minSpeed,
	}

	body, err := h.service.SegmentsGeoJSON(c.Context(), req)
	if err != nil {
		h.logger.Error("Failed to list segments", zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendGeoJSON(c, body)
}
