package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/rail-fusion/internal/pkg/errors"
	"github.com/rail-fusion/internal/pkg/utils"
	"github.com/rail-fusion/internal/usecase/dto"
)

// StationHandler отдаёт итоговую таблицу станция/год
type StationHandler struct {
	service QueryService
	logger  *zap.Logger
}

func NewStationHandler(service QueryService, logger *zap.Logger) *StationHandler {
	return &StationHandler{service: service, logger: logger}
}

// GetStationYears godoc
// @Summary История пассажиропотока станции
// @Tags Stations
// @Produce json
// @Param code path string true "Код UIC станции"
// @Success 200 {object} utils.SuccessResponse{data=[]dto.StationYear}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/stations/{code}/years [get]
func (h *StationHandler) GetStationYears(c *fiber.Ctx) error {
	resp, err := h.service.StationHistory(c.Context(), c.Params("code"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, resp.Records, &utils.Meta{Total: resp.Total})
}

// ListStationYears godoc
// @Summary Записи станция/год
// @Description Итоговая таблица станций по годам с коммуной и населением.
// @Tags Stations
// @Produce json
// @Param year query int false "Год"
// @Param region query string false "Название региона"
// @Param min_travelers query int false "Минимальное число пассажиров"
// @Param limit query int false "Максимальное количество записей"
// @Success 200 {object} utils.SuccessResponse{data=[]dto.StationYear}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/station-years [get]
func (h *StationHandler) ListStationYears(c *fiber.Ctx) error {
	var req dto.StationYearsRequest

	if c.Query("year") != "" {
		year, err := queryIntDefault(c, "year", 0)
		if err != nil {
			return utils.SendError(c, errors.ErrInvalidYear)
		}
		req.Year = &year
	}

	minTravelers, err := queryInt64(c, "min_travelers")
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	req.MinTravelers = minTravelers

	if req.Limit, err = queryIntDefault(c, "limit", 0); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	req.Region = c.Query("region")

	resp, err := h.service.StationYears(c.Context(), req)
	if err != nil {
		h.logger.Error("Failed to list station years", zap.Error(err))
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, resp.Records, &utils.Meta{Total: resp.Total, Limit: req.Limit})
}

// TopStations godoc
// @Summary Самые загруженные станции для карты
// @Tags Stations
// @Produce json
// @Param year query int true "Год"
// @Param min_travelers query int false "Порог пассажиропотока"
// @Param exclude_region query string false "Исключаемый регион"
// @Success 200 {object} utils.SuccessResponse{data=dto.TopStationsResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/stations/top [get]
func (h *StationHandler) TopStations(c *fiber.Ctx) error {
	year, err := queryIntDefault(c, "year", 0)
	if err != nil || year == 0 {
		return utils.SendError(c, errors.ErrInvalidYear)
	}

	minTravelers, err := queryInt64(c, "min_travelers")
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	req := dto.TopStationsRequest{Year: year, ExcludeRegion: c.Query("exclude_region")}
	if minTravelers != nil {
		req.MinTravelers = *minTravelers
	}

	resp, err := h.service.TopStations(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, resp, &utils.Meta{Total: len(resp.Stations)})
}
