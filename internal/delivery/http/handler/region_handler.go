package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/rail-fusion/internal/pkg/errors"
	"github.com/rail-fusion/internal/pkg/utils"
	"github.com/rail-fusion/internal/usecase/dto"
)

// Годы сравнения по умолчанию
const (
	defaultLossFrom = 2019
	defaultLossTo   = 2020
)

// RegionHandler отдаёт агрегаты по регионам
type RegionHandler struct {
	service QueryService
	logger  *zap.Logger
}

func NewRegionHandler(service QueryService, logger *zap.Logger) *RegionHandler {
	return &RegionHandler{service: service, logger: logger}
}

// Travelers godoc
// @Summary Пассажиропоток по регионам и годам
// @Tags Regions
// @Produce json
// @Param include_idf query bool false "Учитывать Île-de-France" default(true)
// @Success 200 {object} utils.SuccessResponse{data=dto.RegionTravelersResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/regions/travelers [get]
func (h *RegionHandler) Travelers(c *fiber.Ctx) error {
	includeIDF := true
	if raw := c.Query("include_idf"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return utils.SendError(c, errors.ErrInvalidRequest)
		}
		includeIDF = v
	}

	resp, err := h.service.RegionTravelers(c.Context(), includeIDF)
	if err != nil {
		h.logger.Error("Failed to aggregate region travelers", zap.Error(err))
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, resp, &utils.Meta{Total: len(resp.Items)})
}

// CovidLoss godoc
// @Summary Относительная потеря пассажиров по регионам
// @Description Потеря в процентах между двумя годами, по убыванию, округление до 2 знаков.
// @Tags Regions
// @Produce json
// @Param from query int false "Базовый год" default(2019)
// @Param to query int false "Год сравнения" default(2020)
// @Success 200 {object} utils.SuccessResponse{data=dto.RegionLossResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/regions/covid-loss [get]
func (h *RegionHandler) CovidLoss(c *fiber.Ctx) error {
	from, err := queryIntDefault(c, "from", defaultLossFrom)
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidYear)
	}
	to, err := queryIntDefault(c, "to", defaultLossTo)
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidYear)
	}

	resp, err := h.service.RegionLoss(c.Context(), dto.CovidLossRequest{From: from, To: to})
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, resp, &utils.Meta{Total: len(resp.Items)})
}
