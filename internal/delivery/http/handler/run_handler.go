package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rail-fusion/internal/domain"
	"github.com/rail-fusion/internal/pkg/errors"
	"github.com/rail-fusion/internal/pkg/utils"
)

// RunPublisher ставит запрос на запуск в очередь воркера
type RunPublisher interface {
	PublishToStream(ctx context.Context, stream string, data interface{}) error
}

// RunHandler - отчёты о запусках и постановка нового запуска
type RunHandler struct {
	service   QueryService
	publisher RunPublisher
	logger    *zap.Logger
}

// NewRunHandler создает обработчик, publisher может быть nil
func NewRunHandler(service QueryService, publisher RunPublisher, logger *zap.Logger) *RunHandler {
	return &RunHandler{service: service, publisher: publisher, logger: logger}
}

// Latest godoc
// @Summary Отчёт о последнем запуске пайплайна
// @Tags Runs
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=domain.RunReport}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/runs/latest [get]
func (h *RunHandler) Latest(c *fiber.Ctx) error {
	report, err := h.service.LatestRun(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, report, nil)
}

type runRequestBody struct {
	NullPolicy domain.NullPolicy `json:"null_policy"`
	Refetch    bool              `json:"refetch"`
}

// Enqueue godoc
// @Summary Поставить запуск в очередь воркера
// @Tags Runs
// @Accept json
// @Produce json
// @Param request body runRequestBody false "Параметры запуска"
// @Success 202 {object} utils.SuccessResponse{data=domain.FusionRunRequest}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/runs [post]
func (h *RunHandler) Enqueue(c *fiber.Ctx) error {
	if h.publisher == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(utils.ErrorResponse{
			Error: errors.New("RUNS_DISABLED", "Run queue is not configured", fiber.StatusServiceUnavailable),
		})
	}

	var body runRequestBody
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return utils.SendError(c, errors.ErrInvalidRequest)
		}
	}
	if body.NullPolicy != "" && !body.NullPolicy.Valid() {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"null_policy": "oneof=drop-na fill-na",
		}))
	}

	req := domain.FusionRunRequest{RequestID: uuid.New(), NullPolicy: body.NullPolicy, Refetch: body.Refetch}
	if err := h.publisher.PublishToStream(c.Context(), domain.StreamFusionRun, req); err != nil {
		h.logger.Error("Failed to enqueue fusion run", zap.Error(err))
		return utils.SendError(c, errors.ErrInternalServer)
	}

	h.logger.Info("Fusion run enqueued", zap.String("request_id", req.RequestID.String()))
	return c.Status(fiber.StatusAccepted).JSON(utils.SuccessResponse{Data: req})
}
