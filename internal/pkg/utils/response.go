package utils

import (
	stderrors "errors"

	"github.com/gofiber/fiber/v2"

	"github.com/rail-fusion/internal/pkg/errors"
)

// ContentTypeGeoJSON - MIME тип FeatureCollection
const ContentTypeGeoJSON = "application/geo+json"

type SuccessResponse struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Error *errors.AppError `json:"error"`
}

type Meta struct {
	Total    int     `json:"total,omitempty"`
	Limit    int     `json:"limit,omitempty"`
	TimeMSec float64 `json:"time_ms,omitempty"`
}

func SendSuccess(c *fiber.Ctx, data interface{}, meta *Meta) error {
	return c.JSON(SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

// SendGeoJSON отдаёт готовый GeoJSON без обёртки data
func SendGeoJSON(c *fiber.Ctx, body []byte) error {
	c.Set(fiber.HeaderContentType, ContentTypeGeoJSON)
	return c.Send(body)
}

func SendError(c *fiber.Ctx, err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return c.Status(appErr.StatusCode).JSON(ErrorResponse{
			Error: appErr,
		})
	}

	// Unknown error - return 500
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error: errors.ErrInternalServer,
	})
}
