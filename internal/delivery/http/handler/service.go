package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/rail-fusion/internal/domain"
	"github.com/rail-fusion/internal/usecase/dto"
)

// QueryService - операции чтения, реализуется usecase.QueryUseCase
type QueryService interface {
	SegmentsGeoJSON(ctx context.Context, req dto.SegmentsRequest) ([]byte, error)
	StationHistory(ctx context.Context, stationCode string) (*dto.StationYearsResponse, error)
	StationYears(ctx context.Context, req dto.StationYearsRequest) (*dto.StationYearsResponse, error)
	RegionTravelers(ctx context.Context, includeIDF bool) (*dto.RegionTravelersResponse, error)
	RegionLoss(ctx context.Context, req dto.CovidLossRequest) (*dto.RegionLossResponse, error)
	TopStations(ctx context.Context, req dto.TopStationsRequest) (*dto.TopStationsResponse, error)
	LatestRun(ctx context.Context) (*domain.RunReport, error)
}

func queryInt64(c *fiber.Ctx, key string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func queryIntDefault(c *fiber.Ctx, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func queryList(c *fiber.Ctx, key string) []string {
	var out []string
	for _, part := range strings.Split(c.Query(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
