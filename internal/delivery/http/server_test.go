package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	_ "github.com/rail-fusion/docs"
	"github.com/rail-fusion/internal/config"
	server "github.com/rail-fusion/internal/delivery/http"
	"github.com/rail-fusion/internal/delivery/http/handler"
	"github.com/rail-fusion/internal/domain"
	apperrors "github.com/rail-fusion/internal/pkg/errors"
	"github.com/rail-fusion/internal/usecase/dto"
)

type MockQueryService struct {
	mock.Mock
}

func (m *MockQueryService) SegmentsGeoJSON(ctx context.Context, req dto.SegmentsRequest) ([]byte, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockQueryService) StationHistory(ctx context.Context, code string) (*dto.StationYearsResponse, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.StationYearsResponse), args.Error(1)
}

func (m *MockQueryService) StationYears(ctx context.Context, req dto.StationYearsRequest) (*dto.StationYearsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.StationYearsResponse), args.Error(1)
}

func (m *MockQueryService) RegionTravelers(ctx context.Context, includeIDF bool) (*dto.RegionTravelersResponse, error) {
	args := m.Called(ctx, includeIDF)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RegionTravelersResponse), args.Error(1)
}

func (m *MockQueryService) RegionLoss(ctx context.Context, req dto.CovidLossRequest) (*dto.RegionLossResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RegionLossResponse), args.Error(1)
}

func (m *MockQueryService) TopStations(ctx context.Context, req dto.TopStationsRequest) (*dto.TopStationsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TopStationsResponse), args.Error(1)
}

func (m *MockQueryService) LatestRun(ctx context.Context) (*domain.RunReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RunReport), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	return m.Called(ctx, stream, data).Error(0)
}

type healthFunc func(ctx context.Context) error

func (f healthFunc) Health(ctx context.Context) error { return f(ctx) }

func newTestServer(svc *MockQueryService, pub handler.RunPublisher, checks map[string]server.HealthChecker) *server.Server {
	logger := zap.NewNop()
	return server.NewServer(&config.Config{}, logger, server.Handlers{
		Segments: handler.NewSegmentHandler(svc, logger),
		Stations: handler.NewStationHandler(svc, logger),
		Regions:  handler.NewRegionHandler(svc, logger),
		Runs:     handler.NewRunHandler(svc, pub, logger),
	}, checks, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		io.WriteString(w, "railfusion_runs_total 1\n")
	}))
}

func doRequest(t *testing.T, s *server.Server, method, target, body string) (*nethttp.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		s := newTestServer(&MockQueryService{}, nil, map[string]server.HealthChecker{
			"postgres": healthFunc(func(context.Context) error { return nil }),
		})

		resp, body := doRequest(t, s, nethttp.MethodGet, "/api/v1/health", "")

		assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), `"healthy"`)
	})

	t.Run("degraded", func(t *testing.T) {
		s := newTestServer(&MockQueryService{}, nil, map[string]server.HealthChecker{
			"redis": healthFunc(func(context.Context) error { return errors.New("connection refused") }),
		})

		resp, body := doRequest(t, s, nethttp.MethodGet, "/api/v1/health", "")

		assert.Equal(t, nethttp.StatusServiceUnavailable, resp.StatusCode)
		assert.Contains(t, string(body), "connection refused")
	})
}

func TestSegments(t *testing.T) {
	t.Run("geojson with filters", func(t *testing.T) {
		// Arrange
		svc := &MockQueryService{}
		speed := int64(200)
		svc.On("SegmentsGeoJSON", mock.Anything, dto.SegmentsRequest{
			LineCodes: []string{"420000", "752000"},
			MinSpeed:  &speed,
		}).Return([]byte(`{"type":"FeatureCollection","features":[]}`), nil)
		s := newTestServer(svc, nil, nil)

		// Act
		resp, body := doRequest(t, s, nethttp.MethodGet, "/api/v1/segments?line_code=420000,752000&min_speed=200", "")

		// Assert
		assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/geo+json", resp.Header.Get("Content-Type"))
		assert.JSONEq(t, `{"type":"FeatureCollection","features":[]}`, string(body))
		svc.AssertExpectations(t)
	})

	t.Run("invalid min_speed", func(t *testing.T) {
		s := newTestServer(&MockQueryService{}, nil, nil)

		resp, body := doRequest(t, s, nethttp.MethodGet, "/api/v1/segments?min_speed=fast", "")

		assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, string(body), "INVALID_SPEED")
	})
}

func TestStationYears(t *testing.T) {
	t.Run("history", func(t *testing.T) {
		svc := &MockQueryService{}
		svc.On("StationHistory", mock.Anything, "87271007").Return(&dto.StationYearsResponse{
			Records: []dto.StationYear{{StationYearRecord: domain.StationYearRecord{StationCode: "87271007", Year: 2019}}},
			Total:   1,
		}, nil)
		s := newTestServer(svc, nil, nil)

		resp, body := doRequest(t, s, nethttp.MethodGet, "/api/v1/stations/87271007/years", "")

		assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
		var out struct {
			Data []map[string]interface{} `json:"data"`
			Meta map[string]interface{}   `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(body, &out))
		require.Len(t, out.Data, 1)
		assert.Equal(t, "87271007", out.Data[0]["station_code"])
		assert.Equal(t, float64(1), out.Meta["total"])
	})

	t.Run("unknown station", func(t *testing.T) {
		svc := &MockQueryService{}
		svc.On("StationHistory", mock.Anything, "NOPE").Return(nil, apperrors.ErrStationNotFound)
		s := newTestServer(svc, nil, nil)

		resp, _ := doRequest(t, s, nethttp.MethodGet, "/api/v1/stations/NOPE/years", "")
		assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
	})

	t.Run("filtered list", func(t *testing.T) {
		svc := &MockQueryService{}
		year := 2020
		minTravelers := int64(1000)
		svc.On("StationYears", mock.Anything, dto.StationYearsRequest{
			Year:         &year,
			Region:       "Bretagne",
			MinTravelers: &minTravelers,
		}).Return(&dto.StationYearsResponse{}, nil)
		s := newTestServer(svc, nil, nil)

		resp, _ := doRequest(t, s, nethttp.MethodGet, "/api/v1/station-years?year=2020&region=Bretagne&min_travelers=1000", "")

		assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
		svc.AssertExpectations(t)
	})

	t.Run("invalid year", func(t *testing.T) {
		s := newTestServer(&MockQueryService{}, nil, nil)

		resp, body := doRequest(t, s, nethttp.MethodGet, "/api/v1/station-years?year=abc", "")

		assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, string(body), "INVALID_YEAR")
	})
}

func TestRegions(t *testing.T) {
	t.Run("travelers without IDF", func(t *testing.T) {
		svc := &MockQueryService{}
		svc.On("RegionTravelers", mock.Anything, false).Return(&dto.RegionTravelersResponse{
			Items: []domain.RegionYearTravelers{{RegionName: "Bretagne", Year: 2019, TotalTravelers: 10}},
		}, nil)
		s := newTestServer(svc, nil, nil)

		resp, body := doRequest(t, s, nethttp.MethodGet, "/api/v1/regions/travelers?include_idf=false", "")

		assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "Bretagne")
	})

	t.Run("covid loss defaults", func(t *testing.T) {
		svc := &MockQueryService{}
		svc.On("RegionLoss", mock.Anything, dto.CovidLossRequest{From: 2019, To: 2020}).
			Return(&dto.RegionLossResponse{From: 2019, To: 2020}, nil)
		s := newTestServer(svc, nil, nil)

		resp, _ := doRequest(t, s, nethttp.MethodGet, "/api/v1/regions/covid-loss", "")

		assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
		svc.AssertExpectations(t)
	})
}

func TestRuns(t *testing.T) {
	t.Run("latest not found", func(t *testing.T) {
		svc := &MockQueryService{}
		svc.On("LatestRun", mock.Anything).Return(nil, apperrors.ErrRunNotFound)
		s := newTestServer(svc, nil, nil)

		resp, body := doRequest(t, s, nethttp.MethodGet, "/api/v1/runs/latest", "")

		assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
		assert.Contains(t, string(body), "RUN_NOT_FOUND")
	})

	t.Run("enqueue", func(t *testing.T) {
		pub := &MockPublisher{}
		pub.On("PublishToStream", mock.Anything, domain.StreamFusionRun, mock.MatchedBy(func(r domain.FusionRunRequest) bool {
			return r.NullPolicy == domain.NullPolicyFill && r.Refetch
		})).Return(nil)
		s := newTestServer(&MockQueryService{}, pub, nil)

		resp, _ := doRequest(t, s, nethttp.MethodPost, "/api/v1/runs", `{"null_policy":"fill-na","refetch":true}`)

		assert.Equal(t, nethttp.StatusAccepted, resp.StatusCode)
		pub.AssertExpectations(t)
	})

	t.Run("enqueue invalid policy", func(t *testing.T) {
		s := newTestServer(&MockQueryService{}, &MockPublisher{}, nil)

		resp, _ := doRequest(t, s, nethttp.MethodPost, "/api/v1/runs", `{"null_policy":"zero"}`)
		assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	})

	t.Run("enqueue without queue", func(t *testing.T) {
		s := newTestServer(&MockQueryService{}, nil, nil)

		resp, _ := doRequest(t, s, nethttp.MethodPost, "/api/v1/runs", "")
		assert.Equal(t, nethttp.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(&MockQueryService{}, nil, nil)

	resp, body := doRequest(t, s, nethttp.MethodGet, "/metrics", "")

	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "railfusion_runs_total")
}

func TestSwaggerDocs(t *testing.T) {
	s := newTestServer(&MockQueryService{}, nil, nil)

	t.Run("doc.json lists read API", func(t *testing.T) {
		resp, body := doRequest(t, s, nethttp.MethodGet, "/swagger/doc.json", "")
		require.Equal(t, nethttp.StatusOK, resp.StatusCode)

		var doc struct {
			Swagger string                     `json:"swagger"`
			Info    map[string]interface{}     `json:"info"`
			Paths   map[string]json.RawMessage `json:"paths"`
		}
		require.NoError(t, json.Unmarshal(body, &doc))
		assert.Equal(t, "2.0", doc.Swagger)
		assert.Equal(t, "Rail Fusion API", doc.Info["title"])
		for _, path := range []string{
			"/api/v1/segments",
			"/api/v1/stations/{code}/years",
			"/api/v1/station-years",
			"/api/v1/regions/covid-loss",
			"/api/v1/runs/latest",
		} {
			assert.Contains(t, doc.Paths, path)
		}
	})

	t.Run("ui", func(t *testing.T) {
		resp, body := doRequest(t, s, nethttp.MethodGet, "/swagger/index.html", "")
		assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "swagger")
	})
}
