package astrologyController

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/admin/zodira/astro-api/internal/adapters/primary/http/middlewares"
	"github.com/admin/zodira/astro-api/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ChartServiceMock struct{ mock.Mock }

func (m *ChartServiceMock) GenerateChartForProfile(ctx context.Context, userID string, profileID uuid.UUID, force bool) (*domain.StructuredChart, bool, error) {
	args := m.Called(ctx, userID, profileID, force)
	chart, _ := args.Get(0).(*domain.StructuredChart)
	return chart, args.Bool(1), args.Error(2)
}

func (m *ChartServiceMock) GetChart(ctx context.Context, userID string, profileID uuid.UUID) (*domain.StructuredChart, error) {
	args := m.Called(ctx, userID, profileID)
	chart, _ := args.Get(0).(*domain.StructuredChart)
	return chart, args.Error(1)
}

func (m *ChartServiceMock) ChartStatus(ctx context.Context, userID string, profileID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID, profileID)
	return args.String(0), args.Error(1)
}

func (m *ChartServiceMock) DeleteChart(ctx context.Context, userID string, profileID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, profileID)
	return args.Bool(0), args.Error(1)
}

func (m *ChartServiceMock) GetChartPart(ctx context.Context, userID string, profileID uuid.UUID, kind domain.ChartPartKind) (domain.Payload, error) {
	args := m.Called(ctx, userID, profileID, kind)
	p, _ := args.Get(0).(domain.Payload)
	return p, args.Error(1)
}

func (m *ChartServiceMock) GenerateChartPart(ctx context.Context, userID string, profileID uuid.UUID, kind domain.ChartPartKind) (domain.Payload, error) {
	args := m.Called(ctx, userID, profileID, kind)
	p, _ := args.Get(0).(domain.Payload)
	return p, args.Error(1)
}

func (m *ChartServiceMock) RefreshDashboardExtras(ctx context.Context, userID string, profileID uuid.UUID) (*domain.DashboardExtras, error) {
	args := m.Called(ctx, userID, profileID)
	e, _ := args.Get(0).(*domain.DashboardExtras)
	return e, args.Error(1)
}

func (m *ChartServiceMock) GetDashboardExtras(ctx context.Context, userID string, profileID uuid.UUID) (*domain.DashboardExtras, error) {
	args := m.Called(ctx, userID, profileID)
	e, _ := args.Get(0).(*domain.DashboardExtras)
	return e, args.Error(1)
}

func fakeAuth(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middlewares.UserIDKey, userID)
		c.Next()
	}
}

func newTestRouter(svc *ChartServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(svc, fakeAuth("u1"), slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(r)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return w, out
}

func TestController_GenerateChart(t *testing.T) {
	profileID := uuid.New()

	tests := []struct {
		name       string
		path       string
		body       string
		method     string
		force      bool
		existed    bool
		err        error
		wantCode   int
		wantStatus string
	}{
		{name: "generated", path: "/api/v1/astrology/profiles/%s/generate-chart", wantCode: http.StatusOK, wantStatus: "completed"},
		{name: "exists", path: "/api/v1/astrology/profiles/%s/generate-chart", existed: true, wantCode: http.StatusOK, wantStatus: "exists"},
		{name: "force", path: "/api/v1/astrology/profiles/%s/generate-chart?force=true", force: true, wantCode: http.StatusOK, wantStatus: "completed"},
		{name: "by body", path: "/api/v1/astrology/generate-chart", body: `{"profile_id":"%s"}`, wantCode: http.StatusOK, wantStatus: "completed"},
		{name: "foreign profile", path: "/api/v1/astrology/profiles/%s/generate-chart", err: domain.ErrForbidden, wantCode: http.StatusForbidden},
		{name: "write failed", path: "/api/v1/astrology/profiles/%s/generate-chart", err: fmt.Errorf("save: %w", domain.ErrPersistenceWriteFailed), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ChartServiceMock)
			var chart *domain.StructuredChart
			if tt.err == nil {
				chart = &domain.StructuredChart{UserID: "u1", ProfileID: profileID.String()}
			}
			svc.On("GenerateChartForProfile", mock.Anything, "u1", profileID, tt.force).Return(chart, tt.existed, tt.err).Once()

			path, body := tt.path, tt.body
			if body != "" {
				body = fmt.Sprintf(body, profileID)
			} else {
				path = fmt.Sprintf(path, profileID)
			}

			w, out := do(t, newTestRouter(svc), http.MethodPost, path, body)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantStatus != "" {
				assert.Equal(t, tt.wantStatus, out["status"])
				assert.Equal(t, "u1_"+profileID.String(), out["chart_id"])
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestController_BadProfileID(t *testing.T) {
	svc := new(ChartServiceMock)

	w, out := do(t, newTestRouter(svc), http.MethodGet, "/api/v1/astrology/chart/not-a-uuid", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid profile_id", out["error"])
	svc.AssertNotCalled(t, "GetChart", mock.Anything, mock.Anything, mock.Anything)
}

func TestController_GetChart(t *testing.T) {
	profileID := uuid.New()
	svc := new(ChartServiceMock)
	svc.On("GetChart", mock.Anything, "u1", profileID).
		Return(&domain.StructuredChart{UserID: "u1", ProfileID: profileID.String(), IsActive: true}, nil)

	w, out := do(t, newTestRouter(svc), http.MethodGet, "/api/v1/astrology/chart/"+profileID.String(), "")

	require.Equal(t, http.StatusOK, w.Code)
	chart := out["chart"].(map[string]any)
	assert.Equal(t, "u1_"+profileID.String(), chart["id"])
	assert.Equal(t, true, chart["is_active"])
	assert.Contains(t, chart["houses"], "house_1")
}

func TestController_ChartStatusAndDelete(t *testing.T) {
	profileID := uuid.New()
	svc := new(ChartServiceMock)
	svc.On("ChartStatus", mock.Anything, "u1", profileID).Return("not_found", nil)
	svc.On("DeleteChart", mock.Anything, "u1", profileID).Return(false, nil)
	r := newTestRouter(svc)

	w, out := do(t, r, http.MethodGet, "/api/v1/astrology/chart/"+profileID.String()+"/status", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "not_found", out["status"])

	w, out = do(t, r, http.MethodDelete, "/api/v1/astrology/chart/"+profileID.String(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, out["existed"])
	assert.Equal(t, "u1_"+profileID.String(), out["chart_id"])
}

func TestController_ChartParts(t *testing.T) {
	profileID := uuid.New()
	base := "/api/v1/astrology/profiles/" + profileID.String() + "/charts/"

	t.Run("raw part", func(t *testing.T) {
		svc := new(ChartServiceMock)
		svc.On("GetChartPart", mock.Anything, "u1", profileID, domain.ChartPartD10).Return(domain.Payload{"output": "x"}, nil)

		w, out := do(t, newTestRouter(svc), http.MethodGet, base+"d10", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, map[string]any{"output": "x"}, out["data"])
	})

	t.Run("combined", func(t *testing.T) {
		svc := new(ChartServiceMock)
		svc.On("GetChart", mock.Anything, "u1", profileID).Return(&domain.StructuredChart{UserID: "u1"}, nil)

		w, out := do(t, newTestRouter(svc), http.MethodGet, base+"combined", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotNil(t, out["chart"])
		svc.AssertNotCalled(t, "GetChartPart", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid kind", func(t *testing.T) {
		svc := new(ChartServiceMock)
		svc.On("GenerateChartPart", mock.Anything, "u1", profileID, domain.ChartPartKind("d60")).
			Return(nil, fmt.Errorf("%q: %w", "d60", domain.ErrInvalidChartType))

		w, _ := do(t, newTestRouter(svc), http.MethodPost, base+"d60", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("upstream rate limited", func(t *testing.T) {
		svc := new(ChartServiceMock)
		svc.On("GenerateChartPart", mock.Anything, "u1", profileID, domain.ChartPartRasi).
			Return(nil, domain.NewUpstreamError(429, ""))

		w, _ := do(t, newTestRouter(svc), http.MethodPost, base+"rasi", "")

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})
}

func TestController_DashboardExtras(t *testing.T) {
	profileID := uuid.New()
	path := "/api/v1/astrology/profiles/" + profileID.String() + "/dashboard-extras"

	svc := new(ChartServiceMock)
	svc.On("RefreshDashboardExtras", mock.Anything, "u1", profileID).
		Return(&domain.DashboardExtras{UserID: "u1", Vimsottari: domain.Payload{"output": "v"}}, nil)
	svc.On("GetDashboardExtras", mock.Anything, "u1", profileID).Return(nil, domain.ErrNotFound)
	r := newTestRouter(svc)

	w, out := do(t, r, http.MethodPost, path, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", out["status"])

	w, _ = do(t, r, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
