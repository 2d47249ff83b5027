package predictionsController

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/admin/zodira/astro-api/internal/adapters/primary/http/middlewares"
	"github.com/admin/zodira/astro-api/internal/domain"
	"github.com/admin/zodira/astro-api/internal/usecases/prediction"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type PredictionServiceMock struct{ mock.Mock }

func (m *PredictionServiceMock) RequestPrediction(ctx context.Context, userID string, profileID uuid.UUID, t domain.PredictionType) (uuid.UUID, error) {
	args := m.Called(ctx, userID, profileID, t)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *PredictionServiceMock) RequestCompatibility(ctx context.Context, userID string, profileID, partnerID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, userID, profileID, partnerID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *PredictionServiceMock) ListPredictions(ctx context.Context, userID string, profileID uuid.UUID) ([]domain.Prediction, error) {
	args := m.Called(ctx, userID, profileID)
	p, _ := args.Get(0).([]domain.Prediction)
	return p, args.Error(1)
}

func newTestRouter(svc *PredictionServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := func(c *gin.Context) { c.Set(middlewares.UserIDKey, "u1") }
	New(svc, auth, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(r)
	return r
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestController_RequestPrediction(t *testing.T) {
	profileID := uuid.New()
	requestID := uuid.New()

	tests := []struct {
		name     string
		typ      string
		err      error
		wantCode int
	}{
		{name: "accepted", typ: "weekly", wantCode: http.StatusAccepted},
		{name: "unknown type", typ: "yearly", err: domain.ErrInvalidPredictionType, wantCode: http.StatusBadRequest},
		{name: "no chart", typ: "daily", err: fmt.Errorf("profile: %w", prediction.ErrChartMissing), wantCode: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(PredictionServiceMock)
			svc.On("RequestPrediction", mock.Anything, "u1", profileID, domain.PredictionType(tt.typ)).Return(requestID, tt.err)

			w := serve(newTestRouter(svc), http.MethodPost,
				"/api/v1/astrology/profiles/"+profileID.String()+"/predictions/"+tt.typ, "")

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.err == nil {
				assert.Contains(t, w.Body.String(), requestID.String())
			}
		})
	}
}

func TestController_Compatibility(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	svc := new(PredictionServiceMock)
	svc.On("RequestCompatibility", mock.Anything, "u1", a, b).Return(uuid.New(), nil).Once()
	r := newTestRouter(svc)

	w := serve(r, http.MethodPost, "/api/v1/astrology/marriage-matching/generate",
		`{"profile_id":"`+a.String()+`","partner_profile_id":"`+b.String()+`"}`)
	assert.Equal(t, http.StatusAccepted, w.Code)

	w = serve(r, http.MethodPost, "/api/v1/astrology/marriage-matching/generate", `{"profile_id":"`+a.String()+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertExpectations(t)
}

func TestController_List(t *testing.T) {
	profileID := uuid.New()
	svc := new(PredictionServiceMock)
	svc.On("ListPredictions", mock.Anything, "u1", profileID).
		Return([]domain.Prediction{{PredictionType: domain.PredictionCareer, PredictionText: "Promotion"}}, nil)

	w := serve(newTestRouter(svc), http.MethodGet, "/api/v1/astrology/profiles/"+profileID.String()+"/predictions", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}
