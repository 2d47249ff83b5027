package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/IBM/sarama"
	"github.com/admin/zodira/astro-api/internal/domain"
	"github.com/admin/zodira/astro-api/internal/usecases/prediction"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type PredictionSaverMock struct{ mock.Mock }

func (m *PredictionSaverMock) HandlePredictionResponse(ctx context.Context, resp prediction.Response) (*domain.Prediction, error) {
	args := m.Called(ctx, resp)
	p, _ := args.Get(0).(*domain.Prediction)
	return p, args.Error(1)
}

func TestPredictionResponseHandler_HandleMessage(t *testing.T) {
	requestID := uuid.New()
	profileID := uuid.New()

	tests := []struct {
		name         string
		key          string
		value        string
		headers      []sarama.RecordHeader
		setupMocks   func(m *PredictionSaverMock)
		wantBusiness bool
		wantErr      bool
	}{
		{
			name:  "ids in body",
			value: `{"request_id":"` + requestID.String() + `","user_id":"u1","profile_id":"` + profileID.String() + `","prediction_type":"daily","prediction_text":"Good day","metadata":{"model":"m"}}`,
			setupMocks: func(m *PredictionSaverMock) {
				m.On("HandlePredictionResponse", mock.Anything, mock.MatchedBy(func(r prediction.Response) bool {
					return r.RequestID == requestID && r.ProfileID == profileID &&
						r.PredictionType == domain.PredictionDaily && string(r.Metadata) == `{"model":"m"}`
				})).Return(&domain.Prediction{}, nil).Once()
			},
		},
		{
			name:  "ids in headers and key",
			key:   requestID.String(),
			value: `{"prediction_type":"career","prediction_text":"Promotion"}`,
			headers: []sarama.RecordHeader{
				{Key: []byte("user_id"), Value: []byte("u1")},
				{Key: []byte("profile_id"), Value: []byte(profileID.String())},
			},
			setupMocks: func(m *PredictionSaverMock) {
				m.On("HandlePredictionResponse", mock.Anything, mock.MatchedBy(func(r prediction.Response) bool {
					return r.RequestID == requestID && r.UserID == "u1" && r.ProfileID == profileID
				})).Return(&domain.Prediction{}, nil).Once()
			},
		},
		{name: "broken json", value: `{`, wantBusiness: true, wantErr: true},
		{name: "bad profile id", key: requestID.String(), value: `{"user_id":"u1","profile_id":"nope"}`, wantBusiness: true, wantErr: true},
		{
			name:  "storage error is retryable",
			key:   requestID.String(),
			value: `{"user_id":"u1","profile_id":"` + profileID.String() + `","prediction_type":"daily","prediction_text":"x"}`,
			setupMocks: func(m *PredictionSaverMock) {
				m.On("HandlePredictionResponse", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saver := new(PredictionSaverMock)
			if tt.setupMocks != nil {
				tt.setupMocks(saver)
			}
			h := NewPredictionResponseHandler(saver, slog.New(slog.NewTextHandler(io.Discard, nil)))

			err := h.HandleMessage(context.Background(), tt.key, []byte(tt.value), tt.headers)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantBusiness, domain.IsBusinessError(err))
			} else {
				assert.NoError(t, err)
			}
			saver.AssertExpectations(t)
		})
	}
}
