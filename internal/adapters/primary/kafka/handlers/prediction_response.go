package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"log/slog"

	"github.com/IBM/sarama"
	"github.com/admin/zodira/astro-api/internal/domain"
	kafkaPorts "github.com/admin/zodira/astro-api/internal/ports/kafka"
	"github.com/admin/zodira/astro-api/internal/usecases/prediction"
	"github.com/google/uuid"
)

// PredictionSaver сохраняет ответ текстового сервиса
type PredictionSaver interface {
	HandlePredictionResponse(ctx context.Context, resp prediction.Response) (*domain.Prediction, error)
}

// PredictionResponseHandler обрабатывает ответы текстового сервиса
type PredictionResponseHandler struct {
	Predictions PredictionSaver
	Log         *slog.Logger
}

func NewPredictionResponseHandler(predictions PredictionSaver, log *slog.Logger) kafkaPorts.MessageHandler {
	return &PredictionResponseHandler{
		Predictions: predictions,
		Log:         log,
	}
}

// PredictionResponseMessage ответ текстового сервиса.
// request_id, user_id и profile_id могут прийти в headers вместо тела.
type PredictionResponseMessage struct {
	RequestID       string          `json:"request_id"`
	UserID          string          `json:"user_id"`
	ProfileID       string          `json:"profile_id"`
	PredictionType  string          `json:"prediction_type"`
	PredictionText  string          `json:"prediction_text"`
	ConfidenceScore *float64        `json:"confidence_score"`
	GeneratedBy     string          `json:"generated_by"`
	Metadata        json.RawMessage `json:"metadata"`
}

// HandleMessage невалидное сообщение возвращается как BusinessError, повторно не читается
func (h *PredictionResponseHandler) HandleMessage(ctx context.Context, key string, value []byte, headers []sarama.RecordHeader) error {
	var msg PredictionResponseMessage
	if err := json.Unmarshal(value, &msg); err != nil {
		h.Log.Warn("invalid prediction response", "error", err, "key", key)
		return domain.WrapBusinessError(fmt.Errorf("failed to unmarshal prediction response: %w", err))
	}

	for _, hdr := range headers {
		v := string(hdr.Value)
		switch string(hdr.Key) {
		case "request_id":
			msg.RequestID = fallback(msg.RequestID, v)
		case "user_id":
			msg.UserID = fallback(msg.UserID, v)
		case "profile_id":
			msg.ProfileID = fallback(msg.ProfileID, v)
		}
	}
	msg.RequestID = fallback(msg.RequestID, key)

	requestID, err := uuid.Parse(msg.RequestID)
	if err != nil {
		return domain.WrapBusinessError(fmt.Errorf("invalid request_id: %w", err))
	}
	profileID, err := uuid.Parse(msg.ProfileID)
	if err != nil {
		return domain.WrapBusinessError(fmt.Errorf("invalid profile_id: %w", err))
	}
	if msg.UserID == "" {
		return domain.WrapBusinessError(fmt.Errorf("user_id is required in prediction response"))
	}

	h.Log.Debug("processing prediction response",
		"request_id", requestID,
		"profile_id", profileID,
		"prediction_type", msg.PredictionType,
		"response_length", len(msg.PredictionText),
	)

	if _, err := h.Predictions.HandlePredictionResponse(ctx, prediction.Response{
		RequestID:       requestID,
		UserID:          msg.UserID,
		ProfileID:       profileID,
		PredictionType:  domain.PredictionType(msg.PredictionType),
		PredictionText:  msg.PredictionText,
		ConfidenceScore: msg.ConfidenceScore,
		GeneratedBy:     msg.GeneratedBy,
		Metadata:        msg.Metadata,
	}); err != nil {
		return fmt.Errorf("failed to handle prediction response: %w", err)
	}

	return nil
}

func fallback(v, alt string) string {
	if v != "" {
		return v
	}
	return alt
}
