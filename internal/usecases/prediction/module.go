package prediction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/admin/zodira/astro-api/internal/domain"
	kafkaPorts "github.com/admin/zodira/astro-api/internal/ports/kafka"
	"github.com/admin/zodira/astro-api/internal/ports/repository"
	profileUsecase "github.com/admin/zodira/astro-api/internal/usecases/profile"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

const defaultGeneratedBy = "ai"

// Service прогнозы: отправка запросов текстовому сервису и сохранение ответов
type Service struct {
	ProfileRepo    repository.IProfileRepo
	ChartRepo      repository.IChartRepo
	PredictionRepo repository.IPredictionRepo
	Producer       kafkaPorts.IPredictionProducer
	Log            *slog.Logger
	now            func() time.Time
}

func New(
	profileRepo repository.IProfileRepo,
	chartRepo repository.IChartRepo,
	predictionRepo repository.IPredictionRepo,
	producer kafkaPorts.IPredictionProducer,
	log *slog.Logger,
) *Service {
	return &Service{
		ProfileRepo:    profileRepo,
		ChartRepo:      chartRepo,
		PredictionRepo: predictionRepo,
		Producer:       producer,
		Log:            log,
		now:            time.Now,
	}
}

// ErrChartMissing для профиля ещё не сгенерирована карта
var ErrChartMissing = errors.New("chart is not generated yet")

func (s *Service) ownedWithChart(ctx context.Context, userID string, profileID uuid.UUID) (*domain.Profile, *domain.StructuredChart, error) {
	p, err := profileUsecase.Owned(ctx, s.ProfileRepo, userID, profileID)
	if err != nil {
		return nil, nil, err
	}

	chart, err := s.ChartRepo.GetChart(ctx, domain.ChartKey{UserID: userID, ProfileID: profileID.String()})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, fmt.Errorf("profile %s: %w", profileID, ErrChartMissing)
		}
		return nil, nil, fmt.Errorf("failed to get chart: %w", err)
	}

	return p, chart, nil
}

// RequestPrediction отправляет запрос прогноза по карте профиля.
// Возвращает request_id, по которому придёт ответ.
func (s *Service) RequestPrediction(ctx context.Context, userID string, profileID uuid.UUID, predictionType domain.PredictionType) (uuid.UUID, error) {
	if !predictionType.IsValid() || predictionType == domain.PredictionMarriageCompatibility {
		return uuid.Nil, fmt.Errorf("%q: %w", predictionType, domain.ErrInvalidPredictionType)
	}

	p, chart, err := s.ownedWithChart(ctx, userID, profileID)
	if err != nil {
		return uuid.Nil, err
	}

	req := domain.PredictionRequest{
		RequestID:      uuid.New(),
		UserID:         userID,
		ProfileID:      profileID,
		PredictionType: predictionType,
		Profile:        p,
		Chart:          chart,
	}

	if err := s.Producer.SendPredictionRequest(ctx, req); err != nil {
		s.Log.Error("failed to send prediction request",
			"error", err,
			"user_id", userID,
			"profile_id", profileID,
			"prediction_type", predictionType,
		)
		return uuid.Nil, fmt.Errorf("failed to send prediction request: %w", err)
	}

	s.Log.Info("prediction requested",
		"request_id", req.RequestID,
		"user_id", userID,
		"profile_id", profileID,
		"prediction_type", predictionType,
	)

	return req.RequestID, nil
}

// RequestCompatibility запрос совместимости двух профилей пользователя
func (s *Service) RequestCompatibility(ctx context.Context, userID string, profileID, partnerID uuid.UUID) (uuid.UUID, error) {
	if profileID == partnerID {
		return uuid.Nil, &profileUsecase.ValidationError{Field: "partner_profile_id", Reason: "must differ from profile_id"}
	}

	p, chart, err := s.ownedWithChart(ctx, userID, profileID)
	if err != nil {
		return uuid.Nil, err
	}
	partner, partnerChart, err := s.ownedWithChart(ctx, userID, partnerID)
	if err != nil {
		return uuid.Nil, err
	}

	req := domain.PredictionRequest{
		RequestID:      uuid.New(),
		UserID:         userID,
		ProfileID:      profileID,
		PredictionType: domain.PredictionMarriageCompatibility,
		Profile:        p,
		Chart:          chart,
		Partner:        partner,
		PartnerChart:   partnerChart,
	}

	if err := s.Producer.SendPredictionRequest(ctx, req); err != nil {
		return uuid.Nil, fmt.Errorf("failed to send compatibility request: %w", err)
	}

	s.Log.Info("compatibility requested",
		"request_id", req.RequestID,
		"user_id", userID,
		"profile_id", profileID,
		"partner_profile_id", partnerID,
	)

	return req.RequestID, nil
}

// Response ответ текстового сервиса
type Response struct {
	RequestID       uuid.UUID
	UserID          string
	ProfileID       uuid.UUID
	PredictionType  domain.PredictionType
	PredictionText  string
	ConfidenceScore *float64
	GeneratedBy     string
	Metadata        json.RawMessage
}

// HandlePredictionResponse сохраняет сгенерированный прогноз
func (s *Service) HandlePredictionResponse(ctx context.Context, resp Response) (*domain.Prediction, error) {
	if !resp.PredictionType.IsValid() {
		return nil, domain.WrapBusinessError(fmt.Errorf("%q: %w", resp.PredictionType, domain.ErrInvalidPredictionType))
	}
	if resp.PredictionText == "" {
		return nil, domain.WrapBusinessError(errors.New("prediction_text is empty"))
	}

	now := s.now().UTC()
	pred := &domain.Prediction{
		ID:              uuid.New(),
		ProfileID:       resp.ProfileID,
		UserID:          resp.UserID,
		PredictionType:  resp.PredictionType,
		PredictionText:  resp.PredictionText,
		ConfidenceScore: resp.ConfidenceScore,
		GeneratedBy:     resp.GeneratedBy,
		IsActive:        true,
		Metadata:        types.JSONText("{}"),
		CreatedAt:       now,
		UpdatedAt:       now,
		ExpiresAt:       resp.PredictionType.ExpiresAt(now),
	}
	if pred.GeneratedBy == "" {
		pred.GeneratedBy = defaultGeneratedBy
	}
	if len(resp.Metadata) > 0 && json.Valid(resp.Metadata) {
		pred.Metadata = types.JSONText(resp.Metadata)
	}

	if err := s.PredictionRepo.Create(ctx, pred); err != nil {
		s.Log.Error("failed to save prediction",
			"error", err,
			"request_id", resp.RequestID,
			"profile_id", resp.ProfileID,
		)
		return nil, fmt.Errorf("failed to save prediction: %w", err)
	}

	s.Log.Info("prediction saved",
		"request_id", resp.RequestID,
		"prediction_id", pred.ID,
		"profile_id", pred.ProfileID,
		"prediction_type", pred.PredictionType,
	)

	return pred, nil
}

// ListPredictions непросроченные активные прогнозы профиля
func (s *Service) ListPredictions(ctx context.Context, userID string, profileID uuid.UUID) ([]domain.Prediction, error) {
	if _, err := profileUsecase.Owned(ctx, s.ProfileRepo, userID, profileID); err != nil {
		return nil, err
	}

	preds, err := s.PredictionRepo.ListActiveByProfile(ctx, profileID, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	return preds, nil
}

// ExpirePredictions деактивирует прогнозы с истёкшим сроком
func (s *Service) ExpirePredictions(ctx context.Context) (int64, error) {
	n, err := s.PredictionRepo.DeactivateExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate expired predictions: %w", err)
	}
	if n > 0 {
		s.Log.Info("expired predictions deactivated", "count", n)
	}
	return n, nil
}
