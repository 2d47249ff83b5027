package repository

import (
	"context"
	"time"

	"github.com/admin/zodira/astro-api/internal/domain"
	"github.com/google/uuid"
)

// IPredictionRepo прогнозы текстового сервиса
type IPredictionRepo interface {
	Create(ctx context.Context, prediction *domain.Prediction) error
	ListActiveByProfile(ctx context.Context, profileID uuid.UUID, now time.Time) ([]domain.Prediction, error)
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}
