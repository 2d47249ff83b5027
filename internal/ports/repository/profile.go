package repository

import (
	"context"

	"github.com/admin/zodira/astro-api/internal/domain"
	"github.com/google/uuid"
)

// IProfileRepo профили людей
type IProfileRepo interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Profile, error)
	// Deactivate мягкое удаление профиля вместе с его прогнозами
	Deactivate(ctx context.Context, id uuid.UUID) error
}
