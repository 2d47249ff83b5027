package astro

import (
	"context"
	"fmt"

	"github.com/admin/zodira/astro-api/internal/domain"
	profileUsecase "github.com/admin/zodira/astro-api/internal/usecases/profile"
	"github.com/google/uuid"
)

// GetChartParts сырые части карты профиля
func (s *Service) GetChartParts(ctx context.Context, userID string, profileID uuid.UUID) (*domain.RawChartParts, error) {
	if _, err := profileUsecase.Owned(ctx, s.ProfileRepo, userID, profileID); err != nil {
		return nil, err
	}

	parts, err := s.ChartRepo.GetChartParts(ctx, domain.ChartKey{UserID: userID, ProfileID: profileID.String()})
	if err != nil {
		return nil, fmt.Errorf("failed to get chart parts: %w", err)
	}
	return parts, nil
}

// GetChartPart одна сохранённая часть карты
func (s *Service) GetChartPart(ctx context.Context, userID string, profileID uuid.UUID, kind domain.ChartPartKind) (domain.Payload, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%q: %w", kind, domain.ErrInvalidChartType)
	}

	parts, err := s.GetChartParts(ctx, userID, profileID)
	if err != nil {
		return nil, err
	}
	return parts.Part(kind), nil
}

// GenerateChartPart запрашивает одну часть карты и дописывает её к сырым частям.
// Ошибка API возвращается вызывающему, остальные части не трогаются.
func (s *Service) GenerateChartPart(ctx context.Context, userID string, profileID uuid.UUID, kind domain.ChartPartKind) (domain.Payload, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%q: %w", kind, domain.ErrInvalidChartType)
	}

	p, err := profileUsecase.Owned(ctx, s.ProfileRepo, userID, profileID)
	if err != nil {
		return nil, err
	}

	key := domain.ChartKey{UserID: userID, ProfileID: profileID.String()}
	details := s.normalize(key, p.RawBirthDetails())

	payload, err := s.Fetcher.FetchPart(ctx, kind, details)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", kind, err)
	}

	if err := s.ChartRepo.SaveChartPart(ctx, key, kind, payload); err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", kind, err)
	}

	s.Log.Info("chart part generated",
		"user_id", userID,
		"profile_id", profileID,
		"chart_type", kind,
	)

	return payload, nil
}

// RefreshDashboardExtras запрашивает planets_extended и vimsottari для дашборда.
// Упавшие части пропускаются, ошибка записи только логируется.
func (s *Service) RefreshDashboardExtras(ctx context.Context, userID string, profileID uuid.UUID) (*domain.DashboardExtras, error) {
	p, err := profileUsecase.Owned(ctx, s.ProfileRepo, userID, profileID)
	if err != nil {
		return nil, err
	}

	key := domain.ChartKey{UserID: userID, ProfileID: profileID.String()}
	details := s.normalize(key, p.RawBirthDetails())

	extras := make(map[domain.ChartPartKind]domain.Payload, len(domain.DashboardExtraKinds))
	for _, kind := range domain.DashboardExtraKinds {
		payload, err := s.Fetcher.FetchPart(ctx, kind, details)
		if err != nil {
			s.Log.Warn("failed to fetch dashboard extra",
				"error", err,
				"chart_type", kind,
				"user_id", userID,
				"profile_id", profileID,
			)
			continue
		}
		extras[kind] = payload
	}

	if err := s.ChartRepo.SaveDashboardExtras(ctx, key, extras); err != nil {
		s.Log.Warn("failed to save dashboard extras",
			"error", err,
			"user_id", userID,
			"profile_id", profileID,
		)
	}

	now := s.now().UTC()
	return &domain.DashboardExtras{
		UserID:          userID,
		ProfileID:       profileID.String(),
		PlanetsExtended: extras[domain.ChartPartPlanetsExtended],
		Vimsottari:      extras[domain.ChartPartVimsottari],
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// GetDashboardExtras сохранённые данные дашборда
func (s *Service) GetDashboardExtras(ctx context.Context, userID string, profileID uuid.UUID) (*domain.DashboardExtras, error) {
	if _, err := profileUsecase.Owned(ctx, s.ProfileRepo, userID, profileID); err != nil {
		return nil, err
	}

	extras, err := s.ChartRepo.GetDashboardExtras(ctx, domain.ChartKey{UserID: userID, ProfileID: profileID.String()})
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard extras: %w", err)
	}
	return extras, nil
}
