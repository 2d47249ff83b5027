package astro

import (
	"context"
	"errors"
	"fmt"

	"github.com/admin/zodira/astro-api/internal/domain"
	profileUsecase "github.com/admin/zodira/astro-api/internal/usecases/profile"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	ChartStatusCompleted = "completed"
	ChartStatusNotFound  = "not_found"
)

// GenerateChart полный цикл построения карты:
// нормализация, 5 частей из API, сохранение сырых частей, дома и даши параллельно, сохранение карты.
// Ошибкой считается неудачная запись самой карты или отмена запроса до неё.
func (s *Service) GenerateChart(ctx context.Context, key domain.ChartKey, rawDetails map[string]any) (*domain.StructuredChart, error) {
	details := s.normalize(key, rawDetails)

	s.Log.Info("generating astrology chart",
		"user_id", key.UserID,
		"profile_id", key.ProfileID,
	)

	parts := s.Fetcher.FetchAllParts(ctx, details)

	if err := s.ChartRepo.SaveChartParts(ctx, key, parts); err != nil {
		s.Log.Warn("failed to save raw chart parts",
			"error", err,
			"user_id", key.UserID,
			"profile_id", key.ProfileID,
		)
	}

	var (
		views  ChartViews
		dashas []domain.DashaPeriod
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		views = StructureChart(
			parts[domain.ChartPartRasi],
			parts[domain.ChartPartNavamsa],
			parts[domain.ChartPartD10],
			parts[domain.ChartPartChandra],
			parts[domain.ChartPartShadbala],
		)
		return nil
	})
	g.Go(func() error {
		dashas = s.computeDasha(gCtx, key, details, parts[domain.ChartPartRasi])
		return gCtx.Err()
	})
	if err := g.Wait(); err != nil {
		s.Log.Error("chart computation aborted",
			"error", err,
			"user_id", key.UserID,
			"profile_id", key.ProfileID,
		)
		return nil, fmt.Errorf("failed to compute chart: %w", err)
	}

	now := s.now().UTC()
	chart := &domain.StructuredChart{
		UserID:           key.UserID,
		ProfileID:        key.ProfileID,
		Houses:           views.Houses,
		Career:           views.Career,
		Finance:          views.Finance,
		Health:           views.Health,
		Travel:           views.Travel,
		VimshottariDasha: dashas,
		BirthDetails:     details,
		CreatedAt:        now,
		UpdatedAt:        now,
		IsActive:         true,
	}

	if err := s.ChartRepo.SaveChart(ctx, chart); err != nil {
		s.Log.Error("failed to save astrology chart",
			"error", err,
			"user_id", key.UserID,
			"profile_id", key.ProfileID,
		)
		return nil, fmt.Errorf("failed to save chart: %w", err)
	}

	s.Log.Info("astrology chart saved",
		"user_id", key.UserID,
		"profile_id", key.ProfileID,
		"dasha_periods", len(dashas),
	)

	return chart, nil
}

func (s *Service) normalize(key domain.ChartKey, raw map[string]any) domain.BirthDetails {
	details, fallbacks := NormalizeBirthDetails(raw)
	for _, fb := range fallbacks {
		s.Log.Warn("birth detail fell back",
			"field", fb.Field,
			"value", fb.Value,
			"user_id", key.UserID,
			"profile_id", key.ProfileID,
		)
	}
	return details
}

func (s *Service) computeDasha(ctx context.Context, key domain.ChartKey, details domain.BirthDetails, rasi domain.Payload) []domain.DashaPeriod {
	birth, ok := details.Moment()
	if !ok {
		birth = s.now().UTC()
		s.Log.Warn("invalid birth date, dasha computed from current date",
			"user_id", key.UserID,
			"profile_id", key.ProfileID,
		)
	}

	moon := MoonLongitude(rasi)
	if moon == nil {
		s.Log.Warn("moon longitude not available, using 0 for dasha",
			"user_id", key.UserID,
			"profile_id", key.ProfileID,
		)
	}

	return ComputeDasha(birth, moon, s.Vimshottari.Order(ctx))
}

// GenerateChartForProfile строит карту профиля пользователя.
// Если карта уже есть и force == false, возвращает её и existed == true.
func (s *Service) GenerateChartForProfile(ctx context.Context, userID string, profileID uuid.UUID, force bool) (chart *domain.StructuredChart, existed bool, err error) {
	p, err := profileUsecase.Owned(ctx, s.ProfileRepo, userID, profileID)
	if err != nil {
		return nil, false, err
	}

	key := domain.ChartKey{UserID: userID, ProfileID: profileID.String()}

	if !force {
		existing, err := s.ChartRepo.GetChart(ctx, key)
		switch {
		case err == nil:
			return existing, true, nil
		case !errors.Is(err, domain.ErrNotFound):
			return nil, false, fmt.Errorf("failed to check existing chart: %w", err)
		}
	}

	chart, err = s.GenerateChart(ctx, key, p.RawBirthDetails())
	if err != nil {
		return nil, false, err
	}
	return chart, false, nil
}

// GetChart сохранённая карта профиля
func (s *Service) GetChart(ctx context.Context, userID string, profileID uuid.UUID) (*domain.StructuredChart, error) {
	if _, err := profileUsecase.Owned(ctx, s.ProfileRepo, userID, profileID); err != nil {
		return nil, err
	}

	chart, err := s.ChartRepo.GetChart(ctx, domain.ChartKey{UserID: userID, ProfileID: profileID.String()})
	if err != nil {
		return nil, fmt.Errorf("failed to get chart: %w", err)
	}
	return chart, nil
}

// ChartStatus completed, если карта сохранена, иначе not_found
func (s *Service) ChartStatus(ctx context.Context, userID string, profileID uuid.UUID) (string, error) {
	if _, err := profileUsecase.Owned(ctx, s.ProfileRepo, userID, profileID); err != nil {
		return "", err
	}

	_, err := s.ChartRepo.GetChart(ctx, domain.ChartKey{UserID: userID, ProfileID: profileID.String()})
	switch {
	case err == nil:
		return ChartStatusCompleted, nil
	case errors.Is(err, domain.ErrNotFound):
		return ChartStatusNotFound, nil
	}
	return "", fmt.Errorf("failed to get chart status: %w", err)
}

// DeleteChart удаляет карту профиля. Удаление отсутствующей карты не ошибка,
// deleted сообщает, была ли карта.
func (s *Service) DeleteChart(ctx context.Context, userID string, profileID uuid.UUID) (deleted bool, err error) {
	if _, err := profileUsecase.Owned(ctx, s.ProfileRepo, userID, profileID); err != nil {
		return false, err
	}

	deleted, err = s.ChartRepo.DeleteChart(ctx, domain.ChartKey{UserID: userID, ProfileID: profileID.String()})
	if err != nil {
		return false, fmt.Errorf("failed to delete chart: %w", err)
	}

	s.Log.Info("astrology chart deleted",
		"user_id", userID,
		"profile_id", profileID,
		"existed", deleted,
	)
	return deleted, nil
}
