package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/admin/zodira/astro-api/internal/domain"
	"github.com/admin/zodira/astro-api/internal/ports/repository"
	"github.com/google/uuid"
)

const (
	minBirthYear        = 1900
	defaultRelationship = "self"
)

var birthTimeLayouts = []string{"15:04:05", "15:04"}

// Service профили людей пользователя
type Service struct {
	ProfileRepo repository.IProfileRepo
	Log         *slog.Logger
	now         func() time.Time
}

// New создаёт сервис профилей
func New(profileRepo repository.IProfileRepo, log *slog.Logger) *Service {
	return &Service{
		ProfileRepo: profileRepo,
		Log:         log,
		now:         time.Now,
	}
}

// CreateInput данные нового профиля
type CreateInput struct {
	Name         string
	BirthDate    time.Time
	BirthTime    string
	BirthPlace   string
	Latitude     *float64
	Longitude    *float64
	Timezone     string
	Gender       *string
	Relationship string
}

// ValidationError некорректные данные профиля
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (s *Service) validate(in *CreateInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	if y := in.BirthDate.Year(); y < minBirthYear || y > s.now().Year() {
		return &ValidationError{Field: "birth_date", Reason: fmt.Sprintf("year must be between %d and %d", minBirthYear, s.now().Year())}
	}

	if in.BirthTime != "" {
		valid := false
		for _, layout := range birthTimeLayouts {
			if _, err := time.Parse(layout, in.BirthTime); err == nil {
				valid = true
				break
			}
		}
		if !valid {
			return &ValidationError{Field: "birth_time", Reason: "expected HH:MM or HH:MM:SS"}
		}
	}

	if (in.Latitude == nil) != (in.Longitude == nil) {
		return &ValidationError{Field: "coordinates", Reason: "latitude and longitude must be set together"}
	}
	if in.Latitude != nil && (*in.Latitude < -90 || *in.Latitude > 90) {
		return &ValidationError{Field: "latitude", Reason: "must be between -90 and 90"}
	}
	if in.Longitude != nil && (*in.Longitude < -180 || *in.Longitude > 180) {
		return &ValidationError{Field: "longitude", Reason: "must be between -180 and 180"}
	}

	return nil
}

// Create валидирует и сохраняет новый профиль пользователя
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*domain.Profile, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p := &domain.Profile{
		ID:           uuid.New(),
		UserID:       userID,
		Name:         strings.TrimSpace(in.Name),
		BirthDate:    in.BirthDate,
		BirthTime:    in.BirthTime,
		BirthPlace:   in.BirthPlace,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		Timezone:     in.Timezone,
		Gender:       in.Gender,
		Relationship: in.Relationship,
		CreatedAt:    now,
		UpdatedAt:    now,
		IsActive:     true,
	}
	if p.Timezone == "" {
		p.Timezone = domain.DefaultProfileTimezone
	}
	if p.Relationship == "" {
		p.Relationship = defaultRelationship
	}

	if err := s.ProfileRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.Log.Info("profile created",
		"user_id", userID,
		"profile_id", p.ID,
	)

	return p, nil
}

// Get профиль пользователя с проверкой владельца
func (s *Service) Get(ctx context.Context, userID string, id uuid.UUID) (*domain.Profile, error) {
	return Owned(ctx, s.ProfileRepo, userID, id)
}

// List активные профили пользователя
func (s *Service) List(ctx context.Context, userID string) ([]domain.Profile, error) {
	profiles, err := s.ProfileRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// Delete мягко удаляет профиль пользователя
func (s *Service) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	if _, err := Owned(ctx, s.ProfileRepo, userID, id); err != nil {
		return err
	}

	if err := s.ProfileRepo.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	s.Log.Info("profile deleted",
		"user_id", userID,
		"profile_id", id,
	)
	return nil
}

// Owned загружает профиль и проверяет, что он принадлежит пользователю.
// Неактивный профиль считается отсутствующим.
func Owned(ctx context.Context, repo repository.IProfileRepo, userID string, id uuid.UUID) (*domain.Profile, error) {
	p, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if !p.IsActive {
		return nil, fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
	}

	if p.UserID != userID {
		return nil, fmt.Errorf("profile %s: %w", id, domain.ErrForbidden)
	}

	return p, nil
}
