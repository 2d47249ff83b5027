package profileRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/admin/zodira/astro-api/internal/domain"
	"github.com/admin/zodira/astro-api/internal/ports/persistence"
	ports "github.com/admin/zodira/astro-api/internal/ports/repository"
	"github.com/google/uuid"
)

type profileColumns struct {
	TableName    string
	ID           string
	UserID       string
	Name         string
	BirthDate    string
	BirthTime    string
	BirthPlace   string
	Latitude     string
	Longitude    string
	Timezone     string
	Gender       string
	Relationship string
	CreatedAt    string
	UpdatedAt    string
	IsActive     string
}

func (c profileColumns) all() []string {
	return []string{
		c.ID, c.UserID, c.Name, c.BirthDate, c.BirthTime, c.BirthPlace, c.Latitude,
		c.Longitude, c.Timezone, c.Gender, c.Relationship, c.CreatedAt, c.UpdatedAt, c.IsActive,
	}
}

type Repository struct {
	db      persistence.TxPersistence
	Log     *slog.Logger
	columns profileColumns
	now     func() time.Time
}

// New создаёт репозиторий профилей
func New(db persistence.TxPersistence, log *slog.Logger) ports.IProfileRepo {
	return &Repository{
		db:  db,
		Log: log,
		columns: profileColumns{
			TableName:    "person_profiles",
			ID:           "id",
			UserID:       "user_id",
			Name:         "name",
			BirthDate:    "birth_date",
			BirthTime:    "birth_time",
			BirthPlace:   "birth_place",
			Latitude:     "latitude",
			Longitude:    "longitude",
			Timezone:     "timezone",
			Gender:       "gender",
			Relationship: "relationship",
			CreatedAt:    "created_at",
			UpdatedAt:    "updated_at",
			IsActive:     "is_active",
		},
		now: time.Now,
	}
}

func (r *Repository) Create(ctx context.Context, p *domain.Profile) error {
	cols := r.columns.all()
	named := make([]string, len(cols))
	for i, c := range cols {
		named[i] = ":" + c
	}
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		r.columns.TableName,
		strings.Join(cols, ", "),
		strings.Join(named, ", "))

	if err := r.db.NamedExec(ctx, query, p); err != nil {
		r.Log.Error("failed to create profile",
			"error", err,
			"profile_id", p.ID,
			"user_id", p.UserID)
		return fmt.Errorf("failed to create profile: %w", err)
	}
	r.Log.Debug("profile created", "profile_id", p.ID, "user_id", p.UserID)
	return nil
}

// GetByID профиль по id, включая неактивные
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	var p domain.Profile
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(r.columns.all(), ", "),
		r.columns.TableName,
		r.columns.ID)
	if err := r.db.Get(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
		}
		r.Log.Error("failed to get profile", "error", err, "profile_id", id)
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// ListByUser активные профили пользователя, новые первыми
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]domain.Profile, error) {
	profiles := []domain.Profile{}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = true ORDER BY %s DESC`,
		strings.Join(r.columns.all(), ", "),
		r.columns.TableName,
		r.columns.UserID,
		r.columns.IsActive,
		r.columns.CreatedAt)
	if err := r.db.Select(ctx, &profiles, query, userID); err != nil {
		r.Log.Error("failed to list profiles", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	now := r.now().UTC()
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx persistence.Transaction) error {
		query := fmt.Sprintf(`UPDATE %s SET %s = false, %s = $1 WHERE %s = $2 AND %s = true`,
			r.columns.TableName,
			r.columns.IsActive,
			r.columns.UpdatedAt,
			r.columns.ID,
			r.columns.IsActive)
		affected, err := tx.ExecWithResult(ctx, query, now, id)
		if err != nil {
			return fmt.Errorf("failed to deactivate profile: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
		}

		if err := tx.Exec(ctx,
			`UPDATE predictions SET is_active = false, updated_at = $1 WHERE profile_id = $2 AND is_active = true`,
			now, id); err != nil {
			return fmt.Errorf("failed to deactivate profile predictions: %w", err)
		}

		r.Log.Debug("profile deactivated", "profile_id", id)
		return nil
	})
}
