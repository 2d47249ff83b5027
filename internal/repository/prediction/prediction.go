package predictionRepo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/admin/zodira/astro-api/internal/domain"
	"github.com/admin/zodira/astro-api/internal/ports/persistence"
	ports "github.com/admin/zodira/astro-api/internal/ports/repository"
	"github.com/google/uuid"
)

var predictionColumns = []string{
	"id", "profile_id", "user_id", "prediction_type", "prediction_text", "confidence_score",
	"generated_by", "is_active", "metadata", "created_at", "updated_at", "expires_at",
}

const predictionsTable = "predictions"

type Repository struct {
	db  persistence.Persistence
	Log *slog.Logger
}

func New(db persistence.Persistence, log *slog.Logger) ports.IPredictionRepo {
	return &Repository{db: db, Log: log}
}

func (r *Repository) Create(ctx context.Context, p *domain.Prediction) error {
	named := make([]string, len(predictionColumns))
	for i, c := range predictionColumns {
		named[i] = ":" + c
	}
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		predictionsTable,
		strings.Join(predictionColumns, ", "),
		strings.Join(named, ", "))

	if err := r.db.NamedExec(ctx, query, p); err != nil {
		r.Log.Error("failed to create prediction",
			"error", err,
			"prediction_id", p.ID,
			"profile_id", p.ProfileID)
		return fmt.Errorf("failed to create prediction: %w", err)
	}
	return nil
}

// ListActiveByProfile активные и не истёкшие прогнозы, новые первыми
func (r *Repository) ListActiveByProfile(ctx context.Context, profileID uuid.UUID, now time.Time) ([]domain.Prediction, error) {
	predictions := []domain.Prediction{}
	query := fmt.Sprintf(`SELECT %s FROM %s
		WHERE profile_id = $1 AND is_active = true AND (expires_at IS NULL OR expires_at > $2)
		ORDER BY created_at DESC`,
		strings.Join(predictionColumns, ", "),
		predictionsTable)
	if err := r.db.Select(ctx, &predictions, query, profileID, now); err != nil {
		r.Log.Error("failed to list predictions", "error", err, "profile_id", profileID)
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	return predictions, nil
}

// DeactivateExpired снимает флаг активности с истёкших прогнозов, возвращает их число
func (r *Repository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	query := fmt.Sprintf(`UPDATE %s SET is_active = false, updated_at = $1
		WHERE is_active = true AND expires_at IS NOT NULL AND expires_at <= $1`,
		predictionsTable)
	affected, err := r.db.ExecWithResult(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate expired predictions: %w", err)
	}
	return affected, nil
}
