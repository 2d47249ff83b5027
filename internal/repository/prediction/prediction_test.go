package predictionRepo

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/admin/zodira/astro-api/internal/adapters/secondary/storage/pg"
	"github.com/admin/zodira/astro-api/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })

	return New(pg.NewDB(sqlx.NewDb(raw, "pgx")), slog.New(slog.NewTextHandler(io.Discard, nil))).(*Repository), mock
}

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestRepository_Create(t *testing.T) {
	repo, mock := newTestRepo(t)
	p := &domain.Prediction{
		ID:             uuid.New(),
		ProfileID:      uuid.New(),
		UserID:         "u1",
		PredictionType: domain.PredictionDaily,
		PredictionText: "A calm day.",
		GeneratedBy:    "ai",
		IsActive:       true,
		Metadata:       types.JSONText(`{}`),
		CreatedAt:      now,
		UpdatedAt:      now,
		ExpiresAt:      domain.PredictionDaily.ExpiresAt(now),
	}

	mock.ExpectExec(`INSERT INTO predictions \(id, profile_id, user_id, prediction_type`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_Error(t *testing.T) {
	repo, mock := newTestRepo(t)
	mock.ExpectExec(`INSERT INTO predictions`).WillReturnError(errors.New("fk violation"))

	err := repo.Create(context.Background(), &domain.Prediction{ID: uuid.New(), Metadata: types.JSONText(`{}`)})

	assert.Error(t, err)
}

func TestRepository_ListActiveByProfile(t *testing.T) {
	repo, mock := newTestRepo(t)
	profileID := uuid.New()

	rows := sqlmock.NewRows(predictionColumns).AddRow(
		uuid.NewString(), profileID.String(), "u1", "career", "Promotion ahead.", 0.8,
		"ai", true, []byte(`{"model":"x"}`), now, now, nil,
	)
	mock.ExpectQuery(`FROM predictions\s+WHERE profile_id = \$1 AND is_active = true AND \(expires_at IS NULL OR expires_at > \$2\)`).
		WithArgs(profileID, now).
		WillReturnRows(rows)

	got, err := repo.ListActiveByProfile(context.Background(), profileID, now)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.PredictionCareer, got[0].PredictionType)
	assert.Nil(t, got[0].ExpiresAt)
	assert.JSONEq(t, `{"model":"x"}`, got[0].Metadata.String())
}

func TestRepository_DeactivateExpired(t *testing.T) {
	repo, mock := newTestRepo(t)
	mock.ExpectExec(`UPDATE predictions SET is_active = false, updated_at = \$1\s+WHERE is_active = true AND expires_at IS NOT NULL AND expires_at <= \$1`).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.DeactivateExpired(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
