package profile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/admin/zodira/astro-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ProfileRepoMock struct{ mock.Mock }

func (m *ProfileRepoMock) Create(ctx context.Context, p *domain.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *ProfileRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*domain.Profile)
	return p, args.Error(1)
}

func (m *ProfileRepoMock) ListByUser(ctx context.Context, userID string) ([]domain.Profile, error) {
	args := m.Called(ctx, userID)
	profiles, _ := args.Get(0).([]domain.Profile)
	return profiles, args.Error(1)
}

func (m *ProfileRepoMock) Deactivate(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func newTestService(repo *ProfileRepoMock) *Service {
	s := New(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.now = func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func f64(v float64) *float64 { return &v }

func TestService_Create(t *testing.T) {
	valid := CreateInput{
		Name:       "  Meera ",
		BirthDate:  time.Date(1992, 4, 3, 0, 0, 0, 0, time.UTC),
		BirthTime:  "07:45",
		BirthPlace: "Pune",
		Latitude:   f64(18.52),
		Longitude:  f64(73.85),
	}

	tests := []struct {
		name      string
		mutate    func(in *CreateInput)
		wantField string
	}{
		{name: "valid"},
		{name: "empty name", mutate: func(in *CreateInput) { in.Name = " " }, wantField: "name"},
		{name: "too old", mutate: func(in *CreateInput) { in.BirthDate = time.Date(1850, 1, 1, 0, 0, 0, 0, time.UTC) }, wantField: "birth_date"},
		{name: "future", mutate: func(in *CreateInput) { in.BirthDate = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) }, wantField: "birth_date"},
		{name: "bad time", mutate: func(in *CreateInput) { in.BirthTime = "7 am" }, wantField: "birth_time"},
		{name: "seconds are fine", mutate: func(in *CreateInput) { in.BirthTime = "07:45:10" }},
		{name: "half coordinates", mutate: func(in *CreateInput) { in.Longitude = nil }, wantField: "coordinates"},
		{name: "latitude range", mutate: func(in *CreateInput) { in.Latitude = f64(91) }, wantField: "latitude"},
		{name: "longitude range", mutate: func(in *CreateInput) { in.Longitude = f64(-181) }, wantField: "longitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(ProfileRepoMock)
			in := valid
			if tt.mutate != nil {
				tt.mutate(&in)
			}
			if tt.wantField == "" {
				repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Profile")).Return(nil).Once()
			}

			p, err := newTestService(repo).Create(context.Background(), "user-1", in)

			if tt.wantField != "" {
				var vErr *ValidationError
				require.True(t, errors.As(err, &vErr))
				assert.Equal(t, tt.wantField, vErr.Field)
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Meera", p.Name)
			assert.Equal(t, domain.DefaultProfileTimezone, p.Timezone)
			assert.Equal(t, "self", p.Relationship)
			assert.True(t, p.IsActive)
			repo.AssertExpectations(t)
		})
	}
}

func TestOwned(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name    string
		profile *domain.Profile
		repoErr error
		wantErr error
	}{
		{name: "owner", profile: &domain.Profile{ID: id, UserID: "u1", IsActive: true}},
		{name: "other user", profile: &domain.Profile{ID: id, UserID: "u2", IsActive: true}, wantErr: domain.ErrForbidden},
		{name: "inactive", profile: &domain.Profile{ID: id, UserID: "u1"}, wantErr: domain.ErrNotFound},
		{name: "missing", repoErr: domain.ErrNotFound, wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(ProfileRepoMock)
			repo.On("GetByID", mock.Anything, id).Return(tt.profile, tt.repoErr)

			p, err := Owned(context.Background(), repo, "u1", id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, id, p.ID)
		})
	}
}

func TestService_Delete(t *testing.T) {
	id := uuid.New()
	repo := new(ProfileRepoMock)
	repo.On("GetByID", mock.Anything, id).Return(&domain.Profile{ID: id, UserID: "u1", IsActive: true}, nil)
	repo.On("Deactivate", mock.Anything, id).Return(nil).Once()

	s := newTestService(repo)

	require.NoError(t, s.Delete(context.Background(), "u1", id))
	assert.ErrorIs(t, s.Delete(context.Background(), "u2", id), domain.ErrForbidden)
	repo.AssertNumberOfCalls(t, "Deactivate", 1)
}
