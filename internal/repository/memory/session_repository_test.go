package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/housing-survey-dashboard/internal/domain"
	"github.com/housing-survey-dashboard/internal/pkg/errors"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newSession(updated time.Time) *domain.Session {
	records := domain.NewRecordSet([]domain.Record{{ID: 0, Governorate: "القاهرة"}})
	s := domain.NewSession(records, domain.DatasetSource{Kind: domain.SourceDefault}, updated)
	return s
}

func TestSessionRepository_SaveGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()

	s := newSession(base)
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, 1, got.Records.Len())

	t.Run("returned copy is isolated", func(t *testing.T) {
		got.Filters = append(got.Filters, domain.FilterConstraint{Field: domain.FieldGovernorate, Value: "x"})
		id := 0
		got.SelectedID = &id

		again, err := repo.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Empty(t, again.Filters)
		assert.Nil(t, again.SelectedID)
	})

	t.Run("saved value is isolated", func(t *testing.T) {
		s.Revision = 42
		again, err := repo.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), again.Revision)
	})
}

func TestSessionRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()

	_, err := repo.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)

	err = repo.Delete(ctx, uuid.New())
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)
}

func TestSessionRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()

	s := newSession(base)
	require.NoError(t, repo.Save(ctx, s))
	require.NoError(t, repo.Delete(ctx, s.ID))

	_, err := repo.Get(ctx, s.ID)
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)
}

func TestSessionRepository_DeleteIdle(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()

	stale := newSession(base.Add(-3 * time.Hour))
	fresh := newSession(base)
	require.NoError(t, repo.Save(ctx, stale))
	require.NoError(t, repo.Save(ctx, fresh))

	removed, err := repo.DeleteIdle(ctx, base.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = repo.Get(ctx, stale.ID)
	assert.ErrorIs(t, err, errors.ErrSessionNotFound)
	_, err = repo.Get(ctx, fresh.ID)
	assert.NoError(t, err)
}

func TestSessionRepository_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	repo := NewSessionRepository()

	_, err := repo.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, context.Canceled)
}
