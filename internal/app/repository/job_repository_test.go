package repository

import (
	"context"
	"testing"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobRepository(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	repo := NewJobRepository(testDB)
	ctx := context.Background()
	base := time.Now()

	for i, kind := range []model.JobKind{model.JobKindRefresh, model.JobKindPurge, model.JobKindEnrich} {
		job := &model.AutomationJob{
			ID:        string(kind),
			Kind:      kind,
			Status:    model.JobStatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, job))
	}

	job, err := repo.FindByID(ctx, "purge")
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusPending, job.Status)

	finished := time.Now()
	job.Status = model.JobStatusSuccess
	job.Processed = 8
	job.FinishedAt = &finished
	require.NoError(t, repo.Update(ctx, job))

	job, err = repo.FindByID(ctx, "purge")
	require.NoError(t, err)
	assert.True(t, job.Done())
	assert.Equal(t, 8, job.Processed)

	recent, err := repo.FindRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "enrich", recent[0].ID)
	assert.Equal(t, "purge", recent[1].ID)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrJobRecordNotFound)
}
