package clientdata

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupJob_Name(t *testing.T) {
	job := NewCleanupJob(nil, zerolog.Nop())
	assert.Equal(t, "client_data_cleanup", job.Name())
}

func TestCleanupJob_Run(t *testing.T) {
	repo := setupTestRepo(t)
	start := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return start }

	require.NoError(t, repo.Store(TableCallChains, "expired", []int{1}, time.Minute))
	require.NoError(t, repo.Store(TableDividendHistory, "fresh", []int{2}, TTLDividends))

	repo.now = func() time.Time { return start.Add(time.Hour) }

	job := NewCleanupJob(repo, zerolog.Nop())
	require.NoError(t, job.Run())

	var got []int
	found, err := repo.Get(TableCallChains, "expired", &got)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = repo.Get(TableDividendHistory, "fresh", &got)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestCleanupJob_NothingToDelete(t *testing.T) {
	repo := setupTestRepo(t)
	job := NewCleanupJob(repo, zerolog.Nop())

	assert.NoError(t, job.Run())
}
