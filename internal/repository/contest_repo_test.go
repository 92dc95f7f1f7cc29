package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"contesthub/internal/database"
	"contesthub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func seedContest(t *testing.T, repo *ContestRepository) *domain.Contest {
	t.Helper()
	c := &domain.Contest{
		Name:       "Logo refresh",
		Task:       "Deliver a vector logo",
		Category:   domain.CategoryImageDesign,
		Price:      5,
		PrizeMoney: 1000,
		Deadline:   time.Now().Add(-time.Hour),
		Status:     domain.ContestApproved,
		CreatorID:  1,
	}
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

func TestDeclareWinners_RollsBackFlipWhenSlotsFail(t *testing.T) {
	repo := NewContestRepository(setupTestDB(t))
	c := seedContest(t, repo)
	ctx := context.Background()

	// the duplicate rank violates the (contest, rank) unique index mid-insert
	bad := []domain.Winner{
		{ContestID: c.ID, UserID: 11, Rank: 1, Prize: 500},
		{ContestID: c.ID, UserID: 12, Rank: 1, Prize: 300},
	}
	declared, err := repo.DeclareWinners(ctx, c.ID, bad)
	assert.Error(t, err)
	assert.False(t, declared)

	// the failed insert must not leave the contest declared with no slots
	fresh, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, fresh.WinnerDeclared)
	assert.Equal(t, domain.ContestApproved, fresh.Status)

	// a retry with a valid ranking wins the flip and records the slots
	good := []domain.Winner{
		{ContestID: c.ID, UserID: 11, Rank: 1, Prize: 500},
		{ContestID: c.ID, UserID: 12, Rank: 2, Prize: 300},
	}
	declared, err = repo.DeclareWinners(ctx, c.ID, good)
	require.NoError(t, err)
	assert.True(t, declared)

	winners, err := repo.GetWinners(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, winners, 2)
}

func TestDeclareWinners_SecondCallLosesFlip(t *testing.T) {
	repo := NewContestRepository(setupTestDB(t))
	c := seedContest(t, repo)
	ctx := context.Background()

	w := []domain.Winner{{ContestID: c.ID, UserID: 11, Rank: 1, Prize: 500}}

	declared, err := repo.DeclareWinners(ctx, c.ID, w)
	require.NoError(t, err)
	assert.True(t, declared)

	declared, err = repo.DeclareWinners(ctx, c.ID, w)
	require.NoError(t, err)
	assert.False(t, declared)

	winners, err := repo.GetWinners(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, winners, 1)
}

func TestSyncParticipantCounts_RepairsDrift(t *testing.T) {
	repo := NewContestRepository(setupTestDB(t))
	c := seedContest(t, repo)
	ctx := context.Background()

	// two committed slots, zero bumps: a crash between the set insert and
	// the counter increment
	require.NoError(t, repo.AddParticipant(ctx, c.ID, 11))
	require.NoError(t, repo.AddParticipant(ctx, c.ID, 12))

	repaired, err := repo.SyncParticipantCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), repaired)

	fresh, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.ParticipantsCount)

	// a second pass finds nothing left to repair
	repaired, err = repo.SyncParticipantCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), repaired)
}
