package leaderboard

import (
	"context"
	"testing"
	"time"

	"contesthub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock repositories

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) ListRanked(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) RankBefore(ctx context.Context, points, wins int) (int64, error) {
	args := m.Called(ctx, points, wins)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[int64]*domain.User), args.Error(1)
}

type MockContestRepository struct {
	mock.Mock
}

func (m *MockContestRepository) GetByID(ctx context.Context, id int64) (*domain.Contest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contest), args.Error(1)
}

func (m *MockContestRepository) GetWinners(ctx context.Context, contestID int64) ([]domain.Winner, error) {
	args := m.Called(ctx, contestID)
	return args.Get(0).([]domain.Winner), args.Error(1)
}

func (m *MockContestRepository) ListParticipants(ctx context.Context, contestID int64) ([]domain.Participant, error) {
	args := m.Called(ctx, contestID)
	return args.Get(0).([]domain.Participant), args.Error(1)
}

type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) ListByContest(ctx context.Context, contestID int64) ([]domain.Submission, error) {
	args := m.Called(ctx, contestID)
	return args.Get(0).([]domain.Submission), args.Error(1)
}

func TestGlobal_CompetitionRanking(t *testing.T) {
	users := new(MockUserRepository)

	// 300/300/100 points must rank 1/1/3: tied keys share the rank, the next
	// distinct key resumes at its absolute position
	users.On("ListRanked", mock.Anything, 20, 0).Return([]domain.User{
		{ID: 1, Name: "Ada", Points: 300, ContestsWon: 2},
		{ID: 2, Name: "Ben", Points: 300, ContestsWon: 2},
		{ID: 3, Name: "Cleo", Points: 100, ContestsWon: 1},
	}, int64(3), nil)
	users.On("RankBefore", mock.Anything, 300, 2).Return(int64(0), nil)

	service := NewService(users, new(MockContestRepository), new(MockSubmissionRepository))

	entries, total, err := service.Global(context.Background(), 1, 20)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []int{1, 1, 3}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank})
}

func TestGlobal_TieBrokenByWins(t *testing.T) {
	users := new(MockUserRepository)

	users.On("ListRanked", mock.Anything, 20, 0).Return([]domain.User{
		{ID: 1, Name: "Ada", Points: 300, ContestsWon: 3},
		{ID: 2, Name: "Ben", Points: 300, ContestsWon: 2},
	}, int64(2), nil)
	users.On("RankBefore", mock.Anything, 300, 3).Return(int64(0), nil)

	service := NewService(users, new(MockContestRepository), new(MockSubmissionRepository))

	entries, _, err := service.Global(context.Background(), 1, 20)

	assert.NoError(t, err)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestGlobal_PageStartsMidTie(t *testing.T) {
	users := new(MockUserRepository)

	// second page opens inside a tie group; the absolute rank comes from the
	// count of users strictly ahead
	users.On("ListRanked", mock.Anything, 2, 2).Return([]domain.User{
		{ID: 3, Name: "Cleo", Points: 300, ContestsWon: 2},
		{ID: 4, Name: "Dee", Points: 100, ContestsWon: 1},
	}, int64(4), nil)
	users.On("RankBefore", mock.Anything, 300, 2).Return(int64(0), nil)

	service := NewService(users, new(MockContestRepository), new(MockSubmissionRepository))

	entries, _, err := service.Global(context.Background(), 2, 2)

	assert.NoError(t, err)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 4, entries[1].Rank)
}

func TestContest_OrdersWinnersThenSubmittersThenRest(t *testing.T) {
	users := new(MockUserRepository)
	contests := new(MockContestRepository)
	subs := new(MockSubmissionRepository)

	now := time.Now()

	contests.On("GetByID", mock.Anything, int64(7)).Return(&domain.Contest{ID: 7}, nil)
	contests.On("GetWinners", mock.Anything, int64(7)).Return([]domain.Winner{
		{ContestID: 7, UserID: 2, Rank: 1, Prize: 500},
	}, nil)
	subs.On("ListByContest", mock.Anything, int64(7)).Return([]domain.Submission{
		{ID: 11, ContestID: 7, UserID: 2, SubmittedAt: now.Add(-2 * time.Hour)},
		{ID: 12, ContestID: 7, UserID: 1, SubmittedAt: now.Add(-time.Hour)},
	}, nil)
	contests.On("ListParticipants", mock.Anything, int64(7)).Return([]domain.Participant{
		{ContestID: 7, UserID: 1}, {ContestID: 7, UserID: 2}, {ContestID: 7, UserID: 3}, {ContestID: 7, UserID: 4},
	}, nil)
	users.On("GetByIDs", mock.Anything, mock.Anything).Return(map[int64]*domain.User{
		1: {ID: 1, Name: "Ada"},
		2: {ID: 2, Name: "Ben"},
		3: {ID: 3, Name: "Cleo"},
		4: {ID: 4, Name: "Arno"},
	}, nil)

	service := NewService(users, contests, subs)

	entries, err := service.Contest(context.Background(), 7)

	assert.NoError(t, err)
	assert.Len(t, entries, 4)
	// winner first, then the other submitter, then non-submitters by name
	assert.Equal(t, int64(2), entries[0].UserID)
	assert.True(t, entries[0].IsWinner)
	assert.Equal(t, int64(1), entries[1].UserID)
	assert.True(t, entries[1].Submitted)
	assert.Equal(t, "Arno", entries[2].Name)
	assert.Equal(t, "Cleo", entries[3].Name)
}

func TestContest_OrdersRestAroundMultipleDanglingRows(t *testing.T) {
	users := new(MockUserRepository)
	contests := new(MockContestRepository)
	subs := new(MockSubmissionRepository)

	contests.On("GetByID", mock.Anything, int64(7)).Return(&domain.Contest{ID: 7}, nil)
	contests.On("GetWinners", mock.Anything, int64(7)).Return([]domain.Winner{}, nil)
	subs.On("ListByContest", mock.Anything, int64(7)).Return([]domain.Submission{}, nil)
	// two deleted accounts interleave with the live non-submitters
	contests.On("ListParticipants", mock.Anything, int64(7)).Return([]domain.Participant{
		{ContestID: 7, UserID: 8}, {ContestID: 7, UserID: 3}, {ContestID: 7, UserID: 9},
		{ContestID: 7, UserID: 4}, {ContestID: 7, UserID: 2},
	}, nil)
	users.On("GetByIDs", mock.Anything, mock.Anything).Return(map[int64]*domain.User{
		2: {ID: 2, Name: "Ben"},
		3: {ID: 3, Name: "Cleo"},
		4: {ID: 4, Name: "Arno"},
	}, nil)

	service := NewService(users, contests, subs)

	entries, err := service.Contest(context.Background(), 7)

	assert.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Equal(t, "Arno", entries[0].Name)
	assert.Equal(t, "Ben", entries[1].Name)
	assert.Equal(t, "Cleo", entries[2].Name)
}

func TestContest_SkipsDeletedUsers(t *testing.T) {
	users := new(MockUserRepository)
	contests := new(MockContestRepository)
	subs := new(MockSubmissionRepository)

	contests.On("GetByID", mock.Anything, int64(7)).Return(&domain.Contest{ID: 7}, nil)
	contests.On("GetWinners", mock.Anything, int64(7)).Return([]domain.Winner{}, nil)
	subs.On("ListByContest", mock.Anything, int64(7)).Return([]domain.Submission{}, nil)
	contests.On("ListParticipants", mock.Anything, int64(7)).Return([]domain.Participant{
		{ContestID: 7, UserID: 1}, {ContestID: 7, UserID: 9},
	}, nil)
	// user 9 was deleted; the participant row dangles
	users.On("GetByIDs", mock.Anything, mock.Anything).Return(map[int64]*domain.User{
		1: {ID: 1, Name: "Ada"},
	}, nil)

	service := NewService(users, contests, subs)

	entries, err := service.Contest(context.Background(), 7)

	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].UserID)
}
