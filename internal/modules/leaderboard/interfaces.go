package leaderboard

import (
	"context"

	"contesthub/internal/domain"
)

type UserRepositoryInterface interface {
	ListRanked(ctx context.Context, limit, offset int) ([]domain.User, int64, error)
	RankBefore(ctx context.Context, points, wins int) (int64, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error)
}

type ContestRepositoryInterface interface {
	GetByID(ctx context.Context, id int64) (*domain.Contest, error)
	GetWinners(ctx context.Context, contestID int64) ([]domain.Winner, error)
	ListParticipants(ctx context.Context, contestID int64) ([]domain.Participant, error)
}

type SubmissionRepositoryInterface interface {
	ListByContest(ctx context.Context, contestID int64) ([]domain.Submission, error)
}
