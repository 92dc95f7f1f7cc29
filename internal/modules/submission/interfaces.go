package submission

import (
	"context"

	"contesthub/internal/domain"
)

type ContestRepositoryInterface interface {
	GetByID(ctx context.Context, id int64) (*domain.Contest, error)
	IsParticipant(ctx context.Context, contestID, userID int64) (bool, error)
	DeclareWinners(ctx context.Context, contestID int64, winners []domain.Winner) (bool, error)
	GetWinners(ctx context.Context, contestID int64) ([]domain.Winner, error)
	MarkWinnerPaid(ctx context.Context, contestID, userID int64) error
	ListUnpaidWinners(ctx context.Context) ([]domain.Winner, error)
	SyncParticipantCounts(ctx context.Context) (int64, error)
}

type SubmissionRepositoryInterface interface {
	Create(ctx context.Context, s *domain.Submission) error
	GetByID(ctx context.Context, id int64) (*domain.Submission, error)
	GetByContestAndUser(ctx context.Context, contestID, userID int64) (*domain.Submission, error)
	ListByContest(ctx context.Context, contestID int64) ([]domain.Submission, error)
	MarkWinner(ctx context.Context, id int64, rank int, prize float64) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Submission, int64, error)
}

type UserRepositoryInterface interface {
	CreditWinnings(ctx context.Context, id int64, prize float64, points int) error
}

type PaymentRepositoryInterface interface {
	Create(ctx context.Context, p *domain.Payment) error
	HasSucceededPayout(ctx context.Context, contestID, userID int64) (bool, error)
}
