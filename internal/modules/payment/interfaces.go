package payment

import (
	"context"

	"contesthub/internal/domain"

	"github.com/google/uuid"
)

type ContestRepositoryInterface interface {
	GetByID(ctx context.Context, id int64) (*domain.Contest, error)
	IsParticipant(ctx context.Context, contestID, userID int64) (bool, error)
	AddParticipant(ctx context.Context, contestID, userID int64) error
	IncrementParticipants(ctx context.Context, contestID int64) error
}

type UserRepositoryInterface interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	IncrementParticipated(ctx context.Context, id int64) error
	DebitBalance(ctx context.Context, id int64, amount float64) (bool, error)
}

type PaymentRepositoryInterface interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByExternalRef(ctx context.Context, ref string) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Payment, int64, error)
}
