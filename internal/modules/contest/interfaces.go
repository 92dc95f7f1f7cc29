package contest

import (
	"context"

	"contesthub/internal/domain"
	"contesthub/internal/repository"
)

type ContestRepositoryInterface interface {
	Create(ctx context.Context, c *domain.Contest) error
	GetByID(ctx context.Context, id int64) (*domain.Contest, error)
	UpdateContent(ctx context.Context, id int64, fields map[string]any) error
	UpdateStatus(ctx context.Context, id int64, status domain.ContestStatus) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f repository.ContestFilters) ([]domain.Contest, int64, error)
	ListByCreator(ctx context.Context, creatorID int64, limit, offset int) ([]domain.Contest, int64, error)
}
