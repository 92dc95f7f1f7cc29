package auth

import (
	"context"

	"contesthub/internal/domain"
	"contesthub/internal/pkg/jwt"
)

type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetBySubject(ctx context.Context, subjectID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, fields map[string]any) error
	UpdateCreatorStatus(ctx context.Context, id int64, status domain.CreatorStatus, role domain.UserRole) error
	UpdateAccountStatus(ctx context.Context, id int64, status domain.AccountStatus) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.User, int64, error)
}

type TokenVerifier interface {
	ValidateToken(tokenStr string) (*jwt.Claims, error)
}
