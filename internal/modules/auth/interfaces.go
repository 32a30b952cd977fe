package auth

import (
	"context"

	"beatlab/internal/domain"
)

type userRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByOpenID(ctx context.Context, openID string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, u *domain.User) error
	UpsertByOpenID(ctx context.Context, u *domain.User) error
}

type jwtService interface {
	GenerateToken(userID int64, role string) (string, error)
}
