package catalog

import (
	"context"

	"beatlab/internal/domain"
	"beatlab/internal/repository"
)

type beatRepo interface {
	GetAllActive(ctx context.Context) ([]domain.Beat, error)
	GetByID(ctx context.Context, id int64) (*domain.Beat, error)
	Filter(ctx context.Context, f repository.BeatFilters) ([]domain.Beat, error)
	Create(ctx context.Context, beat *domain.Beat) error
	Update(ctx context.Context, beat *domain.Beat) error
	SetActive(ctx context.Context, id int64, active bool) error
}
