package submission

import (
	"context"

	"beatlab/internal/domain"
)

type submissionRepo interface {
	Create(ctx context.Context, s *domain.Submission) error
	GetAll(ctx context.Context) ([]domain.Submission, error)
	GetByID(ctx context.Context, id int64) (*domain.Submission, error)
	UpdateStatus(ctx context.Context, id int64, status domain.SubmissionStatus) error
}
