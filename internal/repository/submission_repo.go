package repository

import (
	"context"

	"gorm.io/gorm"

	"beatlab/internal/domain"
)

type SubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Create(ctx context.Context, s *domain.Submission) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SubmissionRepository) GetAll(ctx context.Context) ([]domain.Submission, error) {
	var subs []domain.Submission
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&subs).Error
	return subs, err
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id int64) (*domain.Submission, error) {
	var s domain.Submission
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateStatus touches only the status column. A zero-row update means the
// submission does not exist and is surfaced as not found.
func (r *SubmissionRepository) UpdateStatus(ctx context.Context, id int64, status domain.SubmissionStatus) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Submission{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
