package repository

import (
	"context"

	"gorm.io/gorm"

	"beatlab/internal/domain"
)

// BeatFilters are AND-combined. Listing and filtering only ever see
// active beats; direct ID lookup sees everything.
type BeatFilters struct {
	Genre  string
	Mood   string
	MinBPM int
	MaxBPM int
}

type BeatRepository struct {
	db *gorm.DB
}

func NewBeatRepository(db *gorm.DB) *BeatRepository {
	return &BeatRepository{db: db}
}

func (r *BeatRepository) GetAllActive(ctx context.Context) ([]domain.Beat, error) {
	var beats []domain.Beat
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&beats).Error
	return beats, err
}

func (r *BeatRepository) GetByID(ctx context.Context, id int64) (*domain.Beat, error) {
	var beat domain.Beat
	if err := r.db.WithContext(ctx).First(&beat, id).Error; err != nil {
		return nil, err
	}
	return &beat, nil
}

func (r *BeatRepository) Filter(ctx context.Context, f BeatFilters) ([]domain.Beat, error) {
	q := r.db.WithContext(ctx).
		Model(&domain.Beat{}).
		Where("is_active = ?", true)

	if f.Genre != "" {
		q = q.Where("genre = ?", f.Genre)
	}
	if f.Mood != "" {
		q = q.Where("mood = ?", f.Mood)
	}
	if f.MinBPM > 0 {
		q = q.Where("bpm >= ?", f.MinBPM)
	}
	if f.MaxBPM > 0 {
		q = q.Where("bpm <= ?", f.MaxBPM)
	}

	var beats []domain.Beat
	err := q.Order("created_at DESC").Find(&beats).Error
	return beats, err
}

func (r *BeatRepository) Create(ctx context.Context, beat *domain.Beat) error {
	return r.db.WithContext(ctx).Create(beat).Error
}

func (r *BeatRepository) Update(ctx context.Context, beat *domain.Beat) error {
	return r.db.WithContext(ctx).Save(beat).Error
}

// SetActive flips the soft-delete flag. The row is never removed.
func (r *BeatRepository) SetActive(ctx context.Context, id int64, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Beat{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
