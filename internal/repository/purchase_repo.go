package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"beatlab/internal/domain"
)

type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// CreateIdempotent inserts a purchase keyed by its Stripe payment ID.
// Webhook delivery is at-least-once and may race across process
// instances, so dedup has to happen in the database: ON CONFLICT DO
// NOTHING against the unique index on stripe_payment_id. Returns false
// when the payment was already recorded.
func (r *PurchaseRepository) CreateIdempotent(ctx context.Context, p *domain.Purchase) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stripe_payment_id"}},
		DoNothing: true,
	}).Create(p)
	if res.Error != nil {
		// Drivers that report the violation instead of honoring the
		// conflict clause still mean "already recorded".
		var pgErr *pgconn.PgError
		if errors.As(res.Error, &pgErr) && pgErr.Code == "23505" {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PurchaseRepository) GetByStripePaymentID(ctx context.Context, stripePaymentID string) (*domain.Purchase, error) {
	var p domain.Purchase
	if err := r.db.WithContext(ctx).Where("stripe_payment_id = ?", stripePaymentID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PurchaseRepository) GetAll(ctx context.Context) ([]domain.Purchase, error) {
	var purchases []domain.Purchase
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&purchases).Error
	return purchases, err
}

func (r *PurchaseRepository) CountByStripePaymentID(ctx context.Context, stripePaymentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Purchase{}).
		Where("stripe_payment_id = ?", stripePaymentID).
		Count(&count).Error
	return count, err
}
