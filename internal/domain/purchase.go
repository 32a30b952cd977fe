package domain

import "time"

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseCompleted PurchaseStatus = "completed"
	PurchaseFailed    PurchaseStatus = "failed"
)

// Purchase is one completed sale. StripePaymentID is the idempotency key:
// the unique index is what makes at-least-once webhook delivery safe, so
// it must never be dropped from the schema.
type Purchase struct {
	ID              int64          `json:"id" gorm:"primaryKey"`
	BeatID          int64          `json:"beat_id" gorm:"index"`
	BuyerEmail      string         `json:"buyer_email" gorm:"size:320"`
	BuyerName       *string        `json:"buyer_name,omitempty" gorm:"size:255"`
	StripePaymentID string         `json:"stripe_payment_id" gorm:"size:255;uniqueIndex"`
	Amount          int64          `json:"amount"`
	Status          PurchaseStatus `json:"status" gorm:"size:16;default:pending"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}
