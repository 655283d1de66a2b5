package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentLink struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	LinkCode  string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
	IsUsed    bool      `gorm:"not null;default:false"`
	PaymentID uuid.UUID `gorm:"type:uuid;not null;index"`
	Payment   *Payment
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (link *PaymentLink) BeforeCreate(tx *gorm.DB) (err error) {
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	return
}

// Expired reports whether the link can no longer be redeemed because
// its expiry has passed. Expiry is inclusive: now == ExpiresAt is expired.
func (link PaymentLink) Expired(now time.Time) bool {
	return !now.Before(link.ExpiresAt)
}

// Redeemable reports whether the checkout page may still be rendered
// from this link.
func (link PaymentLink) Redeemable(now time.Time) bool {
	return !link.IsUsed && !link.Expired(now)
}
