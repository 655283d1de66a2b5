package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentRejected  PaymentStatus = "REJECTED"
)

// Terminal reports whether the payment reached a final outcome.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentCompleted || s == PaymentRejected
}

type Payment struct {
	ID          uuid.UUID     `gorm:"type:uuid;primary_key"`
	OrderID     string        `gorm:"not null;uniqueIndex"`
	ReferenceID string        `gorm:"not null"`
	Amount      int           `gorm:"not null"`
	Status      PaymentStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	McCode      *string
	CompletedAt *time.Time
	SessionID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Session     *ParkingSession
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (payment *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	return
}
