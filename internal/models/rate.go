package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RateMode string

const (
	RatePerMinuteCapped RateMode = "PER_MINUTE_CAPPED"
	RatePerBlock        RateMode = "PER_BLOCK"
)

// RateRecord is a versioned pricing definition for a vehicle type.
// Mode decides which parameter set applies: PricePerMinute/DailyCap for
// PER_MINUTE_CAPPED, BlockDurationMin/PricePerBlock for PER_BLOCK.
type RateRecord struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key"`
	VehicleTypeID    uuid.UUID `gorm:"type:uuid;not null;index"`
	VehicleType      *VehicleType
	Mode             RateMode `gorm:"type:varchar(20);not null"`
	PricePerMinute   int
	DailyCap         int
	BlockDurationMin int
	PricePerBlock    int
	Active           bool      `gorm:"not null;default:true"`
	StartDate        time.Time `gorm:"type:date;not null"`
	EndDate          *time.Time `gorm:"type:date"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (rate *RateRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if rate.ID == uuid.Nil {
		rate.ID = uuid.New()
	}
	return
}
