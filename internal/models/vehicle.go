package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VehicleType struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Name        string    `gorm:"unique;not null"`
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (vehicleType *VehicleType) BeforeCreate(tx *gorm.DB) (err error) {
	if vehicleType.ID == uuid.Nil {
		vehicleType.ID = uuid.New()
	}
	return
}

type Vehicle struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	LicensePlate  *string   `gorm:"uniqueIndex"`
	VehicleTypeID uuid.UUID `gorm:"type:uuid;not null;index"`
	VehicleType   VehicleType
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (vehicle *Vehicle) BeforeCreate(tx *gorm.DB) (err error) {
	if vehicle.ID == uuid.Nil {
		vehicle.ID = uuid.New()
	}
	return
}
