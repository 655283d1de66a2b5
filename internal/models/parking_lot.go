package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ParkingLot struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Name      string    `gorm:"not null"`
	Address   string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (lot *ParkingLot) BeforeCreate(tx *gorm.DB) (err error) {
	if lot.ID == uuid.Nil {
		lot.ID = uuid.New()
	}
	return
}
