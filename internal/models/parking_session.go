package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionStatus string

const (
	SessionParked          SessionStatus = "PARKED"
	SessionExitedPaid      SessionStatus = "EXITED_PAID"
	SessionExitedContract  SessionStatus = "EXITED_CONTRACT"
	SessionExitedException SessionStatus = "EXITED_EXCEPTION"
)

// Terminal reports whether no further transition is permitted.
func (s SessionStatus) Terminal() bool {
	return s != SessionParked
}

// ValidExitStatus reports whether s is an allowed outcome for exit registration.
func ValidExitStatus(s SessionStatus) bool {
	switch s {
	case SessionExitedPaid, SessionExitedContract, SessionExitedException:
		return true
	}
	return false
}

type ParkingSession struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	ArrivalTime  time.Time `gorm:"not null"`
	ExitTime     *time.Time
	PayTime      *time.Time
	Status       SessionStatus `gorm:"type:varchar(20);not null;default:'PARKED';index"`
	VehicleID    uuid.UUID     `gorm:"type:uuid;not null;index"`
	Vehicle      *Vehicle
	ParkingLotID uuid.UUID `gorm:"type:uuid;not null;index"`
	ParkingLot   *ParkingLot
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (session *ParkingSession) BeforeCreate(tx *gorm.DB) (err error) {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	return
}
