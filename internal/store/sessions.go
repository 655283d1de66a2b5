// Package store backs the core interfaces with GORM over Postgres.
// Everything invariant-critical is a conditional UPDATE or a
// transaction so concurrent handlers cannot double-apply.
package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mreyesc/parkeo/internal/apperr"
	"github.com/mreyesc/parkeo/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Sessions struct {
	DB *gorm.DB
}

// CreateParked inserts a new PARKED session. The transactional check
// plus the partial unique index on (vehicle_id) WHERE status='PARKED'
// uphold at-most-one-active-session under concurrent entries.
func (s Sessions) CreateParked(session *models.ParkingSession) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.ParkingSession
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("vehicle_id = ? AND status = ?", session.VehicleID, models.SessionParked).
			First(&existing).Error
		if err == nil {
			return apperr.Conflict("vehicle already has an active session")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(session).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("vehicle already has an active session")
	}
	return err
}

func (s Sessions) Get(id uuid.UUID) (*models.ParkingSession, error) {
	var session models.ParkingSession
	err := s.DB.Preload("Vehicle.VehicleType").Preload("ParkingLot").
		First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("parking session")
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s Sessions) ParkedByVehicle(vehicleID uuid.UUID) (*models.ParkingSession, error) {
	var session models.ParkingSession
	err := s.DB.Preload("Vehicle.VehicleType").Preload("ParkingLot").
		Where("vehicle_id = ? AND status = ?", vehicleID, models.SessionParked).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("active parking session")
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s Sessions) ParkedByPlate(plate string) (*models.ParkingSession, error) {
	var session models.ParkingSession
	err := s.DB.
		Joins("JOIN vehicles ON vehicles.id = parking_sessions.vehicle_id").
		Where("vehicles.license_plate = ? AND parking_sessions.status = ?", plate, models.SessionParked).
		Preload("Vehicle.VehicleType").Preload("ParkingLot").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("active parking session")
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s Sessions) LatestByPlate(plate string) (*models.ParkingSession, error) {
	var session models.ParkingSession
	err := s.DB.
		Joins("JOIN vehicles ON vehicles.id = parking_sessions.vehicle_id").
		Where("vehicles.license_plate = ?", plate).
		Order("parking_sessions.arrival_time DESC").
		Preload("Vehicle.VehicleType").Preload("ParkingLot").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("parking session")
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// MarkExited applies a terminal status only while the session is still
// PARKED and reports whether this call won the transition.
func (s Sessions) MarkExited(id uuid.UUID, status models.SessionStatus, exitTime time.Time, payTime *time.Time) (bool, error) {
	result := s.DB.Model(&models.ParkingSession{}).
		Where("id = ? AND status = ?", id, models.SessionParked).
		Updates(map[string]interface{}{
			"status":    status,
			"exit_time": exitTime,
			"pay_time":  payTime,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
