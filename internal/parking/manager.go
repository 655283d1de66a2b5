// Package parking owns the lifecycle of a parking session: open on
// entry, quote the amount due, transition to an exit state.
package parking

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mreyesc/parkeo/internal/apperr"
	"github.com/mreyesc/parkeo/internal/helpers"
	"github.com/mreyesc/parkeo/internal/models"
	"github.com/mreyesc/parkeo/internal/pricing"
)

// SessionStore persists parking sessions. CreateParked must be
// serialized against concurrent opens for the same vehicle; MarkExited
// must only apply while the session is still PARKED and report whether
// it did.
type SessionStore interface {
	CreateParked(session *models.ParkingSession) error
	Get(id uuid.UUID) (*models.ParkingSession, error)
	ParkedByVehicle(vehicleID uuid.UUID) (*models.ParkingSession, error)
	ParkedByPlate(plate string) (*models.ParkingSession, error)
	LatestByPlate(plate string) (*models.ParkingSession, error)
	MarkExited(id uuid.UUID, status models.SessionStatus, exitTime time.Time, payTime *time.Time) (bool, error)
}

// VehicleStore resolves vehicles by plate, creating them on first
// sighting with the facility's default vehicle type.
type VehicleStore interface {
	FindOrCreateByPlate(plate string) (*models.Vehicle, error)
}

type Manager struct {
	Sessions  SessionStore
	Vehicles  VehicleStore
	Catalog   pricing.Catalog
	MinAmount int
}

// StatusInfo is the payer-facing answer to "what do I owe".
type StatusInfo struct {
	Session *models.ParkingSession
	Parked  bool
	Quote   pricing.Quote
	CanExit bool
}

// OpenEntry registers a vehicle entering the lot, creating the vehicle
// record on first sighting.
func (m *Manager) OpenEntry(plate string, lotID uuid.UUID, now time.Time) (*models.ParkingSession, error) {
	normalized, err := helpers.NormalizePlate(plate)
	if err != nil {
		return nil, err
	}
	vehicle, err := m.Vehicles.FindOrCreateByPlate(normalized)
	if err != nil {
		return nil, err
	}
	return m.OpenSession(vehicle.ID, lotID, now)
}

// OpenSession opens a PARKED session, failing with a conflict if the
// vehicle already has one.
func (m *Manager) OpenSession(vehicleID, lotID uuid.UUID, now time.Time) (*models.ParkingSession, error) {
	session := &models.ParkingSession{
		ArrivalTime:  now,
		Status:       models.SessionParked,
		VehicleID:    vehicleID,
		ParkingLotID: lotID,
	}
	if err := m.Sessions.CreateParked(session); err != nil {
		return nil, err
	}
	return session, nil
}

// QuoteDue computes the amount owed by a PARKED session as of now.
// A missing rate configuration falls back to the default rate; entry
// and exit must never block on configuration gaps.
func (m *Manager) QuoteDue(session *models.ParkingSession, now time.Time) (pricing.Quote, error) {
	if session.Status != models.SessionParked {
		return pricing.Quote{}, apperr.Conflict("session is not active")
	}
	if session.Vehicle == nil {
		return pricing.Quote{}, apperr.Internal(errors.New("session loaded without vehicle"))
	}

	rate, err := m.Catalog.Resolve(session.Vehicle.VehicleTypeID, now)
	if err != nil {
		if !errors.Is(err, pricing.ErrNoRate) {
			return pricing.Quote{}, err
		}
		log.Printf("no active rate for vehicle type %s, using defaults", session.Vehicle.VehicleTypeID)
		rate = pricing.DefaultRate()
	}

	minAmount := m.MinAmount
	if minAmount <= 0 {
		minAmount = pricing.DefaultMinAmount
	}
	return pricing.Compute(rate, minAmount, session.ArrivalTime, now), nil
}

// ParkedByPlate resolves the vehicle's current PARKED session.
func (m *Manager) ParkedByPlate(plate string) (*models.ParkingSession, error) {
	normalized, err := helpers.NormalizePlate(plate)
	if err != nil {
		return nil, err
	}
	return m.Sessions.ParkedByPlate(normalized)
}

// RegisterExit moves a PARKED session to the given terminal outcome.
// Re-registering the same outcome is a success no-op; a different
// outcome on a terminal session is a conflict, never an overwrite.
func (m *Manager) RegisterExit(id uuid.UUID, outcome models.SessionStatus, now time.Time) (*models.ParkingSession, error) {
	if !models.ValidExitStatus(outcome) {
		return nil, apperr.Validation("invalid exit status")
	}

	session, err := m.Sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if session.Status.Terminal() {
		if session.Status == outcome {
			return session, nil
		}
		return nil, apperr.Conflict("session already exited with a different outcome")
	}

	var payTime *time.Time
	if outcome == models.SessionExitedPaid {
		payTime = &now
	}
	applied, err := m.Sessions.MarkExited(id, outcome, now, payTime)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Lost a race with another exit path; re-read and apply the
		// same idempotency rule.
		session, err = m.Sessions.Get(id)
		if err != nil {
			return nil, err
		}
		if session.Status == outcome {
			return session, nil
		}
		return nil, apperr.Conflict("session already exited with a different outcome")
	}
	return m.Sessions.Get(id)
}

// Status answers the payer-facing plate inquiry: amount due while
// PARKED, exit eligibility after a confirmed payment.
func (m *Manager) Status(plate string, now time.Time) (StatusInfo, error) {
	normalized, err := helpers.NormalizePlate(plate)
	if err != nil {
		return StatusInfo{}, err
	}

	session, err := m.Sessions.ParkedByPlate(normalized)
	if err == nil {
		quote, err := m.QuoteDue(session, now)
		if err != nil {
			return StatusInfo{}, err
		}
		return StatusInfo{Session: session, Parked: true, Quote: quote}, nil
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return StatusInfo{}, err
	}

	last, err := m.Sessions.LatestByPlate(normalized)
	if err != nil {
		return StatusInfo{}, err
	}
	return StatusInfo{
		Session: last,
		CanExit: last.Status == models.SessionExitedPaid,
	}, nil
}
