package pricing

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mreyesc/parkeo/internal/models"
)

// ErrNoRate signals that no active rate record covers the vehicle type
// at the requested instant. Callers fall back to DefaultRate rather
// than surfacing this to the payer.
var ErrNoRate = errors.New("no active rate for vehicle type")

// RateSource lists the active rate records for a vehicle type. Validity
// windows are evaluated here, not in the source, so that date semantics
// live in one tested place.
type RateSource interface {
	ActiveRates(vehicleTypeID uuid.UUID) ([]models.RateRecord, error)
}

type Catalog struct {
	Rates RateSource
}

// Resolve picks the rate record that governs the vehicle type at
// instant at. Among records whose validity window covers the date of
// at, the most recently started wins; equal start dates are broken by
// id so selection stays deterministic (equal starts are a
// configuration error, not expected in valid data).
func (c Catalog) Resolve(vehicleTypeID uuid.UUID, at time.Time) (models.RateRecord, error) {
	records, err := c.Rates.ActiveRates(vehicleTypeID)
	if err != nil {
		return models.RateRecord{}, err
	}

	day := truncateToDate(at)
	var best *models.RateRecord
	for i := range records {
		r := &records[i]
		if !r.Active || !appliesOn(*r, day) {
			continue
		}
		if best == nil || laterStart(*r, *best) {
			best = r
		}
	}
	if best == nil {
		return models.RateRecord{}, ErrNoRate
	}
	return *best, nil
}

func appliesOn(r models.RateRecord, day time.Time) bool {
	if truncateToDate(r.StartDate).After(day) {
		return false
	}
	if r.EndDate != nil && truncateToDate(*r.EndDate).Before(day) {
		return false
	}
	return true
}

func laterStart(a, b models.RateRecord) bool {
	as, bs := truncateToDate(a.StartDate), truncateToDate(b.StartDate)
	if !as.Equal(bs) {
		return as.After(bs)
	}
	return a.ID.String() > b.ID.String()
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
