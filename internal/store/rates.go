package store

import (
	"github.com/google/uuid"
	"github.com/mreyesc/parkeo/internal/models"
	"gorm.io/gorm"
)

type Rates struct {
	DB *gorm.DB
}

// ActiveRates returns the active records for a vehicle type; validity
// windows are evaluated by the catalog.
func (r Rates) ActiveRates(vehicleTypeID uuid.UUID) ([]models.RateRecord, error) {
	var records []models.RateRecord
	err := r.DB.
		Where("vehicle_type_id = ? AND active = ?", vehicleTypeID, true).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
