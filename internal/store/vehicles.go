package store

import (
	"errors"

	"github.com/mreyesc/parkeo/internal/apperr"
	"github.com/mreyesc/parkeo/internal/models"
	"gorm.io/gorm"
)

// DefaultVehicleTypeName is the seeded category assigned to vehicles
// sighted for the first time, until an operator corrects it.
const DefaultVehicleTypeName = "car"

type Vehicles struct {
	DB *gorm.DB
}

func (v Vehicles) FindOrCreateByPlate(plate string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := v.DB.Preload("VehicleType").
		Where("license_plate = ?", plate).First(&vehicle).Error
	if err == nil {
		return &vehicle, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var defaultType models.VehicleType
	if err := v.DB.Where("name = ?", DefaultVehicleTypeName).First(&defaultType).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	vehicle = models.Vehicle{
		LicensePlate:  &plate,
		VehicleTypeID: defaultType.ID,
		VehicleType:   defaultType,
	}
	if err := v.DB.Create(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent first sighting.
			if err := v.DB.Preload("VehicleType").
				Where("license_plate = ?", plate).First(&vehicle).Error; err != nil {
				return nil, err
			}
			return &vehicle, nil
		}
		return nil, err
	}
	return &vehicle, nil
}
