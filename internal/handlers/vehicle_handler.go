package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mreyesc/parkeo/internal/helpers"
	"github.com/mreyesc/parkeo/internal/models"
	"gorm.io/gorm"
)

type VehicleTypeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func CreateVehicleType(c *gin.Context) {
	var req VehicleTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	vehicleType := models.VehicleType{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}

	if err := gormDB.Create(&vehicleType).Error; err != nil {
		helpers.RespondWithError(c, http.StatusConflict, "Vehicle type already exists.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Vehicle type created successfully.",
		"vehicle_type": vehicleType,
	})
}

func ListVehicleTypes(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var vehicleTypes []models.VehicleType
	if err := gormDB.Find(&vehicleTypes).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch vehicle types.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicle_types": vehicleTypes})
}

func ListVehicles(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	query := gormDB.Preload("VehicleType")
	if plate := c.Query("license_plate"); plate != "" {
		normalized, err := helpers.NormalizePlate(plate)
		if err != nil {
			helpers.RespondWithAppError(c, err)
			return
		}
		query = query.Where("license_plate = ?", normalized)
	}

	var vehicles []models.Vehicle
	if err := query.Find(&vehicles).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch vehicles.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles})
}

func GetVehicle(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid vehicle ID.")
		return
	}

	var vehicle models.Vehicle
	if err := gormDB.Preload("VehicleType").First(&vehicle, "id = ?", vehicleID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Vehicle not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

type VehicleCategoryRequest struct {
	VehicleTypeID uuid.UUID `json:"vehicle_type_id" binding:"required"`
}

// UpdateVehicleCategory reassigns a vehicle to a different type, e.g.
// when a motorcycle was registered under the default category at entry.
// Sessions already priced are not retroactively recomputed.
func UpdateVehicleCategory(c *gin.Context) {
	var req VehicleCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid vehicle ID.")
		return
	}

	var vehicleType models.VehicleType
	if err := gormDB.First(&vehicleType, "id = ?", req.VehicleTypeID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Vehicle type not found.")
		return
	}

	var vehicle models.Vehicle
	if err := gormDB.First(&vehicle, "id = ?", vehicleID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Vehicle not found.")
		return
	}

	vehicle.VehicleTypeID = req.VehicleTypeID
	if err := gormDB.Save(&vehicle).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update vehicle.")
		return
	}

	vehicle.VehicleType = vehicleType
	c.JSON(http.StatusOK, gin.H{
		"message": "Vehicle category updated successfully.",
		"vehicle": vehicle,
	})
}
