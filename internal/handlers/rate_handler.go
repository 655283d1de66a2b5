package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mreyesc/parkeo/internal/helpers"
	"github.com/mreyesc/parkeo/internal/models"
	"gorm.io/gorm"
)

type RateRequest struct {
	VehicleTypeID    uuid.UUID `json:"vehicle_type_id" binding:"required"`
	Mode             string    `json:"mode" binding:"required"`
	PricePerMinute   int       `json:"price_per_minute"`
	DailyCap         int       `json:"daily_cap"`
	BlockDurationMin int       `json:"block_duration_min"`
	PricePerBlock    int       `json:"price_per_block"`
	StartDate        string    `json:"start_date" binding:"required"`
	EndDate          *string   `json:"end_date"`
}

// validateMode checks that the parameters required by the chosen mode
// are present and positive.
func (req *RateRequest) validateMode() string {
	switch models.RateMode(req.Mode) {
	case models.RatePerMinuteCapped:
		if req.PricePerMinute <= 0 {
			return "price_per_minute must be positive for PER_MINUTE_CAPPED rates."
		}
		if req.DailyCap < 0 {
			return "daily_cap cannot be negative."
		}
	case models.RatePerBlock:
		if req.BlockDurationMin <= 0 {
			return "block_duration_min must be positive for PER_BLOCK rates."
		}
		if req.PricePerBlock <= 0 {
			return "price_per_block must be positive for PER_BLOCK rates."
		}
	default:
		return "mode must be PER_MINUTE_CAPPED or PER_BLOCK."
	}
	return ""
}

func CreateRate(c *gin.Context) {
	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	if msg := req.validateMode(); msg != "" {
		helpers.RespondWithError(c, http.StatusBadRequest, msg)
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "start_date must be YYYY-MM-DD.")
		return
	}

	var endDate *time.Time
	if req.EndDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "end_date must be YYYY-MM-DD.")
			return
		}
		if parsed.Before(startDate) {
			helpers.RespondWithError(c, http.StatusBadRequest, "end_date cannot precede start_date.")
			return
		}
		endDate = &parsed
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var vehicleType models.VehicleType
	if err := gormDB.First(&vehicleType, "id = ?", req.VehicleTypeID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Vehicle type not found.")
		return
	}

	rate := models.RateRecord{
		VehicleTypeID:    req.VehicleTypeID,
		Mode:             models.RateMode(req.Mode),
		PricePerMinute:   req.PricePerMinute,
		DailyCap:         req.DailyCap,
		BlockDurationMin: req.BlockDurationMin,
		PricePerBlock:    req.PricePerBlock,
		Active:           true,
		StartDate:        startDate,
		EndDate:          endDate,
	}

	if err := gormDB.Create(&rate).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create rate.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Rate created successfully.",
		"rate":    rate,
	})
}

func ListRates(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	query := gormDB.Preload("VehicleType")
	if vehicleTypeID := c.Query("vehicle_type_id"); vehicleTypeID != "" {
		query = query.Where("vehicle_type_id = ?", vehicleTypeID)
	}
	if active := c.Query("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}

	var rates []models.RateRecord
	if err := query.Order("start_date DESC").Find(&rates).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch rates.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"rates": rates})
}

func GetRate(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	rateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid rate ID.")
		return
	}

	var rate models.RateRecord
	if err := gormDB.Preload("VehicleType").First(&rate, "id = ?", rateID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Rate not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"rate": rate})
}

type RateUpdateRequest struct {
	PricePerMinute   *int    `json:"price_per_minute"`
	DailyCap         *int    `json:"daily_cap"`
	BlockDurationMin *int    `json:"block_duration_min"`
	PricePerBlock    *int    `json:"price_per_block"`
	EndDate          *string `json:"end_date"`
}

func UpdateRate(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	rateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid rate ID.")
		return
	}

	var rate models.RateRecord
	if err := gormDB.First(&rate, "id = ?", rateID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Rate not found.")
		return
	}

	var req RateUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	if req.PricePerMinute != nil {
		rate.PricePerMinute = *req.PricePerMinute
	}
	if req.DailyCap != nil {
		rate.DailyCap = *req.DailyCap
	}
	if req.BlockDurationMin != nil {
		rate.BlockDurationMin = *req.BlockDurationMin
	}
	if req.PricePerBlock != nil {
		rate.PricePerBlock = *req.PricePerBlock
	}
	if req.EndDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "end_date must be YYYY-MM-DD.")
			return
		}
		rate.EndDate = &parsed
	}

	if err := gormDB.Save(&rate).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update rate.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Rate updated successfully.",
		"rate":    rate,
	})
}

// DeactivateRate retires a rate without deleting it, so historic
// sessions keep their pricing lineage intact.
func DeactivateRate(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	rateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid rate ID.")
		return
	}

	result := gormDB.Model(&models.RateRecord{}).Where("id = ?", rateID).Update("active", false)
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to deactivate rate.")
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Rate not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rate deactivated successfully."})
}
