package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mreyesc/parkeo/internal/helpers"
	"github.com/mreyesc/parkeo/internal/models"
	"gorm.io/gorm"
)

type ParkingLotRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
	Phone   string `json:"phone"`
}

func CreateParkingLot(c *gin.Context) {
	var req ParkingLotRequest
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

	lot := models.ParkingLot{
		ID:      uuid.New(),
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	}

	if err := gormDB.Create(&lot).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create parking lot.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Parking lot created successfully.",
		"parking_lot": lot,
	})
}

func ListParkingLots(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var lots []models.ParkingLot
	if err := gormDB.Find(&lots).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch parking lots.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"parking_lots": lots})
}

func GetParkingLot(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	lotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid parking lot ID.")
		return
	}

	var lot models.ParkingLot
	if err := gormDB.First(&lot, "id = ?", lotID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Parking lot not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"parking_lot": lot})
}
