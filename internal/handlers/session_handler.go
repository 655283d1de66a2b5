package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mreyesc/parkeo/internal/helpers"
	"github.com/mreyesc/parkeo/internal/middleware"
	"github.com/mreyesc/parkeo/internal/models"
	"gorm.io/gorm"
)

type EntryRequest struct {
	LicensePlate string    `json:"license_plate" binding:"required"`
	ParkingLotID uuid.UUID `json:"parking_lot_id" binding:"required"`
}

type ExitRequest struct {
	Status models.SessionStatus `json:"status" binding:"required"`
}

func OpenEntry(c *gin.Context) {
	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var lot models.ParkingLot
	if err := gormDB.First(&lot, "id = ?", req.ParkingLotID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Parking lot not found.")
		return
	}

	manager := middleware.GetParkingManager(c)
	session, err := manager.OpenEntry(req.LicensePlate, req.ParkingLotID, time.Now())
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Entry registered successfully.",
		"session_id":   session.ID,
		"arrival_time": session.ArrivalTime,
	})
}

func SessionStatus(c *gin.Context) {
	plate := c.Param("plate")

	manager := middleware.GetParkingManager(c)
	info, err := manager.Status(plate, time.Now())
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	if info.Parked {
		c.JSON(http.StatusOK, gin.H{
			"status":          models.SessionParked,
			"session_id":      info.Session.ID,
			"arrival_time":    info.Session.ArrivalTime,
			"minutes":         info.Quote.Minutes,
			"amount_due":      info.Quote.Amount,
			"applied_minimum": info.Quote.AppliedMinimum,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     info.Session.Status,
		"session_id": info.Session.ID,
		"exit_time":  info.Session.ExitTime,
		"pay_time":   info.Session.PayTime,
		"can_exit":   info.CanExit,
	})
}

func ListSessions(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	query := gormDB.Preload("Vehicle.VehicleType").Preload("ParkingLot")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if lotID := c.Query("parking_lot_id"); lotID != "" {
		query = query.Where("parking_lot_id = ?", lotID)
	}
	if vehicleID := c.Query("vehicle_id"); vehicleID != "" {
		query = query.Where("vehicle_id = ?", vehicleID)
	}

	var sessions []models.ParkingSession
	if err := query.Order("arrival_time DESC").Find(&sessions).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving sessions.")
		return
	}

	c.JSON(http.StatusOK, sessions)
}

func ListActiveSessions(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	query := gormDB.Preload("Vehicle.VehicleType").Preload("ParkingLot").
		Where("status = ?", models.SessionParked)
	if lotID := c.Query("parking_lot_id"); lotID != "" {
		query = query.Where("parking_lot_id = ?", lotID)
	}

	var sessions []models.ParkingSession
	if err := query.Order("arrival_time ASC").Find(&sessions).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving active sessions.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

func RegisterExit(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid session ID.")
		return
	}

	var req ExitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Exit status is required.")
		return
	}

	manager := middleware.GetParkingManager(c)
	session, err := manager.RegisterExit(sessionID, req.Status, time.Now())
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Exit registered successfully.",
		"session": session,
	})
}

func DeleteSession(c *gin.Context) {
	sessionID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var session models.ParkingSession
	if err := gormDB.First(&session, "id = ?", sessionID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Session not found.")
		return
	}

	if session.Status == models.SessionParked {
		helpers.RespondWithError(c, http.StatusConflict, "Cannot delete an active session.")
		return
	}

	if err := gormDB.Delete(&session).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete session.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Session deleted successfully.",
	})
}
