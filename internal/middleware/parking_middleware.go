package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/mreyesc/parkeo/internal/parking"
)

func ParkingMiddleware(manager *parking.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("parking_manager", manager)
		c.Next()
	}
}

func GetParkingManager(c *gin.Context) *parking.Manager {
	manager, exists := c.Get("parking_manager")
	if !exists {
		return nil
	}
	return manager.(*parking.Manager)
}
