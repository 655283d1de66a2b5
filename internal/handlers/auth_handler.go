package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mreyesc/parkeo/internal/apperr"
	"github.com/mreyesc/parkeo/internal/helpers"
	"github.com/mreyesc/parkeo/internal/models"
)

const operatorTokenTTL = 24 * time.Hour

// Registration is limited to the seeded facility roles: operators run
// the gates and the rate/vehicle surface, admins additionally manage
// accounts.
type OperatorRegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=operator admin"`
}

type OperatorLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func RegisterOperator(c *gin.Context) {
	var req OperatorRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Email, password and role (operator or admin) are required.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var role models.Role
	if err := gormDB.Where("name = ?", req.Role).First(&role).Error; err != nil {
		helpers.RespondWithAppError(c, apperr.NotFound("role"))
		return
	}

	var count int64
	if err := gormDB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		helpers.RespondWithAppError(c, apperr.Internal(err))
		return
	}
	if count > 0 {
		helpers.RespondWithAppError(c, apperr.Conflict("an account with this email already exists"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		helpers.RespondWithAppError(c, apperr.Internal(err))
		return
	}

	account := models.User{
		Email:    req.Email,
		Password: string(hashed),
		RoleID:   role.ID,
	}
	if err := gormDB.Create(&account).Error; err != nil {
		helpers.RespondWithAppError(c, apperr.Internal(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Operator account created.",
		"id":      account.ID,
		"role":    role.Name,
	})
}

func LoginOperator(c *gin.Context) {
	var req OperatorLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Email and password are required.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var account models.User
	if err := gormDB.Preload("Role").Where("email = ?", req.Email).First(&account).Error; err != nil {
		helpers.RespondWithAppError(c, apperr.Unauthorized("invalid credentials"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)); err != nil {
		helpers.RespondWithAppError(c, apperr.Unauthorized("invalid credentials"))
		return
	}

	token, err := issueOperatorToken(account)
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"operator": gin.H{
			"id":    account.ID,
			"email": account.Email,
			"role":  account.Role.Name,
		},
	})
}

func issueOperatorToken(account models.User) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", apperr.Internal(jwt.ErrInvalidKey)
	}

	claims := jwt.MapClaims{
		"user_id": account.ID,
		"role":    account.Role.Name,
		"exp":     time.Now().Add(operatorTokenTTL).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", apperr.Internal(err)
	}
	return signed, nil
}
