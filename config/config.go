package config

import (
	"fmt"
	"os"

	"github.com/mreyesc/parkeo/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	AppURL     string
	Port       string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		AppURL:     os.Getenv("APP_URL"),
		Port:       os.Getenv("PORT"),
	}
	if cfg.Port == "" {
		cfg.Port = "3000"
	}
	return cfg, nil
}

type KlapConfig struct {
	APIURL        string
	APIKey        string
	WebhookSecret string
	MerchantEmail string
}

func LoadKlapConfig() (*KlapConfig, error) {
	return &KlapConfig{
		APIURL:        os.Getenv("KLAP_API_URL"),
		APIKey:        os.Getenv("KLAP_API_KEY"),
		WebhookSecret: os.Getenv("KLAP_WEBHOOK_SECRET"),
		MerchantEmail: os.Getenv("KLAP_MERCHANT_EMAIL"),
	}, nil
}

func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
}

// ensureParkedIndex enforces at most one PARKED session per vehicle at
// the database level. AutoMigrate cannot express partial indexes.
func ensureParkedIndex(db *gorm.DB) error {
	return db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_parking_sessions_one_parked " +
			"ON parking_sessions (vehicle_id) WHERE status = 'PARKED'",
	).Error
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := enableUUIDExtension(db); err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.VehicleType{},
		&models.Vehicle{},
		&models.ParkingLot{},
		&models.ParkingSession{},
		&models.RateRecord{},
		&models.Payment{},
		&models.PaymentLink{},
	)
	if err != nil {
		return nil, err
	}

	if err := ensureParkedIndex(db); err != nil {
		return nil, err
	}

	seedRoles(db)
	seedVehicleTypes(db)

	return db, nil
}

func seedRoles(db *gorm.DB) {
	roles := []models.Role{
		{Name: "operator"},
		{Name: "admin"},
	}

	for _, role := range roles {
		var existingRole models.Role
		result := db.Where("name = ?", role.Name).First(&existingRole)
		if result.Error != nil {
			db.Create(&role)
		}
	}
}

func seedVehicleTypes(db *gorm.DB) {
	vehicleTypes := []models.VehicleType{
		{Name: "car", Description: "Passenger cars and SUVs"},
		{Name: "motorcycle", Description: "Motorcycles and scooters"},
		{Name: "truck", Description: "Trucks and commercial vehicles"},
	}

	for _, vehicleType := range vehicleTypes {
		var existing models.VehicleType
		result := db.Where("name = ?", vehicleType.Name).First(&existing)
		if result.Error != nil {
			db.Create(&vehicleType)
		}
	}
}
