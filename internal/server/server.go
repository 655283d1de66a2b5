package server

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mreyesc/parkeo/config"
	"github.com/mreyesc/parkeo/internal/handlers"
	"github.com/mreyesc/parkeo/internal/middleware"
	"github.com/mreyesc/parkeo/internal/notify"
	"github.com/mreyesc/parkeo/internal/parking"
	"github.com/mreyesc/parkeo/internal/payment"
	"github.com/mreyesc/parkeo/internal/pricing"
	"github.com/mreyesc/parkeo/internal/store"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	klapCfg, err := config.LoadKlapConfig()
	if err != nil {
		return fmt.Errorf("failed to load klap config: %v", err)
	}

	var notifier notify.Notifier = notify.Nop{}
	if botURL := os.Getenv("BOT_GATEWAY_URL"); botURL != "" {
		notifier = notify.NewBotGateway(botURL, os.Getenv("BOT_GATEWAY_TOKEN"))
	}

	manager := &parking.Manager{
		Sessions: &store.Sessions{DB: db},
		Vehicles: &store.Vehicles{DB: db},
		Catalog:  pricing.Catalog{Rates: &store.Rates{DB: db}},
	}

	issuer := &payment.Issuer{
		Sessions: manager,
		Store:    &store.Payments{DB: db},
		Gateway:  payment.NewKlap(klapCfg.APIURL, klapCfg.APIKey, cfg.AppURL, klapCfg.MerchantEmail),
		BaseURL:  cfg.AppURL,
	}

	reconciler := &payment.Reconciler{
		Store:    &store.Payments{DB: db},
		Notifier: notifier,
		Secret:   klapCfg.WebhookSecret,
	}

	sweeper := store.StartLinkSweeper(db)
	defer sweeper.Stop()

	r := SetupRouter(db, manager, issuer, reconciler)

	return r.Run(":" + cfg.Port)
}

func SetupRouter(db *gorm.DB, manager *parking.Manager, issuer *payment.Issuer, reconciler *payment.Reconciler) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Apikey"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.ParkingMiddleware(manager))
	r.Use(middleware.PaymentMiddleware(issuer, reconciler))

	public := r.Group("/v1")
	{
		public.POST("/register", handlers.RegisterOperator)
		public.POST("/login", handlers.LoginOperator)

		sessionPublic := public.Group("/sessions")
		{
			sessionPublic.POST("/entry", handlers.OpenEntry)
			sessionPublic.GET("/status/:plate", handlers.SessionStatus)
		}

		linkPublic := public.Group("/payment-links")
		{
			linkPublic.POST("", handlers.CreatePaymentLink)
			linkPublic.POST("/renew", handlers.RenewPaymentLink)
			linkPublic.GET("/:code/qr", handlers.PaymentLinkQR)
		}

		paymentPublic := public.Group("/payments")
		{
			paymentPublic.GET("/checkout", handlers.Checkout)
			paymentPublic.GET("/success", handlers.PaymentSuccess)
			paymentPublic.GET("/cancel", handlers.PaymentCancel)
		}

		webhookPublic := public.Group("/webhooks")
		{
			webhookPublic.GET("/health", handlers.WebhookHealth)
			webhookPublic.POST("/klap/validation", handlers.WebhookValidation)
			webhookPublic.POST("/klap/confirm", handlers.WebhookConfirm)
			webhookPublic.POST("/klap/reject", handlers.WebhookReject)
		}
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		sessionProtected := protected.Group("/sessions")
		{
			sessionProtected.GET("", handlers.ListSessions)
			sessionProtected.GET("/active", handlers.ListActiveSessions)
			sessionProtected.PATCH("/:id/exit", handlers.RegisterExit)
			sessionProtected.DELETE("/:id", handlers.DeleteSession)
		}

		rateProtected := protected.Group("/rates")
		{
			rateProtected.POST("", handlers.CreateRate)
			rateProtected.GET("", handlers.ListRates)
			rateProtected.GET("/:id", handlers.GetRate)
			rateProtected.PUT("/:id", handlers.UpdateRate)
			rateProtected.PATCH("/:id/deactivate", handlers.DeactivateRate)
		}

		vehicleProtected := protected.Group("/vehicles")
		{
			vehicleProtected.GET("", handlers.ListVehicles)
			vehicleProtected.GET("/:id", handlers.GetVehicle)
			vehicleProtected.PATCH("/:id/category", handlers.UpdateVehicleCategory)
		}

		typeProtected := protected.Group("/vehicle-types")
		{
			typeProtected.POST("", handlers.CreateVehicleType)
			typeProtected.GET("", handlers.ListVehicleTypes)
		}

		lotProtected := protected.Group("/parking-lots")
		{
			lotProtected.POST("", handlers.CreateParkingLot)
			lotProtected.GET("", handlers.ListParkingLots)
			lotProtected.GET("/:id", handlers.GetParkingLot)
		}

		paymentProtected := protected.Group("/payments")
		{
			paymentProtected.GET("", handlers.ListPayments)
		}
	}

	return r
}
