package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"landshare/internal/config"
	"landshare/internal/database"
	"landshare/internal/domain/notification"
	"landshare/internal/middleware"
	"landshare/internal/modules/booking"
	"landshare/internal/modules/dispute"
	"landshare/internal/modules/payment"
	jwtsvc "landshare/internal/pkg/jwt"
	"landshare/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadRuntimeConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}
	if err := notification.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	disputeRepo := repository.NewDisputeRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	notifRepo := notification.NewNotificationRepository(db)
	notifService := notification.NewService(notifRepo)
	notifHandler := notification.NewHandler(notifService)

	reconciler := payment.NewReconciler(cfg.ReconciliationBaseURL, cfg.ReconciliationTimeout, log.Printf)

	disputeService := dispute.NewService(disputeRepo, bookingRepo, userRepo, reconciler, notifService)
	disputeHandler := dispute.NewHandler(disputeService)

	bookingService := booking.NewService(bookingRepo, userRepo, disputeService, notifService)
	bookingHandler := booking.NewHandler(bookingService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			bookingHandler.RegisterRoutes(protected)
			disputeHandler.RegisterRoutes(protected)
			notifHandler.RegisterRoutes(protected)
		}
	}

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
