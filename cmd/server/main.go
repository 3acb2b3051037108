package main

import (
	"time"

	"github.com/gin-gonic/gin"

	chatapi "github.com/ewakoroyal/booking-api/internal/chat/api"
	chatrepo "github.com/ewakoroyal/booking-api/internal/chat/repository"
	chatservice "github.com/ewakoroyal/booking-api/internal/chat/service"
	orderapi "github.com/ewakoroyal/booking-api/internal/order/api"
	orderrepo "github.com/ewakoroyal/booking-api/internal/order/repository"
	orderservice "github.com/ewakoroyal/booking-api/internal/order/service"
	"github.com/ewakoroyal/booking-api/internal/platform/config"
	"github.com/ewakoroyal/booking-api/internal/platform/currency"
	"github.com/ewakoroyal/booking-api/internal/platform/database"
	"github.com/ewakoroyal/booking-api/internal/platform/events"
	"github.com/ewakoroyal/booking-api/internal/platform/logger"
	"github.com/ewakoroyal/booking-api/internal/platform/middleware"
	"github.com/ewakoroyal/booking-api/internal/platform/notify"
	userapi "github.com/ewakoroyal/booking-api/internal/user/api"
	userrepo "github.com/ewakoroyal/booking-api/internal/user/repository"
	userservice "github.com/ewakoroyal/booking-api/internal/user/service"
	vehicleapi "github.com/ewakoroyal/booking-api/internal/vehicle/api"
	vehiclerepo "github.com/ewakoroyal/booking-api/internal/vehicle/repository"
	vehicleservice "github.com/ewakoroyal/booking-api/internal/vehicle/service"
)

func main() {
	cfg := config.Load()

	logger.Info("Starting Booking API...")

	// Setup Database
	db, err := database.Connect(cfg.DB.DSN)
	if err != nil {
		logger.Error("Failed to connect to database", err)
		return
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.DB.MigrationsDir); err != nil {
		logger.Error("Failed to run migrations", err)
		return
	}

	// Notifikasi & event: fallback ke no-op kalau infra tidak dikonfigurasi,
	// supaya dev lokal tetap bisa jalan tanpa Redis/Kafka.
	var notifier notify.Notifier
	if cfg.Notify.RedisAddr != "" {
		notifier = notify.NewRedisNotifier(cfg.Notify.RedisAddr, cfg.Notify.OutboxKey, cfg.Notify.AdminWhatsApp)
		logger.Info("Notifications: using redis outbox at " + cfg.Notify.RedisAddr)
	} else {
		notifier = notify.NewNoopNotifier()
		logger.Warn("REDIS_ADDR not set, notifications are disabled")
	}

	var publisher events.Publisher
	if len(cfg.Events.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Events.KafkaBrokers, cfg.Events.Topic, 256)
		logger.Info("Events: publishing to kafka topic " + cfg.Events.Topic)
	} else {
		publisher = events.NewNoopPublisher()
		logger.Warn("KAFKA_BROKERS not set, order events are disabled")
	}
	defer publisher.Close()

	converter := currency.NewConverter(cfg.Rates.USDToIDR, cfg.Rates.SARToIDR)

	// Kunci yang sama dipakai untuk sign (service) dan verify (middleware).
	jwtSecret := []byte(cfg.Auth.JWTSecret)
	if len(jwtSecret) == 0 {
		logger.Warn("JWT_SECRET_KEY not set, using default insecure key")
		jwtSecret = []byte("your-very-secret-key-for-jwt")
	}

	// Setup Dependencies
	userRepository := userrepo.NewPostgresUserRepository(db)
	usrService := userservice.NewUserService(userRepository, notifier, jwtSecret)
	userHandler := userapi.NewUserHandler(usrService)

	vehicleRepository := vehiclerepo.NewPostgresVehicleRepository(db)
	vehService := vehicleservice.NewVehicleService(vehicleRepository)
	vehicleHandler := vehicleapi.NewVehicleHandler(vehService)

	orderRepository := orderrepo.NewPostgresOrderRepository(db)
	vehicleDirectory := orderservice.NewRepoVehicleDirectory(vehicleRepository)
	staleAfter := time.Duration(cfg.StaleOrderReminderHours) * time.Hour
	ordService := orderservice.NewOrderService(orderRepository, vehicleDirectory, notifier, publisher, converter, staleAfter)
	orderHandler := orderapi.NewOrderHandler(ordService)

	chatRepository := chatrepo.NewPostgresChatRepository(db)
	chtService := chatservice.NewChatService(chatRepository, notifier)
	chatHandler := chatapi.NewChatHandler(chtService, ordService, usrService)

	// Setup Gin Router
	router := gin.Default()
	apiV1 := router.Group("/api/v1")

	userHandler.RegisterPublicRoutes(apiV1)

	protected := apiV1.Group("")
	protected.Use(middleware.RequireAuth(jwtSecret))
	userHandler.RegisterRoutes(protected)
	vehicleHandler.RegisterRoutes(protected)
	orderHandler.RegisterRoutes(protected)
	chatHandler.RegisterRoutes(protected)

	logger.Info("Booking API running on port " + cfg.Server.Port)
	if errSrv := router.Run(cfg.Server.Port); errSrv != nil {
		logger.Error("Failed to run server", errSrv)
	}
}
