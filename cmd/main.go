package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/bookvia/booking-platform/internal/config"
	"github.com/bookvia/booking-platform/internal/db"
	"github.com/bookvia/booking-platform/internal/handler"
	"github.com/bookvia/booking-platform/internal/logger"
	"github.com/bookvia/booking-platform/internal/middleware"
	"github.com/bookvia/booking-platform/internal/model"
	"github.com/bookvia/booking-platform/internal/repository"
	"github.com/bookvia/booking-platform/internal/service"
)

func main() {
	// 1. .env (если есть) и конфиг.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("BOOKING_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(&cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	// 2. Референсная таймзона слотов — одна на процесс,
	// прокидывается и в читающий, и в пишущий пути.
	loc, err := cfg.Booking.Location()
	if err != nil {
		zlog.Fatal("load reference timezone", zap.Error(err))
	}

	// 3. Подключаемся к БД через GORM и мигрируем модели.
	gormDB, err := db.NewGormDB(&cfg.Database)
	if err != nil {
		zlog.Fatal("init db", zap.Error(err))
	}
	if err := model.AutoMigrate(gormDB); err != nil {
		zlog.Fatal("auto migrate", zap.Error(err))
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		zlog.Fatal("sql DB", zap.Error(err))
	}
	defer sqlDB.Close()

	// 4. Репозитории (реализации на GORM).
	activityRepo := repository.NewGormActivityRepository(gormDB)
	bookingRepo := repository.NewGormBookingRepository(gormDB)
	ledger := repository.NewGormSlotCapacityRepository(gormDB)
	userRepo := repository.NewGormUserRepository(gormDB)

	// 5. Сервисы ядра.
	availabilitySvc := service.NewAvailabilityService(activityRepo, ledger, loc, zlog)
	bookingSvc := service.NewBookingService(gormDB, bookingRepo, userRepo, loc, zlog)

	// 6. HTTP-роутер.
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(zlog))
	router.Use(middleware.RateLimit(cfg.Booking.RateLimitRPS, cfg.Booking.RateLimitBurst))

	handler.New(availabilitySvc, bookingSvc, loc, zlog).RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	zlog.Info("booking core listening", zap.Int("port", cfg.Server.Port))

	// 7. Запускаем сервер в горутине.
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("http serve", zap.Error(err))
		}
	}()

	// 8. Грейсфул-шатдаун по сигналу.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zlog.Info("shutting down http server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("shutdown", zap.Error(err))
	}
}
