package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/gymbooking/config"
	"github.com/Domenick1991/gymbooking/internal/bootstrap"
	"github.com/Domenick1991/gymbooking/internal/cache"
	"github.com/Domenick1991/gymbooking/internal/kafka"
	"github.com/Domenick1991/gymbooking/internal/notify"
	"github.com/Domenick1991/gymbooking/internal/payments"
	"github.com/Domenick1991/gymbooking/internal/policy"
	"github.com/Domenick1991/gymbooking/internal/repository"
	"github.com/Domenick1991/gymbooking/internal/service/bookings"
	"github.com/Domenick1991/gymbooking/internal/service/classes"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.ClassesCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	gateway := payments.NewGateway(cfg.Payments.BaseURL, time.Duration(cfg.Payments.TimeoutSeconds)*time.Second)
	notifier := notify.NewService(producer, cfg.Kafka.NotificationsTopic, cfg.Kafka.WaitlistTopic)
	refunds := policy.TieredRefund{
		FullBefore:     time.Duration(cfg.Booking.FullRefundHours) * time.Hour,
		PartialBefore:  time.Duration(cfg.Booking.PartialRefundHours) * time.Hour,
		PartialPercent: cfg.Booking.PartialRefundPercent,
	}

	classRepo := repository.NewClassRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	classService := classes.NewClassService(classRepo, redisCache)
	bookingService := bookings.NewBookingService(
		bookingRepo,
		classRepo,
		redisCache,
		producer,
		gateway,
		notifier,
		refunds,
		cfg.Kafka.BookingEventsTopic,
		time.Duration(cfg.Booking.HoldTTLMinutes)*time.Minute,
	)

	if err := bootstrap.Run(ctx, cfg, classService, bookingService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
