package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/gymbooking/config"
	"github.com/Domenick1991/gymbooking/internal/cache"
	"github.com/Domenick1991/gymbooking/internal/kafka"
	"github.com/Domenick1991/gymbooking/internal/notify"
	"github.com/Domenick1991/gymbooking/internal/payments"
	"github.com/Domenick1991/gymbooking/internal/policy"
	"github.com/Domenick1991/gymbooking/internal/repository"
	"github.com/Domenick1991/gymbooking/internal/service/bookings"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.ClassesCacheTTL)*time.Second)

	gateway := payments.NewGateway(cfg.Payments.BaseURL, time.Duration(cfg.Payments.TimeoutSeconds)*time.Second)
	notifier := notify.NewService(producer, cfg.Kafka.NotificationsTopic, cfg.Kafka.WaitlistTopic)

	classRepo := repository.NewClassRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	bookingService := bookings.NewBookingService(
		bookingRepo,
		classRepo,
		redisCache,
		producer,
		gateway,
		notifier,
		policy.DefaultTieredRefund(),
		cfg.Kafka.BookingEventsTopic,
		time.Duration(cfg.Booking.HoldTTLMinutes)*time.Minute,
	)

	sender := notify.NewSender()

	notifications := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer notifications.Close()
	offers := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.WaitlistTopic)
	defer offers.Close()

	go func() {
		if err := notifications.Consume(ctx, sender.Send); err != nil {
			log.Printf("notifications consumer stopped: %v", err)
		}
	}()
	go func() {
		if err := offers.Consume(ctx, sender.Send); err != nil {
			log.Printf("waitlist consumer stopped: %v", err)
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.PromotionSweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			promoted, err := bookingService.PromoteFreedSeats(ctx)
			if err != nil {
				log.Printf("waitlist sweep error: %v", err)
				continue
			}
			if promoted > 0 {
				log.Printf("promoted %d waitlisted users", promoted)
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
