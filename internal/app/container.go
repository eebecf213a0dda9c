package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/stay-booking-backend/internal/api"
	"github.com/nekogravitycat/stay-booking-backend/internal/auth"
	"github.com/nekogravitycat/stay-booking-backend/internal/availability"
	"github.com/nekogravitycat/stay-booking-backend/internal/booking"
	"github.com/nekogravitycat/stay-booking-backend/internal/config"
	"github.com/nekogravitycat/stay-booking-backend/internal/notification"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/lock"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/logger"
	"github.com/nekogravitycat/stay-booking-backend/internal/property"
)

const eventSource = "stay-booking-api"

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager

	dispatcher *notification.AsyncDispatcher
	closers    []func() error
}

// NewContainer initializes all modules and returns the container.
func NewContainer(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, log *logger.Logger) (*Container, error) {
	c := &Container{}
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTokenTTL)

	// Property Module
	propertyService := property.NewService(property.NewPgxRepository(pool))

	// Availability Module
	windows := availability.NewPgxStore(pool)
	availabilityService := availability.NewService(windows, propertyService, log)

	// Booking Module
	ledger := booking.NewPgxLedger(pool)
	scope, err := c.newScope(ctx, cfg, pool, windows, ledger, log)
	if err != nil {
		return nil, err
	}

	sink, err := c.newSink(cfg, log)
	if err != nil {
		return nil, err
	}
	c.dispatcher = notification.NewAsyncDispatcher(sink, log, notification.Options{
		QueueSize: cfg.NotifyQueueSize,
		Workers:   cfg.NotifyWorkers,
	})

	bookingService := booking.NewService(
		booking.NewEngine(scope, propertyService, log),
		booking.NewStateMachine(ledger, c.dispatcher, log),
		ledger,
	)

	// Router
	c.Router = api.NewRouter(api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		Logger:              log,
		JWTManager:          jwtManager,
		PropertyService:     propertyService,
		AvailabilityService: availabilityService,
		BookingService:      bookingService,
	})
	c.JWTManager = jwtManager

	log.Info("container ready", "reservation_lock", cfg.ReservationLock, "kafka", len(cfg.KafkaBrokers) > 0)
	return c, nil
}

// newScope picks how creates on one property are serialized.
func (c *Container) newScope(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, windows availability.Store, ledger booking.Ledger, log *logger.Logger) (booking.AtomicScope, error) {
	switch cfg.ReservationLock {
	case config.LockAdvisory:
		return booking.NewAdvisoryScope(pool, cfg.ReservationLockTimeout), nil
	case config.LockLocal:
		return booking.NewLockerScope(lock.NewLocal(), cfg.ReservationLockTimeout, windows, ledger, log), nil
	case config.LockRedis:
		client, err := lock.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect redis failed: %w", err)
		}
		c.closers = append(c.closers, client.Close)
		return booking.NewLockerScope(lock.NewRedis(client), cfg.ReservationLockTimeout, windows, ledger, log), nil
	default:
		return nil, fmt.Errorf("unknown reservation lock %q", cfg.ReservationLock)
	}
}

func (c *Container) newSink(cfg *config.Config, log *logger.Logger) (notification.Sink, error) {
	if len(cfg.KafkaBrokers) == 0 {
		log.Warn("KAFKA_BROKERS not set, booking events are only logged")
		return notification.NewLogSink(log), nil
	}

	sink, err := notification.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopicConfirmed, eventSource, log)
	if err != nil {
		return nil, fmt.Errorf("create kafka sink failed: %w", err)
	}
	c.closers = append(c.closers, sink.Close)
	return sink, nil
}

// Close drains pending notifications, then releases external clients.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	if c.dispatcher != nil {
		if err := c.dispatcher.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("drain notifications: %w", err))
		}
	}
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
