package di

import (
	"go.uber.org/zap"

	"github.com/mohand-ashraf/velora-hotel/internal/handler"
	"github.com/mohand-ashraf/velora-hotel/internal/repository"
	"github.com/mohand-ashraf/velora-hotel/internal/service"
	"github.com/mohand-ashraf/velora-hotel/pkg/config"
	"github.com/mohand-ashraf/velora-hotel/pkg/database"
	"github.com/mohand-ashraf/velora-hotel/pkg/logger"
	"github.com/mohand-ashraf/velora-hotel/pkg/redis"
	"github.com/mohand-ashraf/velora-hotel/pkg/retry"
)

// Container holds all dependencies for the hotel service
type Container struct {
	// Infrastructure
	DB    *database.PostgresDB
	Redis *redis.Client

	// Stores, decorated
	BookingStore repository.BookingStore
	RoomStore    repository.RoomStore
	UserStore    repository.UserStore

	// Publishers
	EventPublisher service.EventPublisher

	// Booking engine
	WorkingSet *service.WorkingSet
	Committer  *service.BookingCommitter
	Guard      service.CommitGuard

	// Services
	BookingService service.BookingService
	RoomService    service.RoomService
	AuthService    service.AuthService

	// Handlers
	HealthHandler  *handler.HealthHandler
	AuthHandler    *handler.AuthHandler
	RoomHandler    *handler.RoomHandler
	BookingHandler *handler.BookingHandler

	log *logger.Logger
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	Config         *config.Config
	DB             *database.PostgresDB
	Redis          *redis.Client
	Stores         *Stores
	EventPublisher service.EventPublisher
	Logger         *logger.Logger
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	appCfg := cfg.Config

	c := &Container{
		DB:             cfg.DB,
		Redis:          cfg.Redis,
		EventPublisher: cfg.EventPublisher,
		log:            log,
	}
	if c.EventPublisher == nil {
		c.EventPublisher = service.NewNoOpEventPublisher()
	}

	// Decorate stores
	retryCfg := retry.DefaultConfig()
	if appCfg.Store.RetryMax > 0 {
		retryCfg.MaxRetries = appCfg.Store.RetryMax
	}
	if appCfg.Store.RetryInitial > 0 {
		retryCfg.InitialInterval = appCfg.Store.RetryInitial
	}
	c.BookingStore = repository.NewRetryingBookingStore(cfg.Stores.Bookings, retryCfg, log)
	c.RoomStore = cfg.Stores.Rooms
	if c.Redis != nil {
		c.RoomStore = repository.NewCachedRoomStore(cfg.Stores.Rooms, c.Redis, appCfg.Redis.RoomCacheTTL, log)
	}
	c.UserStore = cfg.Stores.Users

	// Booking engine
	c.WorkingSet = service.NewWorkingSet()
	c.Committer = service.NewBookingCommitter(c.BookingStore, c.WorkingSet, c.EventPublisher, &service.BookingCommitterConfig{
		Logger:        log,
		Observer:      commitLogger(log),
		MaxStayNights: appCfg.Booking.MaxStayNights,
	})
	if appCfg.Booking.Guard == config.GuardRedis && c.Redis != nil {
		c.Guard = service.NewRedisCommitGuard(c.Redis, appCfg.Booking.GuardTTL, log)
	} else {
		c.Guard = service.NewLocalCommitGuard()
	}

	// Initialize services
	c.BookingService = service.NewBookingService(c.BookingStore, c.RoomStore, c.Committer, &service.BookingServiceConfig{
		PageSize:         appCfg.Booking.PageSize,
		AvailabilityDays: appCfg.Booking.AvailabilityDays,
	})
	c.RoomService = service.NewRoomService(c.RoomStore, appCfg.Booking.PageSize)
	c.AuthService = service.NewAuthService(c.UserStore, &service.AuthServiceConfig{
		JWTSecret:         appCfg.JWT.Secret,
		Issuer:            appCfg.JWT.Issuer,
		AccessTokenExpiry: appCfg.JWT.AccessTokenTTL,
	})

	// Initialize handlers. A nil *T must not become a non-nil interface.
	var dbCheck, redisCheck handler.HealthChecker
	if c.DB != nil {
		dbCheck = c.DB
	}
	if c.Redis != nil {
		redisCheck = c.Redis
	}
	c.HealthHandler = handler.NewHealthHandler(dbCheck, redisCheck)
	c.AuthHandler = handler.NewAuthHandler(c.AuthService)
	c.RoomHandler = handler.NewRoomHandler(c.RoomService, c.BookingService)
	c.BookingHandler = handler.NewBookingHandler(c.Committer, c.BookingService, c.Guard)

	return c
}

// commitLogger traces every committer state change at debug level
func commitLogger(log *logger.Logger) service.CommitObserver {
	return func(roomID string, from, to service.CommitState, err error) {
		fields := []zap.Field{
			zap.String("room_id", roomID),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		log.Debug("Commit state changed", fields...)
	}
}
