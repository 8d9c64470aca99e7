package di

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mohand-ashraf/velora-hotel/internal/repository"
	"github.com/mohand-ashraf/velora-hotel/pkg/config"
	"github.com/mohand-ashraf/velora-hotel/pkg/database"
	"github.com/mohand-ashraf/velora-hotel/pkg/logger"
)

// Stores are the raw backends before any decorator is applied
type Stores struct {
	Bookings repository.BookingStore
	Rooms    repository.RoomStore
	Users    repository.UserStore
}

// NewStores picks the backend named by cfg.Store.Backend. db is only
// required for the postgres backend.
func NewStores(ctx context.Context, cfg *config.Config, db *database.PostgresDB, log *logger.Logger) (*Stores, error) {
	if log == nil {
		log = logger.Nop()
	}

	var seed *repository.Seed
	if cfg.Store.SeedFile != "" {
		s, err := repository.LoadSeedFile(cfg.Store.SeedFile)
		if err != nil {
			return nil, err
		}
		seed = s
		log.Info("Seed file loaded",
			zap.String("path", cfg.Store.SeedFile),
			zap.Int("rooms", len(s.Rooms)),
			zap.Int("bookings", len(s.Bookings)),
		)
	}

	switch cfg.Store.Backend {
	case config.StoreBackendMemory:
		stores := &Stores{
			Bookings: repository.NewMemoryBookingStore(),
			Rooms:    repository.NewMemoryRoomStore(),
			Users:    repository.NewMemoryUserStore(),
		}
		if seed != nil {
			stores.Bookings = repository.NewMemoryBookingStore(seed.Bookings...)
			stores.Rooms = repository.NewMemoryRoomStore(seed.Rooms...)
		}
		return stores, nil

	case config.StoreBackendPostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres backend requires a database connection")
		}
		if err := db.Migrate(ctx, repository.Schema...); err != nil {
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
		rooms := repository.NewPostgresRoomStore(db.Pool())
		if seed != nil && len(seed.Rooms) > 0 {
			if err := rooms.Upsert(ctx, seed.Rooms); err != nil {
				return nil, fmt.Errorf("failed to seed rooms: %w", err)
			}
		}
		return &Stores{
			Bookings: repository.NewPostgresBookingStore(db.Pool()),
			Rooms:    rooms,
			Users:    repository.NewPostgresUserStore(db.Pool()),
		}, nil

	case config.StoreBackendREST:
		rest := repository.NewRESTStore(cfg.Store.RESTBaseURL, cfg.Store.RESTTimeout)
		// json-server has no accounts, they stay in process
		return &Stores{
			Bookings: rest,
			Rooms:    rest,
			Users:    repository.NewMemoryUserStore(),
		}, nil
	}

	return nil, fmt.Errorf("unknown store backend: %q", cfg.Store.Backend)
}
