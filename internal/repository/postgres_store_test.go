package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohand-ashraf/velora-hotel/internal/domain"
	"github.com/mohand-ashraf/velora-hotel/pkg/database"
)

func skipIfNoIntegration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}
}

func openTestDB(t *testing.T) *database.PostgresDB {
	t.Helper()
	skipIfNoIntegration(t)

	cfg := database.DefaultPostgresConfig()
	if host := os.Getenv("TEST_DB_HOST"); host != "" {
		cfg.Host = host
	}
	cfg.MaxRetries = 1
	cfg.EnableTracing = false

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := database.NewPostgres(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, Schema...))
	t.Cleanup(db.Close)
	return db
}

func TestPostgresBookingStore_Integration(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	rooms := NewPostgresRoomStore(db.Pool())
	roomID := "it-" + uuid.NewString()
	require.NoError(t, rooms.Upsert(ctx, []*domain.Room{{ID: roomID, Name: "Integration", Type: domain.RoomTypeSingle, Price: 90, Capacity: 1, Available: true}}))

	store := NewPostgresBookingStore(db.Pool())
	b1 := newBooking(uuid.NewString(), roomID, "u-it", "2025-02-05", "2025-02-08")
	b2 := newBooking(uuid.NewString(), roomID, "u-it", "2025-02-01", "2025-02-05")
	require.NoError(t, store.CreateBooking(ctx, &b1))
	require.NoError(t, store.CreateBooking(ctx, &b2))
	t.Cleanup(func() {
		_ = store.DeleteBooking(ctx, b1.ID)
		_ = store.DeleteBooking(ctx, b2.ID)
	})

	assert.ErrorIs(t, store.CreateBooking(ctx, &b1), domain.ErrBookingAlreadyExists)

	got, err := store.ListBookings(ctx, roomID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, b2.ID, got[0].ID)
	assert.True(t, got[0].CheckIn.Equal(b2.CheckIn))

	require.NoError(t, store.DeleteBooking(ctx, b1.ID))
	assert.ErrorIs(t, store.DeleteBooking(ctx, b1.ID), domain.ErrBookingNotFound)

	room, err := rooms.GetRoom(ctx, roomID)
	require.NoError(t, err)
	assert.Equal(t, "Integration", room.Name)
}

func TestPostgresUserStore_Integration(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	store := NewPostgresUserStore(db.Pool())

	email := uuid.NewString() + "@Example.com"
	user := &domain.User{ID: uuid.NewString(), Email: email, Name: "IT", PasswordHash: "x", CreatedAt: time.Now()}
	require.NoError(t, store.Create(ctx, user))

	dup := *user
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, store.Create(ctx, &dup), domain.ErrUserAlreadyExists)

	got, err := store.GetByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = store.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
