package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohand-ashraf/velora-hotel/internal/domain"
)

func TestRESTStore_ListBookings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bookings", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("roomId"))
		// a loose match from json-server must be filtered out
		_, _ = w.Write([]byte(`[
			{"id":"b2","roomId":1,"checkIn":"2025-03-01","checkOut":"2025-03-02","userId":"u1"},
			{"id":"b1","roomId":"1","checkIn":"2025-02-01","checkOut":"2025-02-05","userId":null},
			{"id":"b9","roomId":"11","checkIn":"2025-02-01","checkOut":"2025-02-05"}
		]`))
	}))
	defer srv.Close()

	store := NewRESTStore(srv.URL, 0)
	got, err := store.ListBookings(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b1", got[0].ID)
	assert.Equal(t, "b2", got[1].ID)
}

func TestRESTStore_ListBookingsByUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "u1", r.URL.Query().Get("userId"))
		_, _ = w.Write([]byte(`[
			{"id":"b1","roomId":"1","checkIn":"2025-02-01","checkOut":"2025-02-05","userId":"u1"},
			{"id":"b2","roomId":"1","checkIn":"2025-02-01","checkOut":"2025-02-05","userId":"u10"}
		]`))
	}))
	defer srv.Close()

	got, err := NewRESTStore(srv.URL, 0).ListBookingsByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b1", got[0].ID)
}

func TestRESTStore_CreateBooking(t *testing.T) {
	var received map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	b := newBooking("b1", "room-1", "u1", "2025-02-05", "2025-02-08")
	require.NoError(t, NewRESTStore(srv.URL, 0).CreateBooking(context.Background(), &b))

	assert.Equal(t, "b1", received["id"])
	assert.Equal(t, "room-1", received["roomId"])
	assert.Equal(t, "2025-02-05", received["checkIn"])
	assert.Equal(t, "2025-02-08", received["checkOut"])
	assert.Equal(t, "u1", received["userId"])
}

func TestRESTStore_CreateBooking_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantExists bool
	}{
		{"conflict", http.StatusConflict, true},
		{"server error", http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer srv.Close()

			b := newBooking("b1", "room-1", "u1", "2025-02-05", "2025-02-08")
			err := NewRESTStore(srv.URL, 0).CreateBooking(context.Background(), &b)
			require.Error(t, err)
			if tt.wantExists {
				assert.ErrorIs(t, err, domain.ErrBookingAlreadyExists)
			} else {
				assert.ErrorIs(t, err, errUnexpectedStatus)
			}
		})
	}
}

func TestRESTStore_DeleteBooking(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		switch r.URL.Path {
		case "/bookings/b1":
			_, _ = w.Write([]byte(`{}`))
		case "/bookings/gone":
			http.NotFound(w, r)
		default:
			http.Error(w, "boom", http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	store := NewRESTStore(srv.URL, 0)
	ctx := context.Background()

	assert.NoError(t, store.DeleteBooking(ctx, "b1"))
	assert.ErrorIs(t, store.DeleteBooking(ctx, "gone"), domain.ErrBookingNotFound)

	err := store.DeleteBooking(ctx, "other")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestRESTStore_Rooms(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rooms":
			_, _ = w.Write([]byte(`[{"id":1,"name":"Standard","type":"Single","price":80}]`))
		case "/rooms/1":
			_, _ = w.Write([]byte(`{"id":1,"name":"Standard","type":"Single","price":80}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	store := NewRESTStore(srv.URL, 0)
	ctx := context.Background()

	rooms, err := store.ListRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "1", rooms[0].ID)
	assert.True(t, rooms[0].Available)

	room, err := store.GetRoom(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Standard", room.Name)

	_, err = store.GetRoom(ctx, "42")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestRESTStore_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewRESTStore(url, 0).ListBookings(context.Background(), "1")
	assert.Error(t, err)
}
