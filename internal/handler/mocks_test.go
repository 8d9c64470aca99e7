package handler

import (
	"context"
	"sync"

	"github.com/mohand-ashraf/velora-hotel/internal/domain"
	"github.com/mohand-ashraf/velora-hotel/internal/dto"
)

// MockCommitter is a mock implementation of service.Committer for testing
type MockCommitter struct {
	CommitFunc  func(ctx context.Context, session *domain.Session, roomID string, rng domain.DateRange) (*domain.Booking, error)
	CancelFunc  func(ctx context.Context, bookingID string) error
	RefreshFunc func(ctx context.Context, roomID string) ([]domain.Booking, error)

	mu        sync.Mutex
	commits   int
	cancelled []string
}

func (m *MockCommitter) Commit(ctx context.Context, session *domain.Session, roomID string, rng domain.DateRange) (*domain.Booking, error) {
	m.mu.Lock()
	m.commits++
	m.mu.Unlock()
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx, session, roomID, rng)
	}
	return nil, nil
}

func (m *MockCommitter) Cancel(ctx context.Context, bookingID string) error {
	m.mu.Lock()
	m.cancelled = append(m.cancelled, bookingID)
	m.mu.Unlock()
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, bookingID)
	}
	return nil
}

func (m *MockCommitter) Refresh(ctx context.Context, roomID string) ([]domain.Booking, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, roomID)
	}
	return nil, nil
}

// MockBookingService is a mock implementation of service.BookingService for testing
type MockBookingService struct {
	AvailabilityFunc   func(ctx context.Context, roomID string, from, to domain.Date) (*dto.AvailabilityResponse, error)
	ActiveBookingsFunc func(ctx context.Context, session *domain.Session, page, pageSize int) ([]domain.Booking, int, error)
	OwnedBookingFunc   func(ctx context.Context, session *domain.Session, bookingID string) (*domain.Booking, error)
	From, To           domain.Date
	Size               int
}

func (m *MockBookingService) Availability(ctx context.Context, roomID string, from, to domain.Date) (*dto.AvailabilityResponse, error) {
	if m.AvailabilityFunc != nil {
		return m.AvailabilityFunc(ctx, roomID, from, to)
	}
	return &dto.AvailabilityResponse{RoomID: roomID, From: from, To: to, DisabledDays: []domain.Date{}}, nil
}

func (m *MockBookingService) ActiveBookings(ctx context.Context, session *domain.Session, page, pageSize int) ([]domain.Booking, int, error) {
	if m.ActiveBookingsFunc != nil {
		return m.ActiveBookingsFunc(ctx, session, page, pageSize)
	}
	return nil, 0, nil
}

func (m *MockBookingService) OwnedBooking(ctx context.Context, session *domain.Session, bookingID string) (*domain.Booking, error) {
	if m.OwnedBookingFunc != nil {
		return m.OwnedBookingFunc(ctx, session, bookingID)
	}
	return nil, domain.ErrBookingNotFound
}

func (m *MockBookingService) DefaultWindow() (domain.Date, domain.Date) {
	return m.From, m.To
}

func (m *MockBookingService) PageSize() int {
	if m.Size == 0 {
		return 6
	}
	return m.Size
}

// MockRoomService is a mock implementation of service.RoomService for testing
type MockRoomService struct {
	ListRoomsFunc func(ctx context.Context, query domain.RoomQuery) (*dto.RoomPage, error)
	GetRoomFunc   func(ctx context.Context, id string) (*domain.Room, error)
}

func (m *MockRoomService) ListRooms(ctx context.Context, query domain.RoomQuery) (*dto.RoomPage, error) {
	if m.ListRoomsFunc != nil {
		return m.ListRoomsFunc(ctx, query)
	}
	return &dto.RoomPage{Rooms: []*domain.Room{}, Page: 1, PageSize: 6}, nil
}

func (m *MockRoomService) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	if m.GetRoomFunc != nil {
		return m.GetRoomFunc(ctx, id)
	}
	return nil, domain.ErrRoomNotFound
}

// MockAuthService is a mock implementation of service.AuthService for testing
type MockAuthService struct {
	SignupFunc        func(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error)
	LoginFunc         func(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	ValidateTokenFunc func(ctx context.Context, token string) (*domain.Session, error)
}

func (m *MockAuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, token)
	}
	return nil, domain.ErrInvalidToken
}

// MockCommitGuard is a mock implementation of service.CommitGuard for testing
type MockCommitGuard struct {
	Err      error
	acquired int
	released int
}

func (m *MockCommitGuard) TryAcquire(ctx context.Context, roomID string) (func(), error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.acquired++
	return func() { m.released++ }, nil
}

// MockHealthChecker reports a fixed error
type MockHealthChecker struct {
	Err error
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	return m.Err
}
