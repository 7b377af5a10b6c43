package application

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/seat"
)

// MockReservationRepository implements reservation.Repository
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) ListActive(ctx context.Context) ([]*reservation.Reservation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Add(ctx context.Context, v reservation.Values) (*reservation.Reservation, error) {
	args := m.Called(ctx, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Update(ctx context.Context, id string, v reservation.Values) (*reservation.Reservation, error) {
	args := m.Called(ctx, id, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Remove(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOccupancyCache implements OccupancyCache
type MockOccupancyCache struct {
	mock.Mock
}

func (m *MockOccupancyCache) Get(ctx context.Context) (seat.Set, error) {
	args := m.Called(ctx)
	return args.Get(0).(seat.Set), args.Error(1)
}

func (m *MockOccupancyCache) Set(ctx context.Context, occupied seat.Set) error {
	args := m.Called(ctx, occupied)
	return args.Error(0)
}

func (m *MockOccupancyCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockOccupancyResolver implements OccupancyResolver
type MockOccupancyResolver struct {
	mock.Mock
}

func (m *MockOccupancyResolver) Occupied(ctx context.Context, excludeID string) (seat.Set, error) {
	args := m.Called(ctx, excludeID)
	return args.Get(0).(seat.Set), args.Error(1)
}
