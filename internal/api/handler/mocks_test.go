package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/application"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/seat"
)

// MockReservationService はReservationServiceInterfaceのモック
type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) List(ctx context.Context, customer string) ([]*reservation.Reservation, error) {
	args := m.Called(ctx, customer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reservation.Reservation), args.Error(1)
}

func (m *MockReservationService) Get(ctx context.Context, id string) (*reservation.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationService) Create(ctx context.Context, v reservation.Values) (*reservation.Reservation, error) {
	args := m.Called(ctx, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationService) Update(ctx context.Context, id string, v reservation.Values) (*reservation.Reservation, error) {
	args := m.Called(ctx, id, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationService) Remove(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReservationService) HasChanges(ctx context.Context, id string, current reservation.Values) (bool, error) {
	args := m.Called(ctx, id, current)
	return args.Bool(0), args.Error(1)
}

// MockOccupancyService はOccupancyServiceInterfaceのモック
type MockOccupancyService struct {
	mock.Mock
}

func (m *MockOccupancyService) Occupied(ctx context.Context, excludeID string) (seat.Set, error) {
	args := m.Called(ctx, excludeID)
	return args.Get(0).(seat.Set), args.Error(1)
}

// MockSelectionService はSelectionServiceInterfaceのモック
type MockSelectionService struct {
	mock.Mock
}

func (m *MockSelectionService) Open(ctx context.Context, input application.OpenSelectionInput) (*application.SelectionSnapshot, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.SelectionSnapshot), args.Error(1)
}

func (m *MockSelectionService) Get(id string) (*application.SelectionSnapshot, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.SelectionSnapshot), args.Error(1)
}

func (m *MockSelectionService) Toggle(id string, x seat.Seat) (*application.SelectionSnapshot, bool, error) {
	args := m.Called(id, x)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*application.SelectionSnapshot), args.Bool(1), args.Error(2)
}

func (m *MockSelectionService) Confirm(id string) (seat.Set, error) {
	args := m.Called(id)
	return args.Get(0).(seat.Set), args.Error(1)
}

func (m *MockSelectionService) Abandon(id string) error {
	args := m.Called(id)
	return args.Error(0)
}
