package handler

import (
	"context"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/application"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/seat"
)

// ReservationServiceInterface は予約サービスのインターフェース
type ReservationServiceInterface interface {
	List(ctx context.Context, customer string) ([]*reservation.Reservation, error)
	Get(ctx context.Context, id string) (*reservation.Reservation, error)
	Create(ctx context.Context, v reservation.Values) (*reservation.Reservation, error)
	Update(ctx context.Context, id string, v reservation.Values) (*reservation.Reservation, error)
	Remove(ctx context.Context, id string) error
	HasChanges(ctx context.Context, id string, current reservation.Values) (bool, error)
}

// OccupancyServiceInterface は使用中座席を解決するインターフェース
type OccupancyServiceInterface interface {
	Occupied(ctx context.Context, excludeID string) (seat.Set, error)
}

// SelectionServiceInterface は座席選択サービスのインターフェース
type SelectionServiceInterface interface {
	Open(ctx context.Context, input application.OpenSelectionInput) (*application.SelectionSnapshot, error)
	Get(id string) (*application.SelectionSnapshot, error)
	Toggle(id string, x seat.Seat) (*application.SelectionSnapshot, bool, error)
	Confirm(id string) (seat.Set, error)
	Abandon(id string) error
}

var (
	_ ReservationServiceInterface = (*application.ReservationService)(nil)
	_ OccupancyServiceInterface   = (*application.ReservationService)(nil)
	_ SelectionServiceInterface   = (*application.SelectionService)(nil)
)
