package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/transaction"
)

// 一意制約違反（reservation_seats の (table_no, seat_no)）
const uniqueViolation = "23505"

const reservationColumns = `id, customer_name, contact_info, reservation_time, number_of_guests, created_at, updated_at`

type reservationRow struct {
	ID              string    `db:"id"`
	CustomerName    string    `db:"customer_name"`
	ContactInfo     string    `db:"contact_info"`
	ReservationTime time.Time `db:"reservation_time"`
	NumberOfGuests  int       `db:"number_of_guests"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type seatRow struct {
	ReservationID string `db:"reservation_id"`
	TableNo       int    `db:"table_no"`
	SeatNo        int    `db:"seat_no"`
}

type ReservationRepository struct {
	db  *sqlx.DB
	txm transaction.Manager
	now func() time.Time
}

func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db, txm: NewTxManager(db), now: time.Now}
}

func (r *ReservationRepository) ListActive(ctx context.Context) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations ORDER BY created_at, id`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	if len(rows) == 0 {
		return []*reservation.Reservation{}, nil
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	var seats []seatRow
	if err := r.db.SelectContext(ctx, &seats,
		`SELECT reservation_id, table_no, seat_no FROM reservation_seats WHERE reservation_id = ANY($1)`,
		pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("予約座席取得に失敗: %w", err)
	}
	byReservation := make(map[string][]seat.Seat, len(rows))
	for _, s := range seats {
		byReservation[s.ReservationID] = append(byReservation[s.ReservationID], seat.New(s.TableNo, s.SeatNo))
	}

	result := make([]*reservation.Reservation, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity(byReservation[rows[i].ID])
	}
	return result, nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, reservation.ErrReservationNotFound
	}
	var row reservationRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	var seats []seatRow
	if err := r.db.SelectContext(ctx, &seats,
		`SELECT reservation_id, table_no, seat_no FROM reservation_seats WHERE reservation_id = $1`, id); err != nil {
		return nil, fmt.Errorf("予約座席取得に失敗: %w", err)
	}
	list := make([]seat.Seat, len(seats))
	for i, s := range seats {
		list[i] = seat.New(s.TableNo, s.SeatNo)
	}
	return row.toEntity(list), nil
}

func (r *ReservationRepository) Add(ctx context.Context, v reservation.Values) (*reservation.Reservation, error) {
	res := reservation.NewReservation(v, r.now().UTC())
	res.ID = uuid.New().String()

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `INSERT INTO reservations (` + reservationColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
		if _, err := tx.ExecContext(ctx, query, res.ID, res.CustomerName, res.ContactInfo,
			res.ReservationTime, res.NumberOfGuests, res.CreatedAt, res.UpdatedAt); err != nil {
			return fmt.Errorf("予約作成に失敗: %w", err)
		}
		return insertSeats(ctx, tx, res.ID, res.SelectedSeats)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *ReservationRepository) Update(ctx context.Context, id string, v reservation.Values) (*reservation.Reservation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, reservation.ErrReservationNotFound
	}
	now := r.now().UTC()

	var row reservationRow
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `UPDATE reservations SET customer_name = $1, contact_info = $2, reservation_time = $3, number_of_guests = $4, updated_at = $5 WHERE id = $6 RETURNING ` + reservationColumns
		if err := tx.GetContext(ctx, &row, query, v.CustomerName, v.ContactInfo, v.ReservationTime, v.NumberOfGuests, now, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return reservation.ErrReservationNotFound
			}
			return fmt.Errorf("予約更新に失敗: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM reservation_seats WHERE reservation_id = $1`, id); err != nil {
			return fmt.Errorf("予約座席削除に失敗: %w", err)
		}
		return insertSeats(ctx, tx, id, v.SelectedSeats)
	})
	if err != nil {
		return nil, err
	}
	return row.toEntity(v.SelectedSeats.Seats()), nil
}

func (r *ReservationRepository) Remove(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return reservation.ErrReservationNotFound
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("予約削除に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return reservation.ErrReservationNotFound
	}
	return nil
}

// withTx は fn をトランザクション内で実行し、失敗時はロールバックする
func (r *ReservationRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return transaction.Run(ctx, r.txm, func(tx transaction.Tx) error {
		return fn(UnwrapTx(tx))
	})
}

// insertSeats は座席をマルチバリューINSERTで登録する
// 他の予約が同じ座席を持っていれば一意制約違反となり ErrSeatConflict を返す
func insertSeats(ctx context.Context, tx *sqlx.Tx, reservationID string, seats seat.Set) error {
	if seats.IsEmpty() {
		return nil
	}
	list := seats.Seats()
	args := make([]interface{}, 0, len(list)*3)
	placeholders := make([]string, 0, len(list))
	for i, s := range list {
		base := i * 3
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d)", base+1, base+2, base+3))
		args = append(args, reservationID, s.Table, s.Number)
	}
	query := `INSERT INTO reservation_seats (reservation_id, table_no, seat_no) VALUES ` + strings.Join(placeholders, ", ")
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", reservation.ErrSeatConflict, seats)
		}
		return fmt.Errorf("予約座席登録に失敗: %w", err)
	}
	return nil
}

func (row *reservationRow) toEntity(seats []seat.Seat) *reservation.Reservation {
	return &reservation.Reservation{
		ID: row.ID, CustomerName: row.CustomerName, ContactInfo: row.ContactInfo,
		ReservationTime: row.ReservationTime, NumberOfGuests: row.NumberOfGuests,
		SelectedSeats: seat.NewSet(seats...),
		CreatedAt:     row.CreatedAt, UpdatedAt: row.UpdatedAt,
	}
}

var _ reservation.Repository = (*ReservationRepository)(nil)
