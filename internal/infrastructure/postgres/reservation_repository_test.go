package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/config"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/seat"
)

// setupTestDB はテスト用DBに接続しマイグレーションを適用する（未起動ならスキップ）
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	if os.Getenv("TEST_POSTGRES") == "" {
		t.Skip("TEST_POSTGRES が未設定のためスキップ")
	}
	cfg := config.Load()
	db, err := NewConnection(&cfg.Database)
	if err != nil {
		t.Skip("PostgreSQL not available")
	}
	t.Cleanup(func() { db.Close() })

	_, file, _, _ := runtime.Caller(0)
	migrationsPath := filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations")
	require.NoError(t, RunMigrations(db.DB, migrationsPath))

	_, err = db.Exec("TRUNCATE TABLE reservation_seats, reservations CASCADE")
	require.NoError(t, err)
	return db
}

func values(name string, seats ...seat.Seat) reservation.Values {
	return reservation.Values{
		CustomerName:    name,
		ContactInfo:     "090-0000-0000",
		ReservationTime: time.Date(2030, 1, 1, 19, 0, 0, 0, time.UTC),
		NumberOfGuests:  len(seats),
		SelectedSeats:   seat.NewSet(seats...),
	}
}

func TestReservationRepository_CRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	res, err := repo.Add(ctx, values("山田", seat.New(1, 3), seat.New(1, 2)))
	require.NoError(t, err)
	_, err = uuid.Parse(res.ID)
	require.NoError(t, err)

	t.Run("IDで取得できる", func(t *testing.T) {
		got, err := repo.GetByID(ctx, res.ID)
		require.NoError(t, err)
		assert.Equal(t, "山田", got.CustomerName)
		assert.True(t, got.SelectedSeats.Equal(seat.NewSet(seat.New(1, 2), seat.New(1, 3))))
	})

	t.Run("同じ座席は登録できない", func(t *testing.T) {
		_, err := repo.Add(ctx, values("佐藤", seat.New(1, 2)))
		assert.ErrorIs(t, err, reservation.ErrSeatConflict)

		list, err := repo.ListActive(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1, "失敗した予約は残らない")
	})

	t.Run("自分の座席を保ったまま更新できる", func(t *testing.T) {
		got, err := repo.Update(ctx, res.ID, values("山田", seat.New(1, 2), seat.New(1, 3), seat.New(1, 4)))
		require.NoError(t, err)
		assert.Equal(t, 3, got.SelectedSeats.Len())
	})

	t.Run("他の予約と競合する更新は元の値を保つ", func(t *testing.T) {
		other, err := repo.Add(ctx, values("鈴木", seat.New(2, 1)))
		require.NoError(t, err)

		_, err = repo.Update(ctx, res.ID, values("山田2", seat.New(2, 1)))
		assert.ErrorIs(t, err, reservation.ErrSeatConflict)

		got, err := repo.GetByID(ctx, res.ID)
		require.NoError(t, err)
		assert.Equal(t, "山田", got.CustomerName)
		assert.Equal(t, 3, got.SelectedSeats.Len())

		require.NoError(t, repo.Remove(ctx, other.ID))
	})

	t.Run("削除と存在しないID", func(t *testing.T) {
		require.NoError(t, repo.Remove(ctx, res.ID))
		assert.ErrorIs(t, repo.Remove(ctx, res.ID), reservation.ErrReservationNotFound)
		_, err := repo.Update(ctx, res.ID, values("X", seat.New(9, 9)))
		assert.ErrorIs(t, err, reservation.ErrReservationNotFound)
		_, err = repo.GetByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, reservation.ErrReservationNotFound)
	})
}
