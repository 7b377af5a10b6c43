package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/domain/transaction"
)

// sqlxTx は sqlx.Tx を transaction.Tx として扱う
type sqlxTx struct {
	*sqlx.Tx
}

// TxManager は sqlx.DB 上でトランザクションを開始する
type TxManager struct {
	db *sqlx.DB
}

func NewTxManager(db *sqlx.DB) *TxManager {
	return &TxManager{db: db}
}

// Begin は予約書き込み用のトランザクションを開始する
func (m *TxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqlxTx{Tx: tx}, nil
}

// UnwrapTx は TxManager が開始したトランザクションから sqlx.Tx を取り出す
func UnwrapTx(tx transaction.Tx) *sqlx.Tx {
	if t, ok := tx.(*sqlxTx); ok {
		return t.Tx
	}
	return nil
}

var _ transaction.Manager = (*TxManager)(nil)
