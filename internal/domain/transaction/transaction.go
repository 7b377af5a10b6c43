package transaction

import (
	"context"
	"fmt"
)

// Tx は予約本体と座席行をまとめて書き込む単位
type Tx interface {
	Commit() error
	Rollback() error
}

// Manager はストアごとのトランザクション開始方法
type Manager interface {
	Begin(ctx context.Context) (Tx, error)
}

// Run は fn を1つのトランザクションで実行する
// fn がエラーを返した場合はロールバックし、そのエラーをそのまま返す（座席競合の判定を呼び出し側に残すため）
func Run(ctx context.Context, m Manager, fn func(Tx) error) error {
	tx, err := m.Begin(ctx)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}
	return nil
}
