package reservation

import "context"

// Repository は予約リポジトリのインターフェース
// 各操作は単体でアトミック。Add/Update はコミット時に座席の占有を再確認し、
// 他の予約と重なる場合は ErrSeatConflict を返す
type Repository interface {
	// ListActive は有効な予約一覧を作成順で取得する
	ListActive(ctx context.Context) ([]*Reservation, error)

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id string) (*Reservation, error)

	// Add は新しい予約を作成しIDを採番する
	Add(ctx context.Context, v Values) (*Reservation, error)

	// Update は予約を更新する（IDは変わらない）
	Update(ctx context.Context, id string, v Values) (*Reservation, error)

	// Remove は予約を削除する
	Remove(ctx context.Context, id string) error
}
