package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-restaurant-seat-reservation/internal/pkg/logger"
)

// IdleSessionSweeper は放置された座席選択セッションを破棄するインターフェース
type IdleSessionSweeper interface {
	SweepIdle(ttl time.Duration) int
}

// SessionSweeper は一定間隔で放置セッションを片付けるワーカー
// 座席選択は永続化の副作用を持たないため、破棄しても予約には影響しない
type SessionSweeper struct {
	sessions IdleSessionSweeper
	interval time.Duration
	idleTTL  time.Duration

	started  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewSessionSweeper は新しいスイーパーを作成
func NewSessionSweeper(s IdleSessionSweeper, interval, idleTTL time.Duration) *SessionSweeper {
	return &SessionSweeper{
		sessions: s,
		interval: interval,
		idleTTL:  idleTTL,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start はスイーパーを開始し、停止するまでブロックする
func (w *SessionSweeper) Start(ctx context.Context) {
	if !w.started.CompareAndSwap(false, true) {
		return
	}
	defer close(w.doneCh)

	log := logger.Named("session_sweeper")
	log.Info("座席選択セッションのスイーパー開始",
		zap.Duration("interval", w.interval),
		zap.Duration("idle_ttl", w.idleTTL),
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("スイーパー停止（コンテキストキャンセル）")
			return
		case <-w.stopCh:
			log.Info("スイーパー停止（シグナル受信）")
			return
		case <-ticker.C:
			w.sweep(log)
		}
	}
}

// Stop はスイーパーを停止し、終了を待つ。複数回呼んでもよい
func (w *SessionSweeper) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	if w.started.Load() {
		<-w.doneCh
	}
}

func (w *SessionSweeper) sweep(log *zap.Logger) {
	count := w.sessions.SweepIdle(w.idleTTL)
	if count > 0 {
		log.Info("放置された座席選択セッションを破棄", zap.Int("count", count))
	} else {
		log.Debug("破棄対象のセッションなし")
	}
}
