package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultDebounce は再検証トリガーをまとめる既定の待ち時間。
const DefaultDebounce = 300 * time.Millisecond

// Validator はフォーカス復帰などのトリガーでセッションを再検証する。
// 待ち時間内の連続したトリガーは1回にまとめ、検証中のトリガーは無視する。
type Validator struct {
	store    *Store
	debounce time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	timer    *time.Timer
	ctx      context.Context
	inFlight bool
	runs     int
	stopped  bool
}

// NewValidator はValidatorを生成する。debounceが0以下なら既定値を使う。
func NewValidator(store *Store, debounce time.Duration, logger *slog.Logger) *Validator {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{store: store, debounce: debounce, logger: logger}
}

// Trigger は再検証を予約する。予約済みなら待ち時間を延長する。
func (v *Validator) Trigger(ctx context.Context) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.stopped || v.inFlight {
		return
	}
	v.ctx = ctx
	if v.timer != nil {
		v.timer.Reset(v.debounce)
		return
	}
	v.timer = time.AfterFunc(v.debounce, v.run)
}

// Runs は実行済みの検証回数を返す。
func (v *Validator) Runs() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.runs
}

// Stop は予約中の検証を取り消し、以後のトリガーを無視する。
func (v *Validator) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stopped = true
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
}

func (v *Validator) run() {
	v.mu.Lock()
	if v.stopped || v.inFlight {
		v.mu.Unlock()
		return
	}
	v.inFlight = true
	v.timer = nil
	ctx := v.ctx
	v.mu.Unlock()

	if err := v.store.Revalidate(ctx); err != nil {
		v.logger.Warn("session revalidation error", slog.String("error", err.Error()))
	}

	v.mu.Lock()
	v.inFlight = false
	v.runs++
	v.mu.Unlock()
}
