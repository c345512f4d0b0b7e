// Package query はフィルタに連動して自動で再取得する読み取り専用のクエリを提供する。
// 各クエリは自身の状態だけを持ち、クエリ間でキャッシュは共有しない。
package query

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hitoshi/suivi/internal/httpclient"
)

// Fetcher はフィルタに対応するデータを取得する。ctxは新しい取得で置き換えられるとキャンセルされる。
type Fetcher[F, T any] func(ctx context.Context, filters F) (T, error)

// State はクエリの表示状態。
type State[T any] struct {
	Data    T
	Loading bool
	// Err は利用者向けのエラー文言。エラーがなければ空文字列。
	Err string
	// HasData は一度でも取得に成功したかを表す。初回読み込みと再取得の区別に使う。
	HasData bool
}

// Recorder は破棄された取得結果を記録する。
type Recorder interface {
	RecordQueryDiscarded(name string)
}

// Query はフィルタとリロード回数が変わるたびにデータを取得し直す。
// 古い取得はキャンセルされ、世代番号で結果が捨てられるため、最後に開始した取得だけが状態に反映される。
type Query[F, T any] struct {
	name     string
	fetch    Fetcher[F, T]
	fallback string
	enabled  func(F) bool
	recorder Recorder
	logger   *slog.Logger
	parent   context.Context

	mu      sync.Mutex
	filters F
	key     string
	state   State[T]
	gen     uint64
	cancel  context.CancelFunc
	subs    map[int]chan struct{}
	nextSub int
	closed  bool
	wg      sync.WaitGroup
}

// Options はQueryの生成オプション。
type Options[F any] struct {
	Name     string
	Fallback string
	Enabled  func(F) bool
	Recorder Recorder
	Logger   *slog.Logger
}

// Option はOptionsを変更する。
type Option[F any] func(*Options[F])

// WithEnabled はフィルタが条件を満たさない場合に取得を省略させる。省略時はデータを空にする。
func WithEnabled[F any](fn func(F) bool) Option[F] {
	return func(o *Options[F]) { o.Enabled = fn }
}

// WithFallback はエラーに文言がない場合の表示を設定する。
func WithFallback[F any](msg string) Option[F] {
	return func(o *Options[F]) { o.Fallback = msg }
}

// WithRecorder はメトリクスの記録先を設定する。
func WithRecorder[F any](r Recorder) Option[F] {
	return func(o *Options[F]) { o.Recorder = r }
}

// WithLogger はロガーを設定する。
func WithLogger[F any](logger *slog.Logger) Option[F] {
	return func(o *Options[F]) { o.Logger = logger }
}

// New はクエリを生成し、初回の取得を開始する。
// ctxが終了するとクエリ全体の取得がキャンセルされる。
func New[F, T any](ctx context.Context, name string, fetch Fetcher[F, T], initial F, opts ...Option[F]) *Query[F, T] {
	o := Options[F]{Name: name, Fallback: "Failed to load data"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	q := &Query[F, T]{
		name:     o.Name,
		fetch:    fetch,
		fallback: o.Fallback,
		enabled:  o.Enabled,
		recorder: o.Recorder,
		logger:   o.Logger,
		parent:   ctx,
		filters:  initial,
		key:      filterKey(initial),
		subs:     make(map[int]chan struct{}),
	}

	q.mu.Lock()
	q.startLocked()
	q.mu.Unlock()
	return q
}

// State は現在の状態を返す。
func (q *Query[F, T]) State() State[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Filters は現在のフィルタを返す。
func (q *Query[F, T]) Filters() F {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.filters
}

// SetFilters はフィルタを置き換える。シリアライズ結果が同じなら再取得しない。
func (q *Query[F, T]) SetFilters(f F) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.applyLocked(f)
}

// UpdateFilters は現在のフィルタから新しいフィルタを計算して置き換える。
func (q *Query[F, T]) UpdateFilters(fn func(F) F) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.applyLocked(fn(q.filters))
}

// Refetch はフィルタを変えずに取得し直す。
func (q *Query[F, T]) Refetch() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.startLocked()
}

// Subscribe は状態が変わるたびに通知を受け取るチャネルと購読解除関数を返す。
// 通知は合流するため、受信後はStateで最新の状態を読むこと。
func (q *Query[F, T]) Subscribe() (<-chan struct{}, func()) {
	q.mu.Lock()
	defer q.mu.Unlock()

	ch := make(chan struct{}, 1)
	if q.closed {
		close(ch)
		return ch, func() {}
	}
	id := q.nextSub
	q.nextSub++
	q.subs[id] = ch

	return ch, func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		if c, ok := q.subs[id]; ok {
			delete(q.subs, id)
			close(c)
		}
	}
}

// Wait は進行中の取得が終わるまで待ち、その時点の状態を返す。
func (q *Query[F, T]) Wait(ctx context.Context) (State[T], error) {
	ch, unsubscribe := q.Subscribe()
	defer unsubscribe()

	for {
		st := q.State()
		if !st.Loading {
			return st, nil
		}
		select {
		case <-ctx.Done():
			return st, ctx.Err()
		case _, ok := <-ch:
			if !ok {
				return q.State(), nil
			}
		}
	}
}

// Close は進行中の取得をキャンセルし、以後の取得を止める。結果は状態に反映されない。
func (q *Query[F, T]) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
	q.state.Loading = false
	q.mu.Unlock()

	q.wg.Wait()

	q.mu.Lock()
	for id, ch := range q.subs {
		delete(q.subs, id)
		close(ch)
	}
	q.mu.Unlock()
}

func (q *Query[F, T]) applyLocked(f F) {
	key := filterKey(f)
	if key == q.key {
		return
	}
	q.filters = f
	q.key = key
	q.startLocked()
}

func (q *Query[F, T]) startLocked() {
	if q.closed {
		return
	}
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
	q.gen++
	gen := q.gen
	filters := q.filters

	if q.enabled != nil && !q.enabled(filters) {
		q.state = State[T]{}
		q.notifyLocked()
		return
	}

	ctx, cancel := context.WithCancel(q.parent)
	q.cancel = cancel
	q.state.Loading = true
	q.state.Err = ""
	q.notifyLocked()

	q.wg.Add(1)
	go q.run(ctx, cancel, gen, filters)
}

func (q *Query[F, T]) run(ctx context.Context, cancel context.CancelFunc, gen uint64, filters F) {
	defer q.wg.Done()
	defer cancel()

	data, err := q.fetch(ctx, filters)

	q.mu.Lock()
	defer q.mu.Unlock()

	if gen != q.gen || q.closed {
		if q.recorder != nil {
			q.recorder.RecordQueryDiscarded(q.name)
		}
		return
	}

	q.cancel = nil
	q.state.Loading = false
	switch {
	case err == nil:
		q.state.Data = data
		q.state.HasData = true
	case httpclient.IsAborted(err):
		// 中断はエラーとして扱わない
	default:
		q.state.Err = httpclient.Message(err, q.fallback)
		q.logger.Warn("query fetch failed",
			slog.String("query", q.name),
			slog.String("error", err.Error()),
		)
	}
	q.notifyLocked()
}

func (q *Query[F, T]) notifyLocked() {
	for _, ch := range q.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// filterKey はフィルタの同一性判定に使うJSON表現を返す。
func filterKey(f any) string {
	b, err := json.Marshal(f)
	if err != nil {
		return fmt.Sprintf("%#v", f)
	}
	return string(b)
}
