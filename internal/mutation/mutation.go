// Package mutation は作成・更新・検証・却下などの書き込み操作を、
// 実行中フラグと通知付きで実行する。
package mutation

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/hitoshi/suivi/internal/notify"
)

// Request はミューテーション本体のAPI呼び出し。
type Request[P, R any] func(ctx context.Context, payload P) (R, error)

// Options は呼び出しごとのコールバック。
type Options[R any] struct {
	OnSuccess func(result R)
	OnError   func(err error)
}

// Validator はネットワークに出る前に検証できるペイロード。
type Validator interface {
	Validate() error
}

// Recorder はミューテーションの結果を記録する。
type Recorder interface {
	RecordMutation(name string, success bool)
}

// Deps はミューテーションが共有する通知先・メトリクス・ロガー。
type Deps struct {
	Notifier notify.Notifier
	Recorder Recorder
	Logger   *slog.Logger
}

// Messages は成功時と失敗時に表示する固定文言。
type Messages struct {
	Success string
	Failure string
}

// Mutation は1種類の書き込み操作。キャンセルはできず、呼び出されたら完了か失敗まで実行される。
type Mutation[P, R any] struct {
	name     string
	request  Request[P, R]
	messages Messages
	validate func(P) error
	deps     Deps
	running  atomic.Int32
}

// New はミューテーションを生成する。
func New[P, R any](name string, request Request[P, R], messages Messages, deps Deps) *Mutation[P, R] {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Mutation[P, R]{
		name:     name,
		request:  request,
		messages: messages,
		deps:     deps,
	}
}

// Name はメトリクスとログに使う名前を返す。
func (m *Mutation[P, R]) Name() string {
	return m.name
}

// Loading は実行中の呼び出しがあるかを返す。
func (m *Mutation[P, R]) Loading() bool {
	return m.running.Load() > 0
}

// Mutate はペイロードを検証してからAPIを呼び出す。
// 成功時はOnSuccessと成功通知を1回ずつ、失敗時はOnErrorと失敗通知を1回ずつ行い、エラーを返す。
// 検証エラーは通知せずにそのまま返す。
func (m *Mutation[P, R]) Mutate(ctx context.Context, payload P, opts ...Options[R]) (R, error) {
	var zero R
	if err := m.check(payload); err != nil {
		return zero, err
	}

	m.running.Add(1)
	defer m.running.Add(-1)

	result, err := m.request(context.WithoutCancel(ctx), payload)
	if err != nil {
		for _, o := range opts {
			if o.OnError != nil {
				o.OnError(err)
			}
		}
		m.finish(false)
		m.deps.Logger.Warn("mutation failed",
			slog.String("mutation", m.name),
			slog.String("error", err.Error()),
		)
		return zero, err
	}

	for _, o := range opts {
		if o.OnSuccess != nil {
			o.OnSuccess(result)
		}
	}
	m.finish(true)
	m.deps.Logger.Info("mutation succeeded", slog.String("mutation", m.name))
	return result, nil
}

func (m *Mutation[P, R]) check(payload P) error {
	if m.validate != nil {
		return m.validate(payload)
	}
	if v, ok := any(payload).(Validator); ok {
		return v.Validate()
	}
	return nil
}

func (m *Mutation[P, R]) finish(success bool) {
	if m.deps.Recorder != nil {
		m.deps.Recorder.RecordMutation(m.name, success)
	}
	if m.deps.Notifier == nil {
		return
	}
	if success {
		m.deps.Notifier.Show(m.messages.Success, notify.LevelSuccess)
	} else {
		m.deps.Notifier.Show(m.messages.Failure, notify.LevelError)
	}
}
