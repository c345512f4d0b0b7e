package mutation

import (
	"context"
	"log/slog"
)

// Result は一括処理の1件分の結果。
type Result[P, R any] struct {
	Item  P
	Value R
	Err   error
}

// Succeeded は成功した件数を返す。
func Succeeded[P, R any](results []Result[P, R]) int {
	n := 0
	for _, r := range results {
		if r.Err == nil {
			n++
		}
	}
	return n
}

// RunBulk はitemsを1件ずつ順番に処理する。途中で失敗しても残りを続け、
// 最後にrefetchを1回だけ呼ぶ。
func RunBulk[P, R any](ctx context.Context, m *Mutation[P, R], items []P, refetch func()) []Result[P, R] {
	results := make([]Result[P, R], 0, len(items))
	for _, item := range items {
		value, err := m.Mutate(ctx, item)
		results = append(results, Result[P, R]{Item: item, Value: value, Err: err})
	}

	m.deps.Logger.Info("bulk mutation completed",
		slog.String("mutation", m.name),
		slog.Int("total", len(items)),
		slog.Int("succeeded", Succeeded(results)),
	)

	if refetch != nil {
		refetch()
	}
	return results
}
