package query

// ViewKind はクエリ状態に対する描画方針。
type ViewKind int

const (
	// ViewLoading は初回読み込み中。
	ViewLoading ViewKind = iota
	// ViewError はデータがなくエラーだけがある。再試行付きのエラー表示にする。
	ViewError
	// ViewWarning は以前のデータを表示したまま、エラーをバナーで示す。
	ViewWarning
	// ViewReady はデータを表示する。再取得中も含む。
	ViewReady
)

// String はViewKindの名前を返す。
func (v ViewKind) String() string {
	switch v {
	case ViewLoading:
		return "loading"
	case ViewError:
		return "error"
	case ViewWarning:
		return "warning"
	default:
		return "ready"
	}
}

// View は状態から描画方針を決める。
func View[T any](s State[T]) ViewKind {
	switch {
	case s.Err != "" && !s.HasData:
		return ViewError
	case s.Err != "":
		return ViewWarning
	case s.Loading && !s.HasData:
		return ViewLoading
	default:
		return ViewReady
	}
}
