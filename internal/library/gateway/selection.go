package gateway

import (
	"context"
	"fmt"
)

// Listing は List の結果。更新・削除の対象はここからしか選べない。
type Listing[T any] struct {
	Items []T

	kind string
	gen  uint64
	ids  map[int64]struct{}
}

// Select は一覧に表示されている行を選択する
func (l *Listing[T]) Select(id int64) (Selection, error) {
	if l == nil {
		return Selection{}, NewSelectionError("no list loaded, refresh first")
	}
	if _, ok := l.ids[id]; !ok {
		return Selection{}, NewSelectionError(fmt.Sprintf("%s %d is not in the current list", l.kind, id))
	}
	return Selection{kind: l.kind, id: id, gen: l.gen, ok: true}, nil
}

func (l *Listing[T]) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Items)
}

// Selection は取得済みの1行を指す。ゼロ値は「未選択」。
type Selection struct {
	kind string
	id   int64
	gen  uint64
	ok   bool
}

func (s Selection) ID() int64    { return s.id }
func (s Selection) IsZero() bool { return !s.ok }

// Confirmer は削除前の yes/no 確認
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) { return f(ctx, prompt) }

// Answer は事前に得た回答（HTTPの confirm=true など）をそのまま返す
func Answer(yes bool) Confirmer {
	return ConfirmFunc(func(context.Context, string) (bool, error) { return yes, nil })
}
