// Package gateway translates CRUD intents into stored-procedure calls.
//
// One Gateway exists per entity kind. The kind fixes the procedure names and
// the positional parameter order; the gateway adds input validation, the
// selection/confirmation preconditions and the commit/rollback discipline.
package gateway

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync/atomic"

	ulid "github.com/oklog/ulid/v2"

	"LMS-backend/internal/platform/db"
)

// Procedures はエンティティごとのストアド名
type Procedures struct {
	Select string
	Insert string
	Update string
	Delete string
}

// Kind describes one entity kind. R is the request type carrying the
// user-entered fields; Args maps it to the insert parameters, and the update
// procedure receives the id followed by the same parameters.
type Kind[T any, R any] struct {
	Name  string
	Procs Procedures
	// EmptyFilter は filter 未指定時に select プロシージャへ渡す値（'' か NULL）
	EmptyFilter any
	Normalize   func(R) R
	Validate    func(R) error
	Args        func(R) []any
	FromRecord  func(db.Record) T
	ID          func(T) int64
}

type IDGen interface{ New() string }

type ulidGen struct{}

func (ulidGen) New() string { return ulid.Make().String() }

type Gateway[T any, R any] struct {
	sess *db.Session
	kind Kind[T, R]
	ids  IDGen
	gen  atomic.Uint64
}

func New[T any, R any](sess *db.Session, kind Kind[T, R]) *Gateway[T, R] {
	return &Gateway[T, R]{sess: sess, kind: kind, ids: ulidGen{}}
}

func (g *Gateway[T, R]) Kind() string { return g.kind.Name }

func (g *Gateway[T, R]) IDOf(item T) int64 { return g.kind.ID(item) }

// List は select プロシージャを呼ぶ。空の filter は全件。
func (g *Gateway[T, R]) List(ctx context.Context, filter string) (*Listing[T], error) {
	var arg any = strings.TrimSpace(filter)
	if arg == "" {
		arg = g.kind.EmptyFilter
	}

	// 一覧取得前の世代を記録しておく（取得中に更新が入れば古い一覧として扱う）
	gen := g.gen.Load()

	var recs []db.Record
	err := g.sess.Do(ctx, func(ctx context.Context, q db.DBTX) error {
		rows, err := q.QueryContext(ctx, callSQL(g.kind.Procs.Select, 1), arg)
		if err != nil {
			return err
		}
		recs, err = db.ScanRecords(rows)
		return err
	})
	if err != nil {
		return nil, NewDatabaseError(err)
	}

	l := &Listing[T]{
		Items: make([]T, 0, len(recs)),
		kind:  g.kind.Name,
		gen:   gen,
		ids:   make(map[int64]struct{}, len(recs)),
	}
	for _, r := range recs {
		item := g.kind.FromRecord(r)
		l.Items = append(l.Items, item)
		l.ids[g.kind.ID(item)] = struct{}{}
	}
	return l, nil
}

func (g *Gateway[T, R]) Create(ctx context.Context, in R) error {
	in, err := g.prepare(in)
	if err != nil {
		return err
	}
	args := g.kind.Args(in)
	return g.exec(ctx, "create", callSQL(g.kind.Procs.Insert, len(args)), args...)
}

func (g *Gateway[T, R]) Update(ctx context.Context, sel Selection, in R) error {
	if err := g.checkSelection(sel, "update"); err != nil {
		return err
	}
	in, err := g.prepare(in)
	if err != nil {
		return err
	}
	args := append([]any{sel.id}, g.kind.Args(in)...)
	return g.exec(ctx, "update", callSQL(g.kind.Procs.Update, len(args)), args...)
}

func (g *Gateway[T, R]) Delete(ctx context.Context, sel Selection, c Confirmer) error {
	if err := g.checkSelection(sel, "delete"); err != nil {
		return err
	}
	if c == nil {
		return NewCancelledError("delete requires confirmation")
	}
	ok, err := c.Confirm(ctx, fmt.Sprintf("Are you sure you want to delete this %s?", g.kind.Name))
	if err != nil {
		return NewCancelledError(err.Error())
	}
	if !ok {
		return NewCancelledError(fmt.Sprintf("delete of %s %d was not confirmed", g.kind.Name, sel.id))
	}
	return g.exec(ctx, "delete", callSQL(g.kind.Procs.Delete, 1), sel.id)
}

func (g *Gateway[T, R]) prepare(in R) (R, error) {
	if g.kind.Normalize != nil {
		in = g.kind.Normalize(in)
	}
	if g.kind.Validate != nil {
		if err := g.kind.Validate(in); err != nil {
			return in, err
		}
	}
	return in, nil
}

func (g *Gateway[T, R]) checkSelection(sel Selection, action string) error {
	if sel.IsZero() || sel.kind != g.kind.Name {
		return NewSelectionError(fmt.Sprintf("please select a %s to %s", g.kind.Name, action))
	}
	if sel.gen != g.gen.Load() {
		return NewSelectionError(fmt.Sprintf("%s list has changed, refresh and select again", g.kind.Name))
	}
	return nil
}

func (g *Gateway[T, R]) exec(ctx context.Context, action, query string, args ...any) error {
	op := g.ids.New()
	err := g.sess.RunInTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, query, args...)
		return err
	})
	if err != nil {
		log.Printf("[WARN] op=%s kind=%s action=%s rolled back: %v", op, g.kind.Name, action, err)
		return NewDatabaseError(err)
	}
	// 成功したら既存の一覧はすべて無効（再取得させる）
	g.gen.Add(1)
	log.Printf("[INFO] op=%s kind=%s action=%s committed", op, g.kind.Name, action)
	return nil
}

// callSQL: CALL sp_xxx(?, ?, ...)
func callSQL(proc string, n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = "?"
	}
	return fmt.Sprintf("CALL %s(%s)", proc, strings.Join(ph, ", "))
}
