package auth

import (
	"context"
	_ "embed"

	"LMS-backend/internal/platform/db"
)

// Schema は staff_accounts の DDL（lmsctl account init で流す）
//
//go:embed staff_accounts.sql
var Schema string

// EnsureSchema は staff_accounts が無ければ作る。DDL は暗黙コミットされるのでトランザクション外で実行する。
func EnsureSchema(ctx context.Context, sess *db.Session) error {
	return sess.Do(ctx, func(ctx context.Context, q db.DBTX) error {
		_, err := q.ExecContext(ctx, Schema)
		return err
	})
}
