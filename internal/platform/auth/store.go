package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"LMS-backend/internal/platform/db"
)

// Account は更新系APIを使える職員アカウント（staff_accounts）
type Account struct {
	Username     string
	PasswordHash string
	Role         string
	IsDisabled   bool
	CreatedAt    string
}

type AccountStore interface {
	GetByUsername(ctx context.Context, username string) (*Account, error)
	Create(ctx context.Context, a *Account) error
	Delete(ctx context.Context, username string) (int64, error)
	UpdatePassword(ctx context.Context, username, hash string) (int64, error)
}

type Store struct{ sess *db.Session }

func NewStore(sess *db.Session) AccountStore {
	return &Store{sess: sess}
}

func (s *Store) GetByUsername(ctx context.Context, username string) (*Account, error) {
	const query = `
SELECT username, password_hash, role, is_disabled, created_at
FROM staff_accounts
WHERE username = ?
LIMIT 1
`
	var (
		a          Account
		isDisabled int
		createdAt  sql.NullString
		found      bool
	)
	err := s.sess.Do(ctx, func(ctx context.Context, q db.DBTX) error {
		err := q.QueryRowContext(ctx, query, username).Scan(
			&a.Username,
			&a.PasswordHash,
			&a.Role,
			&isDisabled,
			&createdAt,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil || !found {
		return nil, err
	}
	a.IsDisabled = isDisabled != 0
	a.CreatedAt = createdAt.String
	return &a, nil
}

func (s *Store) Create(ctx context.Context, a *Account) error {
	const q = `
INSERT INTO staff_accounts (username, password_hash, role, is_disabled, created_at)
VALUES (?, ?, ?, 0, NOW(6))
`
	err := s.sess.RunInTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, q, a.Username, a.PasswordHash, a.Role)
		return err
	})
	// 事前チェックをすり抜けた同時登録は一意制約（1062）で弾かれる
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		return ErrAlreadyExists
	}
	return err
}

func (s *Store) Delete(ctx context.Context, username string) (int64, error) {
	const q = `DELETE FROM staff_accounts WHERE username = ?`
	return s.execAffected(ctx, q, username)
}

func (s *Store) UpdatePassword(ctx context.Context, username, hash string) (int64, error) {
	const q = `UPDATE staff_accounts SET password_hash = ? WHERE username = ?`
	return s.execAffected(ctx, q, hash, username)
}

func (s *Store) execAffected(ctx context.Context, q string, args ...any) (int64, error) {
	var n int64
	err := s.sess.RunInTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	return n, err
}
