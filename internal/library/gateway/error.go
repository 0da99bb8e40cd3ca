package gateway

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-sql-driver/mysql"
)

type Code string

// 共通エラーコード
const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"   // 入力不備（DBには届かない）
	CodeSelection       Code = "SELECTION_REQUIRED" // 行が選択されていない / 一覧が古い
	CodeNotFound        Code = "NOT_FOUND"
	CodeDatabase        Code = "DATABASE_ERROR" // DB側で失敗 → ROLLBACK 済み
	CodeCancelled       Code = "CANCELLED"      // 削除確認で「いいえ」
	CodeInternal        Code = "INTERNAL"
)

type DomainError struct {
	Code    Code
	Message string
	Err     error
}

func (e *DomainError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func (e *DomainError) Unwrap() error { return e.Err }

func NewInputError(msg string) error {
	return &DomainError{Code: CodeInvalidArgument, Message: msg}
}

func NewSelectionError(msg string) error {
	return &DomainError{Code: CodeSelection, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &DomainError{Code: CodeNotFound, Message: msg}
}

func NewCancelledError(msg string) error {
	return &DomainError{Code: CodeCancelled, Message: msg}
}

// NewDatabaseError はDBのエラーメッセージをそのまま保持する。
// MySQL のエラーはサーバーの文言（SIGNAL の MESSAGE_TEXT など）だけを使う。
// すでに DomainError ならそのまま返す。
func NewDatabaseError(err error) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	msg := err.Error()
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		msg = me.Message
	}
	return &DomainError{Code: CodeDatabase, Message: msg, Err: err}
}

// CodeOf は DomainError 以外を INTERNAL とみなす
func CodeOf(err error) Code {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

func ToHTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeSelection:
		return http.StatusUnprocessableEntity
	case CodeCancelled:
		return http.StatusPreconditionRequired
	case CodeDatabase:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type ErrorDTO struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func ErrorBody(code Code, msg string) ErrorDTO {
	var e ErrorDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

func ErrorFromErr(err error) ErrorDTO {
	var de *DomainError
	if errors.As(err, &de) {
		return ErrorBody(de.Code, de.Message)
	}
	return ErrorBody(CodeInternal, err.Error())
}
