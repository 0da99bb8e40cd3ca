package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NewInputError("x"), http.StatusBadRequest},
		{NewSelectionError("x"), http.StatusUnprocessableEntity},
		{NewNotFoundError("x"), http.StatusNotFound},
		{NewCancelledError("x"), http.StatusPreconditionRequired},
		{NewDatabaseError(errors.New("x")), http.StatusConflict},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ToHTTPStatus(tc.err), tc.err.Error())
	}
}

func TestNewDatabaseError_KeepsDomainErrors(t *testing.T) {
	in := NewNotFoundError("transaction 5 not found")
	wrapped := fmt.Errorf("fine: %w", in)

	assert.Same(t, in, NewDatabaseError(wrapped))
	assert.Nil(t, NewDatabaseError(nil))
}

func TestNewDatabaseError_Unwraps(t *testing.T) {
	cause := errors.New("Cannot delete or update a parent row")
	err := NewDatabaseError(cause)

	assert.ErrorIs(t, err, cause)
	body := ErrorFromErr(err)
	assert.Equal(t, CodeDatabase, body.Error.Code)
	assert.Equal(t, cause.Error(), body.Error.Message)
}

func TestNewDatabaseError_MySQLMessage(t *testing.T) {
	cause := &mysql.MySQLError{Number: 1644, Message: "ISBN already exists"}
	err := NewDatabaseError(fmt.Errorf("exec: %w", cause))

	assert.EqualError(t, err, "DATABASE_ERROR: ISBN already exists")
	assert.ErrorIs(t, err, cause)
}

func TestCheck(t *testing.T) {
	err := new(Check).Require("a", "").Require("b", " ").Date("c", "2024-13-01").Err()
	assert.EqualError(t, err, "INVALID_ARGUMENT: a, b required")

	err = new(Check).Require("a", "x").Date("c", "2024-13-01").Err()
	assert.EqualError(t, err, "INVALID_ARGUMENT: c: invalid date format, use YYYY-MM-DD")

	assert.NoError(t, new(Check).Require("a", "x").Date("c", "").Date("d", "2024-02-29").Err())
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, NullIfEmpty("  "))
	assert.Equal(t, "fiction", NullIfEmpty(" fiction "))
}
