package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LMS-backend/internal/library/gateway"
	"LMS-backend/internal/platform/db"
)

var bookCols = []string{"Books_ID", "Title", "ISBN", "AvailabilityStatus", "book_category"}

func newTestApp(t *testing.T, tty bool, input string) (*App, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	sess := db.NewSession(conn, time.Second)
	a := &App{
		Connect: func(context.Context, string) (*db.Session, error) { return sess, nil },
		In:      strings.NewReader(input),
		IsTTY:   func() bool { return tty },
	}
	return a, mock
}

func run(t *testing.T, a *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConfirmer(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer

	yes := &terminalConfirmer{yes: true}
	ok, err := yes.Confirm(ctx, "delete?")
	require.NoError(t, err)
	assert.True(t, ok)

	piped := &terminalConfirmer{out: &out, isTTY: func() bool { return false }}
	_, err = piped.Confirm(ctx, "delete?")
	assert.ErrorIs(t, err, errNotInteractive)

	for in, want := range map[string]bool{"y\n": true, "YES\n": true, "n\n": false, "\n": false, "": false} {
		c := &terminalConfirmer{in: strings.NewReader(in), out: &out, isTTY: func() bool { return true }}
		ok, err := c.Confirm(ctx, "Are you sure you want to delete this book?")
		require.NoError(t, err)
		assert.Equal(t, want, ok, "%q", in)
	}
	assert.Contains(t, out.String(), "Are you sure you want to delete this book? [y/N]: ")
}

func TestBooksList(t *testing.T) {
	a, mock := newTestApp(t, false, "")
	mock.ExpectQuery(regexp.QuoteMeta("CALL sp_select_books(?)")).WithArgs(nil).
		WillReturnRows(sqlmock.NewRows(bookCols).AddRow(int64(1), "Dune", "9780441013593", "Available", "Sci-Fi"))
	mock.ExpectClose()

	out, err := run(t, a, "books", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Dune")
	assert.Contains(t, out, "1 book(s)")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteWithoutTerminalIsRefused(t *testing.T) {
	a, mock := newTestApp(t, false, "")
	mock.ExpectQuery("CALL sp_select_books").
		WillReturnRows(sqlmock.NewRows(bookCols).AddRow(int64(3), "Emma", "9780141439587", "Available", nil))

	_, err := run(t, a, "books", "delete", "3")
	require.Error(t, err)
	assert.True(t, gateway.Is(err, gateway.CodeCancelled))
	assert.Contains(t, describe(err), "--yes")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteDeclinedAtPrompt(t *testing.T) {
	a, mock := newTestApp(t, true, "n\n")
	mock.ExpectQuery("CALL sp_select_books").
		WillReturnRows(sqlmock.NewRows(bookCols).AddRow(int64(3), "Emma", "9780141439587", "Available", nil))

	out, err := run(t, a, "books", "delete", "3")
	assert.True(t, gateway.Is(err, gateway.CodeCancelled))
	assert.Contains(t, out, "Are you sure you want to delete this book? [y/N]")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteWithYes(t *testing.T) {
	a, mock := newTestApp(t, false, "")
	mock.ExpectQuery("CALL sp_select_books").
		WillReturnRows(sqlmock.NewRows(bookCols).AddRow(int64(3), "Emma", "9780141439587", "Available", nil))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CALL sp_delete_book(?)")).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("CALL sp_select_books").WillReturnRows(sqlmock.NewRows(bookCols))
	mock.ExpectClose()

	out, err := run(t, a, "--yes", "books", "delete", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "book 3 deleted")
	assert.Contains(t, out, "0 book(s)")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateKeepsUnsetFields(t *testing.T) {
	a, mock := newTestApp(t, false, "")
	mock.ExpectQuery("CALL sp_select_members").
		WillReturnRows(sqlmock.NewRows([]string{"MemberID", "MemberDetails", "RegistrationDate", "Loan_History"}).
			AddRow(int64(5), "Jane Doe", "2024-01-15", nil))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CALL sp_update_member(?, ?, ?, ?)")).
		WithArgs(int64(5), "Jane Roe", "2024-01-15", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("CALL sp_select_members").
		WillReturnRows(sqlmock.NewRows([]string{"MemberID", "MemberDetails", "RegistrationDate", "Loan_History"}).
			AddRow(int64(5), "Jane Roe", "2024-01-15", nil))
	mock.ExpectClose()

	out, err := run(t, a, "members", "update", "5", "--details", "Jane Roe")
	require.NoError(t, err)
	assert.Contains(t, out, "member 5 updated")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddRejectsBadDateWithoutDatabase(t *testing.T) {
	a, mock := newTestApp(t, false, "")

	_, err := run(t, a, "members", "add", "--details", "Jane", "--registration-date", "2024-1-5")
	require.Error(t, err)
	assert.True(t, gateway.Is(err, gateway.CodeInvalidArgument))
	assert.Contains(t, describe(err), "invalid input")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFineSet(t *testing.T) {
	a, mock := newTestApp(t, false, "")
	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(int64(4)).WillReturnRows(sqlmock.NewRows([]string{"Transactions_ID"}).AddRow(int64(4)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM Fines`).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectExec(`UPDATE Fines`).WithArgs(3.0, "Paid", "Paid", int64(4)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT Transactions_ID, fine_total`).
		WillReturnRows(sqlmock.NewRows([]string{"Transactions_ID", "fine_total", "Paid_Status", "payment_date", "OverDue_Days"}).
			AddRow(int64(4), "3.00", "Paid", "2024-03-01", int64(2)))
	mock.ExpectCommit()
	mock.ExpectClose()

	out, err := run(t, a, "fine", "set", "4", "3", "--status", "Paid")
	require.NoError(t, err)
	assert.Equal(t, "fine updated for transaction 4: 3.00 Paid (paid 2024-03-01)\n", out)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountInit(t *testing.T) {
	a, mock := newTestApp(t, false, "")
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS staff_accounts")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectClose()

	out, err := run(t, a, "account", "init")
	require.NoError(t, err)
	assert.Equal(t, "staff_accounts ready\n", out)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdefgh", 5))
	assert.Equal(t, "吾輩は...", truncate("吾輩は猫である", 6))
}
