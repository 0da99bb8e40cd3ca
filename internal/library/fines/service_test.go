package fines

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LMS-backend/internal/library/gateway"
	"LMS-backend/internal/platform/db"
)

const (
	lockRe   = `FROM Transactions WHERE Transactions_ID = \? FOR UPDATE`
	countRe  = `SELECT COUNT\(\*\) FROM Fines`
	insertRe = `INSERT INTO Fines`
	updateRe = `UPDATE Fines`
	readRe   = `SELECT Transactions_ID, fine_total, Paid_Status, payment_date, OverDue_Days`
)

var fineCols = []string{"Transactions_ID", "fine_total", "Paid_Status", "payment_date", "OverDue_Days"}

func newService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewService(db.NewSession(conn, time.Second)), mock
}

func TestAddOrUpdateFine_InsertThenPay(t *testing.T) {
	svc, mock := newService(t)
	ctx := context.Background()

	// 1回目: 罰金なし → INSERT（Unpaid, payment_date NULL）
	mock.ExpectBegin()
	mock.ExpectQuery(lockRe).WithArgs(int64(17)).WillReturnRows(sqlmock.NewRows([]string{"Transactions_ID"}).AddRow(int64(17)))
	mock.ExpectQuery(countRe).WithArgs(int64(17)).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec(insertRe).
		WithArgs(12.5, "Unpaid", int64(17), "Unpaid", int64(17)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(readRe).WithArgs(int64(17)).
		WillReturnRows(sqlmock.NewRows(fineCols).AddRow(int64(17), []byte("12.50"), "Unpaid", nil, int64(6)))
	mock.ExpectCommit()

	// 2回目: 同じ取引 → UPDATE（Paid, payment_date = CURDATE()）
	mock.ExpectBegin()
	mock.ExpectQuery(lockRe).WithArgs(int64(17)).WillReturnRows(sqlmock.NewRows([]string{"Transactions_ID"}).AddRow(int64(17)))
	mock.ExpectQuery(countRe).WithArgs(int64(17)).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectExec(updateRe).
		WithArgs(12.5, "Paid", "Paid", int64(17)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(readRe).WithArgs(int64(17)).
		WillReturnRows(sqlmock.NewRows(fineCols).
			AddRow(int64(17), []byte("12.50"), "Paid", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), int64(6)))
	mock.ExpectCommit()

	first, err := svc.AddOrUpdateFine(ctx, FineRequest{TransactionID: "17", Amount: "12.50", Status: "Unpaid"})
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, StatusUnpaid, first.Fine.Status)
	assert.Equal(t, 12.5, first.Fine.Amount)
	assert.Nil(t, first.Fine.PaymentDate)
	require.NotNil(t, first.Fine.OverdueDays)
	assert.Equal(t, int64(6), *first.Fine.OverdueDays)

	second, err := svc.AddOrUpdateFine(ctx, FineRequest{TransactionID: "17", Amount: "12.50", Status: "paid"})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, StatusPaid, second.Fine.Status)
	require.NotNil(t, second.Fine.PaymentDate)
	assert.Equal(t, "2024-03-01", *second.Fine.PaymentDate)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddOrUpdateFine_UnknownTransaction(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockRe).WithArgs(int64(404)).WillReturnRows(sqlmock.NewRows([]string{"Transactions_ID"}))
	mock.ExpectRollback()

	_, err := svc.AddOrUpdateFine(context.Background(), FineRequest{TransactionID: "404", Amount: "5"})
	require.Error(t, err)
	assert.True(t, gateway.Is(err, gateway.CodeNotFound))
	// INSERT は一度も実行されない
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddOrUpdateFine_DatabaseErrorRollsBack(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockRe).WillReturnRows(sqlmock.NewRows([]string{"Transactions_ID"}).AddRow(int64(3)))
	mock.ExpectQuery(countRe).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec(insertRe).WillReturnError(errors.New("Out of range value for column 'fine_total'"))
	mock.ExpectRollback()

	_, err := svc.AddOrUpdateFine(context.Background(), FineRequest{TransactionID: "3", Amount: "99999999"})
	require.Error(t, err)
	assert.True(t, gateway.Is(err, gateway.CodeDatabase))
	assert.Contains(t, err.Error(), "Out of range value")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddOrUpdateFine_InputErrors(t *testing.T) {
	svc, mock := newService(t)
	cases := []FineRequest{
		{TransactionID: "", Amount: "1"},
		{TransactionID: "abc", Amount: "1"},
		{TransactionID: "1", Amount: "ten"},
		{TransactionID: "1", Amount: "-1"},
		{TransactionID: "1", Amount: "NaN"},
		{TransactionID: "1", Amount: "Inf"},
		{TransactionID: "1", Amount: "-Infinity"},
		{TransactionID: "1", Amount: "1", Status: "Waived"},
	}
	for _, in := range cases {
		_, err := svc.AddOrUpdateFine(context.Background(), in)
		assert.True(t, gateway.Is(err, gateway.CodeInvalidArgument), "%+v", in)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListTransactions(t *testing.T) {
	svc, mock := newService(t)

	mock.ExpectQuery(`FROM Transactions t\s+LEFT JOIN Fines f`).
		WillReturnRows(sqlmock.NewRows([]string{
			"Transactions_ID", "Transactions_Date", "Due_date", "Transaction_type", "MemberID", "fine_amount", "fine_status",
		}).
			AddRow(int64(2), "2024-03-02", "2024-03-16", "Borrow", int64(1), []byte("0"), "No Fine").
			AddRow(int64(1), "2024-02-01", "2024-02-15", "Borrow", int64(1), []byte("4.00"), "Unpaid"))

	items, err := svc.ListTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, StatusNoFine, items[0].FineStatus)
	assert.Equal(t, 4.0, items[1].FineAmount)
	assert.Equal(t, "2024-02-15", items[1].DueDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHTTP_PutFine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, mock := newService(t)
	r := gin.New()
	RegisterRoutes(r, r, svc)

	mock.ExpectBegin()
	mock.ExpectQuery(lockRe).WillReturnRows(sqlmock.NewRows([]string{"Transactions_ID"}).AddRow(int64(8)))
	mock.ExpectQuery(countRe).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec(insertRe).WithArgs(2.0, "Unpaid", int64(8), "Unpaid", int64(8)).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(readRe).WillReturnRows(sqlmock.NewRows(fineCols).AddRow(int64(8), "2.00", "Unpaid", nil, nil))
	mock.ExpectCommit()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/transactions/8/fine", strings.NewReader(`{"amount":2}`)))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"created":true`)
	assert.Contains(t, w.Body.String(), `"payment_date":null`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHTTP_PutFineBadAmount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, mock := newService(t)
	r := gin.New()
	RegisterRoutes(r, r, svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/transactions/x/fine", strings.NewReader(`{"amount":2}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
