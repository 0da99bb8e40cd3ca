package members

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
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

var memberCols = []string{"MemberID", "MemberDetails", "RegistrationDate", "Loan_History"}

func newGateway(t *testing.T) (*Gateway, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewGateway(db.NewSession(conn, time.Second)), mock
}

func TestCreateThenList(t *testing.T) {
	gw, mock := newGateway(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CALL sp_insert_member(?, ?, ?)")).
		WithArgs("Jane Doe", "2024-01-15", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta("CALL sp_select_members(?)")).
		WithArgs("").
		WillReturnRows(sqlmock.NewRows(memberCols).
			AddRow(int64(1), "Jane Doe", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), nil))

	require.NoError(t, gw.Create(ctx, MemberRequest{Details: "Jane Doe", RegistrationDate: "2024-01-15"}))

	l, err := gw.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, l.Items, 1)
	assert.Equal(t, Member{MemberID: 1, Details: "Jane Doe", RegistrationDate: "2024-01-15"}, l.Items[0])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_RejectsBadDate(t *testing.T) {
	gw, mock := newGateway(t)

	err := gw.Create(context.Background(), MemberRequest{Details: "Jane Doe", RegistrationDate: "15/01/2024"})
	require.Error(t, err)
	assert.True(t, gateway.Is(err, gateway.CodeInvalidArgument))

	err = gw.Create(context.Background(), MemberRequest{RegistrationDate: "2024-01-15"})
	assert.True(t, gateway.Is(err, gateway.CodeInvalidArgument))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_PassesLoanHistory(t *testing.T) {
	gw, mock := newGateway(t)
	ctx := context.Background()

	mock.ExpectQuery("CALL sp_select_members").
		WillReturnRows(sqlmock.NewRows(memberCols).AddRow(int64(3), "Old", "2023-05-01", "2 loans"))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CALL sp_update_member(?, ?, ?, ?)")).
		WithArgs(int64(3), "New", "2023-05-01", "3 loans").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	l, err := gw.List(ctx, "")
	require.NoError(t, err)
	require.NotNil(t, l.Items[0].LoanHistory)
	assert.Equal(t, "2 loans", *l.Items[0].LoanHistory)

	sel, err := l.Select(3)
	require.NoError(t, err)
	require.NoError(t, gw.Update(ctx, sel, MemberRequest{Details: "New", RegistrationDate: "2023-05-01", LoanHistory: "3 loans"}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHTTP_DeleteWithoutConfirm(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gw, mock := newGateway(t)
	r := gin.New()
	RegisterRoutes(r, r, gw)

	mock.ExpectQuery("CALL sp_select_members").
		WillReturnRows(sqlmock.NewRows(memberCols).AddRow(int64(9), "Jane", "2024-01-15", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/members/9", nil))

	assert.Equal(t, http.StatusPreconditionRequired, w.Code)
	assert.Contains(t, w.Body.String(), string(gateway.CodeCancelled))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHTTP_CreateFailureReportsDatabaseMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gw, mock := newGateway(t)
	r := gin.New()
	RegisterRoutes(r, r, gw)

	mock.ExpectBegin()
	mock.ExpectExec("CALL sp_insert_member").WillReturnError(errors.New("Data too long for column 'MemberDetails'"))
	mock.ExpectRollback()

	body := `{"details":"Jane","registration_date":"2024-01-15"}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/members", strings.NewReader(body)))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Data too long for column")
	require.NoError(t, mock.ExpectationsWereMet())
}
