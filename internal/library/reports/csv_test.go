package reports

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"

	"LMS-backend/internal/library/gateway"
)

var overdueRows = []OverdueBook{
	{Title: "吾輩は猫である", Member: "山田 花子", DueDate: "2024-02-01", DaysOverdue: 20, FineAmount: 10, ContactNumber: "090-0000-0000"},
}

func TestWriteOverdueCSV_UTF8(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, WriteOverdueCSV(&b, overdueRows, EncodingUTF8))
	assert.Equal(t,
		"Book Title,Member,Due Date,Days Overdue,Fine Amount,Contact Info\n"+
			"吾輩は猫である,山田 花子,2024-02-01,20,10.00,090-0000-0000\n",
		b.String())
}

func TestWriteOverdueCSV_ShiftJIS(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, WriteOverdueCSV(&b, overdueRows, EncodingShiftJIS))

	assert.NotContains(t, b.String(), "吾輩")
	decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(b.Bytes())
	require.NoError(t, err)
	assert.Contains(t, string(decoded), "吾輩は猫である,山田 花子")
}

func TestWriteOverdueCSV_ShiftJISUnsupportedRune(t *testing.T) {
	rows := []OverdueBook{
		{Title: "Go", Member: "José Müller", DueDate: "2024-02-01", DaysOverdue: 3, FineAmount: 1.5, ContactNumber: "555-0101"},
	}
	var b bytes.Buffer
	err := WriteOverdueCSV(&b, rows, EncodingShiftJIS)

	require.Error(t, err)
	assert.True(t, gateway.Is(err, gateway.CodeInvalidArgument))
	assert.Contains(t, err.Error(), `row 1 column "Member"`)
	assert.Zero(t, b.Len())

	b.Reset()
	require.NoError(t, WriteOverdueCSV(&b, rows, EncodingUTF8))
	assert.Contains(t, b.String(), "Go,José Müller,2024-02-01,3,1.50,555-0101")
}

func TestParseEncoding(t *testing.T) {
	e, err := ParseEncoding("CP932")
	require.NoError(t, err)
	assert.Equal(t, EncodingShiftJIS, e)

	e, err = ParseEncoding("")
	require.NoError(t, err)
	assert.Equal(t, EncodingUTF8, e)

	_, err = ParseEncoding("latin1")
	assert.Error(t, err)
}

func TestHTTP_OverdueCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, mock := newService(t)
	r := gin.New()
	RegisterRoutes(r, svc)

	mock.ExpectQuery(`WHERE days_overdue >= \?`).WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"Title", "MemberDetails", "Due_date", "days_overdue", "fine_total", "contact_number"}).
			AddRow("Dune", "Jane Doe", "2024-02-01", int64(20), "10", "555-0101"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/overdue.csv?min_days=7%2B&encoding=utf8", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "Dune,Jane Doe,2024-02-01,20,10.00,555-0101")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHTTP_OverdueCSV_ShiftJISUnsupportedRune(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, mock := newService(t)
	r := gin.New()
	RegisterRoutes(r, svc)

	mock.ExpectQuery(`FROM vw_overdue_books`).
		WillReturnRows(sqlmock.NewRows([]string{"Title", "MemberDetails", "Due_date", "days_overdue", "fine_total", "contact_number"}).
			AddRow("Go", "José Müller", "2024-02-01", int64(3), "1.5", "555-0101"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/overdue.csv?encoding=sjis", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), `"code":"INVALID_ARGUMENT"`)
	assert.NotContains(t, w.Body.String(), "Book Title")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHTTP_OverdueBadThreshold(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _ := newService(t)
	r := gin.New()
	RegisterRoutes(r, svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/overdue?min_days=soon", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
