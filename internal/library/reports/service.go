// Package reports runs the read-only queries behind the dashboard and the
// report screens. Nothing here opens a transaction.
package reports

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"LMS-backend/internal/library/gateway"
	"LMS-backend/internal/platform/db"
)

const (
	DefaultChangeLimit = 100
	MaxChangeLimit     = 500

	// 連絡先が NULL の会員に表示する文言
	NoContactInfo = "No contact info"
)

// 変更履歴・監査履歴で扱うエンティティ種別
var EntityTypes = []string{"Member", "Book", "Staff"}

type Service struct {
	sess *db.Session
}

func NewService(sess *db.Session) *Service { return &Service{sess: sess} }

// query は1本ずつ実行して Record に変換する
type query struct {
	sql  string
	args []any
	out  *[]db.Record
}

// run は複数のクエリを同じセッション占有の中で順に実行する
func (s *Service) run(ctx context.Context, qs ...query) error {
	err := s.sess.Do(ctx, func(ctx context.Context, q db.DBTX) error {
		for _, x := range qs {
			rows, err := q.QueryContext(ctx, x.sql, x.args...)
			if err != nil {
				return err
			}
			recs, err := db.ScanRecords(rows)
			if err != nil {
				return err
			}
			*x.out = recs
		}
		return nil
	})
	if err != nil {
		return gateway.NewDatabaseError(err)
	}
	return nil
}

func first(recs []db.Record) db.Record {
	if len(recs) == 0 {
		return db.Record{}
	}
	return recs[0]
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var members, books, fines []db.Record
	err := s.run(ctx,
		query{sql: `SELECT COUNT(*) AS count FROM Members`, out: &members},
		query{sql: `SELECT COUNT(*) AS count FROM Books`, out: &books},
		query{sql: `SELECT SUM(fine_total) AS total FROM Fines WHERE Paid_Status = 'Unpaid'`, out: &fines},
	)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		TotalMembers: first(members).Int64("count"),
		TotalBooks:   first(books).Int64("count"),
		// 未払いがなければ SUM は NULL → 0
		UnpaidFines: first(fines).Float64("total"),
	}, nil
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	var recs []db.Record
	if err := s.run(ctx, query{
		sql: `SELECT DISTINCT book_category FROM Books WHERE book_category IS NOT NULL ORDER BY book_category`,
		out: &recs,
	}); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.String("book_category"))
	}
	return out, nil
}

// BookStatistics: category が空か "All" なら全カテゴリ
func (s *Service) BookStatistics(ctx context.Context, category string) ([]BookStat, error) {
	q := query{sql: `
SELECT Title, book_category, times_borrowed, AvailabilityStatus, authors, ISBN
FROM vw_book_statistics
ORDER BY times_borrowed DESC`}
	if c := strings.TrimSpace(category); c != "" && !strings.EqualFold(c, "All") {
		q.sql = `
SELECT Title, book_category, times_borrowed, AvailabilityStatus, authors, ISBN
FROM vw_book_statistics
WHERE book_category = ?
ORDER BY times_borrowed DESC`
		q.args = []any{c}
	}
	var recs []db.Record
	q.out = &recs
	if err := s.run(ctx, q); err != nil {
		return nil, err
	}

	out := make([]BookStat, 0, len(recs))
	for _, r := range recs {
		out = append(out, BookStat{
			Title:         r.String("Title"),
			Category:      r.NullString("book_category"),
			TimesBorrowed: r.Int64("times_borrowed"),
			Status:        r.String("AvailabilityStatus"),
			Authors:       r.String("authors"),
			ISBN:          r.String("ISBN"),
		})
	}
	return out, nil
}

const memberActivitySQL = `
SELECT m.MemberID, m.MemberDetails, m.total_transactions, m.total_fines,
       m.total_fine_amount, m.events_attended,
       COALESCE(MAX(t.Transactions_Date), 'Never') AS last_activity
FROM vw_member_activity m
LEFT JOIN Transactions t ON m.MemberID = t.MemberID
WHERE m.MemberDetails LIKE ?
GROUP BY m.MemberID, m.MemberDetails, m.total_transactions,
         m.total_fines, m.total_fine_amount, m.events_attended
ORDER BY total_transactions DESC`

// MemberActivity は会員情報の部分一致検索。空なら全員。
func (s *Service) MemberActivity(ctx context.Context, search string) ([]MemberActivity, error) {
	var recs []db.Record
	if err := s.run(ctx, query{
		sql:  memberActivitySQL,
		args: []any{"%" + escapeLike(strings.TrimSpace(search)) + "%"},
		out:  &recs,
	}); err != nil {
		return nil, err
	}

	out := make([]MemberActivity, 0, len(recs))
	for _, r := range recs {
		out = append(out, MemberActivity{
			MemberID:          r.Int64("MemberID"),
			Details:           r.String("MemberDetails"),
			TotalTransactions: r.Int64("total_transactions"),
			TotalFines:        r.Int64("total_fines"),
			TotalFineAmount:   r.Float64("total_fine_amount"),
			EventsAttended:    r.Int64("events_attended"),
			LastActivity:      r.Date("last_activity"),
		})
	}
	return out, nil
}

// % と _ は文字として検索する
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Overdue は days_overdue >= minDays の貸出。minDays <= 0 で全件。
func (s *Service) Overdue(ctx context.Context, minDays int) ([]OverdueBook, error) {
	q := query{sql: `
SELECT Title, MemberDetails, Due_date, days_overdue, fine_total, contact_number
FROM vw_overdue_books
ORDER BY days_overdue DESC`}
	if minDays > 0 {
		q.sql = `
SELECT Title, MemberDetails, Due_date, days_overdue, fine_total, contact_number
FROM vw_overdue_books
WHERE days_overdue >= ?
ORDER BY days_overdue DESC`
		q.args = []any{minDays}
	}
	var recs []db.Record
	q.out = &recs
	if err := s.run(ctx, q); err != nil {
		return nil, err
	}

	out := make([]OverdueBook, 0, len(recs))
	for _, r := range recs {
		contact := r.String("contact_number")
		if strings.TrimSpace(contact) == "" {
			contact = NoContactInfo
		}
		out = append(out, OverdueBook{
			Title:         r.String("Title"),
			Member:        r.String("MemberDetails"),
			DueDate:       r.Date("Due_date"),
			DaysOverdue:   r.Int64("days_overdue"),
			FineAmount:    r.Float64("fine_total"),
			ContactNumber: contact,
		})
	}
	return out, nil
}

// ParseOverdueThreshold は "All" / "7" / "7+" / "7+ days" を受け付ける。"All" と空は 0。
func ParseOverdueThreshold(s string) (int, error) {
	v := strings.TrimSpace(s)
	if v == "" || strings.EqualFold(v, "All") {
		return 0, nil
	}
	v = strings.TrimSpace(strings.TrimSuffix(strings.ToLower(v), "days"))
	v = strings.TrimSpace(strings.TrimSuffix(v, "+"))
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, gateway.NewInputError(fmt.Sprintf("min_days: %q is not a number of days", s))
	}
	return n, nil
}

func (s *Service) Finance(ctx context.Context) (*Finance, error) {
	var totals, monthly []db.Record
	err := s.run(ctx,
		query{sql: `
SELECT SUM(CASE WHEN Paid_Status = 'Paid' THEN fine_total ELSE 0 END) AS collected,
       SUM(CASE WHEN Paid_Status = 'Unpaid' THEN fine_total ELSE 0 END) AS pending
FROM Fines`, out: &totals},
		query{sql: `
SELECT DATE_FORMAT(payment_date, '%Y-%m') AS month, SUM(fine_total) AS total
FROM Fines
WHERE Paid_Status = 'Paid'
GROUP BY DATE_FORMAT(payment_date, '%Y-%m')
ORDER BY month DESC
LIMIT 12`, out: &monthly},
	)
	if err != nil {
		return nil, err
	}

	t := first(totals)
	f := &Finance{
		Collected: t.Float64("collected"),
		Pending:   t.Float64("pending"),
		Monthly:   make([]MonthlyAmount, 0, len(monthly)),
	}
	for _, r := range monthly {
		f.Monthly = append(f.Monthly, MonthlyAmount{Month: r.String("month"), Amount: r.Float64("total")})
	}
	return f, nil
}

func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	var totals, cats, monthly []db.Record
	err := s.run(ctx,
		query{sql: `
SELECT total_books, total_members, total_transactions, active_loans, overdue_books, total_unpaid_fines
FROM vw_library_statistics`, out: &totals},
		query{sql: `
SELECT COALESCE(book_category, 'Uncategorized') AS category, COUNT(*) AS count
FROM Books
GROUP BY book_category
ORDER BY count DESC`, out: &cats},
		query{sql: `
SELECT DATE_FORMAT(Transactions_Date, '%Y-%m') AS month, COUNT(*) AS count
FROM Transactions
GROUP BY DATE_FORMAT(Transactions_Date, '%Y-%m')
ORDER BY month DESC
LIMIT 12`, out: &monthly},
	)
	if err != nil {
		return nil, err
	}

	t := first(totals)
	st := &Statistics{
		TotalBooks:          t.Int64("total_books"),
		TotalMembers:        t.Int64("total_members"),
		TotalTransactions:   t.Int64("total_transactions"),
		ActiveLoans:         t.Int64("active_loans"),
		OverdueBooks:        t.Int64("overdue_books"),
		TotalUnpaidFines:    t.Float64("total_unpaid_fines"),
		BooksByCategory:     make([]CategoryCount, 0, len(cats)),
		MonthlyTransactions: make([]MonthlyCount, 0, len(monthly)),
	}
	for _, r := range cats {
		st.BooksByCategory = append(st.BooksByCategory, CategoryCount{Category: r.String("category"), Count: r.Int64("count")})
	}
	for _, r := range monthly {
		st.MonthlyTransactions = append(st.MonthlyTransactions, MonthlyCount{Month: r.String("month"), Count: r.Int64("count")})
	}
	return st, nil
}

// NormalizeEntityType は "member" などを "Member" に揃える。空と "All" は "" を返す。
func NormalizeEntityType(s string) (string, error) {
	v := strings.TrimSpace(s)
	if v == "" || strings.EqualFold(v, "All") {
		return "", nil
	}
	for _, t := range EntityTypes {
		if strings.EqualFold(v, t) {
			return t, nil
		}
	}
	return "", gateway.NewInputError(fmt.Sprintf("entity must be one of All, %s", strings.Join(EntityTypes, ", ")))
}

// RecentChanges は新しい順に最大 limit 件。limit <= 0 は既定の100件。
func (s *Service) RecentChanges(ctx context.Context, entity string, limit int) ([]Change, error) {
	et, err := NormalizeEntityType(entity)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultChangeLimit
	}
	if limit > MaxChangeLimit {
		limit = MaxChangeLimit
	}

	q := query{sql: `
SELECT EntityType, EntityID, Action, ChangeDate, Details
FROM vw_recent_changes
ORDER BY ChangeDate DESC
LIMIT ?`, args: []any{limit}}
	if et != "" {
		q.sql = `
SELECT EntityType, EntityID, Action, ChangeDate, Details
FROM vw_recent_changes
WHERE EntityType = ?
ORDER BY ChangeDate DESC
LIMIT ?`
		q.args = []any{et, limit}
	}
	var recs []db.Record
	q.out = &recs
	if err := s.run(ctx, q); err != nil {
		return nil, err
	}

	out := make([]Change, 0, len(recs))
	for _, r := range recs {
		out = append(out, Change{
			EntityType: r.String("EntityType"),
			EntityID:   r.Int64("EntityID"),
			Action:     r.String("Action"),
			ChangeDate: r.String("ChangeDate"),
			Details:    r.String("Details"),
		})
	}
	return out, nil
}

// AuditHistory は get_audit_history() の結果（整形済みテキスト）
func (s *Service) AuditHistory(ctx context.Context, entity string, id int64) (*AuditHistory, error) {
	et, err := NormalizeEntityType(entity)
	if err != nil {
		return nil, err
	}
	if et == "" {
		return nil, gateway.NewInputError("entity required")
	}
	if id <= 0 {
		return nil, gateway.NewInputError("id must be a positive number")
	}

	var recs []db.Record
	if err := s.run(ctx, query{
		sql:  `SELECT get_audit_history(?, ?) AS history`,
		args: []any{et, id},
		out:  &recs,
	}); err != nil {
		return nil, err
	}
	r := first(recs)
	if r.IsNull("history") {
		return nil, gateway.NewNotFoundError(fmt.Sprintf("no audit history for %s %d", et, id))
	}
	return &AuditHistory{EntityType: et, EntityID: id, History: r.String("history")}, nil
}
