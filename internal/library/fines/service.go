package fines

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	ulid "github.com/oklog/ulid/v2"

	"LMS-backend/internal/library/gateway"
	"LMS-backend/internal/platform/db"
)

const (
	listTransactionsSQL = `
SELECT t.Transactions_ID, t.Transactions_Date, t.Due_date, t.Transaction_type, t.MemberID,
       COALESCE(f.fine_total, 0) AS fine_amount,
       COALESCE(f.Paid_Status, 'No Fine') AS fine_status
FROM Transactions t
LEFT JOIN Fines f ON t.Transactions_ID = f.Transactions_ID
ORDER BY t.Transactions_Date DESC`

	// 同じ取引への upsert を直列化するため取引行をロックする
	lockTransactionSQL = `SELECT Transactions_ID FROM Transactions WHERE Transactions_ID = ? FOR UPDATE`
	countFineSQL       = `SELECT COUNT(*) FROM Fines WHERE Transactions_ID = ?`

	updateFineSQL = `
UPDATE Fines
SET fine_total = ?, Paid_Status = ?,
    payment_date = CASE WHEN ? = 'Paid' THEN CURDATE() ELSE NULL END
WHERE Transactions_ID = ?`

	insertFineSQL = `
INSERT INTO Fines (fine_total, Paid_Status, Transactions_ID, payment_date, OverDue_Days)
VALUES (?, ?, ?,
        CASE WHEN ? = 'Paid' THEN CURDATE() ELSE NULL END,
        DATEDIFF(CURDATE(), (SELECT Due_date FROM Transactions WHERE Transactions_ID = ?)))`

	selectFineSQL = `
SELECT Transactions_ID, fine_total, Paid_Status, payment_date, OverDue_Days
FROM Fines WHERE Transactions_ID = ?`
)

type Service struct {
	sess *db.Session
}

func NewService(sess *db.Session) *Service { return &Service{sess: sess} }

func (s *Service) ListTransactions(ctx context.Context) ([]Transaction, error) {
	var recs []db.Record
	err := s.sess.Do(ctx, func(ctx context.Context, q db.DBTX) error {
		rows, err := q.QueryContext(ctx, listTransactionsSQL)
		if err != nil {
			return err
		}
		recs, err = db.ScanRecords(rows)
		return err
	})
	if err != nil {
		return nil, gateway.NewDatabaseError(err)
	}

	out := make([]Transaction, 0, len(recs))
	for _, r := range recs {
		out = append(out, Transaction{
			TransactionID: r.Int64("Transactions_ID"),
			Date:          r.Date("Transactions_Date"),
			DueDate:       r.Date("Due_date"),
			Type:          r.String("Transaction_type"),
			MemberID:      r.Int64("MemberID"),
			FineAmount:    r.Float64("fine_amount"),
			FineStatus:    r.String("fine_status"),
		})
	}
	return out, nil
}

// AddOrUpdateFine は取引に罰金を付ける。既にあれば同じ行を更新する。
// Paid にすると payment_date は DB の CURDATE()、Unpaid なら NULL。
func (s *Service) AddOrUpdateFine(ctx context.Context, in FineRequest) (*FineResult, error) {
	txID, amount, status, err := parseFine(in)
	if err != nil {
		return nil, err
	}

	op := ulid.Make().String()
	var res FineResult
	err = s.sess.RunInTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var locked int64
		if err := tx.QueryRowContext(ctx, lockTransactionSQL, txID).Scan(&locked); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return gateway.NewNotFoundError(fmt.Sprintf("transaction %d not found", txID))
			}
			return err
		}

		var n int
		if err := tx.QueryRowContext(ctx, countFineSQL, txID).Scan(&n); err != nil {
			return err
		}

		if n > 0 {
			if _, err := tx.ExecContext(ctx, updateFineSQL, amount, status, status, txID); err != nil {
				return err
			}
		} else {
			if _, err := tx.ExecContext(ctx, insertFineSQL, amount, status, txID, status, txID); err != nil {
				return err
			}
			res.Created = true
		}

		f, err := readFine(ctx, tx, txID)
		if err != nil {
			return err
		}
		res.Fine = *f
		return nil
	})
	if err != nil {
		if gateway.Is(err, gateway.CodeNotFound) {
			log.Printf("[INFO] op=%s fine tx=%d: transaction not found", op, txID)
		} else {
			log.Printf("[WARN] op=%s fine tx=%d rolled back: %v", op, txID, err)
		}
		return nil, gateway.NewDatabaseError(err)
	}

	log.Printf("[INFO] op=%s fine tx=%d status=%s created=%t committed", op, txID, status, res.Created)
	return &res, nil
}

func readFine(ctx context.Context, q db.DBTX, txID int64) (*Fine, error) {
	rows, err := q.QueryContext(ctx, selectFineSQL, txID)
	if err != nil {
		return nil, err
	}
	recs, err := db.ScanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("fine for transaction %d vanished after write", txID)
	}
	r := recs[0]
	f := &Fine{
		TransactionID: r.Int64("Transactions_ID"),
		Amount:        r.Float64("fine_total"),
		Status:        r.String("Paid_Status"),
		PaymentDate:   r.NullDate("payment_date"),
	}
	if !r.IsNull("OverDue_Days") {
		d := r.Int64("OverDue_Days")
		f.OverdueDays = &d
	}
	return f, nil
}

func parseFine(in FineRequest) (int64, float64, string, error) {
	if err := new(gateway.Check).
		Require("transaction_id", in.TransactionID).
		Require("amount", in.Amount).
		Err(); err != nil {
		return 0, 0, "", err
	}

	txID, err := strconv.ParseInt(strings.TrimSpace(in.TransactionID), 10, 64)
	if err != nil || txID <= 0 {
		return 0, 0, "", gateway.NewInputError("transaction_id must be a positive number")
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(in.Amount), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return 0, 0, "", gateway.NewInputError("amount must be a non-negative number")
	}
	status, err := ParseStatus(in.Status)
	if err != nil {
		return 0, 0, "", err
	}
	return txID, amount, status, nil
}

// ParseStatus: 空は Unpaid。大文字小文字は区別しない。
func ParseStatus(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unpaid":
		return StatusUnpaid, nil
	case "paid":
		return StatusPaid, nil
	default:
		return "", gateway.NewInputError(fmt.Sprintf("status must be %s or %s", StatusPaid, StatusUnpaid))
	}
}
