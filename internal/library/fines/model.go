package fines

const (
	StatusPaid   = "Paid"
	StatusUnpaid = "Unpaid"
	// 罰金なしの取引に一覧で表示する状態
	StatusNoFine = "No Fine"
)

// Transaction は貸出/返却の取引1件と、付いている罰金の要約
type Transaction struct {
	TransactionID int64   `json:"transaction_id"`
	Date          string  `json:"date"`
	DueDate       string  `json:"due_date"`
	Type          string  `json:"type"`
	MemberID      int64   `json:"member_id"`
	FineAmount    float64 `json:"fine_amount"`
	FineStatus    string  `json:"fine_status"`
}

type Fine struct {
	TransactionID int64   `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	PaymentDate   *string `json:"payment_date"`
	OverdueDays   *int64  `json:"overdue_days"`
}

// FineRequest は画面/CLIの入力そのまま（数値チェック前）
type FineRequest struct {
	TransactionID string
	Amount        string
	Status        string
}

type FineResult struct {
	Fine    Fine `json:"fine"`
	Created bool `json:"created"`
}
