package reports

type Dashboard struct {
	TotalMembers int64   `json:"total_members"`
	TotalBooks   int64   `json:"total_books"`
	UnpaidFines  float64 `json:"unpaid_fines"`
}

type BookStat struct {
	Title         string  `json:"title"`
	Category      *string `json:"category"`
	TimesBorrowed int64   `json:"times_borrowed"`
	Status        string  `json:"status"`
	Authors       string  `json:"authors"`
	ISBN          string  `json:"isbn"`
}

type MemberActivity struct {
	MemberID          int64   `json:"member_id"`
	Details           string  `json:"details"`
	TotalTransactions int64   `json:"total_transactions"`
	TotalFines        int64   `json:"total_fines"`
	TotalFineAmount   float64 `json:"total_fine_amount"`
	EventsAttended    int64   `json:"events_attended"`
	// 取引がなければ "Never"
	LastActivity string `json:"last_activity"`
}

type OverdueBook struct {
	Title         string  `json:"title"`
	Member        string  `json:"member"`
	DueDate       string  `json:"due_date"`
	DaysOverdue   int64   `json:"days_overdue"`
	FineAmount    float64 `json:"fine_amount"`
	ContactNumber string  `json:"contact_number"`
}

type MonthlyAmount struct {
	Month  string  `json:"month"` // YYYY-MM
	Amount float64 `json:"amount"`
}

type Finance struct {
	Collected float64         `json:"collected"`
	Pending   float64         `json:"pending"`
	Monthly   []MonthlyAmount `json:"monthly"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type MonthlyCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type Statistics struct {
	TotalBooks          int64           `json:"total_books"`
	TotalMembers        int64           `json:"total_members"`
	TotalTransactions   int64           `json:"total_transactions"`
	ActiveLoans         int64           `json:"active_loans"`
	OverdueBooks        int64           `json:"overdue_books"`
	TotalUnpaidFines    float64         `json:"total_unpaid_fines"`
	BooksByCategory     []CategoryCount `json:"books_by_category"`
	MonthlyTransactions []MonthlyCount  `json:"monthly_transactions"`
}

type Change struct {
	EntityType string `json:"entity_type"`
	EntityID   int64  `json:"entity_id"`
	Action     string `json:"action"`
	ChangeDate string `json:"change_date"`
	Details    string `json:"details"`
}

type AuditHistory struct {
	EntityType string `json:"entity_type"`
	EntityID   int64  `json:"entity_id"`
	History    string `json:"history"`
}
