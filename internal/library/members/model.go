package members

import (
	"strings"

	"LMS-backend/internal/library/gateway"
	"LMS-backend/internal/platform/db"
)

// Member は sp_select_members の1行
type Member struct {
	MemberID         int64   `json:"member_id"`
	Details          string  `json:"details"`
	RegistrationDate string  `json:"registration_date"` // YYYY-MM-DD
	LoanHistory      *string `json:"loan_history,omitempty"`
}

// MemberRequest: sp_insert_member(details, reg_date, history)
// sp_update_member は先頭に member_id が付く
type MemberRequest struct {
	Details          string `json:"details"`
	RegistrationDate string `json:"registration_date"`
	LoanHistory      string `json:"loan_history"`
}

type Gateway = gateway.Gateway[Member, MemberRequest]

var Kind = gateway.Kind[Member, MemberRequest]{
	Name: "member",
	Procs: gateway.Procedures{
		Select: "sp_select_members",
		Insert: "sp_insert_member",
		Update: "sp_update_member",
		Delete: "sp_delete_member",
	},
	EmptyFilter: "",
	Normalize: func(in MemberRequest) MemberRequest {
		in.Details = strings.TrimSpace(in.Details)
		in.RegistrationDate = strings.TrimSpace(in.RegistrationDate)
		in.LoanHistory = strings.TrimSpace(in.LoanHistory)
		return in
	},
	Validate: func(in MemberRequest) error {
		return new(gateway.Check).
			Require("details", in.Details).
			Require("registration_date", in.RegistrationDate).
			Date("registration_date", in.RegistrationDate).
			Err()
	},
	Args: func(in MemberRequest) []any {
		return []any{in.Details, in.RegistrationDate, gateway.NullIfEmpty(in.LoanHistory)}
	},
	FromRecord: func(r db.Record) Member {
		return Member{
			MemberID:         r.Int64("MemberID"),
			Details:          r.String("MemberDetails"),
			RegistrationDate: r.Date("RegistrationDate"),
			LoanHistory:      r.NullString("Loan_History"),
		}
	},
	ID: func(m Member) int64 { return m.MemberID },
}

func NewGateway(sess *db.Session) *Gateway { return gateway.New(sess, Kind) }
