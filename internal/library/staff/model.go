package staff

import (
	"strings"

	"LMS-backend/internal/library/gateway"
	"LMS-backend/internal/platform/db"
)

type Staff struct {
	StaffID int64  `json:"staff_id"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// StaffRequest: sp_insert_staff(email, address, phone)
type StaffRequest struct {
	Email   string `json:"email"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type Gateway = gateway.Gateway[Staff, StaffRequest]

var Kind = gateway.Kind[Staff, StaffRequest]{
	Name: "staff member",
	Procs: gateway.Procedures{
		Select: "sp_select_staff",
		Insert: "sp_insert_staff",
		Update: "sp_update_staff",
		Delete: "sp_delete_staff",
	},
	EmptyFilter: "",
	Normalize: func(in StaffRequest) StaffRequest {
		in.Email = strings.TrimSpace(in.Email)
		in.Address = strings.TrimSpace(in.Address)
		in.Phone = strings.TrimSpace(in.Phone)
		return in
	},
	Validate: func(in StaffRequest) error {
		return new(gateway.Check).
			Require("email", in.Email).
			Require("address", in.Address).
			Require("phone", in.Phone).
			Err()
	},
	Args: func(in StaffRequest) []any {
		return []any{in.Email, in.Address, in.Phone}
	},
	FromRecord: func(r db.Record) Staff {
		return Staff{
			StaffID: r.Int64("Staff_ID"),
			Email:   r.String("Email"),
			Address: r.String("address"),
			Phone:   r.String("phone_no"),
		}
	},
	ID: func(s Staff) int64 { return s.StaffID },
}

func NewGateway(sess *db.Session) *Gateway { return gateway.New(sess, Kind) }
