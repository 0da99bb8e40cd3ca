package books

import (
	"strings"

	"LMS-backend/internal/library/gateway"
	"LMS-backend/internal/platform/db"
)

type Book struct {
	BookID   int64   `json:"book_id"`
	Title    string  `json:"title"`
	ISBN     string  `json:"isbn"`
	Category *string `json:"category,omitempty"`
	// 自由記述（Available / Borrowed など）。アプリ側では列挙値チェックしない
	Status string `json:"status"`
}

// BookRequest: sp_insert_book(title, isbn, category, status)
type BookRequest struct {
	Title    string `json:"title"`
	ISBN     string `json:"isbn"`
	Category string `json:"category"`
	Status   string `json:"status"`
}

type Gateway = gateway.Gateway[Book, BookRequest]

var Kind = gateway.Kind[Book, BookRequest]{
	Name: "book",
	Procs: gateway.Procedures{
		Select: "sp_select_books",
		Insert: "sp_insert_book",
		Update: "sp_update_book",
		Delete: "sp_delete_book",
	},
	// sp_select_books は NULL で全件
	EmptyFilter: nil,
	Normalize: func(in BookRequest) BookRequest {
		in.Title = strings.TrimSpace(in.Title)
		in.ISBN = strings.TrimSpace(in.ISBN)
		in.Category = strings.TrimSpace(in.Category)
		in.Status = strings.TrimSpace(in.Status)
		return in
	},
	Validate: func(in BookRequest) error {
		return new(gateway.Check).
			Require("title", in.Title).
			Require("isbn", in.ISBN).
			Require("status", in.Status).
			Err()
	},
	Args: func(in BookRequest) []any {
		return []any{in.Title, in.ISBN, gateway.NullIfEmpty(in.Category), in.Status}
	},
	FromRecord: func(r db.Record) Book {
		return Book{
			BookID:   r.Int64("Books_ID"),
			Title:    r.String("Title"),
			ISBN:     r.String("ISBN"),
			Category: r.NullString("book_category"),
			Status:   r.String("AvailabilityStatus"),
		}
	},
	ID: func(b Book) int64 { return b.BookID },
}

func NewGateway(sess *db.Session) *Gateway { return gateway.New(sess, Kind) }
