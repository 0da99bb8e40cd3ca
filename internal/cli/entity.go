package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"LMS-backend/internal/library/books"
	"LMS-backend/internal/library/gateway"
	"LMS-backend/internal/library/members"
	"LMS-backend/internal/library/staff"
	"LMS-backend/internal/platform/db"
)

type field struct {
	name  string
	usage string
}

// entitySpec は members / books / staff の共通サブコマンド定義
type entitySpec[T any, R any] struct {
	use    string
	short  string
	open   func(*db.Session) *gateway.Gateway[T, R]
	fields []field
	// current は update 時の初期値（画面で選択行をフォームに読み込むのと同じ）
	current func(T) map[string]string
	build   func(map[string]string) R
	header  []string
	row     func(T) []string
}

func entityCommand[T any, R any](a *App, spec entitySpec[T, R]) *cobra.Command {
	cmd := &cobra.Command{Use: spec.use, Short: spec.short}

	printList := func(cmd *cobra.Command, l *gateway.Listing[T]) error {
		rows := make([][]string, 0, l.Len())
		for _, it := range l.Items {
			rows = append(rows, spec.row(it))
		}
		if err := printTable(cmd.OutOrStdout(), spec.header, rows); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d %s(s)\n", l.Len(), singular(spec.use))
		return nil
	}

	// 更新後は全件を取り直して表示する
	refresh := func(cmd *cobra.Command, gw *gateway.Gateway[T, R]) error {
		l, err := gw.List(cmd.Context(), "")
		if err != nil {
			return err
		}
		return printList(cmd, l)
	}

	// 現在の一覧から id を選ぶ
	pick := func(cmd *cobra.Command, gw *gateway.Gateway[T, R], arg string) (gateway.Selection, T, error) {
		var zero T
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return gateway.Selection{}, zero, gateway.NewInputError(fmt.Sprintf("id must be a positive number, got %q", arg))
		}
		l, err := gw.List(cmd.Context(), "")
		if err != nil {
			return gateway.Selection{}, zero, err
		}
		sel, err := l.Select(id)
		if err != nil {
			return gateway.Selection{}, zero, err
		}
		for _, it := range l.Items {
			if gw.IDOf(it) == id {
				return sel, it, nil
			}
		}
		return sel, zero, nil
	}

	list := &cobra.Command{
		Use:   "list [filter]",
		Short: "List " + spec.use,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session(cmd)
			if err != nil {
				return err
			}
			l, err := spec.open(sess).List(cmd.Context(), strings.Join(args, ""))
			if err != nil {
				return err
			}
			return printList(cmd, l)
		},
	}

	addVals := make(map[string]*string, len(spec.fields))
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a " + singular(spec.use),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.session(cmd)
			if err != nil {
				return err
			}
			gw := spec.open(sess)
			v := make(map[string]string, len(addVals))
			for k, p := range addVals {
				v[k] = *p
			}
			if err := gw.Create(cmd.Context(), spec.build(v)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s added\n", singular(spec.use))
			return refresh(cmd, gw)
		},
	}

	updVals := make(map[string]*string, len(spec.fields))
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a " + singular(spec.use) + " (unset flags keep their current value)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session(cmd)
			if err != nil {
				return err
			}
			gw := spec.open(sess)
			sel, cur, err := pick(cmd, gw, args[0])
			if err != nil {
				return err
			}
			v := spec.current(cur)
			for k, p := range updVals {
				if cmd.Flags().Changed(k) {
					v[k] = *p
				}
			}
			if err := gw.Update(cmd.Context(), sel, spec.build(v)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d updated\n", singular(spec.use), sel.ID())
			return refresh(cmd, gw)
		},
	}

	for _, f := range spec.fields {
		addVals[f.name] = add.Flags().String(f.name, "", f.usage)
		updVals[f.name] = update.Flags().String(f.name, "", f.usage)
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + singular(spec.use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session(cmd)
			if err != nil {
				return err
			}
			gw := spec.open(sess)
			sel, _, err := pick(cmd, gw, args[0])
			if err != nil {
				return err
			}
			if err := gw.Delete(cmd.Context(), sel, a.confirmer(cmd.OutOrStdout())); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d deleted\n", singular(spec.use), sel.ID())
			return refresh(cmd, gw)
		},
	}

	cmd.AddCommand(list, add, update, del)
	return cmd
}

func singular(use string) string {
	switch use {
	case "members":
		return "member"
	case "books":
		return "book"
	default:
		return "staff member"
	}
}

func memberCommand(a *App) *cobra.Command {
	return entityCommand(a, entitySpec[members.Member, members.MemberRequest]{
		use:   "members",
		short: "Manage library members",
		open:  members.NewGateway,
		fields: []field{
			{"details", "member details (name, contact)"},
			{"registration-date", "registration date YYYY-MM-DD"},
			{"loan-history", "loan history (optional)"},
		},
		current: func(m members.Member) map[string]string {
			return map[string]string{
				"details":           m.Details,
				"registration-date": m.RegistrationDate,
				"loan-history":      deref(m.LoanHistory),
			}
		},
		build: func(v map[string]string) members.MemberRequest {
			return members.MemberRequest{
				Details:          v["details"],
				RegistrationDate: v["registration-date"],
				LoanHistory:      v["loan-history"],
			}
		},
		header: []string{"ID", "DETAILS", "REGISTERED", "LOAN HISTORY"},
		row: func(m members.Member) []string {
			return []string{strconv.FormatInt(m.MemberID, 10), truncate(m.Details, 40), m.RegistrationDate, truncate(deref(m.LoanHistory), 30)}
		},
	})
}

func bookCommand(a *App) *cobra.Command {
	return entityCommand(a, entitySpec[books.Book, books.BookRequest]{
		use:   "books",
		short: "Manage the book catalogue",
		open:  books.NewGateway,
		fields: []field{
			{"title", "title"},
			{"isbn", "ISBN"},
			{"category", "category (optional)"},
			{"status", "availability status, e.g. Available"},
		},
		current: func(b books.Book) map[string]string {
			return map[string]string{"title": b.Title, "isbn": b.ISBN, "category": deref(b.Category), "status": b.Status}
		},
		build: func(v map[string]string) books.BookRequest {
			return books.BookRequest{Title: v["title"], ISBN: v["isbn"], Category: v["category"], Status: v["status"]}
		},
		header: []string{"ID", "TITLE", "ISBN", "CATEGORY", "STATUS"},
		row: func(b books.Book) []string {
			return []string{strconv.FormatInt(b.BookID, 10), truncate(b.Title, 40), b.ISBN, deref(b.Category), b.Status}
		},
	})
}

func staffCommand(a *App) *cobra.Command {
	return entityCommand(a, entitySpec[staff.Staff, staff.StaffRequest]{
		use:   "staff",
		short: "Manage staff records",
		open:  staff.NewGateway,
		fields: []field{
			{"email", "email"},
			{"address", "address"},
			{"phone", "phone number"},
		},
		current: func(s staff.Staff) map[string]string {
			return map[string]string{"email": s.Email, "address": s.Address, "phone": s.Phone}
		},
		build: func(v map[string]string) staff.StaffRequest {
			return staff.StaffRequest{Email: v["email"], Address: v["address"], Phone: v["phone"]}
		},
		header: []string{"ID", "EMAIL", "ADDRESS", "PHONE"},
		row: func(s staff.Staff) []string {
			return []string{strconv.FormatInt(s.StaffID, 10), s.Email, truncate(s.Address, 40), s.Phone}
		},
	})
}
