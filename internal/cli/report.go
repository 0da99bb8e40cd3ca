package cli

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"LMS-backend/internal/library/reports"
)

func reportCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{Use: "report", Short: "Read-only reports"}
	cmd.AddCommand(
		overdueReport(a),
		changesReport(a),
		auditReport(a),
		statsReport(a),
	)
	return cmd
}

func overdueReport(a *App) *cobra.Command {
	var minDays, csvPath, encoding string
	cmd := &cobra.Command{
		Use:   "overdue",
		Short: "Overdue loans, most overdue first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := reports.ParseOverdueThreshold(minDays)
			if err != nil {
				return err
			}
			enc, err := reports.ParseEncoding(encoding)
			if err != nil {
				return err
			}
			sess, err := a.session(cmd)
			if err != nil {
				return err
			}
			items, err := reports.NewService(sess).Overdue(cmd.Context(), n)
			if err != nil {
				return err
			}

			if csvPath != "" {
				var buf bytes.Buffer
				if err := reports.WriteOverdueCSV(&buf, items, enc); err != nil {
					return err
				}
				if err := os.WriteFile(csvPath, buf.Bytes(), 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d row(s) written to %s\n", len(items), csvPath)
				return nil
			}

			rows := make([][]string, 0, len(items))
			for _, o := range items {
				rows = append(rows, []string{
					truncate(o.Title, 40),
					truncate(o.Member, 30),
					o.DueDate,
					strconv.FormatInt(o.DaysOverdue, 10),
					strconv.FormatFloat(o.FineAmount, 'f', 2, 64),
					o.ContactNumber,
				})
			}
			return printTable(cmd.OutOrStdout(), []string{"TITLE", "MEMBER", "DUE", "DAYS", "FINE", "CONTACT"}, rows)
		},
	}
	cmd.Flags().StringVar(&minDays, "min-days", "All", "All, 7+, 14+, 30+ or any number of days")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write CSV to this file instead of printing")
	cmd.Flags().StringVar(&encoding, "encoding", "utf8", "CSV encoding: utf8 or sjis")
	return cmd
}

func changesReport(a *App) *cobra.Command {
	var entity string
	var limit int
	cmd := &cobra.Command{
		Use:   "changes",
		Short: "Recent changes to members, books and staff",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.session(cmd)
			if err != nil {
				return err
			}
			items, err := reports.NewService(sess).RecentChanges(cmd.Context(), entity, limit)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(items))
			for _, c := range items {
				rows = append(rows, []string{c.EntityType, strconv.FormatInt(c.EntityID, 10), c.Action, c.ChangeDate, truncate(c.Details, 60)})
			}
			return printTable(cmd.OutOrStdout(), []string{"TYPE", "ID", "ACTION", "DATE", "DETAILS"}, rows)
		},
	}
	cmd.Flags().StringVar(&entity, "entity", "All", "All, Member, Book or Staff")
	cmd.Flags().IntVar(&limit, "limit", reports.DefaultChangeLimit, "maximum rows")
	return cmd
}

func auditReport(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "audit <entity> <id>",
		Short: "Full audit history of one member, book or staff record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("id must be a number, got %q", args[1])
			}
			sess, err := a.session(cmd)
			if err != nil {
				return err
			}
			h, err := reports.NewService(sess).AuditHistory(cmd.Context(), args[0], id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Audit History - %s #%d\n\n%s\n", h.EntityType, h.EntityID, h.History)
			return nil
		},
	}
}

func statsReport(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Library totals, fines and monthly activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.session(cmd)
			if err != nil {
				return err
			}
			svc := reports.NewService(sess)
			st, err := svc.Statistics(cmd.Context())
			if err != nil {
				return err
			}
			fin, err := svc.Finance(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if err := printTable(w, []string{"METRIC", "VALUE"}, [][]string{
				{"Total books", strconv.FormatInt(st.TotalBooks, 10)},
				{"Total members", strconv.FormatInt(st.TotalMembers, 10)},
				{"Total transactions", strconv.FormatInt(st.TotalTransactions, 10)},
				{"Active loans", strconv.FormatInt(st.ActiveLoans, 10)},
				{"Overdue books", strconv.FormatInt(st.OverdueBooks, 10)},
				{"Unpaid fines", strconv.FormatFloat(st.TotalUnpaidFines, 'f', 2, 64)},
				{"Fines collected", strconv.FormatFloat(fin.Collected, 'f', 2, 64)},
				{"Fines pending", strconv.FormatFloat(fin.Pending, 'f', 2, 64)},
			}); err != nil {
				return err
			}

			fmt.Fprintln(w)
			cats := make([][]string, 0, len(st.BooksByCategory))
			for _, c := range st.BooksByCategory {
				cats = append(cats, []string{c.Category, strconv.FormatInt(c.Count, 10)})
			}
			if err := printTable(w, []string{"CATEGORY", "BOOKS"}, cats); err != nil {
				return err
			}

			fmt.Fprintln(w)
			months := make([][]string, 0, len(st.MonthlyTransactions))
			for _, m := range st.MonthlyTransactions {
				months = append(months, []string{m.Month, strconv.FormatInt(m.Count, 10)})
			}
			return printTable(w, []string{"MONTH", "TRANSACTIONS"}, months)
		},
	}
}
