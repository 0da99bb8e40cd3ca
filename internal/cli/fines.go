package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"LMS-backend/internal/library/events"
	"LMS-backend/internal/library/fines"
)

func transactionCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{Use: "transactions", Short: "Loan transactions and their fines"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.session(cmd)
			if err != nil {
				return err
			}
			items, err := fines.NewService(sess).ListTransactions(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(items))
			for _, t := range items {
				rows = append(rows, []string{
					strconv.FormatInt(t.TransactionID, 10),
					t.Date,
					t.DueDate,
					t.Type,
					strconv.FormatInt(t.MemberID, 10),
					strconv.FormatFloat(t.FineAmount, 'f', 2, 64),
					t.FineStatus,
				})
			}
			return printTable(cmd.OutOrStdout(), []string{"ID", "DATE", "DUE", "TYPE", "MEMBER", "FINE", "FINE STATUS"}, rows)
		},
	})
	return cmd
}

func fineCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{Use: "fine", Short: "Record fines"}

	var status string
	set := &cobra.Command{
		Use:   "set <transaction-id> <amount>",
		Short: "Add a fine to a transaction, or update the existing one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session(cmd)
			if err != nil {
				return err
			}
			res, err := fines.NewService(sess).AddOrUpdateFine(cmd.Context(), fines.FineRequest{
				TransactionID: args[0],
				Amount:        args[1],
				Status:        status,
			})
			if err != nil {
				return err
			}
			verb := "updated"
			if res.Created {
				verb = "added"
			}
			f := res.Fine
			fmt.Fprintf(cmd.OutOrStdout(), "fine %s for transaction %d: %.2f %s", verb, f.TransactionID, f.Amount, f.Status)
			if f.PaymentDate != nil {
				fmt.Fprintf(cmd.OutOrStdout(), " (paid %s)", *f.PaymentDate)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	set.Flags().StringVarP(&status, "status", "s", fines.StatusUnpaid, "Paid or Unpaid")
	cmd.AddCommand(set)
	return cmd
}

func eventCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{Use: "events", Short: "Library events"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List library events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.session(cmd)
			if err != nil {
				return err
			}
			items, err := events.NewService(sess).List(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(items))
			for _, e := range items {
				rows = append(rows, []string{strconv.FormatInt(e.EventID, 10), e.Name, e.Location, e.Date})
			}
			return printTable(cmd.OutOrStdout(), []string{"ID", "NAME", "LOCATION", "DATE"}, rows)
		},
	})
	return cmd
}
