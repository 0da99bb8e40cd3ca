package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"LMS-backend/internal/platform/auth"
)

// readPassword はマスク入力でパスワードを読む
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func accountCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{Use: "account", Short: "API accounts for librarians"}

	// 初回は init → add --role admin の順で最初の管理者を作る
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the staff_accounts table if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.session(cmd)
			if err != nil {
				return err
			}
			if err := auth.EnsureSchema(cmd.Context(), sess); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "staff_accounts ready")
			return nil
		},
	}

	var role string
	add := &cobra.Command{
		Use:   "add <username>",
		Short: "Create an API account (password is prompted)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.IsTTY() {
				return errNotInteractive
			}
			pw, err := readPassword(cmd, fmt.Sprintf("Enter password for %s: ", args[0]))
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			again, err := readPassword(cmd, "Repeat password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			if pw != again {
				return errors.New("passwords do not match")
			}

			sess, err := a.session(cmd)
			if err != nil {
				return err
			}
			// トークン発行はしないので secret は不要
			svc := auth.NewService(auth.NewStore(sess), nil, 0)
			if err := svc.Register(cmd.Context(), args[0], pw, role); err != nil {
				if errors.Is(err, auth.ErrInvalidInput) {
					return errors.New("password must be at least 8 characters and role librarian or admin")
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "account %s created\n", args[0])
			return nil
		},
	}
	add.Flags().StringVar(&role, "role", auth.RoleLibrarian, "librarian or admin")

	del := &cobra.Command{
		Use:   "delete <username>",
		Short: "Remove an API account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := a.confirmer(cmd.OutOrStdout()).Confirm(cmd.Context(), fmt.Sprintf("Delete account %s?", args[0]))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
				return nil
			}
			sess, err := a.session(cmd)
			if err != nil {
				return err
			}
			if err := auth.NewService(auth.NewStore(sess), nil, 0).Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "account %s deleted\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(initCmd, add, del)
	return cmd
}
