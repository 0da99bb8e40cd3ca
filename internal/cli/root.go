// Package cli implements lmsctl, the terminal client for librarians.
//
// Every command opens one session from the same config as the server and
// closes it on exit. Mutations go through the same gateways as the HTTP API,
// so validation, selection and confirmation behave identically.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"LMS-backend/internal/platform/db"
)

// App は1回のコマンド実行分の状態
type App struct {
	ConfigPath string
	Yes        bool

	// テストでは sqlmock のセッションに差し替える
	Connect func(ctx context.Context, path string) (*db.Session, error)

	In    io.Reader
	IsTTY func() bool

	sess *db.Session
}

func defaultConnect(ctx context.Context, path string) (*db.Session, error) {
	cfg, err := db.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return db.Connect(ctx, cfg.DB)
}

func NewApp() *App {
	return &App{
		Connect: defaultConnect,
		In:      os.Stdin,
		IsTTY:   stdinIsTerminal,
	}
}

func (a *App) session(cmd *cobra.Command) (*db.Session, error) {
	if a.sess != nil {
		return a.sess, nil
	}
	s, err := a.Connect(cmd.Context(), a.ConfigPath)
	if err != nil {
		return nil, err
	}
	a.sess = s
	return s, nil
}

func (a *App) close() {
	if a.sess != nil {
		_ = a.sess.Close()
		a.sess = nil
	}
}

func NewRootCommand(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "lmsctl",
		Short:         "Library management from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
	}
	root.PersistentFlags().StringVarP(&a.ConfigPath, "config", "c", envOr("LMS_CONFIG", db.DefaultConfigPath), "config file")
	root.PersistentFlags().BoolVarP(&a.Yes, "yes", "y", false, "answer yes to delete confirmations")

	root.AddCommand(
		memberCommand(a),
		bookCommand(a),
		staffCommand(a),
		transactionCommand(a),
		fineCommand(a),
		eventCommand(a),
		reportCommand(a),
		accountCommand(a),
	)
	return root
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Execute は main から呼ばれる。戻り値は終了コード。
func Execute(ctx context.Context) int {
	a := NewApp()
	defer a.close()
	root := NewRootCommand(a)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", describe(err))
		return 1
	}
	return 0
}
