package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"LMS-backend/internal/library/gateway"
)

var errNotInteractive = errors.New("stdin is not a terminal, pass --yes to confirm")

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// terminalConfirmer は [y/N] を聞く。--yes なら聞かない。
type terminalConfirmer struct {
	in    io.Reader
	out   io.Writer
	yes   bool
	isTTY func() bool
}

func (a *App) confirmer(out io.Writer) gateway.Confirmer {
	return &terminalConfirmer{in: a.In, out: out, yes: a.Yes, isTTY: a.IsTTY}
}

func (t *terminalConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if t.yes {
		return true, nil
	}
	if t.isTTY == nil || !t.isTTY() {
		return false, errNotInteractive
	}

	fmt.Fprintf(t.out, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(t.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
