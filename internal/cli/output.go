package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"LMS-backend/internal/library/gateway"
	"LMS-backend/internal/platform/db"
)

// printTable はタブ区切りで整形して出力する
func printTable(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// describe はユーザー向けのエラー文
func describe(err error) string {
	var ce *db.ConnectionError
	if errors.As(err, &ce) {
		return ce.Error()
	}
	var de *gateway.DomainError
	if errors.As(err, &de) {
		switch de.Code {
		case gateway.CodeInvalidArgument:
			return "invalid input: " + de.Message
		case gateway.CodeSelection:
			return "selection required: " + de.Message
		case gateway.CodeCancelled:
			return "cancelled: " + de.Message
		case gateway.CodeNotFound:
			return "not found: " + de.Message
		case gateway.CodeDatabase:
			return "database error: " + de.Message
		}
		return de.Message
	}
	return err.Error()
}
