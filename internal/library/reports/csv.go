package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"LMS-backend/internal/library/gateway"
)

type Encoding string

const (
	EncodingUTF8     Encoding = "utf8"
	EncodingShiftJIS Encoding = "sjis" // Excel（CP932）でそのまま開ける
)

func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf8", "utf-8":
		return EncodingUTF8, nil
	case "sjis", "shift_jis", "cp932":
		return EncodingShiftJIS, nil
	default:
		return "", gateway.NewInputError(fmt.Sprintf("unsupported encoding %q", s))
	}
}

var overdueHeader = []string{"Book Title", "Member", "Due Date", "Days Overdue", "Fine Amount", "Contact Info"}

// WriteOverdueCSV は延滞一覧をCSVで書き出す（ヘッダ行付き）。
// Shift-JIS で表せない文字があれば何も書かずに InputError を返す。
func WriteOverdueCSV(w io.Writer, rows []OverdueBook, enc Encoding) (err error) {
	recs := make([][]string, 0, len(rows)+1)
	recs = append(recs, overdueHeader)
	for _, r := range rows {
		recs = append(recs, []string{
			r.Title,
			r.Member,
			r.DueDate,
			strconv.FormatInt(r.DaysOverdue, 10),
			strconv.FormatFloat(r.FineAmount, 'f', 2, 64),
			r.ContactNumber,
		})
	}

	out := w
	if enc == EncodingShiftJIS {
		if err := checkShiftJIS(recs); err != nil {
			return err
		}
		tw := transform.NewWriter(w, japanese.ShiftJIS.NewEncoder())
		defer func() {
			if cerr := tw.Close(); err == nil {
				err = cerr
			}
		}()
		out = tw
	}

	cw := csv.NewWriter(out)
	if err := cw.WriteAll(recs); err != nil {
		return err
	}
	return cw.Error()
}

// checkShiftJIS: JIS X 0208 外の文字（é, ü など）は途中で書き込みが止まるので先に調べる
func checkShiftJIS(recs [][]string) error {
	e := japanese.ShiftJIS.NewEncoder()
	for i, rec := range recs {
		for j, v := range rec {
			if _, err := e.String(v); err != nil {
				return gateway.NewInputError(fmt.Sprintf(
					"row %d column %q cannot be encoded in Shift-JIS, use encoding=utf8", i, overdueHeader[j]))
			}
		}
	}
	return nil
}
