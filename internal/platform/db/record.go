package db

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Record はストアドやビューの1行。列構成がプロシージャ側で決まるため
// 列名で引けるようにしておく。
type Record map[string]any

// ScanRecords は rows を全件読み取って閉じる。
func ScanRecords(rows *sql.Rows) ([]Record, error) {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := []Record{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		r := make(Record, len(cols))
		for i, c := range cols {
			r[c] = vals[i]
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// lookup は完全一致、なければ大文字小文字を無視して探す
func (r Record) lookup(col string) (any, bool) {
	if v, ok := r[col]; ok {
		return v, true
	}
	for k, v := range r {
		if strings.EqualFold(k, col) {
			return v, true
		}
	}
	return nil, false
}

func (r Record) IsNull(col string) bool {
	v, ok := r.lookup(col)
	return !ok || v == nil
}

func (r Record) String(col string) string {
	v, _ := r.lookup(col)
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(DateLayout)
		}
		return x.Format(time.RFC3339)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// NullString は NULL のとき nil を返す
func (r Record) NullString(col string) *string {
	if r.IsNull(col) {
		return nil
	}
	s := r.String(col)
	return &s
}

func (r Record) Int64(col string) int64 {
	v, _ := r.lookup(col)
	switch x := v.(type) {
	case int64:
		return x
	case int32:
		return int64(x)
	case int:
		return int64(x)
	case uint64:
		return int64(x)
	case float64:
		return int64(x)
	case []byte:
		n, _ := strconv.ParseInt(strings.TrimSpace(string(x)), 10, 64)
		return n
	case string:
		n, _ := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return n
	default:
		return 0
	}
}

// Float64 は DECIMAL（[]byte で返ってくる）にも対応
func (r Record) Float64(col string) float64 {
	v, _ := r.lookup(col)
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int64:
		return float64(x)
	case []byte:
		f, _ := strconv.ParseFloat(strings.TrimSpace(string(x)), 64)
		return f
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f
	default:
		return 0
	}
}

// Date は DATE / DATETIME 列を "2006-01-02" に揃える
func (r Record) Date(col string) string {
	v, _ := r.lookup(col)
	switch x := v.(type) {
	case time.Time:
		return x.Format(DateLayout)
	case nil:
		return ""
	default:
		s := r.String(col)
		if len(s) >= len(DateLayout) {
			if _, err := time.Parse(DateLayout, s[:len(DateLayout)]); err == nil {
				return s[:len(DateLayout)]
			}
		}
		return s
	}
}

func (r Record) NullDate(col string) *string {
	if r.IsNull(col) {
		return nil
	}
	d := r.Date(col)
	return &d
}
