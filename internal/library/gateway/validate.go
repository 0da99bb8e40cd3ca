package gateway

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Check は入力チェックをまとめて行い、最初の不備を InputError にする。
//
//	err := new(gateway.Check).
//		Require("details", in.Details).
//		Date("registration_date", in.RegistrationDate).
//		Err()
type Check struct {
	missing []string
	invalid []string
}

func (c *Check) Require(name, value string) *Check {
	if strings.TrimSpace(value) == "" {
		c.missing = append(c.missing, name)
	}
	return c
}

// Date は YYYY-MM-DD を厳密に検査する。空の場合は Require に任せる。
func (c *Check) Date(name, value string) *Check {
	v := strings.TrimSpace(value)
	if v == "" {
		return c
	}
	if _, err := ParseDate(v); err != nil {
		c.invalid = append(c.invalid, fmt.Sprintf("%s: invalid date format, use YYYY-MM-DD", name))
	}
	return c
}

func (c *Check) Err() error {
	if len(c.missing) > 0 {
		return NewInputError(strings.Join(c.missing, ", ") + " required")
	}
	if len(c.invalid) > 0 {
		return NewInputError(strings.Join(c.invalid, "; "))
	}
	return nil
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// NullIfEmpty は任意項目を空なら NULL で渡すためのもの
func NullIfEmpty(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}
