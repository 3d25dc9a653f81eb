package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/cash_memo_ledger/internal/apperrors"
)

// DateLayout is the ISO calendar date format used for cash memo identity.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO calendar date (YYYY-MM-DD) into a UTC midnight time.
func ParseDate(value string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", apperrors.ErrValidation, value)
	}
	return d, nil
}

// NormalizeDate drops the time-of-day component, keeping the calendar date in UTC.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a date in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
