package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/cash_memo_ledger/internal/apperrors"
)

const dateFormat = "2006-01-02"

// Cursor points at the last item of a page: the memo date, the entry ID and
// how many items of that date preceded it. DayOffset lets a page resume in the
// middle of a day after the cursor's own entry was deleted.
type Cursor struct {
	Date      time.Time
	EntryID   string
	DayOffset int
}

// EncodeCursor creates a base64 encoded token from a cursor.
func EncodeCursor(c Cursor) string {
	return EncodeMultiFieldToken(c.Date.Format(dateFormat), c.EntryID, strconv.Itoa(c.DayOffset))
}

// DecodeCursor parses a token produced by EncodeCursor.
func DecodeCursor(token string) (Cursor, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return Cursor{}, err
	}
	if len(parts) < 2 || len(parts) > 3 || parts[1] == "" {
		return Cursor{}, fmt.Errorf("%w: invalid pagination token format (split)", apperrors.ErrValidation)
	}
	date, err := time.ParseInLocation(dateFormat, parts[0], time.UTC)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: invalid pagination token format (date parse): %v", apperrors.ErrValidation, err)
	}
	c := Cursor{Date: date, EntryID: parts[1]}
	// two-field tokens predate DayOffset
	if len(parts) == 3 {
		if c.DayOffset, err = strconv.Atoi(parts[2]); err != nil || c.DayOffset < 0 {
			return Cursor{}, fmt.Errorf("%w: invalid pagination token format (offset)", apperrors.ErrValidation)
		}
	}
	return c, nil
}

// EncodeMultiFieldToken creates a token with any number of string fields
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, "|")
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid pagination token format (base64 decode): %v", apperrors.ErrValidation, err)
	}

	tokenStr := string(decodedBytes)
	parts := strings.Split(tokenStr, "|")
	return parts, nil
}

// Page returns up to limit items following the position described by token.
// items must already be in page order, and cursorOf only has to fill Date and
// EntryID. When the entry the cursor names no longer exists, the page resumes
// at the same offset within the cursor's day, so its surviving neighbours on
// that day are not skipped.
func Page[T any](items []T, limit int, token *string, cursorOf func(T) Cursor) ([]T, *string, error) {
	start := 0
	if token != nil && *token != "" {
		c, err := DecodeCursor(*token)
		if err != nil {
			return nil, nil, err
		}
		start = resumeIndex(items, c, cursorOf)
	}
	if limit <= 0 {
		limit = len(items)
	}

	end := start + limit
	if end >= len(items) {
		return items[start:], nil, nil
	}
	last := cursorOf(items[end-1])
	last.DayOffset = 0
	for i := end - 2; i >= 0 && cursorOf(items[i]).Date.Equal(last.Date); i-- {
		last.DayOffset++
	}
	next := EncodeCursor(last)
	return items[start:end], &next, nil
}

func resumeIndex[T any](items []T, c Cursor, cursorOf func(T) Cursor) int {
	dayStart := -1
	for i, item := range items {
		ic := cursorOf(item)
		switch {
		case ic.Date.Equal(c.Date):
			if ic.EntryID == c.EntryID {
				return i + 1
			}
			if dayStart < 0 {
				dayStart = i
			}
		case ic.Date.After(c.Date):
			if dayStart < 0 {
				return i
			}
			// cursor entry is gone; i is the first item after its day
			return min(dayStart+c.DayOffset, i)
		}
	}
	if dayStart < 0 {
		return len(items)
	}
	return min(dayStart+c.DayOffset, len(items))
}
