package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateFormat = "2006-01-02"

// Cursor points after a ledger line ordered by (entry date, transaction id).
type Cursor struct {
	EntryDate     time.Time
	TransactionID int64
}

// EncodeToken creates a base64 encoded token from an entry date and transaction id.
func EncodeToken(c Cursor) string {
	tokenStr := fmt.Sprintf("%s|%d", c.EntryDate.Format(dateFormat), c.TransactionID)
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a token produced by EncodeToken.
func DecodeToken(token string) (Cursor, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	entryDate, err := time.Parse(dateFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (entry date parse): %w", err)
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (transaction id parse): %w", err)
	}
	return Cursor{EntryDate: entryDate, TransactionID: id}, nil
}

// After reports whether the line at (date, id) sorts strictly after the cursor.
func (c Cursor) After(date time.Time, id int64) bool {
	if !date.Equal(c.EntryDate) {
		return date.After(c.EntryDate)
	}
	return id > c.TransactionID
}
