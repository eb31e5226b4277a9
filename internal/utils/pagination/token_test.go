package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	cursor := Cursor{EntryDate: time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC), TransactionID: 4242}

	token := EncodeToken(cursor)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, cursor, decoded)
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	_, err = DecodeToken(base64.URLEncoding.EncodeToString([]byte("2023-05-15")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	_, err = DecodeToken(base64.URLEncoding.EncodeToString([]byte("notadate|12")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "entry date parse")

	_, err = DecodeToken(base64.URLEncoding.EncodeToString([]byte("2023-05-15|x")))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "transaction id parse")
}

func TestCursorAfter(t *testing.T) {
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	c := Cursor{EntryDate: day, TransactionID: 5}

	assert.True(t, c.After(day, 6))
	assert.False(t, c.After(day, 5))
	assert.False(t, c.After(day.AddDate(0, 0, -1), 99))
	assert.True(t, c.After(day.AddDate(0, 0, 1), 1))
}
