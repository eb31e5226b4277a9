package domain

import "time"

// Letter is a reconciliation cluster of mutually settled transactions.
type Letter struct {
	LetterID  int64     `json:"letterID"`
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
}

// Label renders the letter identifier for display.
func (l Letter) Label() string {
	return LetterLabel(l.LetterID)
}

// LetterLabel renders id in bijective base-26: 1 is "A", 26 is "Z", 27 is "AA".
// Non-positive ids have no label.
func LetterLabel(id int64) string {
	if id <= 0 {
		return ""
	}
	var buf [16]byte
	i := len(buf)
	for id > 0 {
		id--
		i--
		buf[i] = byte('A' + id%26)
		id /= 26
	}
	return string(buf[i:])
}
