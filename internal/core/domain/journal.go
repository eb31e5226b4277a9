package domain

// Well-known journal codes.
const (
	JournalPurchases     = "HA"
	JournalSales         = "VT"
	JournalBank          = "BQ"
	JournalMiscellaneous = "OD"
)

// Journal classifies entries; it carries no balance logic.
type Journal struct {
	JournalID int64  `json:"journalID"`
	Code      string `json:"code"`
	Title     string `json:"title"`
}
