package models

// Account is a row of the accounts table.
type Account struct {
	AccountID int64  `db:"account_id"`
	Code      string `db:"code"`
	Title     string `db:"title"`
	AuditFields
}

// ThirdParty is a row of the third_parties table.
type ThirdParty struct {
	ThirdPartyID int64  `db:"third_party_id"`
	Code         string `db:"code"`
	Title        string `db:"title"`
	AccountID    int64  `db:"account_id"`
	IBAN         string `db:"iban"`
	BIC          string `db:"bic"`
	Type         string `db:"type"`
	AuditFields
}

// Analytic is a row of the analytics table.
type Analytic struct {
	AnalyticID int64  `db:"analytic_id"`
	Code       string `db:"code"`
	Title      string `db:"title"`
}

// Journal is a row of the journals table.
type Journal struct {
	JournalID int64  `db:"journal_id"`
	Code      string `db:"code"`
	Title     string `db:"title"`
}
