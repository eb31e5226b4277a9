package domain

// ThirdPartyType restricts which entry forms may select a third party.
type ThirdPartyType string

const (
	ThirdPartyClient   ThirdPartyType = "CLIENT"
	ThirdPartySupplier ThirdPartyType = "SUPPLIER"
	ThirdPartyEmployee ThirdPartyType = "EMPLOYEE"
	ThirdPartyOther    ThirdPartyType = "OTHER"
)

// IsValid reports whether t is a known third party type.
func (t ThirdPartyType) IsValid() bool {
	switch t {
	case ThirdPartyClient, ThirdPartySupplier, ThirdPartyEmployee, ThirdPartyOther:
		return true
	}
	return false
}

// ThirdParty is a counterparty tracked for receivable/payable matching.
type ThirdParty struct {
	ThirdPartyID int64          `json:"thirdPartyID"`
	Code         string         `json:"code"` // unique, e.g. "X001"
	Title        string         `json:"title"`
	AccountID    int64          `json:"accountID"` // default account
	IBAN         string         `json:"iban,omitempty"`
	BIC          string         `json:"bic,omitempty"`
	Type         ThirdPartyType `json:"type"`
	AuditFields
}

// Analytic is a reporting-only cost/profit-center dimension.
type Analytic struct {
	AnalyticID int64  `json:"analyticID"`
	Code       string `json:"code"`
	Title      string `json:"title"`
}
