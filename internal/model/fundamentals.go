package model

import "github.com/guregu/null/v6"

// Fundamentals holds company overview figures. Every numeric field is
// individually nullable since providers omit them freely.
type Fundamentals struct {
	Symbol string `json:"symbol"`

	// Valuation
	PERatio null.Float `json:"peRatio"`
	PSRatio null.Float `json:"psRatio"`
	PBRatio null.Float `json:"pbRatio"`

	// Profitability
	EPS             null.Float `json:"eps"`
	ROE             null.Float `json:"roe"`
	ROIC            null.Float `json:"roic"`
	OperatingMargin null.Float `json:"operatingMargin"`
	ProfitMargin    null.Float `json:"profitMargin"`

	// Financial health
	DebtToEquity null.Float `json:"debtToEquity"`
	CurrentRatio null.Float `json:"currentRatio"`
	QuickRatio   null.Float `json:"quickRatio"`

	// Growth and dividend
	RevenueGrowth null.Float `json:"revenueGrowth"`
	DividendYield null.Float `json:"dividendYield"`
	PayoutRatio   null.Float `json:"payoutRatio"`

	MarketCap  null.Int   `json:"marketCap"`
	BookValue  null.Float `json:"bookValue"`
	Beta       null.Float `json:"beta"`
	Week52High null.Float `json:"week52High"`
	Week52Low  null.Float `json:"week52Low"`

	Name        string `json:"name"`
	Sector      string `json:"sector"`
	Industry    string `json:"industry"`
	Description string `json:"description"`
}
