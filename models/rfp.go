package models

// RFP is a request-for-proposal record as returned by the sourcing API.
// Optional fields are nil when the API sends null or omits them.
type RFP struct {
	ID                 int64    `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	SourceURL          string   `json:"source_url"`
	SourceType         *string  `json:"source_type,omitempty"`
	PublishDate        *string  `json:"publish_date,omitempty"`
	Deadline           *string  `json:"deadline,omitempty"`
	EstimatedBudget    *float64 `json:"estimated_budget,omitempty"`
	Industry           *string  `json:"industry,omitempty"`
	Location           *string  `json:"location,omitempty"`
	Tags               []string `json:"tags,omitempty"`
	ProfitabilityScore *float64 `json:"profitability_score,omitempty"`
	SkillsetMatchScore *float64 `json:"skillset_match_score,omitempty"`
}

// ProjectRow is the display-ready form of one RFP in the results table.
// Rank is derived from the position in the fetched list and is never stored.
type ProjectRow struct {
	ID                  int64
	Rank                int
	Name                string
	Location            string
	Customer            string
	ExpectedGrossProfit string
	RawBudget           *float64
	FitScore            *float64
	Source              string
	Link                string
}

// Stats holds the aggregate figures shown under the results table.
type Stats struct {
	TotalOpportunities int
	TotalValue         float64
	AverageFit         *float64
}

// ResultsPage is everything the results screen needs for one render.
type ResultsPage struct {
	Rows   []*ProjectRow
	Stats  *Stats
	Source string
	Error  string
}
