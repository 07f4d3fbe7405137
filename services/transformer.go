package services

import (
	"net/url"
	"strconv"
	"strings"

	"sitescope/models"
	"sitescope/utils"
)

const (
	// Placeholder is shown wherever a value is missing and no better fallback exists.
	Placeholder = "—"
	// NotAvailable is shown for missing budgets and fit scores.
	NotAvailable = "N/A"
	// DefaultCustomer is used when an RFP has no industry.
	DefaultCustomer = "General"
)

// Transformer turns fetched RFPs into display rows.
type Transformer struct {
	logger   *utils.Logger
	currency *CurrencyFormatter
}

// NewTransformer creates a Transformer with the given logger and formatter.
func NewTransformer(logger *utils.Logger, currency *CurrencyFormatter) *Transformer {
	return &Transformer{logger: logger, currency: currency}
}

// Transform returns one row per RFP, in input order, ranked from 1.
func (t *Transformer) Transform(rfps []models.RFP) []*models.ProjectRow {
	rows := make([]*models.ProjectRow, 0, len(rfps))

	for i, r := range rfps {
		rows = append(rows, &models.ProjectRow{
			ID:                  r.ID,
			Rank:                i + 1,
			Name:                r.Title,
			Location:            valueOr(r.Location, Placeholder),
			Customer:            valueOr(r.Industry, DefaultCustomer),
			ExpectedGrossProfit: t.formatBudget(r.EstimatedBudget),
			RawBudget:           r.EstimatedBudget,
			FitScore:            fitScore(r),
			Source:              t.sourceLabel(r.SourceURL, r.SourceType),
			Link:                r.SourceURL,
		})
	}

	t.logger.Debug("[transformer] Transformed %d rfps into rows", len(rows))
	return rows
}

func (t *Transformer) formatBudget(budget *float64) string {
	if budget == nil {
		return NotAvailable
	}
	return t.currency.Format(*budget)
}

// fitScore prefers the profitability score and falls back to the skillset
// match score.
func fitScore(r models.RFP) *float64 {
	if r.ProfitabilityScore != nil {
		return r.ProfitabilityScore
	}
	return r.SkillsetMatchScore
}

// sourceLabel is the hostname of rawURL. A URL that does not parse, or has no
// scheme or host, falls back to sourceType and then to the placeholder.
func (t *Transformer) sourceLabel(rawURL string, sourceType *string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err == nil && u.Scheme != "" && u.Hostname() != "" {
		return strings.ToLower(u.Hostname())
	}
	t.logger.Debug("[transformer] Unusable source_url %q, falling back", rawURL)

	if sourceType != nil && *sourceType != "" {
		return *sourceType
	}
	return Placeholder
}

// FitLabel renders a fit score the way the results table shows it.
func FitLabel(score *float64) string {
	if score == nil {
		return NotAvailable
	}
	return strconv.FormatFloat(*score, 'f', -1, 64)
}

// FitBand buckets a fit score for colouring: high (>= 8), medium (>= 6),
// low, or none when absent.
func FitBand(score *float64) string {
	switch {
	case score == nil:
		return "none"
	case *score >= 8:
		return "high"
	case *score >= 6:
		return "medium"
	default:
		return "low"
	}
}

func valueOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
