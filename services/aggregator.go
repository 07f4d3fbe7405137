package services

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"sitescope/models"
	"sitescope/utils"
)

// Aggregator computes the summary figures for a set of rows.
type Aggregator struct {
	logger   *utils.Logger
	currency *CurrencyFormatter
}

func NewAggregator(logger *utils.Logger, currency *CurrencyFormatter) *Aggregator {
	return &Aggregator{logger: logger, currency: currency}
}

// Generate sums the known budgets and averages the known fit scores. The
// average is rounded to one decimal and left nil when no row has a score.
func (a *Aggregator) Generate(rows []*models.ProjectRow) *models.Stats {
	stats := &models.Stats{TotalOpportunities: len(rows)}

	var fitTotal float64
	var fitCount int

	for _, r := range rows {
		if r.RawBudget != nil {
			stats.TotalValue += *r.RawBudget
		}
		if r.FitScore != nil {
			fitTotal += *r.FitScore
			fitCount++
		}
	}

	if fitCount > 0 {
		avg := round1(fitTotal / float64(fitCount))
		stats.AverageFit = &avg
	}

	return stats
}

// TotalValueLabel is the formatted total, or the placeholder when it is zero.
func (a *Aggregator) TotalValueLabel(s *models.Stats) string {
	if s == nil || s.TotalValue <= 0 {
		return Placeholder
	}
	return a.currency.Format(s.TotalValue)
}

// AverageFitLabel renders the average as "x/10", or N/A when absent.
func (a *Aggregator) AverageFitLabel(s *models.Stats) string {
	if s == nil || s.AverageFit == nil {
		return NotAvailable
	}
	return strconv.FormatFloat(*s.AverageFit, 'f', -1, 64) + "/10"
}

// Print writes the ranked table and summary to w for terminal use.
func (a *Aggregator) Print(w io.Writer, contractor string, page *models.ResultsPage) {
	sep := strings.Repeat("═", 96)
	thin := strings.Repeat("─", 96)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  SITESCOPE  Prioritized Projects for %s\033[0m\n", contractor)
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	if page.Error != "" {
		fmt.Fprintf(w, "  \033[1;31m%s\033[0m\n\n", page.Error)
	}

	fmt.Fprintf(w, "  %-4s %-30s %-18s %-14s %-16s %-6s %s\n",
		"Rank", "Name", "Location", "Customer", "Gross Profit", "Fit", "Source")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(page.Rows) == 0 {
		fmt.Fprintf(w, "  No projects available yet.\n")
	}
	for _, r := range page.Rows {
		fmt.Fprintf(w, "  %-4d %-30s %-18s %-14s %-16s %-6s %s\n",
			r.Rank,
			truncate(r.Name, 30),
			truncate(r.Location, 18),
			truncate(r.Customer, 14),
			r.ExpectedGrossProfit,
			FitLabel(r.FitScore),
			r.Source)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Summary\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total opportunities   : \033[1m%d\033[0m\n", page.Stats.TotalOpportunities)
	fmt.Fprintf(w, "  Total potential value : \033[1;32m%s\033[0m\n", a.TotalValueLabel(page.Stats))
	fmt.Fprintf(w, "  Average fit score     : \033[1;32m%s\033[0m\n", a.AverageFitLabel(page.Stats))

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
