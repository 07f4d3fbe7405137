package services

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"sitescope/models"
	"sitescope/utils"
)

func newTestLogger() *utils.Logger { return utils.NewNopLogger() }

func newTestTransformer() *Transformer {
	return NewTransformer(newTestLogger(), NewCurrencyFormatter("en-US"))
}

func str(s string) *string { return &s }
func num(f float64) *float64 { return &f }

// exampleRFPs holds one fully populated record and one that exercises every fallback.
func exampleRFPs() []models.RFP {
	return []models.RFP{
		{ID: 1, Title: "A", SourceURL: "https://bidclerk.com/x", EstimatedBudget: num(500000), ProfitabilityScore: num(8)},
		{ID: 2, Title: "B", SourceURL: "not a url", SourceType: str("PlanHub"), SkillsetMatchScore: num(6)},
	}
}

func TestTransformExample(t *testing.T) {
	rows := newTestTransformer().Transform(exampleRFPs())

	want := []*models.ProjectRow{
		{
			ID: 1, Rank: 1, Name: "A", Location: Placeholder, Customer: DefaultCustomer,
			ExpectedGrossProfit: "$500,000", RawBudget: num(500000), FitScore: num(8),
			Source: "bidclerk.com", Link: "https://bidclerk.com/x",
		},
		{
			ID: 2, Rank: 2, Name: "B", Location: Placeholder, Customer: DefaultCustomer,
			ExpectedGrossProfit: NotAvailable, RawBudget: nil, FitScore: num(6),
			Source: "PlanHub", Link: "not a url",
		},
	}

	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("Transform mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformKeepsCountAndOrder(t *testing.T) {
	rfps := make([]models.RFP, 0, 25)
	for i := 0; i < 25; i++ {
		rfps = append(rfps, models.RFP{ID: int64(100 - i), Title: "P", SourceURL: "https://x.com"})
	}

	rows := newTestTransformer().Transform(rfps)
	if len(rows) != len(rfps) {
		t.Fatalf("row count: got %d, want %d", len(rows), len(rfps))
	}
	for i, r := range rows {
		if r.Rank != i+1 {
			t.Errorf("row %d rank: got %d, want %d", i, r.Rank, i+1)
		}
		if r.ID != rfps[i].ID {
			t.Errorf("row %d id: got %d, want %d", i, r.ID, rfps[i].ID)
		}
	}
}

func TestTransformEmpty(t *testing.T) {
	rows := newTestTransformer().Transform(nil)
	if rows == nil || len(rows) != 0 {
		t.Errorf("expected empty non-nil rows, got %#v", rows)
	}
}

func TestFitScorePrecedence(t *testing.T) {
	tests := []struct {
		name string
		rfp  models.RFP
		want *float64
	}{
		{"profitability only", models.RFP{ProfitabilityScore: num(7.5)}, num(7.5)},
		{"both present", models.RFP{ProfitabilityScore: num(3), SkillsetMatchScore: num(9)}, num(3)},
		{"zero profitability still wins", models.RFP{ProfitabilityScore: num(0), SkillsetMatchScore: num(9)}, num(0)},
		{"skillset fallback", models.RFP{SkillsetMatchScore: num(6.2)}, num(6.2)},
		{"neither", models.RFP{}, nil},
	}

	for _, tt := range tests {
		got := fitScore(tt.rfp)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%s: fitScore mismatch (-want +got):\n%s", tt.name, diff)
		}
	}
}

func TestSourceLabel(t *testing.T) {
	tr := newTestTransformer()

	tests := []struct {
		url        string
		sourceType *string
		want       string
	}{
		{"https://bidclerk.com/x", nil, "bidclerk.com"},
		{"https://www.PlanHub.com:8443/p?id=1", str("PlanHub"), "www.planhub.com"},
		{"  https://dodge.construction.com/r  ", nil, "dodge.construction.com"},
		{"not a url", str("PlanHub"), "PlanHub"},
		{"www.bidclerk.com/x", str("BidClerk"), "BidClerk"},
		{"mailto:bids@example.com", str("Email"), "Email"},
		{"http://[::1", str("Broken"), "Broken"},
		{"not a url", nil, Placeholder},
		{"not a url", str(""), Placeholder},
		{"", nil, Placeholder},
	}

	for _, tt := range tests {
		got := tr.sourceLabel(tt.url, tt.sourceType)
		if got != tt.want {
			t.Errorf("sourceLabel(%q) = %q; want %q", tt.url, got, tt.want)
		}
	}
}

func TestTransformFallbacks(t *testing.T) {
	rows := newTestTransformer().Transform([]models.RFP{
		{ID: 7, Title: "Roof", SourceURL: "https://a.org", Location: str("Austin, TX"), Industry: str("Education")},
		{ID: 8, Title: "Shell", SourceURL: "https://b.org"},
	})

	if rows[0].Location != "Austin, TX" || rows[0].Customer != "Education" {
		t.Errorf("row 0: got location %q customer %q", rows[0].Location, rows[0].Customer)
	}
	if rows[1].Location != Placeholder || rows[1].Customer != DefaultCustomer {
		t.Errorf("row 1: got location %q customer %q", rows[1].Location, rows[1].Customer)
	}
}

func TestFitLabelAndBand(t *testing.T) {
	tests := []struct {
		score     *float64
		wantLabel string
		wantBand  string
	}{
		{nil, "N/A", "none"},
		{num(8), "8", "high"},
		{num(9.5), "9.5", "high"},
		{num(6), "6", "medium"},
		{num(7.99), "7.99", "medium"},
		{num(5.9), "5.9", "low"},
		{num(0), "0", "low"},
	}

	for _, tt := range tests {
		if got := FitLabel(tt.score); got != tt.wantLabel {
			t.Errorf("FitLabel(%v) = %q; want %q", tt.score, got, tt.wantLabel)
		}
		if got := FitBand(tt.score); got != tt.wantBand {
			t.Errorf("FitBand(%v) = %q; want %q", tt.score, got, tt.wantBand)
		}
	}
}
