package source

import (
	"context"

	"sitescope/models"
)

const (
	Live    = "live"
	Fixture = "fixture"
)

// RFPSource yields the RFP records for one results render.
type RFPSource interface {
	Name() string
	FetchRFPs(ctx context.Context) ([]models.RFP, error)
}
