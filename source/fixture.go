package source

import (
	"context"
	_ "embed"
	"encoding/json"

	"sitescope/errors"
	"sitescope/models"
)

//go:embed fixtures/rfps.json
var defaultFixture []byte

// FixtureSource serves a static RFP list, used for demos and offline work.
type FixtureSource struct {
	data []byte
}

// NewFixtureSource returns a FixtureSource over the bundled sample data.
func NewFixtureSource() *FixtureSource {
	return &FixtureSource{data: defaultFixture}
}

// NewFixtureSourceFromJSON returns a FixtureSource over caller-provided JSON.
func NewFixtureSourceFromJSON(data []byte) *FixtureSource {
	return &FixtureSource{data: data}
}

func (s *FixtureSource) Name() string { return Fixture }

// FetchRFPs decodes a fresh copy of the fixture on every call so callers
// can never mutate shared state.
func (s *FixtureSource) FetchRFPs(ctx context.Context) ([]models.RFP, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Unavailable("fixture read cancelled", err)
	}
	var rfps []models.RFP
	if err := json.Unmarshal(s.data, &rfps); err != nil {
		return nil, errors.Internal("decoding fixture", err)
	}
	return rfps, nil
}
