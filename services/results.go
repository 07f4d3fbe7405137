package services

import (
	"context"

	"sitescope/errors"
	"sitescope/models"
	"sitescope/source"
	"sitescope/utils"
)

// LoadFailedMessage is the only error text a user ever sees for a failed fetch.
const LoadFailedMessage = "Failed to load construction projects. Please try again later."

// ResultsService assembles a results page from a source.
type ResultsService struct {
	transformer *Transformer
	aggregator  *Aggregator
	logger      *utils.Logger
}

func NewResultsService(transformer *Transformer, aggregator *Aggregator, logger *utils.Logger) *ResultsService {
	return &ResultsService{transformer: transformer, aggregator: aggregator, logger: logger}
}

func (s *ResultsService) Aggregator() *Aggregator { return s.aggregator }

// Load fetches once from src and builds the page. Fetch failures are logged
// and reported through page.Error with an empty row list; Load itself never fails.
func (s *ResultsService) Load(ctx context.Context, src source.RFPSource) *models.ResultsPage {
	page := &models.ResultsPage{Source: src.Name()}

	rfps, err := src.FetchRFPs(ctx)
	if err != nil {
		s.logger.Error("[results] %s source failed (%s): %v", src.Name(), errors.TypeOf(err), err)
		page.Rows = []*models.ProjectRow{}
		page.Stats = s.aggregator.Generate(page.Rows)
		page.Error = LoadFailedMessage
		return page
	}

	page.Rows = s.transformer.Transform(rfps)
	page.Stats = s.aggregator.Generate(page.Rows)
	s.logger.Info("[results] Loaded %d projects from %s source", len(page.Rows), src.Name())
	return page
}
