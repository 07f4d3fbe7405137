package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"sitescope/errors"
	"sitescope/models"
	"sitescope/utils"
)

// LiveSource fetches RFPs with a single unauthenticated GET. It never retries.
type LiveSource struct {
	endpoint string
	client   *http.Client
	logger   *utils.Logger
}

// NewLiveSource creates a LiveSource for endpoint with the given request timeout.
func NewLiveSource(endpoint string, timeout time.Duration, logger *utils.Logger) *LiveSource {
	return &LiveSource{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

func (s *LiveSource) Name() string { return Live }

// FetchRFPs performs the GET and decodes the JSON array body. Any non-2xx
// status is a failure.
func (s *LiveSource) FetchRFPs(ctx context.Context) ([]models.RFP, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, errors.Internal("creating request", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("[source] GET %s failed: %v", s.endpoint, err)
		return nil, errors.Unavailable("executing request", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			s.logger.Warn("[source] failed to close response body: %v", cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.Error("[source] GET %s returned status %d", s.endpoint, resp.StatusCode)
		return nil, errors.Unavailable(fmt.Sprintf("request failed with status %d", resp.StatusCode), nil)
	}

	var rfps []models.RFP
	if err := json.NewDecoder(resp.Body).Decode(&rfps); err != nil {
		s.logger.Error("[source] failed to decode response: %v", err)
		return nil, errors.Internal("decoding response", err)
	}

	s.logger.Debug("[source] fetched %d rfps in %v", len(rfps), time.Since(start))
	return rfps, nil
}
