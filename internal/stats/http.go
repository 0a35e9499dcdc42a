package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sensorcast/sensorcast/internal/utils"
)

// HTTPSource fetches statistics from a recorder REST API.
type HTTPSource struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPSource creates a statistics source backed by the recorder API at baseURL.
func NewHTTPSource(baseURL, apiKey string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = utils.StatsFetchTimeout
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// statisticsResponse is the recorder's statistics query response body
type statisticsResponse struct {
	Statistics map[string][]Row `json:"statistics"`
}

// stateResponse is the recorder's entity state response body
type stateResponse struct {
	EntityID string      `json:"entity_id"`
	State    interface{} `json:"state"`
}

// Fetch queries the recorder's statistics endpoint for hourly buckets.
func (s *HTTPSource) Fetch(ctx context.Context, entityIDs []string, start, end time.Time,
	period string, types []string,
) (map[string][]Row, error) {
	q := url.Values{}
	q.Set("entity_ids", strings.Join(entityIDs, ","))
	q.Set("start_time", start.Format(time.RFC3339))
	q.Set("end_time", end.Format(time.RFC3339))
	q.Set("period", period)
	q.Set("types", strings.Join(types, ","))

	endpoint := fmt.Sprintf("%s/v1/statistics?%s", s.baseURL, q.Encode())

	body, status, err := s.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if status == http.StatusServiceUnavailable {
		return nil, fmt.Errorf("%w: recorder not initialized", ErrUnavailable)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("statistics fetch failed with status %d", status)
	}

	var resp statisticsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode statistics response: %w", err)
	}

	return resp.Statistics, nil
}

// HasState reports whether the recorder currently tracks a state for the entity.
func (s *HTTPSource) HasState(ctx context.Context, entityID string) (bool, error) {
	endpoint := fmt.Sprintf("%s/v1/states/%s", s.baseURL, url.PathEscape(entityID))

	body, status, err := s.get(ctx, endpoint)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch status {
	case http.StatusOK:
		var resp stateResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return false, fmt.Errorf("failed to decode state response: %w", err)
		}
		return resp.State != nil, nil
	case http.StatusNotFound:
		return false, nil
	case http.StatusServiceUnavailable:
		return false, fmt.Errorf("%w: recorder not initialized", ErrUnavailable)
	default:
		return false, fmt.Errorf("state fetch failed with status %d", status)
	}
}

func (s *HTTPSource) get(ctx context.Context, endpoint string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	if s.apiKey != "" {
		req.Header.Set("X-API-Key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	return body, resp.StatusCode, nil
}
