package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"scoresync/internal/pkg/httpclient"
	"scoresync/internal/syncer"
)

// APIClient talks to the sync API's seed and job-status endpoints.
type APIClient struct {
	http *httpclient.Client
}

// NewAPIClient builds a client for the sync API at baseURL. apiKey may be
// empty when the target instance runs without API auth.
func NewAPIClient(baseURL, apiKey string, timeout time.Duration) *APIClient {
	c := httpclient.New().
		WithBaseURL(baseURL).
		WithTimeout(timeout)
	if apiKey != "" {
		c.WithHeader("X-API-Key", apiKey)
	}
	return &APIClient{http: c}
}

type envelope struct {
	Status bool            `json:"status"`
	Msg    string          `json:"msg"`
	Obj    json.RawMessage `json:"obj"`
}

type seedAccepted struct {
	JobID string `json:"job_id"`
}

// StartSeedSeason submits a seed request and returns the job id to poll.
func (c *APIClient) StartSeedSeason(ctx context.Context, req syncer.SeedRequest) (string, error) {
	code, body, err := c.http.Post("/api/sync/seed-season", req)
	if err != nil {
		return "", fmt.Errorf("start seed season: %w", err)
	}
	if code != http.StatusAccepted {
		return "", fmt.Errorf("start seed season: unexpected status %d: %s", code, string(body))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", fmt.Errorf("start seed season: decode response: %w", err)
	}
	var accepted seedAccepted
	if err := json.Unmarshal(env.Obj, &accepted); err != nil {
		return "", fmt.Errorf("start seed season: decode response: %w", err)
	}
	if accepted.JobID == "" {
		return "", fmt.Errorf("start seed season: response carries no job id")
	}
	return accepted.JobID, nil
}

// JobStatus fetches the current status of one job. A 404 maps to
// syncer.ErrJobNotFound so callers can tell it from transport trouble.
func (c *APIClient) JobStatus(ctx context.Context, jobID string) (*syncer.Status, error) {
	code, body, err := c.http.GetWithStatus("/api/sync/jobs/"+jobID+"/status", nil)
	if err != nil {
		return nil, fmt.Errorf("job status: %w", err)
	}
	if code == http.StatusNotFound {
		return nil, syncer.ErrJobNotFound
	}
	if code != http.StatusOK {
		return nil, fmt.Errorf("job status: unexpected status %d: %s", code, string(body))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("job status: decode response: %w", err)
	}
	var status syncer.Status
	if err := json.Unmarshal(env.Obj, &status); err != nil {
		return nil, fmt.Errorf("job status: decode response: %w", err)
	}
	return &status, nil
}
