package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ReportAIPayload is sent by the worker pool to the report AI sidecar, which
// turns the aggregate figures into a management narrative.
type ReportAIPayload struct {
	Kind     string         `json:"kind"` // productivity | shipments | maintenance
	Title    string         `json:"title"`
	FromDate string         `json:"from_date"`
	ToDate   string         `json:"to_date"`
	Figures  map[string]any `json:"figures"`
}

// ReportAIResponse is returned by the sidecar.
type ReportAIResponse struct {
	Narrative  string   `json:"narrative"`
	Highlights []string `json:"highlights"`
}

// ReportAIClient is an HTTP client for the report AI sidecar. Keeping the
// model integration out-of-process isolates its failures (and its latency)
// from the core backend.
type ReportAIClient struct {
	sidecarURL string
	httpClient *http.Client
}

func NewReportAIClient(sidecarURL string) *ReportAIClient {
	return &ReportAIClient{
		sidecarURL: sidecarURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Generate posts the figures to the sidecar and returns the narrative.
func (c *ReportAIClient) Generate(ctx context.Context, payload ReportAIPayload) (*ReportAIResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("reportai: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.sidecarURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("reportai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reportai: sidecar unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reportai: sidecar returned %d", resp.StatusCode)
	}

	var result ReportAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("reportai: decode response: %w", err)
	}
	return &result, nil
}
