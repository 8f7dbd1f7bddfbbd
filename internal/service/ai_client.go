package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spec-kit/clinic-service/internal/config"
	apperrors "github.com/spec-kit/clinic-service/pkg/util/errorutil"
)

// AnalysisRequest is the payload sent to the external analysis service.
type AnalysisRequest struct {
	ExaminationID string  `json:"examination_id"`
	ImageURL      *string `json:"image_url,omitempty"`
	Findings      *string `json:"findings,omitempty"`
}

// AnalysisResult is the parsed response from the analysis service.
type AnalysisResult struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Summary    string  `json:"summary"`
}

// AIClient calls the external analysis service over HTTP. The analysis
// itself is an external collaborator; only the transport lives here.
type AIClient struct {
	baseURL      string
	modelVersion string
	httpClient   *http.Client
}

// NewAIClient builds a client from config.
func NewAIClient(cfg config.AIServiceConfig) *AIClient {
	return &AIClient{
		baseURL:      cfg.BaseURL,
		modelVersion: cfg.ModelVersion,
		httpClient:   &http.Client{Timeout: cfg.Timeout()},
	}
}

// ModelVersion reports the configured model identifier.
func (c *AIClient) ModelVersion() string {
	return c.modelVersion
}

// Analyze submits an examination for analysis. Transport or upstream
// failures surface as UPSTREAM_UNAVAILABLE.
func (c *AIClient) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	if c.baseURL == "" {
		return nil, apperrors.NewUpstreamUnavailable("ai analysis service", nil)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperrors.NewUpstreamUnavailable("ai analysis service", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewUpstreamUnavailable("ai analysis service", fmt.Errorf("status %d", resp.StatusCode))
	}

	var result AnalysisResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperrors.NewUpstreamUnavailable("ai analysis service", err)
	}
	return &result, nil
}
