// Package generator holds the client for the external timetable engine.
// The API never computes timetables itself; runs are handed to the
// engine and only their outcome is recorded.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/martinstiben/SGH-portal/internal/models"
)

// EngineClient delegates generation runs to the external engine over
// HTTP. It satisfies the generation service's Generator interface.
type EngineClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewEngineClient builds a client for the engine at baseURL.
func NewEngineClient(baseURL string, timeout time.Duration, logger *zap.Logger) *EngineClient {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EngineClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type engineRequest struct {
	RunID       string     `json:"runId"`
	PeriodStart *time.Time `json:"periodStart,omitempty"`
	PeriodEnd   *time.Time `json:"periodEnd,omitempty"`
	DryRun      bool       `json:"dryRun"`
	Force       bool       `json:"force"`
}

type engineResponse struct {
	TotalGenerated int    `json:"totalGenerated"`
	Message        string `json:"message"`
}

// Generate submits the run to the engine and waits for its result.
func (e *EngineClient) Generate(ctx context.Context, run models.GenerationRun) (int, error) {
	payload, err := json.Marshal(engineRequest{
		RunID:       run.ID,
		PeriodStart: run.PeriodStart,
		PeriodEnd:   run.PeriodEnd,
		DryRun:      run.DryRun,
		Force:       run.Force,
	})
	if err != nil {
		return 0, fmt.Errorf("encoding engine request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/generate", bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("building engine request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("calling generation engine: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("reading engine response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		e.logger.Warn("generation engine rejected run",
			zap.String("run_id", run.ID),
			zap.Int("status", resp.StatusCode),
		)
		return 0, fmt.Errorf("generation engine returned status %d", resp.StatusCode)
	}

	var result engineResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, fmt.Errorf("decoding engine response: %w", err)
	}

	return result.TotalGenerated, nil
}
