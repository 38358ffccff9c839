package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"calsync/internal/config"
	"calsync/internal/dispatch"
	"calsync/internal/logger"
	apperrors "calsync/pkg/errors"
	"calsync/pkg/models"
)

// HTTPSyncer hands processed match batches to the calendar-sync collaborator
// over its narrow contract: sync(matches, urgency) -> result. The urgency
// hint travels with the batch; how it changes scheduling is the
// collaborator's decision. No retries here.
type HTTPSyncer struct {
	url    string
	client *http.Client
	logger logger.Logger
}

func NewHTTPSyncer(cfg config.CalendarConfig, log logger.Logger) *HTTPSyncer {
	return &HTTPSyncer{
		url: cfg.SyncURL,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: log,
	}
}

type syncRequest struct {
	Matches []models.Match `json:"matches"`
	Urgency string         `json:"urgency"`
}

type syncResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (s *HTTPSyncer) Sync(ctx context.Context, matches []models.Match, urgency dispatch.Urgency) error {
	body, err := json.Marshal(syncRequest{
		Matches: matches,
		Urgency: urgency.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal sync request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrSync)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.ErrSync.WithDetail("status_code", resp.StatusCode).
			WithCause(fmt.Errorf("calendar sync returned status: %d", resp.StatusCode))
	}

	var result syncResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		// Collaborators that reply 2xx without a body are treated as success.
		return nil
	}
	if !result.OK {
		reason := result.Error
		if reason == "" {
			reason = "no reason given"
		}
		return apperrors.Wrap(fmt.Errorf("calendar sync reported failure: %s", reason), apperrors.ErrSync)
	}

	return nil
}
