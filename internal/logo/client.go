package logo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"calsync/internal/config"
	"calsync/internal/logger"
	apperrors "calsync/pkg/errors"
	"calsync/pkg/metrics"
)

// Client generates a combined team logo for an organization-ID pair and
// returns an opaque reference to it.
type Client interface {
	Combine(ctx context.Context, homeOrgID, awayOrgID int64) (string, error)
}

// HTTPClient talks to the team-logo-combiner service. Requests are bounded by
// the configured timeout and rate-limited so a burst of match updates cannot
// flood the combiner.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	saveDir string
	logger  logger.Logger
}

func NewHTTPClient(cfg config.LogoConfig, log logger.Logger) *HTTPClient {
	rps := cfg.RateRPS
	if rps <= 0 {
		rps = 1
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	return &HTTPClient{
		baseURL: cfg.URL,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		saveDir: os.TempDir(),
		logger:  log,
	}
}

type combineRequest struct {
	Team1ID string `json:"team1_id"`
	Team2ID string `json:"team2_id"`
}

// Combine requests a combined logo and writes the returned image next to the
// other generated logos, returning the file path.
func (c *HTTPClient) Combine(ctx context.Context, homeOrgID, awayOrgID int64) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait failed: %w", err)
	}

	body, err := json.Marshal(combineRequest{
		Team1ID: strconv.FormatInt(homeOrgID, 10),
		Team2ID: strconv.FormatInt(awayOrgID, 10),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal combine request: %w", err)
	}

	url := c.baseURL + "/create_avatar"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.LogoRequestDuration.Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.LogoRequestsTotal.WithLabelValues("error").Inc()
		return "", apperrors.Wrap(err, apperrors.ErrLogoService)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.LogoRequestsTotal.WithLabelValues("error").Inc()
		return "", apperrors.ErrLogoService.WithDetail("status_code", resp.StatusCode).
			WithCause(fmt.Errorf("logo service returned status: %d", resp.StatusCode))
	}

	image, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.LogoRequestsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to read logo response: %w", err)
	}
	if len(image) == 0 {
		metrics.LogoRequestsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("logo service returned empty body")
	}

	savePath := filepath.Join(c.saveDir, fmt.Sprintf("combined_logo_%d_%d.png", homeOrgID, awayOrgID))
	if err := os.WriteFile(savePath, image, 0o644); err != nil {
		metrics.LogoRequestsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to save combined logo: %w", err)
	}

	metrics.LogoRequestsTotal.WithLabelValues("success").Inc()
	c.logger.DebugwCtx(ctx, "Generated combined logo",
		"home_org_id", homeOrgID,
		"away_org_id", awayOrgID,
		"path", savePath,
	)
	return savePath, nil
}
