// Strava API implementation of [ActivityClient]
//
// Response types based on https://developers.strava.com/docs/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/stride/internal/models"
	"github.com/desertthunder/stride/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	defaultPerPage = 10
	defaultLimit   = 5

	// PrettyDateLayout renders dates as "DD Mon YYYY".
	PrettyDateLayout = "02 Jan 2006"
)

// stravaActivity is the summary representation returned by /athlete/activities.
type stravaActivity struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	SportType      string  `json:"sport_type"`
	StartDateLocal string  `json:"start_date_local"`
	Distance       float64 `json:"distance"`
}

// StravaOpts contains configuration options for creating a [StravaClient].
type StravaOpts struct {
	BaseURL            string
	HTTPClient         *http.Client
	PerPage            int
	RateLimit          float64 // requests per second; zero disables throttling
	SkipMalformedDates bool
	Logger             *log.Logger
}

// StravaClient implements [ActivityClient] for the Strava v3 API.
type StravaClient struct {
	baseURL            string
	httpClient         *http.Client
	limiter            *rate.Limiter
	perPage            int
	skipMalformedDates bool
	logger             *log.Logger
}

// NewStravaClient creates a StravaClient, filling unset options with defaults.
func NewStravaClient(opts StravaOpts) *StravaClient {
	if opts.BaseURL == "" {
		opts.BaseURL = stravaBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = NewHTTPClient(0)
	}
	if opts.PerPage <= 0 {
		opts.PerPage = defaultPerPage
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &StravaClient{
		baseURL:            opts.BaseURL,
		httpClient:         opts.HTTPClient,
		limiter:            rate.NewLimiter(limit, 3),
		perPage:            opts.PerPage,
		skipMalformedDates: opts.SkipMalformedDates,
		logger:             opts.Logger,
	}
}

// doRequest performs an authenticated GET against the Strava API and decodes the JSON body into result.
func (c *StravaClient) doRequest(ctx context.Context, op string, token models.AccessToken, endpoint string, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &shared.UpstreamError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	bearer := &oauth2.Token{AccessToken: string(token), TokenType: "Bearer"}
	bearer.SetAuthHeader(req)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &shared.UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("strava request", "op", op, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &shared.UpstreamError{Op: op, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &shared.ProtocolError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return nil
}

// ListRecent fetches one page of activities, keeps the runs in API order, and returns at most limit of them.
//
// A run with a missing or unparseable start_date_local fails the whole listing with [shared.FormatError]
// unless the client was built with SkipMalformedDates, in which case the run is logged and dropped.
func (c *StravaClient) ListRecent(ctx context.Context, token models.AccessToken, limit int) ([]models.ActivitySummaryRef, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	endpoint := fmt.Sprintf("/athlete/activities?per_page=%d", c.perPage)

	var activities []stravaActivity
	if err := c.doRequest(ctx, "list activities", token, endpoint, &activities); err != nil {
		return nil, err
	}

	runs := make([]models.ActivitySummaryRef, 0, limit)
	for _, a := range activities {
		if a.SportType != models.SportRun {
			continue
		}

		pretty, err := PrettyDate(a.StartDateLocal)
		if err != nil {
			if c.skipMalformedDates {
				c.logger.Warn("skipping run with malformed date", "id", a.ID, "error", err)
				continue
			}
			return nil, err
		}

		runs = append(runs, models.ActivitySummaryRef{
			ID:             a.ID,
			Name:           a.Name,
			StartDateLocal: a.StartDateLocal,
			Distance:       a.Distance,
			PrettyDate:     pretty,
		})
	}

	if len(runs) > limit {
		runs = runs[:limit]
	}

	return runs, nil
}

// GetDetail fetches a single activity by id.
func (c *StravaClient) GetDetail(ctx context.Context, activityID string, token models.AccessToken) (*models.ActivityDetail, error) {
	id, err := ParseActivityID(activityID)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("/activities/%d?%s", id, url.Values{"include_all_efforts": {"false"}}.Encode())

	var detail models.ActivityDetail
	if err := c.doRequest(ctx, "get activity", token, endpoint, &detail); err != nil {
		return nil, err
	}

	return &detail, nil
}

// ParseActivityID validates an activity id supplied by a user.
func ParseActivityID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, &shared.ValidationError{Message: fmt.Sprintf("Invalid activity id %q.", raw)}
	}
	return id, nil
}

// PrettyDate parses an RFC 3339 local start date (offset or Z) and formats it as "DD Mon YYYY".
func PrettyDate(startDateLocal string) (string, error) {
	if startDateLocal == "" {
		return "", &shared.FormatError{Field: "start_date_local"}
	}

	t, err := time.Parse(time.RFC3339, startDateLocal)
	if err != nil {
		return "", &shared.FormatError{Field: "start_date_local", Value: startDateLocal, Err: err}
	}

	return t.Format(PrettyDateLayout), nil
}
