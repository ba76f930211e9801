// package services defines interfaces for the Strava HTTP API and implements them
package services

import (
	"context"
	"net/http"
	"time"

	"github.com/desertthunder/stride/internal/models"
)

// Exchanger trades long-lived credentials for a short-lived access token.
type Exchanger interface {
	// Exchange performs one refresh-token grant. Implementations never cache the result.
	Exchange(ctx context.Context, creds models.Credentials) (models.AccessToken, error)
}

// ActivityClient reads the authenticated athlete's activities.
type ActivityClient interface {
	// ListRecent returns at most limit runs from the most recent page of activities, in API order.
	ListRecent(ctx context.Context, token models.AccessToken, limit int) ([]models.ActivitySummaryRef, error)

	// GetDetail returns the detailed representation of a single activity.
	GetDetail(ctx context.Context, activityID string, token models.AccessToken) (*models.ActivityDetail, error)
}

// NewHTTPClient returns an [http.Client] bounded by timeout, defaulting to 10 seconds.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
