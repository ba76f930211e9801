package tasks

import (
	"fmt"

	"github.com/desertthunder/stride/internal/models"
)

// ProgressUpdate represents a progress event during a pipeline run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Pipeline phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Pipeline phase enumeration
type Phase int

const (
	Authenticate Phase = iota
	FetchRuns
	FetchDetail
	FormatSummary
	Done
)

func (p Phase) String() string {
	switch p {
	case Authenticate:
		return "authenticate"
	case FetchRuns:
		return "fetch_runs"
	case FetchDetail:
		return "fetch_detail"
	case FormatSummary:
		return "format_summary"
	case Done:
		return "done"
	default:
		return ""
	}
}

func authenticateUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: Authenticate, Message: "Refreshing Strava access token..."}
}

func fetchRunsUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: FetchRuns, Message: "Fetching recent runs..."}
}

func foundRunsUpdate(runs []models.ActivitySummaryRef) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchRuns,
		Message: fmt.Sprintf("Found %d runs", len(runs)),
		Data:    runs,
	}
}

func fetchDetailUpdate(activityID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetail,
		Message: fmt.Sprintf("Fetching activity %s...", activityID),
	}
}

func formatSummaryUpdate(detail *models.ActivityDetail) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FormatSummary,
		Message: fmt.Sprintf("Summarizing '%s'", detail.Name),
		Data:    detail,
	}
}

func doneUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: Done, Message: "Done"}
}
