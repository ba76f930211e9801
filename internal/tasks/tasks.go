package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/stride/internal/formatter"
	"github.com/desertthunder/stride/internal/models"
	"github.com/desertthunder/stride/internal/services"
	"github.com/desertthunder/stride/internal/shared"
)

// Report is the outcome of one top-level request.
//
// Err holds the first failure. Runs fetched before it are kept.
type Report struct {
	Runs    []models.ActivitySummaryRef
	Summary string
	Detail  *models.ActivityDetail
	Err     error
}

// SummaryResult is a rendered summary together with the detail it was built from.
type SummaryResult struct {
	Detail *models.ActivityDetail
	Text   string
}

// Engine defines the operations exposed to the web, CLI and TUI layers.
type Engine interface {
	// Run lists recent runs and, when activityID is non-empty, summarizes that activity.
	Run(ctx context.Context, activityID string, progress chan<- ProgressUpdate) *Report

	// Runs lists recent runs with a fresh token.
	Runs(ctx context.Context, progress chan<- ProgressUpdate) ([]models.ActivitySummaryRef, error)

	// Summary summarizes a single run with a fresh token.
	Summary(ctx context.Context, activityID string, progress chan<- ProgressUpdate) (*SummaryResult, error)
}

// SummaryEngine implements Engine on top of a token exchanger and an activity client.
type SummaryEngine struct {
	exchanger services.Exchanger
	client    services.ActivityClient
	creds     models.Credentials
	limit     int
}

// NewSummaryEngine creates a SummaryEngine. A limit of zero or less lets the client pick its default.
func NewSummaryEngine(exchanger services.Exchanger, client services.ActivityClient, creds models.Credentials, limit int) *SummaryEngine {
	return &SummaryEngine{
		exchanger: exchanger,
		client:    client,
		creds:     creds,
		limit:     limit,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *SummaryEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func (e *SummaryEngine) token(ctx context.Context, progress chan<- ProgressUpdate) (models.AccessToken, error) {
	if e.exchanger == nil || e.client == nil {
		return "", fmt.Errorf("%w: engine not initialized", shared.ErrServiceUnavailable)
	}
	e.sendProgress(progress, authenticateUpdate())
	return e.exchanger.Exchange(ctx, e.creds)
}

func (e *SummaryEngine) listRuns(ctx context.Context, token models.AccessToken, progress chan<- ProgressUpdate) ([]models.ActivitySummaryRef, error) {
	e.sendProgress(progress, fetchRunsUpdate())
	runs, err := e.client.ListRecent(ctx, token, e.limit)
	if err != nil {
		return nil, err
	}
	e.sendProgress(progress, foundRunsUpdate(runs))
	return runs, nil
}

// summarize fetches the detail for activityID and renders it, refusing anything that is not a run.
func (e *SummaryEngine) summarize(ctx context.Context, token models.AccessToken, activityID string, progress chan<- ProgressUpdate) (*SummaryResult, error) {
	e.sendProgress(progress, fetchDetailUpdate(activityID))
	detail, err := e.client.GetDetail(ctx, activityID, token)
	if err != nil {
		return nil, err
	}

	if detail == nil {
		return nil, &shared.ProtocolError{Op: "get activity", Err: fmt.Errorf("empty activity detail")}
	}

	if !detail.IsRun() {
		return nil, &shared.ValidationError{Message: shared.MsgNotARun}
	}

	e.sendProgress(progress, formatSummaryUpdate(detail))
	return &SummaryResult{Detail: detail, Text: formatter.FormatSummary(detail)}, nil
}

// Run executes the full pipeline for one request.
func (e *SummaryEngine) Run(ctx context.Context, activityID string, progress chan<- ProgressUpdate) *Report {
	report := &Report{}

	token, err := e.token(ctx, progress)
	if err != nil {
		report.Err = err
		return report
	}

	runs, err := e.listRuns(ctx, token, progress)
	if err != nil {
		report.Err = err
		return report
	}
	report.Runs = runs

	if activityID != "" {
		result, err := e.summarize(ctx, token, activityID, progress)
		if err != nil {
			report.Err = err
			return report
		}
		report.Detail = result.Detail
		report.Summary = result.Text
	}

	e.sendProgress(progress, doneUpdate())
	return report
}

// Runs lists recent runs.
func (e *SummaryEngine) Runs(ctx context.Context, progress chan<- ProgressUpdate) ([]models.ActivitySummaryRef, error) {
	token, err := e.token(ctx, progress)
	if err != nil {
		return nil, err
	}

	runs, err := e.listRuns(ctx, token, progress)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, doneUpdate())
	return runs, nil
}

// Summary renders the summary for a single activity without listing runs.
func (e *SummaryEngine) Summary(ctx context.Context, activityID string, progress chan<- ProgressUpdate) (*SummaryResult, error) {
	if activityID == "" {
		return nil, fmt.Errorf("%w: activity id", shared.ErrMissingArgument)
	}

	token, err := e.token(ctx, progress)
	if err != nil {
		return nil, err
	}

	result, err := e.summarize(ctx, token, activityID, progress)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, doneUpdate())
	return result, nil
}
