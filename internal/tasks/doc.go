// Package tasks runs the summary pipeline between the Strava services and the formatter.
//
// # Pipeline
//
// [SummaryEngine.Run] performs one top-level request:
//
//  1. Exchange the refresh token for a fresh access token
//  2. List the most recent runs
//  3. When an activity id is given, fetch its detail
//  4. Reject details that are not runs
//  5. Render the summary with [formatter.FormatSummary]
//
// The first failure stops the pipeline. Runs listed before the failure stay in the [Report]
// so the page can still show them next to the error.
//
// [SummaryEngine.Runs] and [SummaryEngine.Summary] are single-purpose variants for the CLI and TUI.
// Each call performs its own token exchange; tokens are never cached.
//
// # Progress Reporting
//
// All operations accept an optional channel of [ProgressUpdate]. Sends use select with default,
// so a slow or absent reader never blocks the pipeline.
package tasks
