// Package services implements the two Strava collaborators stride depends on.
//
// # Token Exchange
//
// [TokenExchanger] implements [Exchanger] on top of [oauth2.Config]. A token source is seeded with
// nothing but the refresh token, so the first call performs a single form-encoded POST with
// grant_type=refresh_token, client_id, client_secret and refresh_token. Nothing is cached: each
// top-level request exchanges again.
//
// The same [oauth2.Config] drives the authorization code flow used by `stride auth login`.
//
// # Activity Client
//
// [StravaClient] implements [ActivityClient] with two authenticated GETs:
//   - /athlete/activities?per_page=N : filtered to runs, dated, truncated
//   - /activities/{id} : decoded into [models.ActivityDetail]
//
// Requests wait on a [rate.Limiter] so rapid page reloads stay inside Strava's quotas.
//
// # Error Handling
//
// Services return the typed errors from the shared package:
//   - [shared.AuthError] : the token endpoint rejected the exchange
//   - [shared.UpstreamError] : non-2xx status, transport failure or timeout
//   - [shared.ProtocolError] : the body could not be decoded or lacked required fields
//   - [shared.FormatError] : a run's start_date_local was missing or unparseable
//   - [shared.ValidationError] : the activity id is not a positive integer
package services
