// Package models defines the Strava data shapes used across stride.
//
// The package contains two categories of types:
//
// 1. Wire types decoded straight from the Strava v3 API:
//   - [ActivityDetail] : A single activity with its gear, laps and metric splits
//   - [Lap] : A user or workout defined segment, reported for structured sessions
//   - [Split] : An automatic 1 km segment of a continuous run
//   - [Gear] : The shoes worn, with their lifetime distance
//
// 2. Projections and inputs owned by stride:
//   - [ActivitySummaryRef] : The list-view projection of a run
//   - [Credentials] : Client credentials plus the long-lived refresh token
//   - [AccessToken] : A short-lived bearer token, fetched fresh for each request
//
// Numeric fields that Strava may omit are pointers so that absence survives decoding
// and can be rendered explicitly.
package models
