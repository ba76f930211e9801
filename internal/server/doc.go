// Package server provides HTTP routing, middleware, the OAuth callback handler, and server lifecycle for stride.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Middleware
//
// [RequestID] tags each request with a UUID (X-Request-ID), [Logger] writes one structured line per request,
// and [Recover] converts handler panics into 500 responses.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback used by `stride auth login`.
//
// The handler validates the state parameter (CSRF protection), exchanges the authorization code for tokens,
// and sends the result through a channel. It only processes one callback to prevent replay attacks.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
// The web package (internal/web) registers its page and health handlers this way.
//
// # Lifecycle
//
// [Server.Run] serves until its context is cancelled, then shuts down gracefully.
package server
