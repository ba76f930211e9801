// Package web serves the single-page Strava summary front-end.
//
// # Routes
//
//	GET  /         → recent runs, plus the summary for ?activity_id=
//	POST /         → same, with activity_id from the form (CSRF protected)
//	GET  /healthz  → {"status":"ok"}
//
// Every page load runs [tasks.Engine.Run] with a fresh token. Failures collapse into the single
// message produced by [shared.UserMessage]; runs fetched before the failure are still listed.
//
// # CSRF
//
// GET responses issue a token in a signed, encrypted cookie (gorilla/securecookie) and in a hidden
// form field. POST requests must echo the token or receive 403.
package web

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/stride/internal/models"
	"github.com/desertthunder/stride/internal/server"
	"github.com/desertthunder/stride/internal/shared"
	"github.com/desertthunder/stride/internal/tasks"
)

//go:embed templates/*.html
var templates embed.FS

// Page is the data rendered by the index template.
type Page struct {
	Runs       []models.ActivitySummaryRef
	Summary    string
	Error      string
	ActivityID string
	CSRFToken  string
}

// Renderer turns a [Page] into HTML.
type Renderer interface {
	Render(w io.Writer, page Page) error
}

// TemplateRenderer renders pages with the embedded html/template set.
type TemplateRenderer struct {
	tmpl *template.Template
}

// NewTemplateRenderer parses the embedded templates.
func NewTemplateRenderer() (*TemplateRenderer, error) {
	tmpl, err := template.New("").ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{tmpl: tmpl}, nil
}

func (r *TemplateRenderer) Render(w io.Writer, page Page) error {
	return r.tmpl.ExecuteTemplate(w, "index.html", page)
}

// HomeHandler serves the index page on GET and POST.
type HomeHandler struct {
	engine   tasks.Engine
	csrf     *CSRF
	renderer Renderer
	logger   *log.Logger
}

// NewHomeHandler creates a HomeHandler.
func NewHomeHandler(engine tasks.Engine, csrf *CSRF, renderer Renderer, logger *log.Logger) *HomeHandler {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &HomeHandler{engine: engine, csrf: csrf, renderer: renderer, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *HomeHandler) Routes() []string {
	return []string{"/"}
}

func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	var activityID string
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		activityID = r.URL.Query().Get("activity_id")
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		if err := h.csrf.Verify(r); err != nil {
			h.logger.Warn("rejected form post", "error", err, "request_id", server.RequestIDFrom(r.Context()))
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		activityID = r.PostForm.Get("activity_id")
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token, err := h.csrf.Issue(w, r)
	if err != nil {
		h.logger.Error("failed to issue csrf token", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	report := h.engine.Run(r.Context(), activityID, nil)
	if report.Err != nil {
		h.logger.Warn("summary request failed", "activity_id", activityID, "error", report.Err,
			"request_id", server.RequestIDFrom(r.Context()))
	}

	page := Page{
		Runs:       report.Runs,
		Summary:    report.Summary,
		Error:      shared.UserMessage(report.Err),
		ActivityID: activityID,
		CSRFToken:  token,
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, page); err != nil {
		h.logger.Error("failed to render page", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// HealthHandler reports liveness without calling Strava.
type HealthHandler struct{}

func (HealthHandler) Routes() []string { return []string{"/healthz"} }

func (HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}` + "\n"))
}

// NewRouter wires the page and health handlers behind the request id, logging and recovery middleware.
func NewRouter(engine tasks.Engine, csrf *CSRF, logger *log.Logger) (*server.BasicRouter, error) {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	renderer, err := NewTemplateRenderer()
	if err != nil {
		return nil, err
	}

	router := server.NewBasicRouter()
	router.Use(server.RequestID(), server.Logger(logger), server.Recover(logger))
	router.Handler(NewHomeHandler(engine, csrf, renderer, logger))
	router.Handle(http.MethodGet, "/healthz", HealthHandler{})

	return router, nil
}
