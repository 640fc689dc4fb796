package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/discovery"
	"github.com/sells-group/leadgen-cli/internal/mail"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/pipeline"
)

const serviceName = "Lead Generation & Cold Email Automation"

// leadGenerator is the part of the pipeline the API depends on.
type leadGenerator interface {
	Generate(ctx context.Context, query string, maxResults int) (*pipeline.Result, error)
}

// bulkMailer is the part of the mailer the API depends on.
type bulkMailer interface {
	IsConfigured() bool
	SendBulk(ctx context.Context, recipients []mail.Recipient, subject string) mail.Result
}

// apiServer serves lead generation and email sending over HTTP.
type apiServer struct {
	gen        leadGenerator
	mailer     bulkMailer
	defaultMax int
	timeout    time.Duration
	services   map[string]string
}

type generateRequest struct {
	Query      string `json:"query"`
	MaxResults *int   `json:"max_results"`
}

type generateResponse struct {
	Success       bool         `json:"success"`
	Message       string       `json:"message"`
	TotalLeads    int          `json:"total_leads"`
	Leads         []model.Lead `json:"leads"`
	SavedToSheets bool         `json:"saved_to_sheets"`
}

type sendRequest struct {
	Leads   []model.Lead `json:"leads"`
	Subject string       `json:"subject"`
}

type sendResponse struct {
	Success bool     `json:"success"`
	Sent    int      `json:"sent"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

// newRouter builds the chi router with CORS for origins.
func newRouter(s *apiServer, origins []string) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Post("/generate-leads", s.handleGenerate)
	r.Post("/send-emails", s.handleSendEmails)
	return r
}

func (s *apiServer) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "online",
		"service": serviceName,
		"version": version,
	})
}

func (s *apiServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	services := map[string]string{"api": "online"}
	for k, v := range s.services {
		services[k] = v
	}
	if s.mailer != nil {
		services["smtp"] = configuredLabel(s.mailer.IsConfigured())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "healthy",
		"services": services,
	})
}

func (s *apiServer) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	maxResults := s.defaultMax
	if req.MaxResults != nil {
		maxResults = *req.MaxResults
	}
	if err := pipeline.ValidateRequest(req.Query, maxResults); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := withRunTimeout(r.Context(), s.timeout)
	defer cancel()

	result, err := s.gen.Generate(ctx, req.Query, maxResults)
	if err != nil {
		status, detail := errorStatus(err)
		zap.L().Error("api: generate leads failed",
			zap.String("query", req.Query),
			zap.Int("status", status),
			zap.Error(err),
		)
		writeError(w, status, detail)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Success:       true,
		Message:       fmt.Sprintf("Successfully generated %d leads", len(result.Leads)),
		TotalLeads:    len(result.Leads),
		Leads:         result.Leads,
		SavedToSheets: result.SavedToSink,
	})
}

func (s *apiServer) handleSendEmails(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	recipients := mail.RecipientsFromLeads(req.Leads)
	if len(recipients) == 0 {
		writeError(w, http.StatusBadRequest, "No valid recipients found")
		return
	}

	zap.L().Info("api: sending emails",
		zap.Int("leads", len(req.Leads)),
		zap.Int("recipients", len(recipients)),
	)
	res := s.mailer.SendBulk(r.Context(), recipients, req.Subject)

	writeJSON(w, http.StatusOK, sendResponse{
		Success: true,
		Sent:    res.Sent,
		Failed:  res.Failed,
		Errors:  res.Errors,
	})
}

// errorStatus maps pipeline and discovery errors to an HTTP status and a
// client-facing detail message.
func errorStatus(err error) (int, string) {
	switch {
	case eris.Is(err, pipeline.ErrInvalidRequest):
		return http.StatusBadRequest, err.Error()
	case eris.Is(err, pipeline.ErrNoResults):
		return http.StatusNotFound, "No search results found"
	case eris.Is(err, pipeline.ErrEmptyBatch):
		return http.StatusNotFound, "No valid leads could be extracted"
	case eris.Is(err, discovery.ErrProviderUnavailable):
		return http.StatusBadGateway, "Search providers unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error: " + err.Error()
	}
}

func configuredLabel(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// requestLogger logs each request with its status and latency.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
