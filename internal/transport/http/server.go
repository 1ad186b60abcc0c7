package http

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	composeService "github.com/reshetovitsme/contentguard/internal/modules/compose/service"
	credential "github.com/reshetovitsme/contentguard/internal/modules/credential/domain"
	credentialService "github.com/reshetovitsme/contentguard/internal/modules/credential/service"
	generationService "github.com/reshetovitsme/contentguard/internal/modules/generation/service"
	platformService "github.com/reshetovitsme/contentguard/internal/modules/platform/service"
	publicationService "github.com/reshetovitsme/contentguard/internal/modules/publication/service"
	"github.com/reshetovitsme/contentguard/internal/shared/config"
	"github.com/reshetovitsme/contentguard/internal/shared/errors"
	"github.com/reshetovitsme/contentguard/internal/shared/media"
	sloghttp "github.com/samber/slog-http"
)

const (
	maxImageSize       = 20 << 20
	defaultRecentLimit = 50
)

// Server exposes the compose workflow over HTTP
type Server struct {
	cfg          *config.Config
	platforms    *platformService.Service
	credentials  *credentialService.Service
	generator    *generationService.Service
	compose      *composeService.Service
	publications *publicationService.Service
	feedService  *publicationService.FeedService
	logger       *slog.Logger
	server       *http.Server
}

// New creates a new HTTP server
func New(
	cfg *config.Config,
	platforms *platformService.Service,
	credentials *credentialService.Service,
	generator *generationService.Service,
	compose *composeService.Service,
	publications *publicationService.Service,
	feedService *publicationService.FeedService,
) *Server {
	return &Server{
		cfg:          cfg,
		platforms:    platforms,
		credentials:  credentials,
		generator:    generator,
		compose:      compose,
		publications: publications,
		feedService:  feedService,
		logger:       slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Handler returns the routed handler wrapped in logging and recovery middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/platforms", s.handlePlatforms)

	mux.HandleFunc("GET /api/credentials", s.handleGetCredentials)
	mux.HandleFunc("PUT /api/credentials", s.handleSaveCredentials)

	mux.HandleFunc("POST /api/generate", s.handleGenerate)

	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("PUT /api/sessions/{id}/text", s.handleSetText)
	mux.HandleFunc("PUT /api/sessions/{id}/image", s.handleSetImage)
	mux.HandleFunc("DELETE /api/sessions/{id}/image", s.handleRemoveImage)
	mux.HandleFunc("PUT /api/sessions/{id}/platform", s.handleSelectPlatform)
	mux.HandleFunc("POST /api/sessions/{id}/generate", s.handleSessionGenerate)
	mux.HandleFunc("POST /api/sessions/{id}/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/sessions/{id}/fix", s.handleApplyFix)
	mux.HandleFunc("POST /api/sessions/{id}/publish", s.handlePublish)

	mux.HandleFunc("GET /api/publications", s.handlePublications)
	mux.HandleFunc("GET /rss/publications", s.handlePublicationsFeed)

	handler := sloghttp.Recovery(mux)
	return sloghttp.New(s.logger)(handler)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.cfg.HTTPPort)
	s.logger.Info("ContentGuard server starting", "addr", addr)

	// Analysis and publishing wait on remote APIs, so the write timeout is generous
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	if err := s.server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

type platformResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	HomeURL     string `json:"homeUrl"`
	HasShareURL bool   `json:"hasShareUrl"`
	SupportsAPI bool   `json:"supportsApi"`
	Configured  bool   `json:"configured"`
}

func (s *Server) handlePlatforms(w http.ResponseWriter, r *http.Request) {
	creds := s.credentials.Current()

	var out []platformResponse
	for _, d := range s.platforms.All() {
		out = append(out, platformResponse{
			ID:          d.ID.String(),
			Name:        d.Name,
			HomeURL:     d.HomeURL,
			HasShareURL: d.HasShareURL(),
			SupportsAPI: d.SupportsAPI,
			Configured:  creds.HasFor(d.ID),
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetCredentials(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.credentials.Current().Masked())
}

func (s *Server) handleSaveCredentials(w http.ResponseWriter, r *http.Request) {
	var edited credential.Credentials
	if !s.decode(w, r, &edited) {
		return
	}

	merged := s.credentials.Current().MergeMasked(edited)
	if err := s.credentials.Save(r.Context(), merged); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info("Credentials saved")
	s.writeJSON(w, http.StatusOK, merged.Masked())
}

type topicRequest struct {
	Topic string `json:"topic"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if !s.decode(w, r, &req) {
		return
	}

	text, err := s.generator.Generate(r.Context(), req.Topic)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusCreated, s.compose.Create())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.compose.Get(r.PathValue("id"))
	s.respond(w, r, view, err)
}

func (s *Server) handleSetText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	view, err := s.compose.SetText(r.PathValue("id"), req.Text)
	s.respond(w, r, view, err)
}

func (s *Server) handleSetImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize+1<<20)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
	if err != nil {
		http.Error(w, "Failed to read image", http.StatusBadRequest)
		return
	}
	if len(data) == 0 || len(data) > maxImageSize {
		http.Error(w, "Image must be between 1 byte and 20 MB", http.StatusBadRequest)
		return
	}

	// Only the content decides; the declared part type is client controlled.
	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		http.Error(w, "File must be an image", http.StatusBadRequest)
		return
	}

	image := media.NewImage(header.Filename, header.Header.Get("Content-Type"), data)
	view, err := s.compose.SetImage(r.PathValue("id"), image)
	s.respond(w, r, view, err)
}

func (s *Server) handleRemoveImage(w http.ResponseWriter, r *http.Request) {
	view, err := s.compose.RemoveImage(r.PathValue("id"))
	s.respond(w, r, view, err)
}

func (s *Server) handleSelectPlatform(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Platform string `json:"platform"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	view, err := s.compose.SelectPlatform(r.PathValue("id"), req.Platform)
	s.respond(w, r, view, err)
}

func (s *Server) handleSessionGenerate(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if !s.decode(w, r, &req) {
		return
	}

	view, err := s.compose.Generate(r.Context(), r.PathValue("id"), req.Topic)
	s.respond(w, r, view, err)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	view, err := s.compose.Analyze(r.Context(), r.PathValue("id"))
	s.respond(w, r, view, err)
}

func (s *Server) handleApplyFix(w http.ResponseWriter, r *http.Request) {
	view, err := s.compose.ApplyFix(r.Context(), r.PathValue("id"))
	s.respond(w, r, view, err)
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.compose.Publish(r.Context(), r.PathValue("id"))
	s.respond(w, r, outcome, err)
}

func (s *Server) handlePublications(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	publications, err := s.publications.Recent(limit)
	s.respond(w, r, publications, err)
}

func (s *Server) handlePublicationsFeed(w http.ResponseWriter, r *http.Request) {
	// Get base URL from request
	baseURL := fmt.Sprintf("%s://%s", getScheme(r), r.Host)

	feed, err := s.feedService.GenerateFeed(baseURL)
	if err != nil {
		s.logger.Error("Error generating feed", "error", err)
		http.Error(w, "Failed to generate feed", http.StatusInternalServerError)
		return
	}

	rss, err := feed.ToRss()
	if err != nil {
		s.logger.Error("Error converting feed to RSS", "error", err)
		http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(rss))
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, body any, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, body)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(dst); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Error encoding response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	} else {
		s.logger.Warn("Request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case stderrors.Is(err, errors.ErrSessionNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, errors.ErrConfiguration),
		stderrors.Is(err, errors.ErrUnknownPlatform),
		stderrors.Is(err, errors.ErrEmptyContent):
		return http.StatusBadRequest
	case stderrors.Is(err, errors.ErrBusy),
		stderrors.Is(err, errors.ErrSuperseded),
		stderrors.Is(err, errors.ErrNoAnalysis),
		stderrors.Is(err, errors.ErrPublishNotAllowed):
		return http.StatusConflict
	case stderrors.Is(err, errors.ErrParse):
		return http.StatusUnprocessableEntity
	case stderrors.Is(err, errors.ErrTransport),
		stderrors.Is(err, errors.ErrAPI),
		stderrors.Is(err, errors.ErrAnalysis),
		stderrors.Is(err, errors.ErrGeneration):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
