package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appdelivery "github.com/bryanwahyu/laporkerja/internal/application/delivery"
	appreports "github.com/bryanwahyu/laporkerja/internal/application/reports"
	"github.com/bryanwahyu/laporkerja/internal/domain/delivery"
	"github.com/bryanwahyu/laporkerja/internal/domain/media"
	"github.com/bryanwahyu/laporkerja/internal/domain/reports"
	"github.com/bryanwahyu/laporkerja/internal/domain/settings"
	"github.com/bryanwahyu/laporkerja/internal/middleware"
)

// maxUploadBytes batas body multipart; file >10MB tetap sampai ke validator
// supaya pesan ukuran yang muncul sama dengan di device.
const maxUploadBytes = 32 << 20

// Deps dependency router
type Deps struct {
	Reports  *appreports.Service
	Delivery *appdelivery.Service
	Settings settings.Repository
	Metrics  *middleware.Metrics
	Limiter  *middleware.RateLimiter
	Checkers map[string]middleware.HealthChecker
	Logger   *zap.Logger

	AllowedOrigins []string
}

type Router struct {
	reports  *appreports.Service
	delivery *appdelivery.Service
	settings settings.Repository
	metrics  *middleware.Metrics
	logger   *zap.Logger
}

func NewRouter(d Deps) http.Handler {
	if d.Metrics == nil {
		d.Metrics = middleware.NewMetrics()
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := &Router{
		reports:  d.Reports,
		delivery: d.Delivery,
		settings: d.Settings,
		metrics:  d.Metrics,
		logger:   d.Logger,
	}

	mux := chi.NewRouter()
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.Logging(d.Logger))
	mux.Use(d.Metrics.Middleware)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	mux.Get("/health", middleware.HealthHandler(d.Checkers))
	mux.Get("/livez", middleware.LivenessHandler)
	mux.Get("/metrics", d.Metrics.Handler)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Get("/state", r.wrap(r.handleState))
		rt.With(limit(d.Limiter)).Post("/reports", r.wrap(r.handleSubmit))
		rt.Post("/reset", r.wrap(r.handleReset))

		rt.Post("/session/restore", r.wrap(r.handleRestore))
		rt.Post("/session/dismiss", r.wrap(r.handleDismiss))

		rt.Get("/history", r.wrap(r.handleHistory))
		rt.Post("/history/{id}/load", r.wrap(r.handleLoadHistory))
		rt.Delete("/history/{id}", r.wrap(r.handleDeleteHistory))

		rt.Get("/settings", r.wrap(r.handleGetSettings))
		rt.Put("/settings", r.wrap(r.handlePutSettings))

		rt.Put("/report/location", r.wrap(r.handleRelocate))
		rt.Post("/report/location/detect", r.wrap(r.handleDetect))
		rt.Post("/report/deliver/{channel}", r.wrap(r.handleDeliver))
	})

	return mux
}

func limit(l *middleware.RateLimiter) func(http.Handler) http.Handler {
	if l == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return l.Middleware
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// errBadRequest input request tidak bisa dipakai
var errBadRequest = errors.New("bad request")

type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  []string          `json:"fields,omitempty"`
	Outcome *delivery.Outcome `json:"outcome,omitempty"`
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			r.writeError(w, err, nil)
		}
	}
}

func (r *Router) writeError(w http.ResponseWriter, err error, out *delivery.Outcome) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		r.logger.Error("request failed", zap.Error(err))
	}
	body := errorBody{Error: err.Error(), Outcome: out}
	var cm *delivery.ConfigurationMissingError
	if errors.As(err, &cm) {
		body.Message = cm.Message()
		body.Fields = cm.Fields
	}
	writeJSON(w, status, body)
}

func statusFor(err error) int {
	var fe *middleware.FieldError
	switch {
	case errors.Is(err, errBadRequest), errors.As(err, &fe):
		return http.StatusBadRequest
	case errors.Is(err, reports.ErrNoSnapshot), errors.Is(err, reports.ErrHistoryNotFound),
		errors.Is(err, delivery.ErrUnknownChannel):
		return http.StatusNotFound
	case errors.Is(err, reports.ErrInvalidTransition), errors.Is(err, reports.ErrNoActiveReport),
		errors.Is(err, delivery.ErrDispatchInFlight):
		return http.StatusConflict
	case delivery.IsConfigurationMissing(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, delivery.ErrCapabilityUnavailable):
		return http.StatusNotImplemented
	case errors.Is(err, delivery.ErrUploadFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// stateResponse view lifecycle + lokasi/link terkini dari delivery
type stateResponse struct {
	appreports.View
	Location string `json:"location,omitempty"`
	Link     string `json:"link,omitempty"`
}

func (r *Router) stateOf(req *http.Request, v appreports.View) stateResponse {
	resp := stateResponse{View: v}
	if v.State == appreports.StateSuccess && v.Report != nil && r.delivery != nil {
		resp.Location = r.delivery.Location(req.Context(), *v.Report)
		resp.Link = r.delivery.Link(req.Context(), *v.Report)
	}
	return resp
}

// GET /v1/state
func (r *Router) handleState(w http.ResponseWriter, req *http.Request) error {
	writeJSON(w, http.StatusOK, r.stateOf(req, r.reports.View()))
	return nil
}

// POST /v1/reports (multipart, field "file")
func (r *Router) handleSubmit(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, maxUploadBytes)
	if err := req.ParseMultipartForm(8 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "file terlalu besar"})
			return nil
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	file, header, err := req.FormFile("file")
	if err != nil {
		return fmt.Errorf("%w: field file wajib diisi", errBadRequest)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	r.metrics.ReportsSubmitted.Add(1)
	view, err := r.reports.Submit(req.Context(), media.RawInput{
		Name:      header.Filename,
		MediaType: header.Header.Get("Content-Type"),
		Data:      data,
	})
	if err != nil {
		return err
	}

	switch {
	case view.State == appreports.StateSuccess:
		r.metrics.ReportsAccepted.Add(1)
	case view.Failure != nil && view.Failure.Kind == appreports.FailureRejected:
		r.metrics.ReportsRejected.Add(1)
	default:
		r.metrics.ReportsFailed.Add(1)
	}
	writeJSON(w, http.StatusOK, r.stateOf(req, view))
	return nil
}

// POST /v1/reset
func (r *Router) handleReset(w http.ResponseWriter, req *http.Request) error {
	if err := r.reports.Reset(req.Context()); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// POST /v1/session/restore
func (r *Router) handleRestore(w http.ResponseWriter, req *http.Request) error {
	view, err := r.reports.Restore(req.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, r.stateOf(req, view))
	return nil
}

// POST /v1/session/dismiss
func (r *Router) handleDismiss(w http.ResponseWriter, req *http.Request) error {
	if err := r.reports.Dismiss(req.Context()); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /v1/history
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	items, err := r.reports.ListHistory(req.Context())
	if err != nil {
		return err
	}
	if items == nil {
		items = []reports.HistoryItem{}
	}
	writeJSON(w, http.StatusOK, items)
	return nil
}

// POST /v1/history/{id}/load
func (r *Router) handleLoadHistory(w http.ResponseWriter, req *http.Request) error {
	view, err := r.reports.LoadHistory(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, r.stateOf(req, view))
	return nil
}

// DELETE /v1/history/{id}
func (r *Router) handleDeleteHistory(w http.ResponseWriter, req *http.Request) error {
	if err := r.reports.DeleteHistory(req.Context(), chi.URLParam(req, "id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /v1/settings (token disamarkan)
func (r *Router) handleGetSettings(w http.ResponseWriter, req *http.Request) error {
	st, err := r.settings.Load(req.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, st.Redacted())
	return nil
}

// PUT /v1/settings
func (r *Router) handlePutSettings(w http.ResponseWriter, req *http.Request) error {
	var body settings.Settings
	if err := json.NewDecoder(http.MaxBytesReader(w, req.Body, 64<<10)).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	body.WhatsAppNumber = middleware.SanitizeString(body.WhatsAppNumber)
	body.EmailAddress = middleware.SanitizeString(body.EmailAddress)
	body.SpreadsheetURL = middleware.SanitizeString(body.SpreadsheetURL)
	body.UploadURL = middleware.SanitizeString(body.UploadURL)
	if err := middleware.ValidateSettings(body); err != nil {
		return err
	}

	// token tersamar dari GET berarti "tidak diubah"
	if body.UploadToken == settings.RedactedToken {
		current, err := r.settings.Load(req.Context())
		if err != nil {
			return err
		}
		body.UploadToken = current.UploadToken
	}
	if err := r.settings.Save(req.Context(), body); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, body.Redacted())
	return nil
}

// PUT /v1/report/location {"location": "..."}
func (r *Router) handleRelocate(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Location string `json:"location"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, req.Body, 16<<10)).Decode(&body); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	active, err := r.reports.Active()
	if err != nil {
		return err
	}
	if err := r.delivery.Relocate(req.Context(), active, middleware.SanitizeString(body.Location)); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]string{"location": r.delivery.Location(req.Context(), active)})
	return nil
}

// POST /v1/report/location/detect
func (r *Router) handleDetect(w http.ResponseWriter, req *http.Request) error {
	active, err := r.reports.Active()
	if err != nil {
		return err
	}
	loc, ok := r.delivery.Locate(req.Context(), active)
	writeJSON(w, http.StatusOK, map[string]any{"location": loc, "detected": ok})
	return nil
}

// POST /v1/report/deliver/{channel}
// Export balikin PDF langsung kecuali ?format=json.
func (r *Router) handleDeliver(w http.ResponseWriter, req *http.Request) error {
	ch, ok := delivery.ParseChannel(chi.URLParam(req, "channel"))
	if !ok {
		return fmt.Errorf("%w: %q", delivery.ErrUnknownChannel, chi.URLParam(req, "channel"))
	}
	active, err := r.reports.Active()
	if err != nil {
		return err
	}

	r.metrics.Dispatches.Add(1)
	out, err := r.delivery.Dispatch(req.Context(), active, ch)
	if err != nil {
		r.metrics.DispatchesFailed.Add(1)
		r.writeError(w, err, &out)
		return nil
	}

	if out.Artifact != nil {
		r.metrics.Exports.Add(1)
		if req.URL.Query().Get("format") != "json" {
			w.Header().Set("Content-Type", out.Artifact.MediaType)
			w.Header().Set("Content-Disposition", `attachment; filename="`+out.Artifact.FileName+`"`)
			w.Header().Set("Content-Length", strconv.Itoa(len(out.Artifact.Data)))
			w.WriteHeader(http.StatusOK)
			_, err := w.Write(out.Artifact.Data)
			return err
		}
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}
