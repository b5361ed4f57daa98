package stream

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/livelayout/pkg/errors"
	"github.com/matzehuels/livelayout/pkg/layout"
	"github.com/matzehuels/livelayout/pkg/scheduler"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// AnimationRequest is the body of POST /animation.
type AnimationRequest struct {
	Enabled bool `json:"enabled"`
}

// LayoutRequest is the body of POST /layout. Zero numeric fields take the
// defaults of layout.DefaultParams.
type LayoutRequest struct {
	Strategy string  `json:"strategy"`
	Radius   float64 `json:"radius,omitempty"`
	Spacing  float64 `json:"spacing,omitempty"`
	Columns  int     `json:"columns,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Seed     int64   `json:"seed,omitempty"`
	Center   *Point  `json:"center,omitempty"`
}

func (r LayoutRequest) params() layout.Params {
	p := layout.DefaultParams()
	if r.Radius != 0 {
		p.Radius = r.Radius
	}
	if r.Spacing != 0 {
		p.Spacing = r.Spacing
	}
	if r.Columns != 0 {
		p.Columns = r.Columns
	}
	if r.Width != 0 {
		p.Width = r.Width
	}
	if r.Height != 0 {
		p.Height = r.Height
	}
	if r.Seed != 0 {
		p.Seed = r.Seed
	}
	if r.Center != nil {
		p.Center = r.Center.Vec()
	}
	return p
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

// NewRouter returns the HTTP API for sched:
//
//	GET  /positions   active coordinates
//	POST /positions   move nodes of the graph (a user drag)
//	POST /layout      apply a placement strategy
//	POST /animation   start or stop the animation
//	GET  /stats       scheduler counters
//	GET  /ws          websocket change stream (when hub is not nil)
func NewRouter(sched *scheduler.Scheduler, hub *Hub, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	a := &api{sched: sched, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(a.logRequests)

	r.Get("/positions", a.getPositions)
	r.Post("/positions", a.postPositions)
	r.Post("/layout", a.postLayout)
	r.Post("/animation", a.postAnimation)
	r.Get("/stats", a.getStats)
	if hub != nil {
		r.Get("/ws", hub.ServeHTTP)
	}
	return r
}

type api struct {
	sched  *scheduler.Scheduler
	logger *log.Logger
}

func (a *api) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		a.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"id", middleware.GetReqID(r.Context()))
	})
}

func (a *api) getPositions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, EncodePositions(a.sched.Store().ActiveCopy()))
}

func (a *api) postPositions(w http.ResponseWriter, r *http.Request) {
	var body map[string]Point
	if err := decodeBody(w, r, &body); err != nil {
		a.writeError(w, err)
		return
	}
	known := make(map[string]bool)
	if g := a.sched.Graph(); g != nil {
		for _, id := range g.Nodes() {
			known[id] = true
		}
	}
	for id := range body {
		if err := errors.ValidateNodeID(id); err != nil {
			a.writeError(w, err)
			return
		}
		if !known[id] {
			a.writeError(w, errors.New(errors.ErrCodeNotFound, "node %q is not in the graph", id))
			return
		}
	}
	a.sched.RequestLocations(DecodePositions(body))
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) postLayout(w http.ResponseWriter, r *http.Request) {
	var body LayoutRequest
	if err := decodeBody(w, r, &body); err != nil {
		a.writeError(w, err)
		return
	}
	strategy, err := layout.LookupStrategy(body.Strategy)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if err := a.sched.ApplyLayout(strategy, body.params()); err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.sched.Stats())
}

func (a *api) postAnimation(w http.ResponseWriter, r *http.Request) {
	var body AnimationRequest
	if err := decodeBody(w, r, &body); err != nil {
		a.writeError(w, err)
		return
	}
	a.sched.SetAnimating(body.Enabled)
	writeJSON(w, http.StatusOK, a.sched.Stats())
}

func (a *api) getStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.sched.Stats())
}

// =============================================================================
// Helpers
// =============================================================================

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func (a *api) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusBadRequest
	switch code {
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case "", errors.ErrCodeInternal, errors.ErrCodeInconsistentState:
		status = http.StatusInternalServerError
		a.logger.Error("request failed", "error", err)
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, ErrorResponse{Code: code, Error: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
