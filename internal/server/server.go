// Package server exposes the inference engine over HTTP: crisp compute
// requests, variable and rule metadata for visualization clients, the
// decision history, host status, and a websocket stream of live demo
// simulation ticks.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Dicklesworthstone/irrigo/internal/fuzzy"
	"github.com/Dicklesworthstone/irrigo/internal/history"
	"github.com/Dicklesworthstone/irrigo/internal/irrigation"
)

// EngineSource yields the current engine. A hot-reloading source may return
// a different (immutable) engine between calls; in-flight requests keep the
// one they grabbed.
type EngineSource interface {
	Engine() *fuzzy.Engine
}

// StaticEngine adapts a fixed engine to EngineSource.
type StaticEngine struct{ E *fuzzy.Engine }

// Engine returns the wrapped engine.
func (s StaticEngine) Engine() *fuzzy.Engine { return s.E }

// Server is the HTTP surface. Store is optional; without it history routes
// report empty results and compute requests are not recorded.
type Server struct {
	source  EngineSource
	store   *history.Store
	log     *slog.Logger
	started time.Time
}

// New assembles a server.
func New(source EngineSource, store *history.Store, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		source:  source,
		store:   store,
		log:     log,
		started: time.Now(),
	}
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealthz)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/compute", s.handleCompute)
		r.Get("/variables", s.handleVariables)
		r.Get("/rules", s.handleRules)
		r.Get("/history", s.handleHistory)
		r.Get("/history/stats", s.handleHistoryStats)
		r.Get("/status", s.handleStatus)
		r.Get("/ws/simulate", s.handleSimulateWS)
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type computeRequest struct {
	Inputs map[string]float64 `json:"inputs"`
}

type computeResponse struct {
	Outputs   map[string]float64 `json:"outputs"`
	Defaulted []string           `json:"defaulted,omitempty"`
	Fired     []firedRule        `json:"fired,omitempty"`
}

type firedRule struct {
	Label    string  `json:"label,omitempty"`
	Rule     string  `json:"rule"`
	Strength float64 `json:"strength"`
}

func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	var req computeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	engine := s.source.Engine()
	sim := fuzzy.NewSimulation(engine)
	for name, v := range req.Inputs {
		if err := sim.SetInput(name, v); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	resp := computeResponse{Outputs: make(map[string]float64)}
	if err := sim.Compute(); err != nil {
		var ce *fuzzy.ComputationError
		if !errors.As(err, &ce) {
			// Missing inputs and similar per-call problems.
			writeError(w, http.StatusBadRequest, err)
			return
		}
		resp.Defaulted = ce.Variables
	}

	for _, name := range engine.Outputs() {
		v, err := sim.Output(name)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		resp.Outputs[name] = v
	}
	fired, err := sim.Fired()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	for _, f := range fired {
		resp.Fired = append(resp.Fired, firedRule{
			Label:    f.Rule.Label,
			Rule:     f.Rule.String(),
			Strength: f.Strength,
		})
	}

	s.recordIfIrrigation(req.Inputs, resp)
	writeJSON(w, http.StatusOK, resp)
}

// recordIfIrrigation logs the decision when the engine speaks the irrigation
// variable contract and a store is configured.
func (s *Server) recordIfIrrigation(inputs map[string]float64, resp computeResponse) {
	if s.store == nil {
		return
	}
	minutes, ok := resp.Outputs[irrigation.VarWateringMinutes]
	if !ok {
		return
	}
	soil, okS := inputs[irrigation.VarSoilMoisture]
	temp, okT := inputs[irrigation.VarTemperature]
	hum, okH := inputs[irrigation.VarAirHumidity]
	if !okS || !okT || !okH {
		return
	}
	defaulted := false
	for _, name := range resp.Defaulted {
		if name == irrigation.VarWateringMinutes {
			defaulted = true
		}
	}
	if _, err := s.store.Record(history.Entry{
		SoilMoisture: soil,
		Temperature:  temp,
		AirHumidity:  hum,
		Minutes:      minutes,
		Defaulted:    defaulted,
		Source:       "api",
	}); err != nil {
		s.log.Warn("recording decision failed", "error", err)
	}
}

type variableInfo struct {
	Name  string     `json:"name"`
	Role  string     `json:"role"`
	Min   float64    `json:"min"`
	Max   float64    `json:"max"`
	Step  float64    `json:"step"`
	Terms []termInfo `json:"terms"`
}

type termInfo struct {
	Name   string    `json:"name"`
	Shape  string    `json:"shape"`
	Points []float64 `json:"points"`
}

func (s *Server) handleVariables(w http.ResponseWriter, _ *http.Request) {
	engine := s.source.Engine()

	var out []variableInfo
	appendVars := func(names []string, role string, lookup func(string) (*fuzzy.Variable, bool)) {
		for _, name := range names {
			v, _ := lookup(name)
			u := v.Universe()
			info := variableInfo{
				Name: name, Role: role,
				Min: u.Min(), Max: u.Max(), Step: u.Step(),
			}
			for _, term := range v.Terms() {
				m, _ := v.Term(term)
				a, b, c, d := m.Breakpoints()
				ti := termInfo{Name: term, Shape: "trapezoid", Points: []float64{a, b, c, d}}
				if m.IsTriangle() {
					ti.Shape = "triangle"
					ti.Points = []float64{a, b, d}
				}
				info.Terms = append(info.Terms, ti)
			}
			out = append(out, info)
		}
	}
	appendVars(engine.Inputs(), "input", engine.InputVariable)
	appendVars(engine.Outputs(), "output", engine.OutputVariable)

	writeJSON(w, http.StatusOK, out)
}

type ruleInfo struct {
	Label string `json:"label,omitempty"`
	Rule  string `json:"rule"`
}

func (s *Server) handleRules(w http.ResponseWriter, _ *http.Request) {
	var out []ruleInfo
	for _, r := range s.source.Engine().Rules() {
		out = append(out, ruleInfo{Label: r.Label, Rule: r.String()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, []history.Entry{})
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, errors.New("limit must be a positive integer"))
			return
		}
		limit = n
	}
	entries, err := s.store.Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleHistoryStats(w http.ResponseWriter, _ *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, history.Stats{})
		return
	}
	st, err := s.store.Stats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
