package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Dicklesworthstone/irrigo/internal/irrigation"
	"github.com/Dicklesworthstone/irrigo/internal/simenv"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The stream is read-only demo data; cross-origin dashboards may attach.
	CheckOrigin: func(*http.Request) bool { return true },
}

// simTick is one frame of the simulation stream.
type simTick struct {
	Hour      int                `json:"hour"`
	Reading   irrigation.Reading `json:"reading"`
	Minutes   float64            `json:"minutes"`
	Defaulted bool               `json:"defaulted,omitempty"`
}

const (
	defaultSimSteps  = 24
	maxSimSteps      = 1000
	defaultSimMillis = 500
	wsWriteTimeout   = 10 * time.Second
)

// handleSimulateWS streams a synthetic sensor run through the engine. Query
// params: steps (default 24, capped), seed (default 1), interval_ms (default
// 500). The connection closes after the last tick.
func (s *Server) handleSimulateWS(w http.ResponseWriter, r *http.Request) {
	steps := defaultSimSteps
	if v := r.URL.Query().Get("steps"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "steps must be a positive integer", http.StatusBadRequest)
			return
		}
		steps = min(n, maxSimSteps)
	}
	seed := int64(1)
	if v := r.URL.Query().Get("seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "seed must be an integer", http.StatusBadRequest)
			return
		}
		seed = n
	}
	interval := time.Duration(defaultSimMillis) * time.Millisecond
	if v := r.URL.Query().Get("interval_ms"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "interval_ms must be a non-negative integer", http.StatusBadRequest)
			return
		}
		interval = time.Duration(n) * time.Millisecond
	}

	controller, err := irrigation.New(s.source.Engine())
	if err != nil {
		// Engine does not speak the irrigation contract; the stream only
		// makes sense for the irrigation rule base.
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// Drain client frames so close handshakes are noticed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	stepper := simenv.New(simenv.DefaultStart(), seed)
	for i := 0; i < steps; i++ {
		reading := stepper.Step()
		decision, err := controller.Recommend(reading)
		if err != nil {
			s.log.Error("simulation compute failed", "error", err)
			return
		}
		stepper.ApplyWatering(decision.Minutes)

		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(simTick{
			Hour:      stepper.Hour(),
			Reading:   reading,
			Minutes:   decision.Minutes,
			Defaulted: decision.Defaulted,
		}); err != nil {
			return
		}

		if i == steps-1 {
			break
		}
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case <-time.After(interval):
		}
	}

	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "simulation complete"))
}
