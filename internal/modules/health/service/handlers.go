package service

import (
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wunder_bot/internal/models"
	pairssvc "wunder_bot/internal/modules/pairs/service"
	positionsvc "wunder_bot/internal/modules/position/service"
)

type Status struct {
	Running         bool                            `json:"running"`
	StartedAt       time.Time                       `json:"started_at"`
	UptimeSec       int64                           `json:"uptime_sec"`
	LastCycle       *time.Time                      `json:"last_cycle"`
	Cycles          int64                           `json:"cycles"`
	TotalSignals    int64                           `json:"total_signals"`
	StreamConnected bool                            `json:"stream_connected"`
	Positions       map[string]models.PositionState `json:"positions"`
}

// NewMux: read-only диагностика движка.
func NewMux(state *State, gate *positionsvc.Gate, pairs *pairssvc.Provider, gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		// готов после первого завершённого цикла
		if !state.Ready() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"ready":           state.Ready(),
			"streamConnected": state.StreamConnected(),
			"uptimeSec":       int64(state.Uptime().Seconds()),
			"lastCycleUnix": func() int64 {
				t := state.LastCycle()
				if t.IsZero() {
					return 0
				}
				return t.Unix()
			}(),
		})
	})

	// короткий ответ для внешних пингов
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"status": "ok", "running": state.Running()})
	})

	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, buildStatus(state, gate))
	})

	mux.HandleFunc("GET /positions/{key}", func(w http.ResponseWriter, r *http.Request) {
		key, ok := models.ParsePositionKey(r.PathValue("key"))
		if !ok {
			http.Error(w, "key must be symbol@timeframe", http.StatusBadRequest)
			return
		}
		st, ok := gate.Store().Lookup(key)
		if !ok {
			http.Error(w, "unknown position", http.StatusNotFound)
			return
		}
		writeJSON(w, st)
	})

	mux.HandleFunc("/pairs", func(w http.ResponseWriter, r *http.Request) {
		last := pairs.Last()
		if last == nil {
			last = []models.Instrument{}
		}
		writeJSON(w, last)
	})

	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return mux
}

func buildStatus(state *State, gate *positionsvc.Gate) Status {
	st := Status{
		Running:         state.Running(),
		StartedAt:       state.StartedAt(),
		UptimeSec:       int64(state.Uptime().Seconds()),
		Cycles:          state.Cycles(),
		TotalSignals:    gate.TotalEmitted(),
		StreamConnected: state.StreamConnected(),
		Positions:       make(map[string]models.PositionState),
	}
	if t := state.LastCycle(); !t.IsZero() {
		st.LastCycle = &t
	}
	for _, p := range gate.Store().Snapshot() {
		st.Positions[p.Key.String()] = p
	}
	return st
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}
