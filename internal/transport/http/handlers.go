package httptransport

import (
	"errors"
	"net/http"

	"coal-bot/internal/levels"
	"coal-bot/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const accountEntries = 10

type Handlers struct {
	store store.Ledger
}

func NewHandlers(st store.Ledger) *Handlers {
	return &Handlers{store: st}
}

func (h *Handlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.store.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			writeJSON(w, map[string]any{"ok": false, "store": "down"})
			return
		}
		writeJSON(w, map[string]any{"ok": true})
	}
}

func (h *Handlers) Leaderboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricLeaderboardQueries.Add(1)
		metric, err := store.ParseMetric(r.URL.Query().Get("metric"))
		if err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_metric")
			return
		}
		limit := ParseLimit(r)
		items, err := h.store.TopN(r.Context(), metric, limit)
		if err != nil {
			h.internal(w, r, err)
			return
		}
		if items == nil {
			items = []store.Standing{}
		}
		writeJSON(w, map[string]any{"metric": metric, "limit": limit, "items": items})
	}
}

type accountResponse struct {
	store.Account
	Level   int           `json:"level"`
	LevelXP int64         `json:"level_xp"`
	NextXP  int64         `json:"next_level_xp"`
	Entries []store.Entry `json:"recent_entries"`
}

func (h *Handlers) Account() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricAccountQueries.Add(1)
		id := chi.URLParam(r, "user_id")
		a, err := h.store.Get(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			WriteHTTPError(w, http.StatusNotFound, "not_found")
			return
		}
		if err != nil {
			h.internal(w, r, err)
			return
		}
		entries, err := h.store.Entries(r.Context(), id, accountEntries)
		if err != nil {
			h.internal(w, r, err)
			return
		}
		if entries == nil {
			entries = []store.Entry{}
		}
		p := levels.FromExperience(a.Experience)
		writeJSON(w, accountResponse{Account: a, Level: p.Level, LevelXP: p.Into, NextXP: p.Needed, Entries: entries})
	}
}

// Graveyard lists the most recent deaths, newest first.
func (h *Handlers) Graveyard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricGraveyardQueries.Add(1)
		limit := ParseLimit(r)
		all, err := h.store.AllDeaths(r.Context())
		if err != nil {
			h.internal(w, r, err)
			return
		}
		items := make([]store.Death, 0, limit)
		for i := len(all) - 1; i >= 0 && len(items) < limit; i-- {
			items = append(items, all[i])
		}
		writeJSON(w, map[string]any{"total": len(all), "limit": limit, "items": items})
	}
}

func (h *Handlers) internal(w http.ResponseWriter, r *http.Request, err error) {
	metricHTTPErrors.Add(1)
	log.Error().Err(err).Str("path", r.URL.Path).Msg("http handler failed")
	status := http.StatusInternalServerError
	if errors.Is(err, store.ErrUnavailable) || errors.Is(err, store.ErrTimeout) {
		status = http.StatusServiceUnavailable
	}
	WriteHTTPError(w, status, "internal_error")
}
