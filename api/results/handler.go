// Package results exposes the benchmark run history over HTTP.
package results

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kilianp07/fcbench/auth"
	coreresults "github.com/kilianp07/fcbench/core/results"
	"github.com/kilianp07/fcbench/infra/leaderboard"
)

// Standings lists the leaderboard of a task for one scorer.
type Standings interface {
	Standings(ctx context.Context, taskID, scorer string) ([]leaderboard.Entry, error)
}

// NewRunsHandler returns an HTTP handler exposing stored runs via
// GET /api/results. Supported query parameters are run, task, model, start
// and end (RFC3339). Requests must carry "Bearer <token>" when token is
// non-empty.
func NewRunsHandler(store coreresults.Store, token string) http.Handler {
	return auth.RequireBearer(token, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		v := r.URL.Query()
		q := coreresults.Query{
			RunID:       v.Get("run"),
			TaskID:      v.Get("task"),
			EstimatorID: v.Get("model"),
		}
		var err error
		if q.Start, err = parseTime(v.Get("start")); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if q.End, err = parseTime(v.Get("end")); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []coreresults.RunRecord{}
		}
		writeJSON(w, records)
	}))
}

// NewLeaderboardHandler returns an HTTP handler exposing standings via
// GET /api/leaderboard?scorer=<name>[&task=<id>].
func NewLeaderboardHandler(board Standings, token string) http.Handler {
	return auth.RequireBearer(token, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		scorer := r.URL.Query().Get("scorer")
		if scorer == "" {
			http.Error(w, "scorer is required", http.StatusBadRequest)
			return
		}
		entries, err := board.Standings(r.Context(), r.URL.Query().Get("task"), scorer)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if entries == nil {
			entries = []leaderboard.Entry{}
		}
		writeJSON(w, entries)
	}))
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q", s)
	}
	return t, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
