// Package dummy runs a local stand-in for the voting platform so the
// harness can exercise its real network mode without a deployment.
package dummy

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

type ServerConfig struct {
	Port        int
	FailureRate float64 // fraction of vote submissions answered with a 500
}

type tally struct {
	mu     sync.Mutex
	counts map[string]int
}

// Handler builds the platform stand-in: a jittered metrics endpoint, a
// vote-submission endpoint with configurable failures, and a results read
// endpoint backed by the accumulated tally.
func Handler(cfg ServerConfig) http.Handler {
	t := &tally{counts: make(map[string]int)}
	mux := http.NewServeMux()

	// Read endpoint, 10-50ms
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		jitter := time.Duration(rand.Intn(40)+10) * time.Millisecond
		time.Sleep(jitter)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "station_up 1\nqueue_depth %d\n", rand.Intn(20))
	})

	// Vote submission, 20-80ms
	mux.HandleFunc("/votes", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		jitter := time.Duration(rand.Intn(60)+20) * time.Millisecond
		time.Sleep(jitter)

		if rand.Float64() < cfg.FailureRate {
			http.Error(w, "vote rejected", http.StatusInternalServerError)
			return
		}

		var vote struct {
			Candidate string `json:"candidate_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&vote); err != nil {
			http.Error(w, "bad vote payload", http.StatusBadRequest)
			return
		}

		t.mu.Lock()
		t.counts[vote.Candidate]++
		t.mu.Unlock()

		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"status":"ok"}`)
	})

	mux.HandleFunc("/results", func(w http.ResponseWriter, r *http.Request) {
		t.mu.Lock()
		defer t.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(t.counts)
	})

	return mux
}

func Start(cfg ServerConfig) error {
	addr := fmt.Sprintf(":%d", cfg.Port)
	return http.ListenAndServe(addr, Handler(cfg))
}
