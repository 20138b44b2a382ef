// Package storage persists summaries of past suite runs under the user's
// home directory.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"votebench/internal/harness"
)

const maxItems = 100

// RunSummary is the per-suite digest kept in history. Raw samples are not
// persisted; they live in the per-run JSON export.
type RunSummary struct {
	Profile              string  `json:"profile"`
	Experiments          int     `json:"experiments"`
	VotesProcessed       uint64  `json:"votes_processed"`
	VotesFailed          uint64  `json:"votes_failed"`
	PeakThroughputPerMin float64 `json:"peak_throughput_per_min"`
	WorstErrorRatePct    float64 `json:"worst_error_rate_pct"`
}

type HistoryItem struct {
	ID        string     `json:"id"`
	Timestamp time.Time  `json:"timestamp"`
	Summary   RunSummary `json:"summary"`
}

// NewRunSummary reduces a finished result set to its history digest.
func NewRunSummary(profile string, results harness.ResultSet) RunSummary {
	s := RunSummary{Profile: profile, Experiments: len(results)}
	for _, rec := range results {
		s.VotesProcessed += rec.VotesProcessed
		s.VotesFailed += rec.VotesFailed
		if rec.ThroughputPerMin > s.PeakThroughputPerMin {
			s.PeakThroughputPerMin = rec.ThroughputPerMin
		}
		if rec.ErrorRatePercent > s.WorstErrorRatePct {
			s.WorstErrorRatePct = rec.ErrorRatePercent
		}
	}
	return s
}

func NewHistoryItem(profile string, results harness.ResultSet) HistoryItem {
	return HistoryItem{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		Summary:   NewRunSummary(profile, results),
	}
}

type Store struct {
	mu       sync.RWMutex
	filePath string
	items    []HistoryItem
}

// NewStore opens the default history file at ~/.votebench/history.json.
func NewStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(home, ".votebench")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	return NewStoreAt(filepath.Join(dir, "history.json")), nil
}

// NewStoreAt opens a history file at an explicit path.
func NewStoreAt(path string) *Store {
	s := &Store{filePath: path}
	s.load()
	return s
}

func (s *Store) load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return // file might not exist yet
	}
	json.Unmarshal(data, &s.items)
}

// Save prepends the item and rewrites the file, keeping the newest
// maxItems entries.
func (s *Store) Save(item HistoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append([]HistoryItem{item}, s.items...)
	if len(s.items) > maxItems {
		s.items = s.items[:maxItems]
	}

	data, err := json.MarshalIndent(s.items, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, data, 0644)
}

func (s *Store) List() []HistoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]HistoryItem, len(s.items))
	copy(res, s.items)
	return res
}

func (s *Store) Get(id string) *HistoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.items {
		if s.items[i].ID == id {
			item := s.items[i]
			return &item
		}
	}
	return nil
}
