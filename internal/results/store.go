// Package results keeps the candidate list of the last successful submission.
package results

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/spigell/resume-screener/internal/screener"
)

// Store holds at most one ranked candidate list. Setting a new list replaces
// the old one wholesale; readers always get copies.
type Store struct {
	mu         sync.RWMutex
	candidates []screener.Candidate
	loaded     bool
}

func New() *Store {
	return &Store{}
}

// Set replaces the stored list with the candidates of ranking.
func (s *Store) Set(ranking *screener.Ranking) {
	var candidates []screener.Candidate
	if ranking != nil {
		candidates = cloneCandidates(ranking.Candidates)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.candidates = candidates
	s.loaded = true
}

// Get returns a copy of the stored candidates in service order.
func (s *Store) Get() []screener.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneCandidates(s.candidates)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.candidates)
}

// Loaded reports whether any submission has completed successfully yet.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loaded
}

// DumpToTmpFile writes the stored candidates as JSON to a new temporary file
// and returns its name.
func (s *Store) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "candidates_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(screener.Ranking{Candidates: s.Get()}); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func cloneCandidates(src []screener.Candidate) []screener.Candidate {
	dst := make([]screener.Candidate, len(src))
	copy(dst, src)
	for i := range dst {
		if src[i].Details.Skills != nil {
			dst[i].Details.Skills = append([]string(nil), src[i].Details.Skills...)
		}
	}
	return dst
}
