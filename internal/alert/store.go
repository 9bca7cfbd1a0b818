package alert

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"PortfolioDesk/internal/logger"
	"PortfolioDesk/internal/model"
)

// Store keeps alert rules keyed by position name in a single JSON blob.
type Store struct {
	mu       sync.Mutex
	rules    map[string]model.AlertRule
	filePath string
	log      *logger.Logger
}

// LoadStore reads the blob at filePath. A missing or corrupt blob is treated
// as an empty mapping.
func LoadStore(filePath string, log *logger.Logger) *Store {
	s := &Store{rules: make(map[string]model.AlertRule), filePath: filePath, log: log}

	data, err := os.ReadFile(filePath)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		log.Warn().Err(err).Str("path", filePath).Msg("read alert rules, starting empty")
	default:
		var rules map[string]model.AlertRule
		if err := json.Unmarshal(data, &rules); err != nil {
			log.Warn().Err(err).Str("path", filePath).Msg("corrupt alert rules, starting empty")
			break
		}
		for name, r := range rules {
			if !r.Empty() {
				s.rules[name] = r
			}
		}
	}
	return s
}

// Get returns the rule stored for name.
func (s *Store) Get(name string) (model.AlertRule, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rules[name]
	return r, ok
}

// All returns a copy of every stored rule.
func (s *Store) All() map[string]model.AlertRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]model.AlertRule, len(s.rules))
	for k, v := range s.rules {
		out[k] = v
	}
	return out
}

// Names returns the names that have a rule, sorted.
func (s *Store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.rules))
	for k := range s.rules {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Save stores rule for name and writes the blob. A rule with no thresholds
// removes the entry instead.
func (s *Store) Save(name string, rule model.AlertRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rule.Empty() {
		delete(s.rules, name)
	} else {
		s.rules[name] = rule
	}
	return s.save()
}

// Delete removes the rule for name and writes the blob.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rules, name)
	return s.save()
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.rules, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal alert rules: %w", err)
	}
	if dir := filepath.Dir(s.filePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create alert dir: %w", err)
		}
	}
	if err := os.WriteFile(s.filePath, data, 0o644); err != nil {
		return fmt.Errorf("write alert rules: %w", err)
	}
	return nil
}
