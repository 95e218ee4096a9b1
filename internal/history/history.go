package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"MarketPulse/internal/model"
)

// Manager persists the previous run summary so consecutive reports can
// show a run-over-run comparison. It lives outside the rule engine: the
// engine stays stateless and idempotent, the comparison is a report
// concern.
type Manager struct {
	mu       sync.Mutex
	last     *model.RunSummary
	filePath string
}

// NewManager creates a Manager, loading the previous summary from disk if
// one exists.
func NewManager(filePath string) (*Manager, error) {
	last, err := loadSummary(filePath)
	if err != nil {
		return nil, err
	}
	return &Manager{last: last, filePath: filePath}, nil
}

// Previous returns a copy of the last recorded run summary, or nil when
// no prior run exists.
func (m *Manager) Previous() *model.RunSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		return nil
	}
	cp := *m.last
	return &cp
}

// Record stores the summary of the run that just completed.
func (m *Manager) Record(summary model.RunSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = &summary
	return saveSummary(m.filePath, summary)
}

// loadSummary reads the summary file. A missing file is a fresh start,
// not an error.
func loadSummary(filePath string) (*model.RunSummary, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var summary model.RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func saveSummary(filePath string, summary model.RunSummary) error {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
