package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	ErrRulesNotFound = errors.New("rules not found")
)

// Manager loads rules variants from a directory of JSON files and caches
// them. Variants are addressed by filename without the .json extension.
type Manager struct {
	rulesDir     string
	defaultRules *Rules
	rules        map[string]*Rules
	mu           sync.RWMutex
}

// NewManager creates a manager over rulesDir. The directory must exist; the
// default variant is classic.json when present, otherwise the first valid
// file, otherwise the built-in classic rules.
func NewManager(rulesDir string) (*Manager, error) {
	if _, err := os.Stat(rulesDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("rules directory does not exist: %s", rulesDir)
	}

	m := &Manager{
		rulesDir: rulesDir,
		rules:    make(map[string]*Rules),
	}

	if err := m.loadDefaultRules(); err != nil {
		return nil, fmt.Errorf("failed to load default rules: %w", err)
	}

	return m, nil
}

// Load returns the named variant, reading and validating it on first use.
func (m *Manager) Load(name string) (*Rules, error) {
	name = strings.TrimSuffix(name, ".json")

	m.mu.RLock()
	if r, exists := m.rules[name]; exists {
		m.mu.RUnlock()
		return r, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring the write lock.
	if r, exists := m.rules[name]; exists {
		return r, nil
	}

	path := filepath.Join(m.rulesDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrRulesNotFound
		}
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var r Rules
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	m.rules[name] = &r
	return &r, nil
}

// List returns information about every valid rules file in the directory.
// Files that fail to parse or validate are skipped.
func (m *Manager) List() ([]*RulesInfo, error) {
	entries, err := os.ReadDir(m.rulesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules directory: %w", err)
	}

	var infos []*RulesInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")
		r, err := m.Load(name)
		if err != nil {
			continue
		}

		infos = append(infos, &RulesInfo{
			Filename:    entry.Name(),
			RulesID:     name,
			Name:        r.Name,
			Description: r.Description,
			BoardSize:   r.BoardSize,
			DiceFaces:   r.DiceFaces,
			MaxPlayers:  r.MaxPlayers,
		})
	}

	return infos, nil
}

// GetDefault returns the default variant.
func (m *Manager) GetDefault() *Rules {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultRules
}

// SetDefault switches the default variant by name.
func (m *Manager) SetDefault(name string) error {
	r, err := m.Load(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultRules = r
	return nil
}

// Save validates and writes a variant to disk, updating the cache.
func (m *Manager) Save(name string, r *Rules) error {
	if err := r.Validate(); err != nil {
		return err
	}

	name = strings.TrimSuffix(name, ".json")
	path := filepath.Join(m.rulesDir, name+".json")

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write rules file: %w", err)
	}

	m.mu.Lock()
	m.rules[name] = r
	m.mu.Unlock()

	return nil
}

// RefreshCache drops every cached variant and reloads the default.
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.rules = make(map[string]*Rules)
	m.mu.Unlock()

	return m.loadDefaultRules()
}

func (m *Manager) loadDefaultRules() error {
	r, err := m.Load("classic")
	if err != nil {
		infos, listErr := m.List()
		if listErr != nil || len(infos) == 0 {
			m.mu.Lock()
			m.defaultRules = DefaultRules()
			m.mu.Unlock()
			return nil
		}

		r, err = m.Load(infos[0].RulesID)
		if err != nil {
			m.mu.Lock()
			m.defaultRules = DefaultRules()
			m.mu.Unlock()
			return nil
		}
	}

	m.mu.Lock()
	m.defaultRules = r
	m.mu.Unlock()
	return nil
}
