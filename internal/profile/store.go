package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store persists profiles as JSON files in a directory, one file per
// profile named after it. Saves are whole-file writes; partial-failure
// handling is out of scope.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Load reads the named profile.
func (s *Store) Load(name string) (*Profile, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return nil, fmt.Errorf("load profile %q: %w", name, err)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("load profile %q: %w", name, err)
	}
	return &p, nil
}

// Save writes the profile, creating the directory on first use.
func (s *Store) Save(p *Profile) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("save profile %q: %w", p.Name, err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("save profile %q: %w", p.Name, err)
	}
	if err := os.WriteFile(s.path(p.Name), data, 0644); err != nil {
		return fmt.Errorf("save profile %q: %w", p.Name, err)
	}
	return nil
}

// List returns the available profile names, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}
