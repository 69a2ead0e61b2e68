package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ppiankov/credence/internal/model"
)

// State is the serialized form of a store, used by the CLI to carry the
// fact set, flags, and audit history between invocations.
type State struct {
	Facts   []model.Fact             `json:"facts"`
	Flags   []model.Flag             `json:"flags,omitempty"`
	Records []model.CorrectionRecord `json:"records,omitempty"`
}

// Export snapshots the store into a serializable state
func (s *MemStore) Export() State {
	return State{
		Facts:   s.Facts(),
		Flags:   s.Flags(),
		Records: s.FullHistory(),
	}
}

// Restore loads a previously exported state into an empty store
func (s *MemStore) Restore(st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.facts) > 0 {
		return fmt.Errorf("restore into non-empty store")
	}
	for _, f := range st.Facts {
		c := f.Clone()
		s.facts[f.ID] = &c
	}
	for _, fl := range st.Flags {
		c := fl
		s.flags[fl.ID] = &c
	}
	for _, rec := range st.Records {
		s.trail.Append(rec)
	}
	return nil
}

// SaveFile writes the store state as indented JSON
func (s *MemStore) SaveFile(path string) error {
	data, err := json.MarshalIndent(s.Export(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// LoadFile reads a state file into a fresh store
func LoadFile(path string) (*MemStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}
	s := NewMemStore()
	if err := s.Restore(st); err != nil {
		return nil, err
	}
	return s, nil
}
