package store

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/ppiankov/credence/internal/model"
	"gopkg.in/yaml.v3"
)

// IngestFile is the YAML handoff format from the extraction pipeline:
// facts with initial values, quoted evidence, and declared dependency
// edges where derivation formulas apply.
type IngestFile struct {
	Facts []IngestFact `yaml:"facts"`
}

// IngestFact is one extracted claim as produced upstream
type IngestFact struct {
	ID         string            `yaml:"id"`
	Domain     model.Domain      `yaml:"domain"`
	Category   string            `yaml:"category"`
	Item       string            `yaml:"item"`
	Value      model.Value       `yaml:"value"`
	Evidence   []IngestEvidence  `yaml:"evidence,omitempty"`
	DependsOn  []string          `yaml:"depends_on,omitempty"`
	Derivation *model.Derivation `yaml:"derivation,omitempty"`
	References []model.EntityRef `yaml:"references,omitempty"`
}

// IngestEvidence is one quoted span from a source document
type IngestEvidence struct {
	Quote  string `yaml:"quote"`
	Source string `yaml:"source"`
}

// ReadIngestFile parses an extraction handoff file
func ReadIngestFile(path string) (*IngestFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read facts file: %w", err)
	}
	var file IngestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse facts file: %w", err)
	}
	for i, f := range file.Facts {
		if f.ID == "" {
			return nil, fmt.Errorf("fact %d has no id", i)
		}
		if f.Derivation != nil && len(f.DependsOn) == 0 {
			return nil, fmt.Errorf("fact %s declares a derivation but no depends_on edges", f.ID)
		}
	}
	return &file, nil
}

// ToFacts converts the handoff records into engine-owned facts. Dependents
// lists are denormalized from the DependsOn edges of the whole set.
func (f *IngestFile) ToFacts() []model.Fact {
	dependents := make(map[string][]string)
	for _, in := range f.Facts {
		for _, dep := range in.DependsOn {
			dependents[dep] = append(dependents[dep], in.ID)
		}
	}

	out := make([]model.Fact, 0, len(f.Facts))
	for _, in := range f.Facts {
		fact := model.Fact{
			ID:         in.ID,
			Domain:     in.Domain,
			Category:   in.Category,
			Item:       in.Item,
			Value:      in.Value,
			Status:     model.StatusExtracted,
			DependsOn:  in.DependsOn,
			Dependents: dependents[in.ID],
			Derivation: in.Derivation,
			References: in.References,
			Version:    1,
		}
		for _, ev := range in.Evidence {
			fact.Evidence = append(fact.Evidence, model.Evidence{
				ID:     uuid.NewString(),
				Quote:  ev.Quote,
				Source: ev.Source,
			})
		}
		out = append(out, fact)
	}
	return out
}
