package artifacts

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Ref names one artifact and where to read it from.
type Ref struct {
	Name     string `yaml:"name"`
	Location string `yaml:"location"`
}

// Manifest lists the vectorizer and the classifiers to load. Classifier order
// is the order of the output slots.
type Manifest struct {
	Vectorizer  Ref   `yaml:"vectorizer"`
	Classifiers []Ref `yaml:"classifiers"`
}

func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model manifest: %w", err)
	}
	return ParseManifest(data)
}

func ParseManifest(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse model manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) Validate() error {
	if m.Vectorizer.Location == "" {
		return errors.New("model manifest: vectorizer location is required")
	}
	if len(m.Classifiers) == 0 {
		return errors.New("model manifest: at least one classifier is required")
	}

	seen := make(map[string]bool, len(m.Classifiers))
	for i, c := range m.Classifiers {
		if c.Name == "" {
			return fmt.Errorf("model manifest: classifier %d has no name", i)
		}
		if c.Location == "" {
			return fmt.Errorf("model manifest: classifier %q has no location", c.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("model manifest: classifier name %q is used twice", c.Name)
		}
		seen[c.Name] = true
	}

	for _, ref := range m.refs() {
		if _, err := ParseLocation(ref.Location); err != nil {
			return fmt.Errorf("model manifest: %w", err)
		}
	}
	return nil
}

func (m *Manifest) refs() []Ref {
	return append([]Ref{m.Vectorizer}, m.Classifiers...)
}

// Schemes reports which location schemes the manifest uses so only the
// needed sources get connected.
func (m *Manifest) Schemes() map[string]bool {
	schemes := make(map[string]bool)
	for _, ref := range m.refs() {
		if loc, err := ParseLocation(ref.Location); err == nil {
			schemes[loc.Scheme] = true
		}
	}
	return schemes
}
