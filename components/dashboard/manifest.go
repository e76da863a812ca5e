package dashboard

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// ChartManifestDocument models a YAML/JSON manifest describing chart descriptors.
type ChartManifestDocument struct {
	Version string            `json:"version" yaml:"version"`
	Name    string            `json:"name,omitempty" yaml:"name,omitempty"`
	Charts  []ChartDescriptor `json:"charts" yaml:"charts"`
	Source  string            `json:"-" yaml:"-"`
}

// LoadManifestFile reads a manifest from disk, registers it against the registry, and returns the document.
func (r *Registry) LoadManifestFile(path string) (*ChartManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument registers the descriptors of a decoded manifest.
func (r *Registry) LoadManifestDocument(doc *ChartManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("dashboard: manifest document is nil")
	}
	for _, chart := range doc.Charts {
		if err := r.Register(chart); err != nil {
			return fmt.Errorf("dashboard: register chart %s from %s: %w", chart.ID, doc.Source, err)
		}
	}
	return r.Validate()
}

// ReadManifest loads a manifest file from disk without registering it.
func ReadManifest(path string) (*ChartManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("dashboard: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("dashboard: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*ChartManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc ChartManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("dashboard: manifest is empty")
		}
		return nil, fmt.Errorf("dashboard: parse manifest: %w", err)
	}
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *ChartManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("dashboard: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Charts))
	for idx, chart := range doc.Charts {
		if chart.ID == "" {
			return fmt.Errorf("dashboard: manifest chart at index %d is missing id", idx)
		}
		id := normalizeChartID(chart.ID)
		if _, exists := seen[id]; exists {
			return fmt.Errorf("dashboard: manifest duplicates chart id %s", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// EncodeManifest writes doc as YAML.
func EncodeManifest(w io.Writer, doc *ChartManifestDocument) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("dashboard: write manifest: %w", err)
	}
	return nil
}
