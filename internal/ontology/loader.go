package ontology

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk ontology document. JSON documents are accepted too,
// since JSON is a subset of YAML.
type File struct {
	Version string     `yaml:"version" json:"version"`
	Tasks   []TaskNode `yaml:"tasks" json:"tasks"`
}

// LoadFile reads and parses the ontology definition at path.
//
// The loader is deterministic:
//   - Disallows unknown fields (to avoid silent divergence).
//   - Rejects a second document in the same file.
//   - Does not consult environment variables.
func LoadFile(path string) (*Ontology, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ontology: %w", err)
	}
	return Parse(b)
}

// Parse decodes an ontology document and builds the Ontology.
func Parse(b []byte) (*Ontology, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse ontology: empty document")
		}
		return nil, fmt.Errorf("parse ontology: %w", err)
	}
	var trailing any
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, fmt.Errorf("parse ontology: trailing document")
		}
		return nil, fmt.Errorf("parse ontology: %w", err)
	}
	if len(f.Tasks) == 0 {
		return nil, fmt.Errorf("parse ontology: no tasks")
	}
	return New(f.Version, f.Tasks)
}

// Document returns the ontology as a File, suitable for yaml.Marshal.
func (o *Ontology) Document() File {
	return File{Version: o.version, Tasks: o.Nodes()}
}
