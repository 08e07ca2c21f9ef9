package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// MarshalProject converts a project to indented JSON bytes.
func MarshalProject(p *Project) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeProjectTo(p, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteProjectFile writes a project to a JSON file.
// The file is created with 0644 permissions.
func WriteProjectFile(p *Project, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeProjectTo(p, f)
}

// WriteProject writes a project as JSON to an io.Writer.
func WriteProject(p *Project, w io.Writer) error {
	return writeProjectTo(p, w)
}

// ReadProjectFile reads a JSON file and returns the decoded project.
func ReadProjectFile(path string) (*Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readProjectFrom(f)
}

// ReadProject decodes a JSON project from an io.Reader.
func ReadProject(r io.Reader) (*Project, error) {
	return readProjectFrom(r)
}

func writeProjectTo(p *Project, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readProjectFrom(r io.Reader) (*Project, error) {
	var p Project
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if p.ForeignKeys == nil {
		p.ForeignKeys = map[string]ForeignKey{}
	}
	return &p, nil
}
