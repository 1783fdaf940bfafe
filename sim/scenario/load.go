package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Extensions lists the file suffixes Load understands, in lookup order.
var Extensions = []string{".yaml", ".yml", ".json", ".hcl"}

// Load reads a scenario file, choosing the decoder by extension.
// vars supplies var.* values for HCL files and is ignored otherwise.
func Load(path string, vars map[string]string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return DecodeHCL(data, path, vars)
	case ".yaml", ".yml", ".json":
		return Decode(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("scenario %s: unsupported extension (want one of %s)", path, strings.Join(Extensions, ", "))
	}
}

// Decode parses a YAML or JSON scenario.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func Decode(r io.Reader) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing scenario: empty document")
		}
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &cfg, nil
}

// Find returns the first existing <dir>/<id><ext> for the known extensions.
func Find(dir, id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid scenario id %q", id)
	}
	for _, ext := range Extensions {
		path := filepath.Join(dir, id+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("scenario %q: %w", id, os.ErrNotExist)
}
