// Package levels loads the read-only levels dataset: the ordered list of
// candidate teams for each bracket category.
package levels

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Dataset maps a category to its candidate team names, in display order.
type Dataset map[string][]string

// Teams returns a copy of the candidates for category.
func (d Dataset) Teams(category string) []string {
	return slices.Clone(d[category])
}

// Categories returns the category names sorted.
func (d Dataset) Categories() []string {
	out := make([]string, 0, len(d))
	for c := range d {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// Load reads a dataset from path. Files ending in .yaml or .yml are parsed
// as YAML, anything else as JSON.
func Load(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading levels: %w", err)
	}
	d, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return d, nil
}

// Parse decodes data according to the file extension ext.
func Parse(data []byte, ext string) (Dataset, error) {
	var d Dataset
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, err
		}
	}
	if d == nil {
		d = Dataset{}
	}
	return d, nil
}
