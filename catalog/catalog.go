// Package catalog holds the read-only topic descriptions shipped with the
// dashboard.
package catalog

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed topics.yaml
var defaultTopics []byte

// Catalog maps topic identifiers to descriptions. The zero value is empty.
// A Catalog is never mutated after it is built.
type Catalog struct {
	descriptions map[string]string
}

type document struct {
	Topics map[string]string `yaml:"topics"`
}

// Default returns the embedded catalogue.
func Default() *Catalog {
	c, err := Parse(defaultTopics)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded topics.yaml: %v", err))
	}
	return c
}

// Parse builds a catalogue from YAML of the form `topics: {id: description}`.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}
	c := &Catalog{descriptions: make(map[string]string, len(doc.Topics))}
	for id, desc := range doc.Topics {
		c.descriptions[id] = desc
	}
	return c, nil
}

// Load reads a catalogue from r.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("catalog: read: %w", err)
	}
	return Parse(data)
}

// LoadFile reads a catalogue from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %q: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Describe returns the description for id, falling back to the negative-topic
// key "neg_<id>" and then to "".
func (c *Catalog) Describe(id string) string {
	if c == nil {
		return ""
	}
	if d, ok := c.descriptions[id]; ok {
		return d
	}
	return c.descriptions["neg_"+id]
}

// Label is the short display name of a topic.
func (c *Catalog) Label(id string) string {
	return "Tópico " + id
}

// Len returns the number of described topics.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.descriptions)
}
