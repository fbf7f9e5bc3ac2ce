package modelmeta

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/devwithfarshi/ai-playground/internal/generation"
)

// Entry describes one model that callers may request.
type Entry struct {
	Model         string `yaml:"model" json:"model"`
	Provider      string `yaml:"provider,omitempty" json:"provider,omitempty"`
	DisplayName   string `yaml:"display_name,omitempty" json:"display_name,omitempty"`
	ContextTokens int    `yaml:"context_tokens,omitempty" json:"context_tokens,omitempty"`
}

// Catalog holds the supported models with simple lookups. A nil *Catalog
// accepts every model.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]Entry
	order   []string
	source  string
	logger  Logger
}

// Logger is a minimal logging interface.
type Logger interface {
	Printf(format string, args ...any)
}

var _ generation.ModelSet = (*Catalog)(nil)

type fileFormat struct {
	Models []Entry `yaml:"models"`
}

// Defaults are served when no catalog file is configured.
func Defaults() []Entry {
	return []Entry{
		{Model: generation.ModelGPT4, Provider: "openai", DisplayName: "GPT-4", ContextTokens: 8192},
		{Model: generation.ModelGPT35Turbo, Provider: "openai", DisplayName: "GPT-3.5 Turbo", ContextTokens: 16385},
	}
}

// NewCatalog returns a catalog seeded with entries.
func NewCatalog(entries []Entry) *Catalog {
	c := &Catalog{}
	c.apply(entries, "builtin")
	return c
}

// SetLogger sets an optional logger for warnings.
func (c *Catalog) SetLogger(l Logger) {
	c.logger = l
}

// Supported reports whether model may be requested.
func (c *Catalog) Supported(model string) bool {
	if c == nil {
		return true
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[normalize(model)]
	return ok
}

// Lookup returns the entry for model.
func (c *Catalog) Lookup(model string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[normalize(model)]
	return e, ok
}

// Entries returns the catalog in file order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.entries[key])
	}
	return out
}

// IDs returns the sorted model identifiers.
func (c *Catalog) IDs() []string {
	entries := c.Entries()
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.Model)
	}
	sort.Strings(ids)
	return ids
}

// Source names where the entries were loaded from.
func (c *Catalog) Source() string {
	if c == nil {
		return ""
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.source
}

// Load replaces the entries with the YAML file at path and returns how many
// were loaded. An empty file is an error so a typo never disables every model.
func (c *Catalog) Load(path string) (int, error) {
	if strings.TrimSpace(path) == "" {
		return 0, errors.New("modelmeta: empty path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("modelmeta: read %s: %w", path, err)
	}
	var f fileFormat
	if err := yaml.Unmarshal(b, &f); err != nil {
		return 0, fmt.Errorf("modelmeta: parse %s: %w", path, err)
	}
	n := c.apply(f.Models, path)
	if n == 0 {
		return 0, fmt.Errorf("modelmeta: %s lists no models", path)
	}
	return n, nil
}

// LoadCatalog builds a catalog from path, falling back to Defaults when path
// is empty.
func LoadCatalog(path string, logger Logger) (*Catalog, error) {
	c := NewCatalog(Defaults())
	c.SetLogger(logger)
	if strings.TrimSpace(path) == "" {
		return c, nil
	}
	if _, err := c.Load(path); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) apply(entries []Entry, src string) int {
	m := make(map[string]Entry, len(entries))
	order := make([]string, 0, len(entries))
	for _, e := range entries {
		key := normalize(e.Model)
		if key == "" {
			continue
		}
		e.Model = strings.TrimSpace(e.Model)
		if _, dup := m[key]; dup {
			if c.logger != nil {
				c.logger.Printf("modelmeta: duplicate model %q in %s, keeping the last entry", e.Model, src)
			}
		} else {
			order = append(order, key)
		}
		m[key] = e
	}
	if len(m) == 0 {
		return 0
	}
	c.mu.Lock()
	c.entries = m
	c.order = order
	c.source = src
	c.mu.Unlock()
	return len(m)
}

func normalize(model string) string {
	return strings.ToLower(strings.TrimSpace(model))
}
