package modelmeta

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsCatalog(t *testing.T) {
	c, err := LoadCatalog("", nil)
	require.NoError(t, err)
	assert.True(t, c.Supported("gpt-4"))
	assert.True(t, c.Supported(" GPT-3.5-Turbo "))
	assert.False(t, c.Supported("gpt-5"))
	assert.Equal(t, []string{"gpt-3.5-turbo", "gpt-4"}, c.IDs())
	assert.Equal(t, "builtin", c.Source())
}

func TestNilCatalogAcceptsEverything(t *testing.T) {
	var c *Catalog
	assert.True(t, c.Supported("anything"))
	assert.Nil(t, c.Entries())
	_, ok := c.Lookup("gpt-4")
	assert.False(t, ok)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	body := `models:
  - model: gpt-4o-mini
    provider: openai
    display_name: GPT-4o mini
    context_tokens: 128000
  - model: llama3
    provider: local
  - model: ""
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	c, err := LoadCatalog(path, nil)
	require.NoError(t, err)
	assert.False(t, c.Supported("gpt-4"), "file replaces defaults")
	assert.True(t, c.Supported("llama3"))

	entries := c.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "gpt-4o-mini", entries[0].Model)
	assert.Equal(t, 128000, entries[0].ContextTokens)
	assert.Equal(t, path, c.Source())

	e, ok := c.Lookup("LLAMA3")
	require.True(t, ok)
	assert.Equal(t, "local", e.Provider)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("models: []\n"), 0o644))
	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("models: [\n"), 0o644))

	for _, path := range []string{empty, broken, filepath.Join(dir, "missing.yaml")} {
		_, err := LoadCatalog(path, nil)
		assert.Error(t, err, path)
	}

	c := NewCatalog(Defaults())
	_, err := c.Load(empty)
	require.Error(t, err)
	assert.True(t, c.Supported("gpt-4"), "failed load keeps previous entries")
}

type captureLogger struct{ lines []string }

func (l *captureLogger) Printf(format string, args ...any) { l.lines = append(l.lines, format) }

func TestDuplicateEntriesLogged(t *testing.T) {
	logger := &captureLogger{}
	c := &Catalog{logger: logger}
	n := c.apply([]Entry{{Model: "a", Provider: "x"}, {Model: "A", Provider: "y"}}, "test")
	assert.Equal(t, 1, n)
	assert.Len(t, logger.lines, 1)
	e, _ := c.Lookup("a")
	assert.Equal(t, "y", e.Provider)
}
