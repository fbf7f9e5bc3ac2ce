package history

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devwithfarshi/ai-playground/internal/generation"
)

type memKV struct {
	values map[string]string
	getErr error
	closed bool
}

func newMemKV() *memKV { return &memKV{values: map[string]string{}} }

func (m *memKV) Get(ctx context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memKV) Put(ctx context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

func (m *memKV) Delete(ctx context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func (m *memKV) Close() error {
	m.closed = true
	return nil
}

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestNewEntry(t *testing.T) {
	at := time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)
	req := generation.Request{Prompt: "hello", Model: "gpt-4"}
	e := NewEntry(req, generation.Result{Reply: "world", UsedModel: "gpt-4", Temperature: 0, CreatedAt: at})
	assert.Len(t, e.ID, 36)
	assert.Equal(t, "hello", e.Prompt)
	assert.Equal(t, "world", e.Response)
	assert.Equal(t, "gpt-4", e.Model)
	assert.Equal(t, 0.0, e.Temperature)
	assert.True(t, e.Timestamp.Equal(at))

	other := NewEntry(req, generation.Result{Reply: "again"})
	assert.NotEqual(t, e.ID, other.ID)
	assert.Equal(t, "gpt-4", other.Model)
	assert.False(t, other.Timestamp.IsZero())
}

func TestPrependAndFind(t *testing.T) {
	list := []Entry{{ID: "aaaa-1"}, {ID: "bbbb-1"}}
	out := Prepend(list, Entry{ID: "cccc-1"})
	require.Len(t, out, 3)
	assert.Equal(t, "cccc-1", out[0].ID)
	assert.Equal(t, "aaaa-1", list[0].ID, "input must not be modified")

	e, ok := Find(out, "bbbb-1")
	assert.True(t, ok)
	assert.Equal(t, "bbbb-1", e.ID)

	e, ok = Find(out, "cc")
	assert.True(t, ok)
	assert.Equal(t, "cccc-1", e.ID)

	_, ok = Find(append(out, Entry{ID: "cccc-2"}), "cccc")
	assert.False(t, ok, "ambiguous prefix")
	_, ok = Find(out, "")
	assert.False(t, ok)
	_, ok = Find(out, "zzzz")
	assert.False(t, ok)
}

func TestKVStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	store := NewKVStore(kv, nil)

	entries, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NotNil(t, entries)

	at := time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)
	first := Entry{ID: "1", Prompt: "p1", Response: "r1", Model: "gpt-4", Temperature: 0.7, Timestamp: at}
	second := Entry{ID: "2", Prompt: "p2", Response: "r2", Model: "gpt-3.5-turbo", Temperature: 0, Timestamp: at.Add(time.Minute)}
	require.NoError(t, Append(ctx, store, first))
	require.NoError(t, Append(ctx, store, second))

	assert.True(t, strings.HasPrefix(kv.values[StorageKey], `[{"id":"2","prompt":"p2","response":"r2","model":"gpt-3.5-turbo","temperature":0,"timestamp":"2025-05-01T09:31:00Z"}`))

	entries, err = store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2", entries[0].ID)
	assert.Equal(t, "1", entries[1].ID)
	assert.True(t, entries[1].Timestamp.Equal(at))

	require.NoError(t, store.Clear(ctx))
	entries, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, store.Close())
	assert.True(t, kv.closed)
}

func TestKVStoreCorruptValue(t *testing.T) {
	kv := newMemKV()
	kv.values[StorageKey] = "{not json"
	logger := &recordingLogger{}
	entries, err := NewKVStore(kv, logger).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
	require.Len(t, logger.lines, 1)
	assert.Contains(t, logger.lines[0], "unreadable stored history")
}

func TestKVStoreBackendError(t *testing.T) {
	kv := newMemKV()
	kv.getErr = errors.New("disk gone")
	_, err := NewKVStore(kv, nil).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history: load: disk gone")
}

func TestKVStoreSaveNil(t *testing.T) {
	kv := newMemKV()
	require.NoError(t, NewKVStore(kv, nil).Save(context.Background(), nil))
	assert.Equal(t, "[]", kv.values[StorageKey])
}

func TestOpenSelectsBackend(t *testing.T) {
	assert.True(t, IsPostgresDSN("postgres://u@h/db"))
	assert.True(t, IsPostgresDSN(" PostgreSQL://u@h/db"))
	assert.False(t, IsPostgresDSN("/tmp/history.db"))

	path := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := Open(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	require.NoError(t, Append(ctx, store, Entry{ID: "x", Prompt: "p", Response: "r", Model: "gpt-4"}))
	entries, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "x", entries[0].ID)

	var nilStore Store
	assert.Error(t, Append(ctx, nilStore, Entry{}))
}
