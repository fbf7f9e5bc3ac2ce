package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/devwithfarshi/ai-playground/internal/generation"
)

// StorageKey is the single key under which the serialized list is kept.
const StorageKey = "ai-playground-history"

// Entry is one completed generation as remembered by the client.
type Entry struct {
	ID          string    `json:"id"`
	Prompt      string    `json:"prompt"`
	Response    string    `json:"response"`
	Model       string    `json:"model"`
	Temperature float64   `json:"temperature"`
	Timestamp   time.Time `json:"timestamp"`
}

// Store defines persistence behaviour for the history list.
type Store interface {
	Load(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
	Clear(ctx context.Context) error
	Close() error
}

// KV is the key-value surface a backend provides.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Logger receives warnings about unreadable stored history.
type Logger interface {
	Printf(format string, args ...any)
}

// NewEntry records a finished generation. The prompt and model come from req,
// everything else from res.
func NewEntry(req generation.Request, res generation.Result) Entry {
	ts := res.CreatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	model := res.UsedModel
	if model == "" {
		model = req.Model
	}
	return Entry{
		ID:          uuid.NewString(),
		Prompt:      req.Prompt,
		Response:    res.Reply,
		Model:       model,
		Temperature: res.Temperature,
		Timestamp:   ts,
	}
}

// Prepend returns a new list with e in front.
func Prepend(entries []Entry, e Entry) []Entry {
	out := make([]Entry, 0, len(entries)+1)
	out = append(out, e)
	return append(out, entries...)
}

// Find returns the entry with the given id or a unique id prefix.
func Find(entries []Entry, id string) (Entry, bool) {
	if id == "" {
		return Entry{}, false
	}
	var (
		match Entry
		hits  int
	)
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
		if len(id) < len(e.ID) && e.ID[:len(id)] == id {
			match = e
			hits++
		}
	}
	return match, hits == 1
}

// KVStore keeps the list as one JSON document under StorageKey.
type KVStore struct {
	kv     KV
	logger Logger
}

var _ Store = (*KVStore)(nil)

// NewKVStore wraps kv. logger may be nil.
func NewKVStore(kv KV, logger Logger) *KVStore {
	return &KVStore{kv: kv, logger: logger}
}

// Load returns the stored list, newest first. A missing or unreadable value
// yields an empty list.
func (s *KVStore) Load(ctx context.Context) ([]Entry, error) {
	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("history: load: %w", err)
	}
	if !ok || raw == "" {
		return []Entry{}, nil
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		if s.logger != nil {
			s.logger.Printf("history: ignoring unreadable stored history: %v", err)
		}
		return []Entry{}, nil
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Save replaces the stored list.
func (s *KVStore) Save(ctx context.Context, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("history: encode: %w", err)
	}
	if err := s.kv.Put(ctx, StorageKey, string(data)); err != nil {
		return fmt.Errorf("history: save: %w", err)
	}
	return nil
}

// Clear removes the stored list.
func (s *KVStore) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("history: clear: %w", err)
	}
	return nil
}

// Close closes the backing KV.
func (s *KVStore) Close() error {
	return s.kv.Close()
}

// Append loads the list, puts e in front and saves it back.
func Append(ctx context.Context, store Store, e Entry) error {
	if store == nil {
		return errors.New("history: nil store")
	}
	entries, err := store.Load(ctx)
	if err != nil {
		return err
	}
	return store.Save(ctx, Prepend(entries, e))
}
