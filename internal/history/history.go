package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"codeberg.org/snonux/signopsis/internal/translation"
)

const (
	// DefaultKey is the store slot holding the serialized history
	DefaultKey = "translation-history"

	// MaxEntries is how many translations are kept, most recent first
	MaxEntries = 20
)

// ErrCorrupt marks stored history that could not be decoded
var ErrCorrupt = errors.New("stored history is corrupt")

// History is the bounded, most-recent-first list of past translations
type History struct {
	store  Store
	key    string
	logger *zap.Logger

	mu      sync.Mutex
	entries []*translation.Translation
}

// New creates a history persisted in store under DefaultKey
func New(store Store, logger *zap.Logger) *History {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &History{
		store:  store,
		key:    DefaultKey,
		logger: logger,
	}
}

// Load replaces the in-memory list with the stored one. A missing or corrupt
// slot yields an empty history; corrupt contents are removed from the store.
func (h *History) Load(ctx context.Context) error {
	value, ok, err := h.store.Get(ctx, h.key)
	if err != nil {
		h.setEntries(nil)
		return fmt.Errorf("failed to load history: %w", err)
	}
	if !ok {
		h.setEntries(nil)
		return nil
	}

	entries, err := Decode(value)
	if err != nil {
		h.logger.Warn("Discarding unreadable history", zap.String("key", h.key), zap.Error(err))
		h.setEntries(nil)
		if delErr := h.store.Delete(ctx, h.key); delErr != nil {
			h.logger.Warn("Failed to remove unreadable history", zap.Error(delErr))
		}
		return nil
	}

	h.setEntries(entries)
	return nil
}

// Add records t as the most recent translation and persists the list
func (h *History) Add(ctx context.Context, t *translation.Translation) error {
	if t == nil {
		return fmt.Errorf("translation is required")
	}

	h.mu.Lock()
	entries := make([]*translation.Translation, 0, MaxEntries)
	entries = append(entries, t)
	entries = append(entries, h.entries...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	h.entries = entries
	snapshot := h.copyLocked()
	h.mu.Unlock()

	return h.save(ctx, snapshot)
}

// Clear empties the history
func (h *History) Clear(ctx context.Context) error {
	h.setEntries(nil)
	return h.save(ctx, nil)
}

// List returns the translations, most recent first
func (h *History) List() []*translation.Translation {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.copyLocked()
}

// Len returns the number of stored translations
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Find returns the translation with the given ID
func (h *History) Find(id string) (*translation.Translation, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, t := range h.entries {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// Decode parses a serialized history. Anything other than a JSON array of
// translations is reported as ErrCorrupt.
func Decode(value string) ([]*translation.Translation, error) {
	var raw []*translation.Translation
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	entries := make([]*translation.Translation, 0, len(raw))
	for _, t := range raw {
		if t == nil {
			continue
		}
		entries = append(entries, t)
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return entries, nil
}

// Encode serializes translations for the store
func Encode(entries []*translation.Translation) (string, error) {
	if entries == nil {
		entries = []*translation.Translation{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("failed to encode history: %w", err)
	}
	return string(data), nil
}

func (h *History) save(ctx context.Context, entries []*translation.Translation) error {
	value, err := Encode(entries)
	if err != nil {
		return err
	}
	if err := h.store.Set(ctx, h.key, value); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

func (h *History) setEntries(entries []*translation.Translation) {
	h.mu.Lock()
	h.entries = entries
	h.mu.Unlock()
}

func (h *History) copyLocked() []*translation.Translation {
	return append([]*translation.Translation{}, h.entries...)
}
