package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/signopsis/internal/testutil"
	"codeberg.org/snonux/signopsis/internal/translation"
)

var base = time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)

func TestHistory_AddKeepsMostRecent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	h := New(store, nil)
	require.NoError(t, h.Load(ctx))

	var added []*translation.Translation
	for i := 0; i < 25; i++ {
		tr := testutil.NewTranslation(t, fmt.Sprintf("phrase %d", i), base.Add(time.Duration(i)*time.Second))
		require.NoError(t, h.Add(ctx, tr))
		added = append(added, tr)
	}

	list := h.List()
	require.Len(t, list, MaxEntries)
	for i, tr := range list {
		assert.Equal(t, added[24-i].ID, tr.ID, "entry %d", i)
	}

	// The persisted slot matches the in-memory list
	reloaded := New(store, nil)
	require.NoError(t, reloaded.Load(ctx))
	require.Len(t, reloaded.List(), MaxEntries)
	assert.Equal(t, "phrase 24", reloaded.List()[0].OriginalText)
	assert.Equal(t, "phrase 5", reloaded.List()[MaxEntries-1].OriginalText)
}

func TestHistory_Clear(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	h := New(store, nil)

	require.NoError(t, h.Add(ctx, testutil.NewTranslation(t, "hello", base)))
	require.NoError(t, h.Clear(ctx))

	assert.Empty(t, h.List())
	assert.Zero(t, h.Len())

	value, ok, err := store.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", value)
}

func TestHistory_LoadMissingSlot(t *testing.T) {
	h := New(NewMemoryStore(), nil)
	require.NoError(t, h.Load(context.Background()))
	assert.Empty(t, h.List())
}

func TestHistory_LoadCorrupt(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"not json", "{{{"},
		{"object instead of array", `{"id":"1"}`},
		{"wrong field types", `[{"id":1,"words":"nope"}]`},
		{"truncated", `[{"id":"1","originalText":"hi"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := testutil.NewMockStore()
			store.Values[DefaultKey] = tt.value

			h := New(store, nil)
			require.NoError(t, h.Load(ctx))
			assert.Empty(t, h.List())

			_, ok := store.Values[DefaultKey]
			assert.False(t, ok, "corrupt slot should be removed")
		})
	}
}

func TestHistory_LoadSkipsNullsAndTruncates(t *testing.T) {
	var entries []*translation.Translation
	for i := 0; i < 30; i++ {
		entries = append(entries, testutil.NewTranslation(t, fmt.Sprintf("w%d", i), base))
	}
	encoded, err := Encode(entries)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Len(t, decoded, MaxEntries)

	decoded, err = Decode(`[null, {"id":"1","originalText":"a","timestamp":"2024-03-09T12:00:00Z","words":[{"original":"a","hasSign":true}]}]`)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, "1", decoded[0].ID)

	decoded, err = Decode(`null`)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestHistory_StoreErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")

	store := testutil.NewMockStore()
	store.Errors["GET "+DefaultKey] = boom
	h := New(store, nil)

	err := h.Load(ctx)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, h.List())

	store = testutil.NewMockStore()
	store.Errors["SET "+DefaultKey] = boom
	h = New(store, nil)

	tr := testutil.NewTranslation(t, "kept in memory", base)
	err = h.Add(ctx, tr)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, h.Len())
}

func TestHistory_Find(t *testing.T) {
	ctx := context.Background()
	h := New(NewMemoryStore(), nil)

	first := testutil.NewTranslation(t, "first", base)
	second := testutil.NewTranslation(t, "second", base.Add(time.Second))
	require.NoError(t, h.Add(ctx, first))
	require.NoError(t, h.Add(ctx, second))

	got, ok := h.Find(first.ID)
	require.True(t, ok)
	assert.Equal(t, "first", got.OriginalText)

	_, ok = h.Find("missing")
	assert.False(t, ok)
}

func TestHistory_AddNil(t *testing.T) {
	h := New(NewMemoryStore(), nil)
	assert.Error(t, h.Add(context.Background(), nil))
}

func TestHistory_ListIsCopy(t *testing.T) {
	ctx := context.Background()
	h := New(NewMemoryStore(), nil)
	require.NoError(t, h.Add(ctx, testutil.NewTranslation(t, "a", base)))

	list := h.List()
	list[0] = nil

	assert.NotNil(t, h.List()[0])
}
