package translation

import (
	"strings"
	"time"

	"codeberg.org/snonux/signopsis/internal"
)

// Word is one whitespace-separated token of a translation
type Word struct {
	Original string `json:"original"`
	HasSign  bool   `json:"hasSign"` // Whether the word has a direct sign or needs fingerspelling
}

// Translation is created once per translate action and never modified
type Translation struct {
	ID           string    `json:"id"`
	OriginalText string    `json:"originalText"`
	Timestamp    time.Time `json:"timestamp"`
	Words        []Word    `json:"words"`
}

// SignLookup reports whether a word can be signed. Every word can be
// fingerspelled, so it currently always returns true.
func SignLookup(word string) bool {
	return true
}

// New creates a translation for text. Blank text is an input error.
func New(text string, now time.Time) (*Translation, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil, &internal.InputError{Reason: internal.ErrTextRequired.Error()}
	}

	words := make([]Word, 0, len(fields))
	for _, f := range fields {
		words = append(words, Word{
			Original: f,
			HasSign:  SignLookup(f),
		})
	}

	return &Translation{
		ID:           internal.GenerateTranslationID(now),
		OriginalText: text,
		Timestamp:    now.UTC(),
		Words:        words,
	}, nil
}

// DisplayTime formats the timestamp the way the history list shows it
func (t *Translation) DisplayTime(loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.Timestamp.In(loc).Format("Jan 2, 3:04 PM")
}

// WordCount returns the number of words to play
func (t *Translation) WordCount() int {
	return len(t.Words)
}
