package processor

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"codeberg.org/snonux/signopsis/internal/playback"
)

// terminalRenderer prints playback transitions as lines of text. It only
// prints when the word or letter on screen changes.
type terminalRenderer struct {
	out  io.Writer
	done chan struct{}

	mu       sync.Mutex
	started  bool
	finished bool
	index    int
	word     string
	status   playback.WordStatus
	position int
}

func newTerminalRenderer(out io.Writer) *terminalRenderer {
	return &terminalRenderer{
		out:      out,
		done:     make(chan struct{}),
		index:    -1,
		position: -1,
	}
}

func newPlayer(p *Processor, onChange func(playback.Snapshot)) *playback.Player {
	return playback.NewPlayer(&playback.Config{
		Resolver:       p.resolver,
		Clock:          p.clock,
		WordInterval:   p.flags.WordInterval,
		LetterInterval: p.flags.LetterInterval,
		Logger:         p.logger,
		OnChange:       onChange,
	})
}

func (r *terminalRenderer) render(s playback.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Terminal playback only moves forward, so a lower index is a late
	// notification
	if r.finished || s.Translation == nil || s.Index < r.index {
		return
	}

	if s.Index > r.index {
		r.index = s.Index
		r.word = ""
		r.position = -1
		if word, ok := s.CurrentWord(); ok {
			fmt.Fprintf(r.out, "Word %d of %d: %s\n", s.Index+1, s.WordCount(), strings.ToUpper(word.Original))
		}
	}

	// Word states from the previous word can still arrive
	if word, ok := s.CurrentWord(); ok && s.Word.Word == word.Original {
		r.renderWord(s.Word)
	}

	if s.Playing {
		r.started = true
	} else if r.started {
		r.finished = true
		close(r.done)
	}
}

func (r *terminalRenderer) renderWord(w playback.WordState) {
	changed := w.Word != r.word || w.Status != r.status
	r.word = w.Word
	r.status = w.Status

	switch w.Status {
	case playback.StatusError:
		if changed {
			fmt.Fprintf(r.out, "  Error: %s\n", w.Err)
		}
	case playback.StatusReady:
		if !changed && w.Position == r.position {
			return
		}
		r.position = w.Position
		if letter, ok := w.Current(); ok {
			fmt.Fprintf(r.out, "  %-24s %s\n", w.Caption(), letter.ImagePath)
		}
	}
}
