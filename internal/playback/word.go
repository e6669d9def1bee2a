package playback

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/signopsis/internal/clock"
	"codeberg.org/snonux/signopsis/internal/fingerspell"
)

// DefaultLetterInterval is how long each letter is shown
const DefaultLetterInterval = 1000 * time.Millisecond

// WordStatus is the resolution state of the current word
type WordStatus int

const (
	StatusLoading WordStatus = iota
	StatusReady
	StatusError
)

func (s WordStatus) String() string {
	switch s {
	case StatusLoading:
		return "Loading"
	case StatusReady:
		return "Ready"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// WordState is a point-in-time view of a WordPlayer
type WordState struct {
	Word     string
	Status   WordStatus
	Letters  []fingerspell.LetterUnit
	Position int
	Err      string
	Complete bool
}

// Current returns the letter at Position, if any
func (s WordState) Current() (fingerspell.LetterUnit, bool) {
	if s.Status != StatusReady || s.Position < 0 || s.Position >= len(s.Letters) {
		return fingerspell.LetterUnit{}, false
	}
	return s.Letters[s.Position], true
}

// Caption returns the "Letter i of n: X" line shown above the sign
func (s WordState) Caption() string {
	letter, ok := s.Current()
	if !ok {
		return ""
	}
	return fmt.Sprintf("Letter %d of %d: %s", s.Position+1, len(s.Letters), letter.Caption())
}

// WordConfig configures a WordPlayer
type WordConfig struct {
	Resolver fingerspell.Resolver
	Clock    clock.Clock
	Interval time.Duration
	Logger   *zap.Logger

	// OnChange is called after every state change, without locks held. It
	// may be called concurrently from timer and resolver goroutines, and
	// states may arrive out of order.
	OnChange func(WordState)

	// OnComplete is called once per word when its last letter has been
	// shown for a full interval. token is the value SetWord returned.
	OnComplete func(token uint64)
}

// WordPlayer spells one word at a time
type WordPlayer struct {
	resolver   fingerspell.Resolver
	clock      clock.Clock
	interval   time.Duration
	logger     *zap.Logger
	onChange   func(WordState)
	onComplete func(uint64)

	mu       sync.Mutex
	gen      uint64 // bumped for every new word
	timerSeq uint64 // bumped whenever the letter timer is re-armed
	timer    clock.Timer
	cancel   context.CancelFunc
	state    WordState
	closed   bool
}

// NewWordPlayer creates a word player. A nil resolver spells locally.
func NewWordPlayer(config WordConfig) *WordPlayer {
	if config.Resolver == nil {
		config.Resolver = fingerspell.NewLocalResolver(nil)
	}
	if config.Clock == nil {
		config.Clock = clock.Real{}
	}
	if config.Interval <= 0 {
		config.Interval = DefaultLetterInterval
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	return &WordPlayer{
		resolver:   config.Resolver,
		clock:      config.Clock,
		interval:   config.Interval,
		logger:     config.Logger,
		onChange:   config.OnChange,
		onComplete: config.OnComplete,
		state:      WordState{Status: StatusReady},
	}
}

// SetWord replaces the current word, cancelling its timer and any
// in-flight resolution. It returns the token that the completion callback
// will carry for this word.
func (w *WordPlayer) SetWord(word string) uint64 {
	token := w.load(word)
	w.notify()
	return token
}

// load switches to word without notifying observers
func (w *WordPlayer) load(word string) uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return w.gen
	}

	w.stopLocked()
	w.gen++
	gen := w.gen

	w.state = WordState{Word: word, Status: StatusLoading}

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	go w.resolve(ctx, gen, word)

	return gen
}

// resolve runs outside the lock and applies its result only if the word is
// still current
func (w *WordPlayer) resolve(ctx context.Context, gen uint64, word string) {
	var (
		units []fingerspell.LetterUnit
		err   error
	)

	if strings.TrimSpace(word) != "" {
		units, err = w.safeResolve(ctx, word)
	}

	w.mu.Lock()
	if gen != w.gen || w.closed || ctx.Err() != nil {
		w.mu.Unlock()
		w.logger.Debug("Discarding resolution for superseded word", zap.String("word", word))
		return
	}

	complete := false
	if err != nil {
		w.logger.Warn("Failed to resolve word", zap.String("word", word), zap.Error(err))
		message := err.Error()
		if message == "" {
			message = "An unknown error occurred"
		}
		w.state.Status = StatusError
		w.state.Err = message
	} else {
		w.state.Status = StatusReady
		w.state.Letters = units
		w.state.Position = 0
		if len(units) == 0 {
			w.state.Complete = true
			complete = true
		} else {
			w.scheduleLocked()
		}
	}
	w.mu.Unlock()

	w.notify()
	if complete {
		w.complete(gen)
	}
}

// safeResolve converts a panicking resolver into an InternalError
func (w *WordPlayer) safeResolve(ctx context.Context, word string) (units []fingerspell.LetterUnit, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &fingerspell.InternalError{Err: fmt.Errorf("resolver panic: %v", r)}
		}
	}()
	return w.resolver.Resolve(ctx, word)
}

// Select jumps to letter index and restarts the interval from now.
// Out of range indexes are ignored.
func (w *WordPlayer) Select(index int) {
	w.mu.Lock()
	if w.closed || w.state.Status != StatusReady || index < 0 || index >= len(w.state.Letters) {
		w.mu.Unlock()
		return
	}
	w.state.Position = index
	w.scheduleLocked()
	w.mu.Unlock()

	w.notify()
}

// Snapshot returns the current state
func (w *WordPlayer) Snapshot() WordState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Close stops the timer and abandons any in-flight resolution
func (w *WordPlayer) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopLocked()
	w.gen++
	w.closed = true
}

// scheduleLocked arms the letter timer for the current position. Before the
// last letter it advances; on the last letter it signals completion once.
func (w *WordPlayer) scheduleLocked() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.timerSeq++

	n := len(w.state.Letters)
	if n == 0 {
		return
	}
	if w.state.Position >= n-1 && w.state.Complete {
		return
	}

	gen, seq := w.gen, w.timerSeq
	w.timer = w.clock.AfterFunc(w.interval, func() {
		w.tick(gen, seq)
	})
}

func (w *WordPlayer) tick(gen, seq uint64) {
	w.mu.Lock()
	if gen != w.gen || seq != w.timerSeq || w.closed || w.state.Status != StatusReady {
		w.mu.Unlock()
		return
	}
	w.timer = nil

	if w.state.Position+1 < len(w.state.Letters) {
		w.state.Position++
		w.scheduleLocked()
		w.mu.Unlock()
		w.notify()
		return
	}

	if w.state.Complete {
		w.mu.Unlock()
		return
	}
	w.state.Complete = true
	w.mu.Unlock()

	w.notify()
	w.complete(gen)
}

func (w *WordPlayer) stopLocked() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.timerSeq++
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
}

func (w *WordPlayer) notify() {
	if w.onChange != nil {
		w.onChange(w.Snapshot())
	}
}

func (w *WordPlayer) complete(token uint64) {
	if w.onComplete != nil {
		w.onComplete(token)
	}
}
