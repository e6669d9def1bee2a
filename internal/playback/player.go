package playback

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/signopsis/internal/clock"
	"codeberg.org/snonux/signopsis/internal/fingerspell"
	"codeberg.org/snonux/signopsis/internal/translation"
)

// DefaultWordInterval is the longest a word stays on screen before the
// player moves on. Words usually finish spelling earlier.
const DefaultWordInterval = 3000 * time.Millisecond

// Config configures a Player
type Config struct {
	Resolver       fingerspell.Resolver
	Clock          clock.Clock
	WordInterval   time.Duration
	LetterInterval time.Duration
	Logger         *zap.Logger

	// OnChange is called after every transition of either level, without
	// locks held. It may be called concurrently from timer and resolver
	// goroutines, and snapshots may arrive out of order.
	OnChange func(Snapshot)
}

// DefaultConfig returns the intervals the web frontend uses
func DefaultConfig() *Config {
	return &Config{
		Clock:          clock.Real{},
		WordInterval:   DefaultWordInterval,
		LetterInterval: DefaultLetterInterval,
	}
}

// Snapshot is a point-in-time view of a Player
type Snapshot struct {
	Translation *translation.Translation
	Index       int
	Playing     bool
	Word        WordState
}

// WordCount returns the number of words in the loaded translation
func (s Snapshot) WordCount() int {
	if s.Translation == nil {
		return 0
	}
	return len(s.Translation.Words)
}

// HasPrevious reports whether Previous would move
func (s Snapshot) HasPrevious() bool {
	return s.Index > 0
}

// HasNext reports whether Next would move
func (s Snapshot) HasNext() bool {
	return s.Index+1 < s.WordCount()
}

// CurrentWord returns the word being spelled
func (s Snapshot) CurrentWord() (translation.Word, bool) {
	if s.Index < 0 || s.Index >= s.WordCount() {
		return translation.Word{}, false
	}
	return s.Translation.Words[s.Index], true
}

// Player steps through the words of a translation. It is Idle or Playing at
// an index; while Playing, the word timer or the word's completion moves it
// to the next word, and past the last word it stops.
type Player struct {
	clock    clock.Clock
	interval time.Duration
	logger   *zap.Logger
	onChange func(Snapshot)
	word     *WordPlayer

	mu          sync.Mutex
	translation *translation.Translation
	index       int
	playing     bool
	timer       clock.Timer
	timerSeq    uint64
	wordToken   uint64
	closed      bool
}

// NewPlayer creates an idle player with no translation loaded
func NewPlayer(config *Config) *Player {
	defaults := DefaultConfig()
	if config == nil {
		config = defaults
	}
	c := *config
	if c.Clock == nil {
		c.Clock = defaults.Clock
	}
	if c.WordInterval <= 0 {
		c.WordInterval = defaults.WordInterval
	}
	if c.LetterInterval <= 0 {
		c.LetterInterval = defaults.LetterInterval
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}

	p := &Player{
		clock:    c.Clock,
		interval: c.WordInterval,
		logger:   c.Logger,
		onChange: c.OnChange,
	}
	p.word = NewWordPlayer(WordConfig{
		Resolver:   c.Resolver,
		Clock:      c.Clock,
		Interval:   c.LetterInterval,
		Logger:     c.Logger,
		OnChange:   func(WordState) { p.notify() },
		OnComplete: p.wordCompleted,
	})
	return p
}

// Load starts playing t from its first word
func (p *Player) Load(t *translation.Translation) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.stopLocked()
	p.translation = t
	p.index = 0
	p.playing = t != nil && len(t.Words) > 0
	if p.playing {
		p.showLocked()
		p.armLocked()
	} else {
		p.wordToken = p.word.load("")
	}
	p.mu.Unlock()

	p.notify()
}

// Next moves one word forward without changing the play state
func (p *Player) Next() {
	p.move(1)
}

// Previous moves one word back without changing the play state
func (p *Player) Previous() {
	p.move(-1)
}

func (p *Player) move(delta int) {
	p.mu.Lock()
	target := p.index + delta
	if p.closed || p.translation == nil || target < 0 || target >= len(p.translation.Words) {
		p.mu.Unlock()
		return
	}
	p.stopLocked()
	p.index = target
	p.showLocked()
	p.armLocked()
	p.mu.Unlock()

	p.notify()
}

// Restart plays from the first word
func (p *Player) Restart() {
	p.mu.Lock()
	if p.closed || p.translation == nil || len(p.translation.Words) == 0 {
		p.mu.Unlock()
		return
	}
	p.stopLocked()
	p.index = 0
	p.playing = true
	p.showLocked()
	p.armLocked()
	p.mu.Unlock()

	p.notify()
}

// TogglePlay pauses a playing player or resumes an idle one at the same word
func (p *Player) TogglePlay() {
	p.mu.Lock()
	if p.closed || p.translation == nil || len(p.translation.Words) == 0 {
		p.mu.Unlock()
		return
	}
	if p.playing {
		p.playing = false
		p.stopLocked()
	} else {
		p.playing = true
		p.armLocked()
	}
	p.mu.Unlock()

	p.notify()
}

// SelectLetter jumps the current word to a letter
func (p *Player) SelectLetter(index int) {
	p.word.Select(index)
}

// Snapshot returns the current state of both levels
func (p *Player) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		Translation: p.translation,
		Index:       p.index,
		Playing:     p.playing,
		Word:        p.word.Snapshot(),
	}
}

// Close stops all timers and abandons in-flight work
func (p *Player) Close() {
	p.mu.Lock()
	p.stopLocked()
	p.playing = false
	p.closed = true
	p.mu.Unlock()

	p.word.Close()
}

// wordCompleted is the word level's completion signal. It has the same
// effect as the word timer firing.
func (p *Player) wordCompleted(token uint64) {
	p.mu.Lock()
	if p.closed || !p.playing || token != p.wordToken {
		p.mu.Unlock()
		return
	}
	p.stopLocked()
	p.advanceLocked()
	p.mu.Unlock()

	p.notify()
}

func (p *Player) timerFired(seq uint64) {
	p.mu.Lock()
	if p.closed || !p.playing || seq != p.timerSeq {
		p.mu.Unlock()
		return
	}
	p.timer = nil
	p.advanceLocked()
	p.mu.Unlock()

	p.notify()
}

// advanceLocked moves Playing(i) to Playing(i+1), or to Idle(i) on the
// last word
func (p *Player) advanceLocked() {
	if p.index+1 < len(p.translation.Words) {
		p.index++
		p.showLocked()
		p.armLocked()
		return
	}
	p.playing = false
	p.logger.Debug("Playback finished", zap.String("translation", p.translation.ID))
}

// showLocked hands the current word to the word level
func (p *Player) showLocked() {
	p.wordToken = p.word.load(p.translation.Words[p.index].Original)
}

func (p *Player) armLocked() {
	if !p.playing {
		return
	}
	p.timerSeq++
	seq := p.timerSeq
	p.timer = p.clock.AfterFunc(p.interval, func() {
		p.timerFired(seq)
	})
}

func (p *Player) stopLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.timerSeq++
}

func (p *Player) notify() {
	if p.onChange != nil {
		p.onChange(p.Snapshot())
	}
}
