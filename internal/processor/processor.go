package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/signopsis/internal"
	"codeberg.org/snonux/signopsis/internal/anki"
	"codeberg.org/snonux/signopsis/internal/archive"
	"codeberg.org/snonux/signopsis/internal/batch"
	"codeberg.org/snonux/signopsis/internal/cli"
	"codeberg.org/snonux/signopsis/internal/clock"
	"codeberg.org/snonux/signopsis/internal/fingerspell"
	"codeberg.org/snonux/signopsis/internal/gui"
	"codeberg.org/snonux/signopsis/internal/history"
	"codeberg.org/snonux/signopsis/internal/server"
	"codeberg.org/snonux/signopsis/internal/translation"
)

// Processor handles the main application logic
type Processor struct {
	flags    *cli.Flags
	logger   *zap.Logger
	out      io.Writer
	clock    clock.Clock
	local    *fingerspell.LocalResolver
	resolver fingerspell.Resolver

	store   history.Store
	closer  io.Closer
	history *history.History
}

// NewProcessor creates a processor. The history database is opened on
// first use.
func NewProcessor(flags *cli.Flags, logger *zap.Logger) (*Processor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Processor{
		flags:  flags,
		logger: logger,
		out:    os.Stdout,
		clock:  clock.Real{},
	}

	localConfig := fingerspell.DefaultLocalConfig()
	if flags.ImageDir != "" {
		localConfig.BasePath = flags.ImageDir
	}
	p.local = fingerspell.NewLocalResolver(localConfig)
	p.resolver = p.local

	if flags.ResolverURL != "" {
		remote, err := fingerspell.NewRemoteResolver(&fingerspell.RemoteConfig{
			URL:     flags.ResolverURL,
			Timeout: flags.Timeout,
			Logger:  logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create remote resolver: %w", err)
		}
		p.resolver = fingerspell.NewFallbackResolver(remote, p.local, logger)
	}

	return p, nil
}

// Close releases the history database
func (p *Processor) Close() error {
	if p.closer == nil {
		return nil
	}
	err := p.closer.Close()
	p.closer = nil
	p.store = nil
	p.history = nil
	return err
}

// openHistory opens the history database and loads it
func (p *Processor) openHistory(ctx context.Context) (*history.History, error) {
	if p.history != nil {
		return p.history, nil
	}

	if p.store == nil {
		store, err := history.OpenSQLite(cli.HistoryDBPath(p.flags))
		if err != nil {
			return nil, err
		}
		p.store = store
		p.closer = store
	}

	h := history.New(p.store, p.logger)
	if err := h.Load(ctx); err != nil {
		return nil, err
	}
	p.history = h
	return h, nil
}

// Spell creates a translation for text, records it and plays it in the
// terminal
func (p *Processor) Spell(ctx context.Context, text string) error {
	t, err := translation.New(text, p.clock.Now())
	if err != nil {
		return err
	}

	if !p.flags.NoHistory {
		h, err := p.openHistory(ctx)
		if err != nil {
			return err
		}
		if err := h.Add(ctx, t); err != nil {
			return err
		}
	}

	return p.play(ctx, t)
}

// SpellBatch spells every phrase of the batch file in turn
func (p *Processor) SpellBatch(ctx context.Context) error {
	entries, err := batch.ReadBatchFile(p.flags.BatchFile)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no phrases found in %s", p.flags.BatchFile)
	}

	for i, entry := range entries {
		fmt.Fprintf(p.out, "\nPhrase %d/%d: %s\n", i+1, len(entries), entry.Text)
		if err := p.Spell(ctx, entry.Text); err != nil {
			return fmt.Errorf("line %d: %w", entry.Line, err)
		}
	}
	return nil
}

func (p *Processor) play(ctx context.Context, t *translation.Translation) error {
	renderer := newTerminalRenderer(p.out)
	player := newPlayer(p, renderer.render)
	defer player.Close()

	player.Load(t)

	select {
	case <-renderer.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Serve runs the transcription service until ctx is cancelled
func (p *Processor) Serve(ctx context.Context) error {
	srv := server.New(&server.Config{
		Addr:     p.flags.Listen,
		ImageDir: p.flags.ImageDir,
		Logger:   p.logger,
	})
	fmt.Fprintf(p.out, "Serving on http://%s (Ctrl+C to stop)\n", p.flags.Listen)
	return srv.ListenAndServe(ctx)
}

// ListHistory prints the stored translations, most recent first
func (p *Processor) ListHistory(ctx context.Context) error {
	h, err := p.openHistory(ctx)
	if err != nil {
		return err
	}

	entries := h.List()
	if p.flags.JSON {
		encoded, err := history.Encode(entries)
		if err != nil {
			return err
		}
		fmt.Fprintln(p.out, encoded)
		return nil
	}

	if len(entries) == 0 {
		fmt.Fprintln(p.out, "No translation history yet")
		return nil
	}
	for _, t := range entries {
		fmt.Fprintf(p.out, "%-15s %-18s %s (%d words)\n", t.ID, t.DisplayTime(time.Local), t.OriginalText, t.WordCount())
	}
	return nil
}

// ShowHistory prints one translation word by word
func (p *Processor) ShowHistory(ctx context.Context, id string) error {
	t, err := p.findTranslation(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "%s\n%s\n\n", t.OriginalText, t.DisplayTime(time.Local))
	for i, word := range t.Words {
		letters := make([]string, 0, len(word.Original))
		for _, unit := range p.local.Spell(word.Original) {
			letters = append(letters, unit.Caption())
		}
		fmt.Fprintf(p.out, "%2d. %-20s hue %d  %s\n", i+1, word.Original, fingerspell.WordHue(word.Original), strings.Join(letters, " "))
	}
	return nil
}

// ReplayHistory plays a stored translation again without re-recording it
func (p *Processor) ReplayHistory(ctx context.Context, id string) error {
	t, err := p.findTranslation(ctx, id)
	if err != nil {
		return err
	}
	return p.play(ctx, t)
}

// ClearHistory deletes all stored translations
func (p *Processor) ClearHistory(ctx context.Context) error {
	h, err := p.openHistory(ctx)
	if err != nil {
		return err
	}
	if err := h.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(p.out, "Translation history cleared")
	return nil
}

// ImportHistory records every phrase of a file as a translation
func (p *Processor) ImportHistory(ctx context.Context, path string) error {
	entries, err := batch.ReadBatchFile(path)
	if err != nil {
		return err
	}

	h, err := p.openHistory(ctx)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		t, err := translation.New(entry.Text, p.clock.Now())
		if err != nil {
			return fmt.Errorf("line %d: %w", entry.Line, err)
		}
		if err := h.Add(ctx, t); err != nil {
			return err
		}
	}

	fmt.Fprintf(p.out, "Imported %d phrases (%d kept in history)\n", len(entries), h.Len())
	return nil
}

// ArchiveHistory moves the history database into the archive directory
func (p *Processor) ArchiveHistory(ctx context.Context) error {
	if err := p.Close(); err != nil {
		return fmt.Errorf("failed to close history: %w", err)
	}

	path, err := archive.ArchiveDatabase(cli.HistoryDBPath(p.flags), p.clock.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "History archived to: %s\n", path)
	return nil
}

// ExportHistory writes the words of the history as Anki cards. The format
// follows the extension of path; a directory gets an .apkg named after the
// deck.
func (p *Processor) ExportHistory(ctx context.Context, path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, internal.SanitizeFilename(p.flags.DeckName)+".apkg")
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".apkg" && ext != ".csv" {
		return fmt.Errorf("unsupported export format %q, use .apkg or .csv", ext)
	}

	h, err := p.openHistory(ctx)
	if err != nil {
		return err
	}
	if h.Len() == 0 {
		return fmt.Errorf("no translation history to export")
	}

	gen := anki.NewGenerator(nil)
	added := gen.AddTranslations(h.List(), p.local)
	total, withImages := gen.Stats()
	p.logger.Debug("Exporting history",
		zap.String("path", path),
		zap.Int("cards", total),
		zap.Int("with_images", withImages),
	)

	if ext == ".csv" {
		err = gen.GenerateCSV(path)
	} else {
		err = gen.GenerateAPKG(path, p.flags.DeckName, p.clock.Now())
	}
	if err != nil {
		return fmt.Errorf("failed to export history: %w", err)
	}

	fmt.Fprintf(p.out, "Exported %d cards (%d with sign images) to: %s\n", added, withImages, path)
	return nil
}

// Chart prints where each letter sits on the alphabet chart
func (p *Processor) Chart(letters string) error {
	for _, r := range strings.ToLower(letters) {
		row, col, ok := fingerspell.ChartPosition(r)
		if !ok {
			fmt.Fprintf(p.out, "%q  not on the chart\n", r)
			continue
		}
		fmt.Fprintf(p.out, "%c  row %d col %d  background-position: %s\n",
			r-'a'+'A', row, col, fingerspell.BackgroundPosition(r))
	}
	return nil
}

// RunGUIMode launches the GUI application
func (p *Processor) RunGUIMode() error {
	h, err := p.openHistory(context.Background())
	if err != nil {
		return err
	}

	app := gui.New(&gui.Config{
		Resolver:       p.resolver,
		History:        h,
		ImageDir:       p.flags.ImageDir,
		WordInterval:   p.flags.WordInterval,
		LetterInterval: p.flags.LetterInterval,
		Logger:         p.logger,
	})
	app.Run()

	return nil
}

func (p *Processor) findTranslation(ctx context.Context, id string) (*translation.Translation, error) {
	h, err := p.openHistory(ctx)
	if err != nil {
		return nil, err
	}
	t, ok := h.Find(id)
	if !ok {
		return nil, fmt.Errorf("no translation with id %s in history", id)
	}
	return t, nil
}
