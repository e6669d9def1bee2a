package anki

import (
	"encoding/csv"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/snonux/signopsis/internal/fingerspell"
	"codeberg.org/snonux/signopsis/internal/translation"
)

// Speller spells a word into letter units without blocking
type Speller interface {
	Spell(word string) []fingerspell.LetterUnit
}

// Card represents a single Anki flashcard
type Card struct {
	Word    string                   // The word as first typed
	Letters []fingerspell.LetterUnit // Letter units spelling the word
	Phrase  string                   // Phrase the word was first seen in
}

// Spelling returns the letter captions separated by dashes
func (c Card) Spelling() string {
	captions := make([]string, 0, len(c.Letters))
	for _, l := range c.Letters {
		captions = append(captions, l.Caption())
	}
	return strings.Join(captions, "-")
}

// GeneratorOptions configures the Anki export
type GeneratorOptions struct {
	IncludeHeaders bool // Include CSV headers
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		IncludeHeaders: true,
	}
}

// Generator collects cards and writes them in Anki's import formats
type Generator struct {
	options *GeneratorOptions
	cards   []Card
	seen    map[string]bool
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		cards:   make([]Card, 0),
		seen:    make(map[string]bool),
	}
}

// AddCard adds a card unless one for the same word exists. Words are
// compared case-insensitively.
func (g *Generator) AddCard(card Card) bool {
	key := strings.ToLower(card.Word)
	if key == "" || g.seen[key] {
		return false
	}
	g.seen[key] = true
	g.cards = append(g.cards, card)
	return true
}

// AddTranslations adds a card for every distinct word of the translations
func (g *Generator) AddTranslations(entries []*translation.Translation, speller Speller) int {
	added := 0
	for _, t := range entries {
		for _, w := range t.Words {
			card := Card{
				Word:    w.Original,
				Letters: speller.Spell(w.Original),
				Phrase:  t.OriginalText,
			}
			if g.AddCard(card) {
				added++
			}
		}
	}
	return added
}

// Cards returns the collected cards
func (g *Generator) Cards() []Card {
	return g.cards
}

// WriteCSV writes the cards in Anki's CSV import format
func (g *Generator) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	if g.options.IncludeHeaders {
		headers := []string{"Word", "Spelling", "Signs", "Phrase"}
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, card := range g.cards {
		record := []string{
			card.Word,
			card.Spelling(),
			signsField(card.Letters, imageFilename),
			card.Phrase,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// GenerateCSV creates a CSV file for Anki import
func (g *Generator) GenerateCSV(outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	if err := g.WriteCSV(file); err != nil {
		return err
	}
	return file.Close()
}

// GenerateAPKG creates an .apkg package with the sign images embedded
func (g *Generator) GenerateAPKG(outputPath, deckName string, now time.Time) error {
	apkgGen := NewAPKGGenerator(deckName, now)
	for _, card := range g.cards {
		apkgGen.AddCard(card)
	}
	return apkgGen.GenerateAPKG(outputPath)
}

// Stats returns the number of cards and of cards with every sign image on disk
func (g *Generator) Stats() (totalCards, withImages int) {
	totalCards = len(g.cards)
	for _, card := range g.cards {
		complete := len(card.Letters) > 0
		for _, l := range card.Letters {
			if l.Kind == fingerspell.KindLetter && !fileExists(l.ImagePath) {
				complete = false
				break
			}
		}
		if complete {
			withImages++
		}
	}
	return
}

// signsField renders the letters as a row of images. media maps a letter's
// image path to its name inside the package, or "" when it is unavailable.
func signsField(letters []fingerspell.LetterUnit, media func(string) string) string {
	var b strings.Builder
	for _, l := range letters {
		if l.Kind == fingerspell.KindLetter {
			if name := media(l.ImagePath); name != "" {
				fmt.Fprintf(&b, `<img src="%s" alt="%s">`, html.EscapeString(name), html.EscapeString(l.Caption()))
				continue
			}
		}
		fmt.Fprintf(&b, `<span class="sign">%s</span>`, html.EscapeString(l.Caption()))
	}
	return b.String()
}

// imageFilename is the media name used for CSV imports, where images are
// copied into Anki's media folder by hand
func imageFilename(imagePath string) string {
	if !fileExists(imagePath) {
		return ""
	}
	return filepath.Base(imagePath)
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
