package anki

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codeberg.org/snonux/signopsis/internal/fingerspell"
	"codeberg.org/snonux/signopsis/internal/testutil"
	"codeberg.org/snonux/signopsis/internal/translation"
)

func newSpeller(t *testing.T) (*fingerspell.LocalResolver, string) {
	t.Helper()

	dir := t.TempDir()
	testutil.CreateAlphabetImages(t, dir, fingerspell.DefaultSuffix)

	config := fingerspell.DefaultLocalConfig()
	config.BasePath = dir
	return fingerspell.NewLocalResolver(config), dir
}

func TestAddTranslations(t *testing.T) {
	speller, _ := newSpeller(t)
	at := time.Date(2024, time.March, 9, 12, 0, 0, 0, time.UTC)

	gen := NewGenerator(nil)
	added := gen.AddTranslations([]*translation.Translation{
		testutil.NewTranslation(t, "Hello world", at),
		testutil.NewTranslation(t, "hello again", at),
	}, speller)

	if added != 3 {
		t.Fatalf("Expected 3 cards, got %d", added)
	}

	words := make([]string, 0, len(gen.Cards()))
	for _, c := range gen.Cards() {
		words = append(words, c.Word)
	}
	if got := strings.Join(words, ","); got != "Hello,world,again" {
		t.Errorf("Expected words Hello,world,again, got %s", got)
	}

	if phrase := gen.Cards()[2].Phrase; phrase != "hello again" {
		t.Errorf("Expected phrase 'hello again', got '%s'", phrase)
	}
	if spelling := gen.Cards()[0].Spelling(); spelling != "H-E-L-L-O" {
		t.Errorf("Expected spelling H-E-L-L-O, got %s", spelling)
	}
}

func TestAddCardRejectsEmptyWord(t *testing.T) {
	gen := NewGenerator(nil)
	if gen.AddCard(Card{}) {
		t.Error("Expected empty word to be rejected")
	}
	if len(gen.Cards()) != 0 {
		t.Errorf("Expected no cards, got %d", len(gen.Cards()))
	}
}

func TestWriteCSV(t *testing.T) {
	speller, _ := newSpeller(t)

	gen := NewGenerator(nil)
	gen.AddCard(Card{Word: "hi!", Letters: speller.Spell("hi!"), Phrase: "hi! there"})

	var buf bytes.Buffer
	if err := gen.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV back: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected header and 1 record, got %d rows", len(records))
	}
	if strings.Join(records[0], ",") != "Word,Spelling,Signs,Phrase" {
		t.Errorf("Unexpected header: %v", records[0])
	}

	record := records[1]
	if record[0] != "hi!" || record[1] != "H-I-!" || record[3] != "hi! there" {
		t.Errorf("Unexpected record: %v", record)
	}
	if !strings.Contains(record[2], `<img src="h_test.jpg" alt="H">`) {
		t.Errorf("Expected image tag for H, got %s", record[2])
	}
	if !strings.Contains(record[2], `<span class="sign">!</span>`) {
		t.Errorf("Expected text sign for !, got %s", record[2])
	}
}

func TestWriteCSVWithoutHeaders(t *testing.T) {
	gen := NewGenerator(&GeneratorOptions{IncludeHeaders: false})
	gen.AddCard(Card{Word: "a", Letters: []fingerspell.LetterUnit{{Char: "a", Kind: fingerspell.KindLetter, ImagePath: "/missing/a.jpg"}}})

	var buf bytes.Buffer
	if err := gen.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	if got := strings.TrimSpace(buf.String()); got != `a,A,"<span class=""sign"">A</span>",` {
		t.Errorf("Unexpected CSV: %s", got)
	}
}

func TestGenerateCSVFile(t *testing.T) {
	gen := NewGenerator(nil)
	gen.AddCard(Card{Word: "a"})

	path := filepath.Join(t.TempDir(), "deck.csv")
	if err := gen.GenerateCSV(path); err != nil {
		t.Fatalf("GenerateCSV failed: %v", err)
	}
	testutil.AssertFileExists(t, path)

	if err := gen.GenerateCSV(filepath.Join(t.TempDir(), "missing", "deck.csv")); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestStats(t *testing.T) {
	speller, dir := newSpeller(t)

	gen := NewGenerator(nil)
	gen.AddCard(Card{Word: "ab", Letters: speller.Spell("ab")})
	gen.AddCard(Card{Word: "cd", Letters: speller.Spell("cd")})
	gen.AddCard(Card{Word: "empty"})

	if err := os.Remove(filepath.Join(dir, "d"+fingerspell.DefaultSuffix)); err != nil {
		t.Fatal(err)
	}

	total, withImages := gen.Stats()
	if total != 3 || withImages != 1 {
		t.Errorf("Expected 3 cards with 1 complete, got %d and %d", total, withImages)
	}
}
