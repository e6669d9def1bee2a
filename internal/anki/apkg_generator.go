package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// APKGGenerator creates Anki package files (.apkg)
type APKGGenerator struct {
	deckName     string
	deckID       int64
	modelID      int64
	now          time.Time
	cards        []Card
	mediaFiles   map[string]int    // maps image path to media number
	mediaNames   map[string]string // maps image path to its name in the package
	mediaCounter int
}

// NewAPKGGenerator creates a new APKG generator. IDs derive from now.
func NewAPKGGenerator(deckName string, now time.Time) *APKGGenerator {
	ms := now.UnixMilli()
	return &APKGGenerator{
		deckName:   deckName,
		deckID:     ms,
		modelID:    ms + 1,
		now:        now,
		cards:      make([]Card, 0),
		mediaFiles: make(map[string]int),
		mediaNames: make(map[string]string),
	}
}

// AddCard adds a card to the generator
func (g *APKGGenerator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// GenerateAPKG writes the cards as an .apkg file. The package is written to
// a temporary name and renamed on success.
func (g *APKGGenerator) GenerateAPKG(outputPath string) error {
	tempDir, err := os.MkdirTemp("", "signopsis_anki_*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	// Media first, the note fields refer to the media names
	if err := g.copyMediaFiles(tempDir); err != nil {
		return fmt.Errorf("failed to copy media files: %w", err)
	}

	if err := g.createMediaMapping(tempDir); err != nil {
		return fmt.Errorf("failed to create media mapping: %w", err)
	}

	dbPath := filepath.Join(tempDir, "collection.anki2")
	if err := g.createDatabase(dbPath); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	partial := outputPath + ".part"
	if err := g.createZipPackage(tempDir, partial); err != nil {
		os.Remove(partial)
		return fmt.Errorf("failed to create zip package: %w", err)
	}
	return os.Rename(partial, outputPath)
}

// MediaCount returns how many images were packaged by the last export
func (g *APKGGenerator) MediaCount() int {
	return len(g.mediaFiles)
}

func (g *APKGGenerator) createDatabase(dbPath string) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := g.createTables(tx); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	if err := g.insertCollection(tx); err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}
	if err := g.insertNotesAndCards(tx); err != nil {
		return fmt.Errorf("failed to insert notes and cards: %w", err)
	}

	return tx.Commit()
}

// createTables creates the tables of an Anki 2.1 collection
func (g *APKGGenerator) createTables(tx *sql.Tx) error {
	queries := []string{
		`CREATE TABLE col (
			id integer PRIMARY KEY, crt integer NOT NULL, mod integer NOT NULL,
			scm integer NOT NULL, ver integer NOT NULL, dty integer NOT NULL,
			usn integer NOT NULL, ls integer NOT NULL, conf text NOT NULL,
			models text NOT NULL, decks text NOT NULL, dconf text NOT NULL,
			tags text NOT NULL
		)`,
		`CREATE TABLE notes (
			id integer PRIMARY KEY, guid text NOT NULL, mid integer NOT NULL,
			mod integer NOT NULL, usn integer NOT NULL, tags text NOT NULL,
			flds text NOT NULL, sfld text NOT NULL, csum integer NOT NULL,
			flags integer NOT NULL, data text NOT NULL
		)`,
		`CREATE TABLE cards (
			id integer PRIMARY KEY, nid integer NOT NULL, did integer NOT NULL,
			ord integer NOT NULL, mod integer NOT NULL, usn integer NOT NULL,
			type integer NOT NULL, queue integer NOT NULL, due integer NOT NULL,
			ivl integer NOT NULL, factor integer NOT NULL, reps integer NOT NULL,
			lapses integer NOT NULL, left integer NOT NULL, odue integer NOT NULL,
			odid integer NOT NULL, flags integer NOT NULL, data text NOT NULL
		)`,
		`CREATE TABLE revlog (
			id integer PRIMARY KEY, cid integer NOT NULL, usn integer NOT NULL,
			ease integer NOT NULL, ivl integer NOT NULL, lastIvl integer NOT NULL,
			factor integer NOT NULL, time integer NOT NULL, type integer NOT NULL
		)`,
		`CREATE TABLE graves (usn integer NOT NULL, oid integer NOT NULL, type integer NOT NULL)`,
		`CREATE INDEX ix_notes_csum ON notes (csum)`,
		`CREATE INDEX ix_notes_usn ON notes (usn)`,
		`CREATE INDEX ix_cards_usn ON cards (usn)`,
		`CREATE INDEX ix_cards_nid ON cards (nid)`,
		`CREATE INDEX ix_cards_sched ON cards (did, queue, due)`,
		`CREATE INDEX ix_revlog_usn ON revlog (usn)`,
		`CREATE INDEX ix_revlog_cid ON revlog (cid)`,
	}

	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

func deckConfig(id int64, name, desc string, mod int64) map[string]interface{} {
	return map[string]interface{}{
		"id":               id,
		"name":             name,
		"mod":              mod,
		"desc":             desc,
		"collapsed":        false,
		"dyn":              0,
		"conf":             1,
		"usn":              0,
		"newToday":         []int{0, 0},
		"revToday":         []int{0, 0},
		"lrnToday":         []int{0, 0},
		"timeToday":        []int{0, 0},
		"browserCollapsed": false,
		"extendNew":        10,
		"extendRev":        50,
	}
}

func (g *APKGGenerator) insertCollection(tx *sql.Tx) error {
	now := g.now.Unix()

	decks := map[string]interface{}{
		"1": deckConfig(1, "Default", "", now),
	}
	decks[strconv.FormatInt(g.deckID, 10)] = deckConfig(g.deckID, g.deckName, "ASL fingerspelling cards created by Signopsis", now)
	models := map[string]interface{}{
		strconv.FormatInt(g.modelID, 10): g.createNoteTypeConfig(),
	}
	conf := map[string]interface{}{
		"nextPos":       1,
		"estTimes":      true,
		"activeDecks":   []int64{1},
		"sortType":      "noteFld",
		"sortBackwards": false,
		"addToCur":      true,
		"curDeck":       1,
		"newSpread":     0,
		"dueCounts":     true,
		"collapseTime":  1200,
		"timeLim":       0,
		"schedVer":      1,
		"curModel":      strconv.FormatInt(g.modelID, 10),
		"dayLearnFirst": false,
	}
	dconf := map[string]interface{}{
		"1": map[string]interface{}{
			"id":   1,
			"name": "Default",
			"dyn":  0,
			"new": map[string]interface{}{
				"delays":        []int{1, 10},
				"ints":          []int{1, 4, 7},
				"initialFactor": 2500,
				"perDay":        20,
				"order":         1,
				"bury":          true,
				"separate":      true,
			},
			"lapse": map[string]interface{}{
				"delays":      []int{10},
				"mult":        0,
				"minInt":      1,
				"leechFails":  8,
				"leechAction": 0,
			},
			"rev": map[string]interface{}{
				"perDay":   100,
				"ease4":    1.3,
				"fuzz":     0.05,
				"maxIvl":   36500,
				"ivlFct":   1,
				"bury":     true,
				"minSpace": 1,
			},
			"timer":    0,
			"maxTaken": 60,
			"usn":      0,
			"mod":      now,
			"autoplay": true,
			"replayq":  true,
		},
	}

	values := make([]string, 0, 4)
	for _, v := range []interface{}{conf, models, decks, dconf} {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		values = append(values, string(data))
	}

	_, err := tx.Exec(`INSERT INTO col VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		1,        // id
		now,      // crt
		now*1000, // mod
		now*1000, // scm
		11,       // ver (schema version)
		0,        // dty
		0,        // usn
		0,        // ls
		values[0],
		values[1],
		values[2],
		values[3],
		"{}", // tags
	)
	return err
}

// noteFields are the fields of the note type, in order
var noteFields = []string{"Word", "Signs", "Spelling", "Phrase"}

func (g *APKGGenerator) createNoteTypeConfig() map[string]interface{} {
	flds := make([]map[string]interface{}, 0, len(noteFields))
	for i, name := range noteFields {
		flds = append(flds, map[string]interface{}{
			"name":   name,
			"ord":    i,
			"sticky": false,
			"rtl":    false,
			"font":   "Arial",
			"size":   20,
			"media":  []string{},
		})
	}

	return map[string]interface{}{
		"id":    g.modelID,
		"name":  "Fingerspelling from Signopsis (Read + Spell)",
		"type":  0,
		"mod":   g.now.Unix(),
		"usn":   -1,
		"sortf": 0,
		"did":   g.deckID,
		"req":   [][]interface{}{{0, "all", []int{1}}, {1, "all", []int{0}}},
		"vers":  []int{},
		"tags":  []string{},
		"flds":  flds,
		"tmpls": []map[string]interface{}{
			{
				"name":  "Read",
				"ord":   0,
				"qfmt":  `<div class="signs">{{Signs}}</div>`,
				"afmt":  "{{FrontSide}}\n\n<hr id=\"answer\">\n\n<div class=\"word\">{{Word}}</div>\n<div class=\"spelling\">{{Spelling}}</div>",
				"did":   nil,
				"bqfmt": "",
				"bafmt": "",
			},
			{
				"name":  "Spell",
				"ord":   1,
				"qfmt":  `<div class="word">{{Word}}</div>`,
				"afmt":  "{{FrontSide}}\n\n<hr id=\"answer\">\n\n<div class=\"signs\">{{Signs}}</div>\n{{#Phrase}}<div class=\"phrase\">{{Phrase}}</div>{{/Phrase}}",
				"did":   nil,
				"bqfmt": "",
				"bafmt": "",
			},
		},
		"css": cardCSS,
	}
}

const cardCSS = `.card {
  font-family: Arial, sans-serif;
  font-size: 20px;
  text-align: center;
  color: #333;
  background-color: white;
}

.signs img {
  height: 140px;
  margin: 4px;
  border-radius: 8px;
}

.sign {
  display: inline-block;
  min-width: 60px;
  padding: 20px 8px;
  margin: 4px;
  font-size: 32px;
  background: #d9f2ef;
  border-radius: 8px;
}

.word {
  font-size: 32px;
  font-weight: bold;
  color: #2c3e50;
  margin: 20px 0;
}

.spelling, .phrase {
  font-size: 16px;
  color: #7f8c8d;
  font-style: italic;
}`

func (g *APKGGenerator) insertNotesAndCards(tx *sql.Tx) error {
	mod := g.now.Unix()
	base := g.now.UnixMilli()

	for i, card := range g.cards {
		// Leave room for two cards per note
		noteID := base + int64(i*3)

		fields := strings.Join([]string{
			card.Word,
			signsField(card.Letters, g.mediaName),
			card.Spelling(),
			card.Phrase,
		}, "\x1f")

		guid := "sg_" + strings.ToLower(card.Word)
		_, err := tx.Exec(`INSERT INTO notes VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			noteID,           // id
			guid,             // guid
			g.modelID,        // mid
			mod,              // mod
			-1,               // usn
			"fingerspelling", // tags
			fields,           // flds
			card.Word,        // sfld (sort field)
			0,                // csum
			0,                // flags
			"",               // data
		)
		if err != nil {
			return fmt.Errorf("failed to insert note: %w", err)
		}

		for ord := 0; ord < 2; ord++ {
			_, err = tx.Exec(`INSERT INTO cards VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				noteID+int64(ord)+1, // id
				noteID,              // nid
				g.deckID,            // did
				ord,                 // ord (template)
				mod,                 // mod
				-1,                  // usn
				0,                   // type (0=new)
				0,                   // queue (0=new)
				i*2+ord,             // due (position for new cards)
				0, 0, 0, 0, 0, 0, 0, 0,
				"", // data
			)
			if err != nil {
				return fmt.Errorf("failed to insert card: %w", err)
			}
		}
	}

	return nil
}

// copyMediaFiles copies every distinct sign image into dir under its
// media number
func (g *APKGGenerator) copyMediaFiles(dir string) error {
	for _, card := range g.cards {
		for _, l := range card.Letters {
			if _, done := g.mediaFiles[l.ImagePath]; done || !fileExists(l.ImagePath) {
				continue
			}
			target := filepath.Join(dir, strconv.Itoa(g.mediaCounter))
			if err := copyFile(l.ImagePath, target); err != nil {
				return fmt.Errorf("failed to copy image %s: %w", l.ImagePath, err)
			}
			g.mediaFiles[l.ImagePath] = g.mediaCounter
			g.mediaNames[l.ImagePath] = "signopsis_" + filepath.Base(l.ImagePath)
			g.mediaCounter++
		}
	}
	return nil
}

func (g *APKGGenerator) mediaName(imagePath string) string {
	return g.mediaNames[imagePath]
}

// createMediaMapping writes the media file mapping number to name
func (g *APKGGenerator) createMediaMapping(dir string) error {
	mapping := make(map[string]string, len(g.mediaFiles))
	for path, num := range g.mediaFiles {
		mapping[strconv.Itoa(num)] = g.mediaNames[path]
	}

	data, err := json.Marshal(mapping)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "media"), data, 0644)
}

func (g *APKGGenerator) createZipPackage(dir, outputPath string) error {
	zipFile, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer zipFile.Close()

	archive := zip.NewWriter(zipFile)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := addZipFile(archive, filepath.Join(dir, entry.Name()), entry.Name()); err != nil {
			return err
		}
	}

	if err := archive.Close(); err != nil {
		return err
	}
	return zipFile.Close()
}

func addZipFile(archive *zip.Writer, path, name string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer, err := archive.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(writer, file)
	return err
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return err
	}
	return dstFile.Close()
}
