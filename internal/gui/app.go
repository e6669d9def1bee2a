package gui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"codeberg.org/snonux/signopsis/internal"
	"codeberg.org/snonux/signopsis/internal/fingerspell"
	"codeberg.org/snonux/signopsis/internal/history"
	"codeberg.org/snonux/signopsis/internal/playback"
	"codeberg.org/snonux/signopsis/internal/translation"
)

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window
	tabs   *container.AppTabs

	// Translate tab
	phraseInput   *PhraseEntry
	translateBtn  *ttwidget.Button
	letterDisplay *LetterDisplay
	wordCaption   *widget.Label
	letterCaption *widget.Label
	wordStrip     *fyne.Container
	letterStrip   *fyne.Container
	statusLabel   *widget.Label
	logViewer     *LogViewer

	// Playback buttons
	prevWordBtn *ttwidget.Button
	playBtn     *ttwidget.Button
	nextWordBtn *ttwidget.Button
	restartBtn  *ttwidget.Button
	infoBtn     *ttwidget.Button

	// History tab
	historyList     *widget.List
	clearHistoryBtn *ttwidget.Button

	// Learn tab
	learnDisplay *LetterDisplay
	learnButtons []*ttwidget.Button

	// Collaborators
	config  *Config
	logger  *zap.Logger
	player  *playback.Player
	history *history.History

	// State management, only touched on the UI goroutine
	mu           sync.Mutex
	entries      []*translation.Translation
	renderedID   string
	renderedIdx  int
	renderedWord string
	renderedPos  int
	renderedStat playback.WordStatus
}

// Config holds GUI application configuration
type Config struct {
	Resolver       fingerspell.Resolver
	History        *history.History
	ImageDir       string
	WordInterval   time.Duration
	LetterInterval time.Duration
	Logger         *zap.Logger
}

// DefaultConfig returns default GUI configuration
func DefaultConfig() *Config {
	return &Config{
		WordInterval:   playback.DefaultWordInterval,
		LetterInterval: playback.DefaultLetterInterval,
	}
}

// New creates a new GUI application
func New(config *Config) *Application {
	if config == nil {
		config = DefaultConfig()
	} else {
		// Fill in missing fields with defaults
		defaults := DefaultConfig()
		if config.WordInterval <= 0 {
			config.WordInterval = defaults.WordInterval
		}
		if config.LetterInterval <= 0 {
			config.LetterInterval = defaults.LetterInterval
		}
	}
	if config.Resolver == nil {
		localConfig := fingerspell.DefaultLocalConfig()
		if config.ImageDir != "" {
			localConfig.BasePath = config.ImageDir
		}
		config.Resolver = fingerspell.NewLocalResolver(localConfig)
	}
	if config.History == nil {
		config.History = history.New(history.NewMemoryStore(), config.Logger)
	}

	myApp := app.NewWithID("org.codeberg.snonux.signopsis")
	myApp.SetIcon(GetAppIcon())

	a := &Application{
		app:         myApp,
		config:      config,
		history:     config.History,
		renderedPos: -1,
	}

	// Log messages go to the configured logger and the activity view
	a.logViewer = NewLogViewer()
	base := config.Logger
	if base == nil {
		base = zap.NewNop()
	}
	a.logger = zap.New(zapcore.NewTee(base.Core(), a.logViewer.Core(zapcore.InfoLevel)))

	a.player = playback.NewPlayer(&playback.Config{
		Resolver:       config.Resolver,
		WordInterval:   config.WordInterval,
		LetterInterval: config.LetterInterval,
		Logger:         a.logger,
		OnChange: func(s playback.Snapshot) {
			fyne.Do(func() { a.render(s) })
		},
	})

	a.setupUI()
	a.refreshHistory()
	a.render(a.player.Snapshot())

	return a
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("Signopsis v%s - ASL Fingerspelling", internal.Version))
	a.window.SetIcon(GetAppIcon())
	a.window.Resize(fyne.NewSize(900, 720))

	a.tabs = container.NewAppTabs(
		container.NewTabItemWithIcon("Translate", theme.MediaPlayIcon(), a.createTranslateTab()),
		container.NewTabItemWithIcon("History", theme.HistoryIcon(), a.createHistoryTab()),
		container.NewTabItemWithIcon("Learn", theme.GridIcon(), a.createLearnTab()),
	)

	// Add the tooltip layer to enable tooltips
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(a.tabs, a.window.Canvas()))

	// Now that tooltip layer is created, set all tooltips
	a.setupTooltips()

	a.window.SetOnClosed(func() {
		a.player.Close()
	})

	// Set up keyboard shortcuts
	a.setupKeyboardShortcuts()
}

func (a *Application) createTranslateTab() fyne.CanvasObject {
	// Create input section
	a.phraseInput = NewPhraseEntry()
	a.phraseInput.SetPlaceHolder("Type English text to fingerspell... (Ctrl+Enter to translate)")
	a.phraseInput.Wrapping = fyne.TextWrapWord
	a.phraseInput.SetMinRowsVisible(3)
	a.phraseInput.SetOnSubmit(func() {
		a.onTranslate()
		a.window.Canvas().Unfocus()
	})
	a.phraseInput.SetOnEscape(func() {
		a.window.Canvas().Unfocus()
	})

	a.translateBtn = ttwidget.NewButtonWithIcon("Translate", theme.ConfirmIcon(), a.onTranslate)
	a.translateBtn.Importance = widget.HighImportance

	inputSection := container.NewBorder(
		nil, nil,
		nil,
		container.NewVBox(layout.NewSpacer(), a.translateBtn),
		a.phraseInput,
	)

	// Create display section
	a.letterDisplay = NewLetterDisplay(a.config.ImageDir, fyne.NewSize(280, 280))
	a.wordCaption = widget.NewLabel("")
	a.wordCaption.Alignment = fyne.TextAlignCenter
	a.wordCaption.TextStyle = fyne.TextStyle{Bold: true}
	a.letterCaption = widget.NewLabel("")
	a.letterCaption.Alignment = fyne.TextAlignCenter

	a.wordStrip = container.NewHBox()
	a.letterStrip = container.NewHBox()

	// Create playback controls (tooltips will be set after tooltip layer is created)
	a.prevWordBtn = ttwidget.NewButtonWithIcon("", theme.NavigateBackIcon(), a.onPrevWord)
	a.playBtn = ttwidget.NewButtonWithIcon("", theme.MediaPauseIcon(), a.onTogglePlay)
	a.nextWordBtn = ttwidget.NewButtonWithIcon("", theme.NavigateNextIcon(), a.onNextWord)
	a.restartBtn = ttwidget.NewButtonWithIcon("", theme.MediaReplayIcon(), a.onRestart)
	a.infoBtn = ttwidget.NewButtonWithIcon("", theme.InfoIcon(), a.onShowInfo)
	helpButton := ttwidget.NewButtonWithIcon("", theme.HelpIcon(), a.onShowHotkeys)
	helpButton.SetToolTip("Show hotkeys (h)")

	controls := container.NewHBox(
		layout.NewSpacer(),
		a.prevWordBtn,
		a.playBtn,
		a.nextWordBtn,
		widget.NewSeparator(),
		a.restartBtn,
		a.infoBtn,
		helpButton,
		layout.NewSpacer(),
	)

	display := container.NewVBox(
		container.NewHScroll(a.wordStrip),
		a.wordCaption,
		container.NewCenter(a.letterDisplay),
		a.letterCaption,
		container.NewHScroll(a.letterStrip),
		controls,
	)

	// Create status section
	a.statusLabel = widget.NewLabel("Ready")

	return container.NewBorder(
		container.NewVBox(inputSection, widget.NewSeparator()),
		container.NewVBox(widget.NewSeparator(), a.statusLabel, a.logViewer),
		nil, nil,
		container.NewVScroll(display),
	)
}

// Run starts the GUI application
func (a *Application) Run() {
	a.window.Canvas().Focus(a.phraseInput)
	a.window.ShowAndRun()
}

// onTranslate creates a translation from the input, records it and plays it
func (a *Application) onTranslate() {
	text := strings.TrimSpace(a.phraseInput.Text)
	t, err := translation.New(text, time.Now())
	if err != nil {
		a.updateStatus("Please enter some text to translate")
		return
	}

	if err := a.history.Add(context.Background(), t); err != nil {
		a.logger.Warn("Failed to save translation", zap.Error(err))
		a.updateStatus("Playing (not saved to history)")
	} else {
		a.updateStatus(fmt.Sprintf("Translated %d words", t.WordCount()))
	}
	a.refreshHistory()

	a.logger.Info("Translating", zap.String("text", t.OriginalText), zap.Int("words", t.WordCount()))
	a.player.Load(t)
}

// playTranslation plays a translation from the history
func (a *Application) playTranslation(t *translation.Translation) {
	a.phraseInput.SetText(t.OriginalText)
	a.tabs.SelectIndex(0)
	a.updateStatus(fmt.Sprintf("Replaying translation from %s", t.DisplayTime(time.Local)))
	a.player.Load(t)
}

func (a *Application) onShowInfo() {
	s := a.player.Snapshot()
	word, ok := s.CurrentWord()
	if !ok {
		dialog.ShowInformation("Fingerspelling", infoText(""), a.window)
		return
	}
	dialog.ShowInformation("Fingerspelling", infoText(word.Original), a.window)
}

func (a *Application) onShowHotkeys() {
	hotkeys := `## Playback
**←** Previous word  
**→** Next word  
**Space** Pause or resume  
**r** Restart  
**1-9** Show letter  

## General
**t** Focus text input  
**Ctrl+Enter** Translate  
**Esc** Unfocus field  
**i** About fingerspelling  
**h** Show hotkeys  
**q** Quit application`

	content := widget.NewRichTextFromMarkdown(hotkeys)
	content.Wrapping = fyne.TextWrapWord

	scroll := container.NewScroll(container.NewPadded(content))
	scroll.SetMinSize(fyne.NewSize(420, 360))

	dialog.NewCustom("Keyboard Shortcuts", "Close", scroll, a.window).Show()
}

func (a *Application) updateStatus(message string) {
	a.statusLabel.SetText(message)
}

func (a *Application) showError(err error) {
	dialog.ShowError(err, a.window)
	a.updateStatus("Error: " + err.Error())
}

// setupTooltips sets up all tooltips after the tooltip layer has been created
func (a *Application) setupTooltips() {
	a.translateBtn.SetToolTip("Translate (Ctrl+Enter)")
	a.prevWordBtn.SetToolTip("Previous word (←)")
	a.playBtn.SetToolTip("Pause or resume (Space)")
	a.nextWordBtn.SetToolTip("Next word (→)")
	a.restartBtn.SetToolTip("Restart from the first word (r)")
	a.infoBtn.SetToolTip("About fingerspelling (i)")
	a.clearHistoryBtn.SetToolTip("Delete all saved translations")
	for i, button := range a.learnButtons {
		button.SetToolTip(chartTooltip(rune(alphabet[i])))
	}
}

func (a *Application) setupKeyboardShortcuts() {
	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		// Handle Escape key to unfocus any field
		if ev.Name == fyne.KeyEscape {
			a.window.Canvas().Unfocus()
			return
		}

		// Typing in the input must not trigger shortcuts
		if a.window.Canvas().Focused() == a.phraseInput {
			return
		}

		a.handleShortcutKey(ev.Name)
	})
}

// handleShortcutKey handles the actual shortcut action
func (a *Application) handleShortcutKey(key fyne.KeyName) {
	switch key {
	case fyne.KeyLeft:
		a.onPrevWord()
	case fyne.KeyRight:
		a.onNextWord()
	case fyne.KeySpace:
		a.onTogglePlay()
	case fyne.KeyR:
		a.onRestart()
	case fyne.KeyT:
		a.tabs.SelectIndex(0)
		a.window.Canvas().Focus(a.phraseInput)
	case fyne.KeyI:
		a.onShowInfo()
	case fyne.KeyH:
		a.onShowHotkeys()
	case fyne.KeyQ:
		a.window.Close()
	default:
		if index, ok := letterShortcut(key); ok {
			a.player.SelectLetter(index)
		}
	}
}
