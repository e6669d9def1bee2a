package gui

import (
	"fmt"
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/signopsis/internal/fingerspell"
	"codeberg.org/snonux/signopsis/internal/playback"
)

// render brings the translate tab in line with a player snapshot. It runs on
// the UI goroutine.
func (a *Application) render(s playback.Snapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.updateNavigation(s)

	if s.Translation == nil {
		a.wordStrip.RemoveAll()
		a.letterStrip.RemoveAll()
		a.wordCaption.SetText("Enter some text to see it fingerspelled")
		a.letterCaption.SetText("")
		a.letterDisplay.Clear()
		a.renderedID = ""
		return
	}

	if s.Translation.ID != a.renderedID || s.Index != a.renderedIdx {
		a.renderedID = s.Translation.ID
		a.renderedIdx = s.Index
		a.renderedWord = ""
		a.renderWordStrip(s)
	}

	word, _ := s.CurrentWord()
	a.wordCaption.SetText(fmt.Sprintf("Word %d of %d: %s", s.Index+1, s.WordCount(), strings.ToUpper(word.Original)))

	// Word states from the previous word can still arrive
	w := s.Word
	if w.Word != word.Original {
		return
	}

	if w.Word != a.renderedWord || w.Status != a.renderedStat {
		a.renderedWord = w.Word
		a.renderedStat = w.Status
		a.renderedPos = -1
		a.renderLetterStrip(w)
	}

	switch w.Status {
	case playback.StatusLoading:
		a.letterDisplay.SetLoading()
		a.letterCaption.SetText("Loading...")
	case playback.StatusError:
		a.letterDisplay.SetError(w.Err)
		a.letterCaption.SetText("")
	case playback.StatusReady:
		if w.Position == a.renderedPos {
			return
		}
		a.renderedPos = w.Position
		a.highlightLetter(w.Position)
		if letter, ok := w.Current(); ok {
			a.letterDisplay.SetUnit(letter)
			a.letterCaption.SetText(w.Caption())
		} else {
			a.letterDisplay.Clear()
			a.letterCaption.SetText("")
		}
	}
}

// updateNavigation updates the playback button states
func (a *Application) updateNavigation(s playback.Snapshot) {
	if s.HasPrevious() {
		a.prevWordBtn.Enable()
	} else {
		a.prevWordBtn.Disable()
	}
	if s.HasNext() {
		a.nextWordBtn.Enable()
	} else {
		a.nextWordBtn.Disable()
	}

	if s.WordCount() == 0 {
		a.playBtn.Disable()
		a.restartBtn.Disable()
		a.infoBtn.Disable()
	} else {
		a.playBtn.Enable()
		a.restartBtn.Enable()
		a.infoBtn.Enable()
	}

	if s.Playing {
		a.playBtn.SetIcon(theme.MediaPauseIcon())
	} else {
		a.playBtn.SetIcon(theme.MediaPlayIcon())
	}
}

// renderWordStrip shows every word as a tinted chip, the current one bold
func (a *Application) renderWordStrip(s playback.Snapshot) {
	a.wordStrip.RemoveAll()
	for i, word := range s.Translation.Words {
		label := widget.NewLabel(word.Original)
		label.TextStyle = fyne.TextStyle{Bold: i == s.Index}

		background := canvas.NewRectangle(hueColor(fingerspell.WordHue(word.Original)))
		background.CornerRadius = 6
		if i == s.Index {
			background.StrokeColor = theme.Color(theme.ColorNamePrimary)
			background.StrokeWidth = 2
		}
		a.wordStrip.Add(container.NewStack(background, label))
	}
	a.wordStrip.Refresh()
}

// renderLetterStrip adds a button per letter of the word; pressing one jumps
// to it
func (a *Application) renderLetterStrip(w playback.WordState) {
	a.letterStrip.RemoveAll()
	if w.Status != playback.StatusReady {
		a.letterStrip.Refresh()
		return
	}
	for i, unit := range w.Letters {
		index := i
		text := strings.ToUpper(unit.Char)
		if unit.Kind == fingerspell.KindSpace {
			text = "␣"
		}
		a.letterStrip.Add(widget.NewButton(text, func() {
			a.player.SelectLetter(index)
		}))
	}
	a.letterStrip.Refresh()
}

func (a *Application) highlightLetter(position int) {
	for i, obj := range a.letterStrip.Objects {
		button, ok := obj.(*widget.Button)
		if !ok {
			continue
		}
		importance := widget.MediumImportance
		if i == position {
			importance = widget.HighImportance
		}
		if button.Importance != importance {
			button.Importance = importance
			button.Refresh()
		}
	}
}

// onPrevWord shows the previous word
func (a *Application) onPrevWord() {
	a.player.Previous()
}

// onNextWord shows the next word
func (a *Application) onNextWord() {
	a.player.Next()
}

func (a *Application) onTogglePlay() {
	a.player.TogglePlay()
}

func (a *Application) onRestart() {
	a.player.Restart()
}

// hueColor returns the pastel card colour for a word hue
func hueColor(hue int) color.Color {
	return hslToRGB(float64(hue), 0.7, 0.9)
}

// letterShortcut maps the digit keys 1-9 to letter positions
func letterShortcut(key fyne.KeyName) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	return int(key[0] - '1'), true
}
