package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// PhraseEntry is the multi-line text input. Escape leaves the field and
// Ctrl+Enter submits it.
type PhraseEntry struct {
	widget.Entry
	onEscape func()
	onSubmit func()
}

// NewPhraseEntry creates a new phrase entry
func NewPhraseEntry() *PhraseEntry {
	entry := &PhraseEntry{}
	entry.MultiLine = true
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedKey handles key events
func (e *PhraseEntry) TypedKey(key *fyne.KeyEvent) {
	if key.Name == fyne.KeyEscape && e.onEscape != nil {
		e.onEscape()
		return
	}
	e.Entry.TypedKey(key)
}

// TypedShortcut handles Ctrl+Enter and passes other shortcuts on
func (e *PhraseEntry) TypedShortcut(shortcut fyne.Shortcut) {
	if isSubmitShortcut(shortcut) && e.onSubmit != nil {
		e.onSubmit()
		return
	}
	e.Entry.TypedShortcut(shortcut)
}

// SetOnEscape sets the callback for when Escape is pressed
func (e *PhraseEntry) SetOnEscape(f func()) {
	e.onEscape = f
}

// SetOnSubmit sets the callback for Ctrl+Enter
func (e *PhraseEntry) SetOnSubmit(f func()) {
	e.onSubmit = f
}

func isSubmitShortcut(shortcut fyne.Shortcut) bool {
	custom, ok := shortcut.(*desktop.CustomShortcut)
	if !ok {
		return false
	}
	if custom.KeyName != fyne.KeyReturn && custom.KeyName != fyne.KeyEnter {
		return false
	}
	return custom.Modifier == fyne.KeyModifierControl || custom.Modifier == fyne.KeyModifierSuper
}
