package gui

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
	"go.uber.org/zap"

	"codeberg.org/snonux/signopsis/internal/translation"
)

func (a *Application) createHistoryTab() fyne.CanvasObject {
	a.historyList = widget.NewList(
		func() int {
			a.mu.Lock()
			defer a.mu.Unlock()
			return len(a.entries)
		},
		func() fyne.CanvasObject {
			text := widget.NewLabel("template")
			text.Truncation = fyne.TextTruncateEllipsis
			meta := widget.NewLabel("template")
			meta.TextStyle = fyne.TextStyle{Italic: true}
			return container.NewBorder(nil, nil, nil, meta, text)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			a.mu.Lock()
			if id < 0 || id >= len(a.entries) {
				a.mu.Unlock()
				return
			}
			t := a.entries[id]
			a.mu.Unlock()

			row := obj.(*fyne.Container)
			text, meta := historyLabel(t, time.Local)
			row.Objects[0].(*widget.Label).SetText(text)
			row.Objects[1].(*widget.Label).SetText(meta)
		},
	)
	a.historyList.OnSelected = func(id widget.ListItemID) {
		a.mu.Lock()
		var t *translation.Translation
		if id >= 0 && id < len(a.entries) {
			t = a.entries[id]
		}
		a.mu.Unlock()

		a.historyList.UnselectAll()
		if t != nil {
			a.playTranslation(t)
		}
	}

	a.clearHistoryBtn = ttwidget.NewButtonWithIcon("Clear History", theme.DeleteIcon(), a.onClearHistory)
	a.clearHistoryBtn.Importance = widget.DangerImportance

	header := container.NewBorder(nil, nil,
		widget.NewLabelWithStyle("Recent translations", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		a.clearHistoryBtn,
	)

	return container.NewBorder(header, nil, nil, nil, a.historyList)
}

// refreshHistory reloads the list from the history, newest first
func (a *Application) refreshHistory() {
	entries := a.history.List()

	a.mu.Lock()
	a.entries = entries
	a.mu.Unlock()

	if len(entries) == 0 {
		a.clearHistoryBtn.Disable()
	} else {
		a.clearHistoryBtn.Enable()
	}
	a.historyList.Refresh()
}

func (a *Application) onClearHistory() {
	dialog.ShowConfirm("Clear History",
		"Delete all saved translations? This cannot be undone.",
		func(confirmed bool) {
			if !confirmed {
				return
			}
			if err := a.history.Clear(context.Background()); err != nil {
				a.logger.Error("Failed to clear history", zap.Error(err))
				a.showError(fmt.Errorf("failed to clear history: %w", err))
				return
			}
			a.logger.Info("History cleared")
			a.refreshHistory()
			a.updateStatus("History cleared")
		}, a.window)
}
