package gui

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
	"go.uber.org/zap"

	"codeberg.org/snonux/signopsis/internal/fingerspell"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// createLearnTab shows the alphabet laid out like the sign chart. Pressing a
// letter shows its sign.
func (a *Application) createLearnTab() fyne.CanvasObject {
	a.learnDisplay = NewLetterDisplay(a.config.ImageDir, fyne.NewSize(220, 220))

	grid := container.NewGridWithColumns(7)
	a.learnButtons = make([]*ttwidget.Button, 0, len(alphabet))
	for _, letter := range alphabet {
		l := letter
		button := ttwidget.NewButton(string(l), func() {
			a.onLearnLetter(l)
		})
		a.learnButtons = append(a.learnButtons, button)
		grid.Add(button)
	}

	return container.NewBorder(
		widget.NewLabel("Pick a letter to see its handshape"),
		nil, nil, nil,
		container.NewVBox(grid, container.NewCenter(a.learnDisplay)),
	)
}

// chartTooltip describes where a letter sits on the alphabet chart
func chartTooltip(letter rune) string {
	row, col, ok := fingerspell.ChartPosition(letter)
	if !ok {
		return ""
	}
	return fmt.Sprintf("Row %d, column %d (%s)", row+1, col+1, fingerspell.BackgroundPosition(letter))
}

func (a *Application) onLearnLetter(letter rune) {
	a.learnDisplay.SetLoading()
	resolver := a.config.Resolver

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		units, err := resolver.Resolve(ctx, string(letter))
		fyne.Do(func() {
			if err != nil {
				a.logger.Warn("Failed to resolve letter", zap.String("letter", string(letter)), zap.Error(err))
				a.learnDisplay.SetError(err.Error())
				return
			}
			if len(units) == 0 {
				a.learnDisplay.Clear()
				return
			}
			a.learnDisplay.SetUnit(units[0])
		})
	}()
}
