package gui

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/signopsis/internal/fingerspell"
)

// LetterDisplay is a custom widget showing the sign for one letter unit.
// Units without a readable image are shown as a large text tile.
type LetterDisplay struct {
	widget.BaseWidget

	imageDir    string
	container   *fyne.Container
	imageCanvas *canvas.Image
	tile        *canvas.Text
	tileBack    *canvas.Rectangle
	imageLabel  *widget.Label
}

// NewLetterDisplay creates a letter display. imageDir is where web style
// image paths are looked up.
func NewLetterDisplay(imageDir string, size fyne.Size) *LetterDisplay {
	d := &LetterDisplay{imageDir: imageDir}

	// Create image canvas
	d.imageCanvas = canvas.NewImageFromResource(nil)
	d.imageCanvas.FillMode = canvas.ImageFillContain
	d.imageCanvas.SetMinSize(size)

	d.tileBack = canvas.NewRectangle(theme.Color(theme.ColorNameInputBackground))
	d.tileBack.SetMinSize(size)
	d.tile = canvas.NewText("", theme.Color(theme.ColorNameForeground))
	d.tile.Alignment = fyne.TextAlignCenter
	d.tile.TextSize = size.Height / 4
	d.tile.TextStyle = fyne.TextStyle{Bold: true}

	// Create label
	d.imageLabel = widget.NewLabel("")
	d.imageLabel.Alignment = fyne.TextAlignCenter

	d.container = container.NewBorder(
		nil,
		d.imageLabel,
		nil, nil,
		container.NewStack(d.tileBack, container.NewCenter(d.tile), d.imageCanvas),
	)

	d.ExtendBaseWidget(d)
	return d
}

// CreateRenderer implements fyne.Widget
func (d *LetterDisplay) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(d.container)
}

// SetUnit shows the sign for unit
func (d *LetterDisplay) SetUnit(unit fingerspell.LetterUnit) {
	if unit.Kind == fingerspell.KindLetter {
		if img, err := loadImage(localImagePath(d.imageDir, unit.ImagePath)); err == nil {
			d.setImage(img)
			d.imageLabel.SetText(unit.Caption())
			return
		}
	}

	d.setTile(tileText(unit))
	d.imageLabel.SetText(unit.Caption())
}

// SetLoading shows that the current word is being resolved
func (d *LetterDisplay) SetLoading() {
	d.setTile("…")
	d.imageLabel.SetText("Loading...")
}

// SetError shows a resolution failure
func (d *LetterDisplay) SetError(message string) {
	d.setTile("!")
	d.imageLabel.SetText(fmt.Sprintf("Error: %s", message))
}

// Clear clears the display
func (d *LetterDisplay) Clear() {
	d.setTile("")
	d.imageLabel.SetText("")
}

func (d *LetterDisplay) setImage(img image.Image) {
	d.tile.Text = ""
	d.tile.Refresh()
	d.imageCanvas.Image = img
	d.imageCanvas.Refresh()
}

func (d *LetterDisplay) setTile(text string) {
	d.imageCanvas.Image = nil
	d.imageCanvas.Refresh()
	d.tile.Text = text
	d.tile.Refresh()
}

// localImagePath maps an image path from a resolver to a file. Paths under
// the web image prefix are looked up in imageDir.
func localImagePath(imageDir, imagePath string) string {
	if imagePath == "" || strings.Contains(imagePath, "://") {
		return ""
	}
	if imageDir != "" && strings.HasPrefix(imagePath, fingerspell.DefaultBasePath+"/") {
		return filepath.Join(imageDir, strings.TrimPrefix(imagePath, fingerspell.DefaultBasePath+"/"))
	}
	return imagePath
}

// tileText is the text shown for units without an image
func tileText(unit fingerspell.LetterUnit) string {
	switch unit.Kind {
	case fingerspell.KindSpace:
		return "Space"
	default:
		return strings.ToUpper(unit.Char)
	}
}

func loadImage(path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("no image file")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}
