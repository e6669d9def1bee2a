package gui

import (
	"fmt"
	"image/color"
	"math"
	"strings"
	"time"

	"codeberg.org/snonux/signopsis/internal/translation"
)

// infoText explains how fingerspelling works, mentioning word if set
func infoText(word string) string {
	var b strings.Builder
	b.WriteString("Fingerspelling spells a word one handshape per letter.\n")
	b.WriteString("It is used for names, places and words without their own sign.\n\n")
	if word != "" {
		fmt.Fprintf(&b, "\"%s\" is spelled with %d handshapes:\n%s\n\n",
			word, len([]rune(word)), strings.Join(strings.Split(strings.ToUpper(word), ""), " - "))
	}
	b.WriteString("Hold each handshape briefly and keep your hand in one place.")
	return b.String()
}

// historyLabel returns the text and the metadata shown for a history row
func historyLabel(t *translation.Translation, loc *time.Location) (string, string) {
	words := "words"
	if t.WordCount() == 1 {
		words = "word"
	}
	return t.OriginalText, fmt.Sprintf("%s · %d %s", t.DisplayTime(loc), t.WordCount(), words)
}

// hslToRGB converts a hue in degrees with saturation and lightness in [0,1]
func hslToRGB(h, s, l float64) color.NRGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}

	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return color.NRGBA{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: 0xff,
	}
}
