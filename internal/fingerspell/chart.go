package fingerspell

import (
	"fmt"
	"strconv"
	"unicode/utf16"
)

// The alphabet chart image lays the 26 signs out in four rows of
// 7, 7, 7 and 5 letters.
const (
	chartColumns = 7
	chartRows    = 4

	// ColumnStep and RowStep are the background offsets of one cell, in percent
	ColumnStep = 14.3
	RowStep    = 25.0
)

// ChartPosition returns the row and column of a letter in the alphabet chart.
// Upper and lower case letters are accepted; anything else reports ok=false.
func ChartPosition(letter rune) (row, col int, ok bool) {
	switch {
	case letter >= 'a' && letter <= 'z':
		letter -= 'a'
	case letter >= 'A' && letter <= 'Z':
		letter -= 'A'
	default:
		return 0, 0, false
	}

	index := int(letter)
	return index / chartColumns, index % chartColumns, true
}

// BackgroundPosition returns the CSS background-position that shows the
// letter's cell of the chart. Non-letters map to the top-left cell.
func BackgroundPosition(letter rune) string {
	row, col, ok := ChartPosition(letter)
	if !ok {
		return "0% 0%"
	}
	return fmt.Sprintf("%s%% %s%%", formatPercent(float64(col)*ColumnStep), formatPercent(float64(row)*RowStep))
}

// ChartCell returns the fractional bounds of a letter's cell, suitable for
// cropping the chart image: x and y offsets and the cell width and height.
func ChartCell(letter rune) (x, y, w, h float64, ok bool) {
	row, col, ok := ChartPosition(letter)
	if !ok {
		return 0, 0, 0, 0, false
	}
	w = 1.0 / chartColumns
	h = 1.0 / chartRows
	return float64(col) * w, float64(row) * h, w, h, true
}

// WordHue derives a stable hue in [170, 190) for tinting a word's card
func WordHue(word string) int {
	var hash int64
	for _, c := range utf16.Encode([]rune(word)) {
		shifted := int64(int32(uint32(int32(hash)) << 5))
		hash = int64(c) + shifted - hash
	}
	if hash < 0 {
		hash = -hash
	}
	return 170 + int(hash%20)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
