package fingerspell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChartPosition(t *testing.T) {
	tests := []struct {
		letter rune
		row    int
		col    int
		wantOK bool
	}{
		{'a', 0, 0, true},
		{'g', 0, 6, true},
		{'h', 1, 0, true},
		{'N', 1, 6, true},
		{'o', 2, 0, true},
		{'u', 2, 6, true},
		{'v', 3, 0, true},
		{'z', 3, 4, true},
		{'1', 0, 0, false},
		{' ', 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.letter), func(t *testing.T) {
			row, col, ok := ChartPosition(tt.letter)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.row, row)
			assert.Equal(t, tt.col, col)
		})
	}
}

func TestBackgroundPosition(t *testing.T) {
	assert.Equal(t, "0% 0%", BackgroundPosition('a'))
	assert.Equal(t, "14.3% 0%", BackgroundPosition('b'))
	assert.Equal(t, "0% 25%", BackgroundPosition('h'))
	assert.Equal(t, "0% 75%", BackgroundPosition('v'))
	assert.Equal(t, "0% 0%", BackgroundPosition('#'))
}

func TestChartCell(t *testing.T) {
	x, y, w, h, ok := ChartCell('h')
	assert.True(t, ok)
	assert.InDelta(t, 0.0, x, 1e-9)
	assert.InDelta(t, 0.25, y, 1e-9)
	assert.InDelta(t, 1.0/7, w, 1e-9)
	assert.InDelta(t, 0.25, h, 1e-9)

	_, _, _, _, ok = ChartCell('!')
	assert.False(t, ok)
}

func TestWordHue(t *testing.T) {
	for _, word := range []string{"", "a", "hello", "Sign-opsis", "a very long phrase indeed"} {
		hue := WordHue(word)
		assert.GreaterOrEqual(t, hue, 170, word)
		assert.Less(t, hue, 190, word)
		assert.Equal(t, hue, WordHue(word), "hue must be stable")
	}

	// 'a' hashes to 97
	assert.Equal(t, 170+97%20, WordHue("a"))
}
