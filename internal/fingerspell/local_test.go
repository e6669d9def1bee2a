package fingerspell

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"codeberg.org/snonux/signopsis/internal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalResolver_Spell(t *testing.T) {
	r := NewLocalResolver(nil)

	tests := []struct {
		name  string
		input string
		want  []LetterUnit
	}{
		{
			name:  "single letter",
			input: "a",
			want: []LetterUnit{
				{Char: "a", Kind: KindLetter, ImagePath: "/images/asl_alphabet/a_test.jpg"},
			},
		},
		{
			name:  "space",
			input: " ",
			want: []LetterUnit{
				{Char: " ", Kind: KindSpace, ImagePath: "/placeholder.svg?height=200&width=200&text=Space"},
			},
		},
		{
			name:  "letter and digit",
			input: "a1",
			want: []LetterUnit{
				{Char: "a", Kind: KindLetter, ImagePath: "/images/asl_alphabet/a_test.jpg"},
				{Char: "1", Kind: KindUnsupported, ImagePath: "/placeholder.svg?height=200&width=200&text=1"},
			},
		},
		{
			name:  "upper case is lowered",
			input: "Hi",
			want: []LetterUnit{
				{Char: "h", Kind: KindLetter, ImagePath: "/images/asl_alphabet/h_test.jpg"},
				{Char: "i", Kind: KindLetter, ImagePath: "/images/asl_alphabet/i_test.jpg"},
			},
		},
		{
			name:  "empty",
			input: "",
			want:  []LetterUnit{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Spell(tt.input))
		})
	}
}

func TestLocalResolver_LengthAndOrder(t *testing.T) {
	r := NewLocalResolver(nil)

	inputs := []string{
		"hello world",
		"  double  spaces ",
		"Ünïcödé ß",
		"punctuation!? & #",
		"tab\tand\nnewline",
		"日本語",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			lowered := strings.ToLower(input)
			units := r.Spell(input)

			require.Len(t, units, utf8.RuneCountInString(lowered))

			var rebuilt strings.Builder
			for _, u := range units {
				rebuilt.WriteString(u.Char)
				assert.NotEmpty(t, u.ImagePath)
			}
			assert.Equal(t, lowered, rebuilt.String())
		})
	}
}

func TestLocalResolver_Idempotent(t *testing.T) {
	r := NewLocalResolver(nil)

	first := r.Spell("Sign-opsis 2024")
	second := r.Spell("Sign-opsis 2024")

	assert.Equal(t, first, second)
}

func TestLocalResolver_UnsupportedIsEscaped(t *testing.T) {
	r := NewLocalResolver(nil)

	units := r.Spell("&")
	require.Len(t, units, 1)
	assert.Equal(t, KindUnsupported, units[0].Kind)
	assert.Equal(t, "/placeholder.svg?height=200&width=200&text=%26", units[0].ImagePath)
}

func TestLocalResolver_Config(t *testing.T) {
	tests := []struct {
		name   string
		config *LocalConfig
		want   string
	}{
		{"defaults", nil, "/images/asl_alphabet/b_test.jpg"},
		{"custom path", &LocalConfig{BasePath: "/static/signs", Suffix: ".png"}, "/static/signs/b.png"},
		{"absolute URL", &LocalConfig{BasePath: "https://cdn.example.com/asl/"}, "https://cdn.example.com/asl/b_test.jpg"},
		{"partial config keeps suffix", &LocalConfig{BasePath: "/x"}, "/x/b_test.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewLocalResolver(tt.config)
			assert.Equal(t, tt.want, r.LetterImage('b'))
		})
	}
}

func TestLocalResolver_Resolve(t *testing.T) {
	r := NewLocalResolver(nil)

	units, err := r.Resolve(context.Background(), "ok")
	require.NoError(t, err)
	assert.Equal(t, r.Spell("ok"), units)
	assert.Equal(t, "local", r.Name())
}

func TestLetterUnit_Caption(t *testing.T) {
	assert.Equal(t, "A", LetterUnit{Char: "a", Kind: KindLetter}.Caption())
	assert.Equal(t, "[space]", LetterUnit{Char: " ", Kind: KindSpace}.Caption())
	assert.Equal(t, "?", LetterUnit{Char: "?", Kind: KindUnsupported}.Caption())
}

func TestKind_JSON(t *testing.T) {
	for _, k := range []Kind{KindLetter, KindSpace, KindUnsupported} {
		data, err := k.MarshalJSON()
		require.NoError(t, err)

		var got Kind
		require.NoError(t, got.UnmarshalJSON(data))
		assert.Equal(t, k, got)
	}

	var k Kind
	assert.Error(t, k.UnmarshalJSON([]byte(`"missing"`)))
}

func TestInputError_SharedWithTranslation(t *testing.T) {
	var err error = &InputError{Reason: ErrTextRequired.Error()}

	assert.ErrorIs(t, err, internal.ErrTextRequired)
	var shared *internal.InputError
	assert.ErrorAs(t, err, &shared)
}
