package fingerspell

import (
	"context"
	"net/url"
	"path"
	"strings"
)

const (
	// DefaultBasePath is where the per-letter sign images are served from
	DefaultBasePath = "/images/asl_alphabet"

	// DefaultSuffix completes a letter image file name, e.g. "a_test.jpg"
	DefaultSuffix = "_test.jpg"

	// PlaceholderPath is the endpoint that renders text tiles
	PlaceholderPath = "/placeholder.svg"
)

// LocalConfig configures the image locators produced by LocalResolver
type LocalConfig struct {
	BasePath        string // Directory or URL prefix holding letter images
	Suffix          string // File name suffix appended to each letter
	PlaceholderPath string // Endpoint for space and unsupported tiles
}

// DefaultLocalConfig returns the locator scheme used by the web frontend
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{
		BasePath:        DefaultBasePath,
		Suffix:          DefaultSuffix,
		PlaceholderPath: PlaceholderPath,
	}
}

// LocalResolver computes letter units without any I/O
type LocalResolver struct {
	config *LocalConfig
}

// NewLocalResolver creates a local resolver, filling in missing config fields
func NewLocalResolver(config *LocalConfig) *LocalResolver {
	defaults := DefaultLocalConfig()
	if config == nil {
		config = defaults
	} else {
		c := *config
		if c.BasePath == "" {
			c.BasePath = defaults.BasePath
		}
		if c.Suffix == "" {
			c.Suffix = defaults.Suffix
		}
		if c.PlaceholderPath == "" {
			c.PlaceholderPath = defaults.PlaceholderPath
		}
		config = &c
	}
	return &LocalResolver{config: config}
}

// Spell resolves every character of the lower-cased word. It never fails.
func (r *LocalResolver) Spell(word string) []LetterUnit {
	lowered := strings.ToLower(word)
	units := make([]LetterUnit, 0, len(lowered))

	for _, ch := range lowered {
		c := string(ch)
		switch {
		case ch == ' ':
			units = append(units, LetterUnit{
				Char:      c,
				Kind:      KindSpace,
				ImagePath: r.placeholder("Space"),
			})
		case ch >= 'a' && ch <= 'z':
			units = append(units, LetterUnit{
				Char:      c,
				Kind:      KindLetter,
				ImagePath: r.LetterImage(ch),
			})
		default:
			units = append(units, LetterUnit{
				Char:      c,
				Kind:      KindUnsupported,
				ImagePath: r.placeholder(c),
			})
		}
	}

	return units
}

// Resolve implements Resolver
func (r *LocalResolver) Resolve(ctx context.Context, word string) ([]LetterUnit, error) {
	return r.Spell(word), nil
}

// Name returns the resolver name
func (r *LocalResolver) Name() string {
	return "local"
}

// LetterImage returns the image locator for a lower-case ASCII letter
func (r *LocalResolver) LetterImage(letter rune) string {
	name := string(letter) + r.config.Suffix
	if u, err := url.Parse(r.config.BasePath); err == nil && u.Scheme != "" {
		return u.JoinPath(name).String()
	}
	return path.Join(r.config.BasePath, name)
}

// placeholder builds the tile locator for a space or unsupported character
func (r *LocalResolver) placeholder(text string) string {
	return r.config.PlaceholderPath + "?height=200&width=200&text=" + url.QueryEscape(text)
}
