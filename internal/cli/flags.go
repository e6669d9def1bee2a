package cli

import "time"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile  string
	EnvFile  string
	StateDir string
	Verbose  bool

	// Resolver flags
	ImageDir    string
	ResolverURL string
	Timeout     time.Duration

	// Playback flags
	WordInterval   time.Duration
	LetterInterval time.Duration
	NoHistory      bool
	BatchFile      string

	// Server flags
	Listen string

	// Output flags
	JSON     bool
	DeckName string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Timeout:        5 * time.Second,
		WordInterval:   3000 * time.Millisecond,
		LetterInterval: 1000 * time.Millisecond,
		Listen:         "127.0.0.1:8080",
		DeckName:       "Fingerspelling",
	}
}
