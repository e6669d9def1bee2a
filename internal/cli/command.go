package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/signopsis/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags, factory RunnerFactory) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "signopsis",
		Short: "ASL Fingerspelling Player",
		Long: `signopsis turns English text into American Sign Language fingerspelling.

Each word is spelled letter by letter from the ASL alphabet and played
back as a slideshow. Recent translations are kept in a local history.

Examples:
  signopsis                          # Launch interactive GUI (default)
  signopsis spell "hello world"      # Spell in the terminal
  signopsis serve --listen :8080     # Run the transcription service
  signopsis history list             # Show recent translations`,
		Args:          cobra.NoArgs,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ApplyConfig(cmd, flags)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(factory, flags, func(r Runner) error {
				return r.RunGUIMode()
			})
		},
	}

	setupFlags(rootCmd, flags)

	rootCmd.AddCommand(
		newSpellCommand(flags, factory),
		newServeCommand(flags, factory),
		newHistoryCommand(flags, factory),
		newChartCommand(flags, factory),
	)

	return rootCmd
}

func newSpellCommand(flags *Flags, factory RunnerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spell [text]",
		Short: "Fingerspell text in the terminal",
		Args: func(cmd *cobra.Command, args []string) error {
			if flags.BatchFile == "" && len(args) == 0 {
				return fmt.Errorf("requires text to spell or --batch")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(factory, flags, func(r Runner) error {
				if flags.BatchFile != "" {
					return r.SpellBatch(cmd.Context())
				}
				return r.Spell(cmd.Context(), strings.Join(args, " "))
			})
		},
	}

	cmd.Flags().DurationVar(&flags.WordInterval, "word-interval", flags.WordInterval, "Longest time a word stays on screen")
	cmd.Flags().DurationVar(&flags.LetterInterval, "letter-interval", flags.LetterInterval, "Time each letter is shown")
	cmd.Flags().BoolVar(&flags.NoHistory, "no-history", false, "Do not record the translation in the history")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Spell phrases from file (one per line)")

	viper.BindPFlag("playback.word_interval", cmd.Flags().Lookup("word-interval"))
	viper.BindPFlag("playback.letter_interval", cmd.Flags().Lookup("letter-interval"))

	return cmd
}

func newServeCommand(flags *Flags, factory RunnerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP transcription service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(factory, flags, func(r Runner) error {
				return r.Serve(cmd.Context())
			})
		},
	}

	cmd.Flags().StringVarP(&flags.Listen, "listen", "l", flags.Listen, "Address to listen on")
	viper.BindPFlag("server.listen", cmd.Flags().Lookup("listen"))

	return cmd
}

func newHistoryCommand(flags *Flags, factory RunnerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage the translation history",
	}

	run := func(f func(r Runner, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			return withRunner(factory, flags, func(r Runner) error {
				return f(r, cmd, args)
			})
		}
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List recent translations",
		Args:  cobra.NoArgs,
		RunE: run(func(r Runner, cmd *cobra.Command, _ []string) error {
			return r.ListHistory(cmd.Context())
		}),
	}
	list.Flags().BoolVar(&flags.JSON, "json", false, "Print the raw history as JSON")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the words of a translation",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(r Runner, cmd *cobra.Command, args []string) error {
			return r.ShowHistory(cmd.Context(), args[0])
		}),
	}

	replay := &cobra.Command{
		Use:   "replay <id>",
		Short: "Spell a translation from the history again",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(r Runner, cmd *cobra.Command, args []string) error {
			return r.ReplayHistory(cmd.Context(), args[0])
		}),
	}

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Delete all translations",
		Args:  cobra.NoArgs,
		RunE: run(func(r Runner, cmd *cobra.Command, _ []string) error {
			return r.ClearHistory(cmd.Context())
		}),
	}

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add phrases from a file (one per line) to the history",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(r Runner, cmd *cobra.Command, args []string) error {
			return r.ImportHistory(cmd.Context(), args[0])
		}),
	}

	archive := &cobra.Command{
		Use:   "archive",
		Short: "Move the history database aside and start afresh",
		Args:  cobra.NoArgs,
		RunE: run(func(r Runner, cmd *cobra.Command, _ []string) error {
			return r.ArchiveHistory(cmd.Context())
		}),
	}

	export := &cobra.Command{
		Use:   "export <file.apkg|file.csv>",
		Short: "Export the words in the history as Anki flashcards",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(r Runner, cmd *cobra.Command, args []string) error {
			return r.ExportHistory(cmd.Context(), args[0])
		}),
	}
	export.Flags().StringVar(&flags.DeckName, "deck", flags.DeckName, "Deck name for .apkg exports")

	cmd.AddCommand(list, show, replay, clear, importCmd, archive, export)
	return cmd
}

func newChartCommand(flags *Flags, factory RunnerFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "chart [letters]",
		Short: "Show where letters sit on the alphabet chart",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			letters := "abcdefghijklmnopqrstuvwxyz"
			if len(args) == 1 {
				letters = args[0]
			}
			return withRunner(factory, flags, func(r Runner) error {
				return r.Chart(letters)
			})
		},
	}
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	home, _ := os.UserHomeDir()
	defaultStateDir := filepath.Join(home, ".local", "state", "signopsis")

	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.signopsis.yaml)")
	cmd.PersistentFlags().StringVar(&flags.EnvFile, "env-file", "", "dotenv file to load (default is .env if present)")
	cmd.PersistentFlags().StringVar(&flags.StateDir, "state-dir", defaultStateDir, "Directory holding the history database")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Verbose logging")

	// Resolver flags
	cmd.PersistentFlags().StringVar(&flags.ImageDir, "images", "", "Directory with the ASL alphabet images")
	cmd.PersistentFlags().StringVar(&flags.ResolverURL, "resolver-url", "", "Transcribe endpoint of a remote signopsis server (local spelling if empty)")
	cmd.PersistentFlags().DurationVar(&flags.Timeout, "timeout", flags.Timeout, "Remote resolver request timeout")

	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("state.directory", cmd.PersistentFlags().Lookup("state-dir"))
	viper.BindPFlag("resolver.images", cmd.PersistentFlags().Lookup("images"))
	viper.BindPFlag("resolver.url", cmd.PersistentFlags().Lookup("resolver-url"))
	viper.BindPFlag("resolver.timeout", cmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("log.verbose", cmd.PersistentFlags().Lookup("verbose"))
}

// InitConfig loads the dotenv file and initializes viper configuration
func InitConfig(cfgFile, envFile string) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading env file %s: %v\n", envFile, err)
		}
	} else {
		// A missing .env is the normal case
		_ = godotenv.Load()
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".signopsis" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".signopsis")
	}

	// Environment variables, e.g. SIGNOPSIS_RESOLVER_URL for resolver.url
	viper.SetEnvPrefix("SIGNOPSIS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// ApplyConfig copies configured values into flags the user did not set
// on the command line
func ApplyConfig(cmd *cobra.Command, flags *Flags) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if !changed("state-dir") && viper.IsSet("state.directory") {
		flags.StateDir = viper.GetString("state.directory")
	}
	if !changed("images") && viper.IsSet("resolver.images") {
		flags.ImageDir = viper.GetString("resolver.images")
	}
	if !changed("resolver-url") && viper.IsSet("resolver.url") {
		flags.ResolverURL = viper.GetString("resolver.url")
	}
	if !changed("timeout") && viper.IsSet("resolver.timeout") {
		flags.Timeout = viper.GetDuration("resolver.timeout")
	}
	if !changed("verbose") && viper.IsSet("log.verbose") {
		flags.Verbose = viper.GetBool("log.verbose")
	}
	if !changed("word-interval") && viper.IsSet("playback.word_interval") {
		flags.WordInterval = viper.GetDuration("playback.word_interval")
	}
	if !changed("letter-interval") && viper.IsSet("playback.letter_interval") {
		flags.LetterInterval = viper.GetDuration("playback.letter_interval")
	}
	if !changed("listen") && viper.IsSet("server.listen") {
		flags.Listen = viper.GetString("server.listen")
	}
}

// HistoryDBPath returns the location of the history database
func HistoryDBPath(flags *Flags) string {
	return filepath.Join(flags.StateDir, "history.db")
}
