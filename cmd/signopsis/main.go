package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"codeberg.org/snonux/signopsis/internal/cli"
	"codeberg.org/snonux/signopsis/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags, newRunner)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile, flags.EnvFile)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// newRunner builds the processor once configuration has been applied
func newRunner(flags *cli.Flags) (cli.Runner, error) {
	logger, err := cli.NewLogger(flags.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	proc, err := processor.NewProcessor(flags, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	logger.Debug("Processor ready", zap.String("state_dir", flags.StateDir))
	return proc, nil
}
