package cli

import "context"

// Runner carries out the commands. The processor package provides the
// implementation; commands only parse arguments and delegate.
type Runner interface {
	RunGUIMode() error
	Spell(ctx context.Context, text string) error
	SpellBatch(ctx context.Context) error
	Serve(ctx context.Context) error
	ListHistory(ctx context.Context) error
	ShowHistory(ctx context.Context, id string) error
	ReplayHistory(ctx context.Context, id string) error
	ClearHistory(ctx context.Context) error
	ImportHistory(ctx context.Context, path string) error
	ArchiveHistory(ctx context.Context) error
	ExportHistory(ctx context.Context, path string) error
	Chart(letters string) error
	Close() error
}

// RunnerFactory builds the runner once flags and configuration are final
type RunnerFactory func(flags *Flags) (Runner, error)

// withRunner creates a runner, runs f and closes the runner again
func withRunner(factory RunnerFactory, flags *Flags, f func(Runner) error) error {
	runner, err := factory(flags)
	if err != nil {
		return err
	}
	runErr := f(runner)
	if closeErr := runner.Close(); closeErr != nil && runErr == nil {
		return closeErr
	}
	return runErr
}
