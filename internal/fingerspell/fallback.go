package fingerspell

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// FallbackResolver tries the remote resolver once and substitutes the local
// computation on any failure. Callers never see the remote error.
type FallbackResolver struct {
	remote Resolver
	local  *LocalResolver
	logger *zap.Logger
}

// NewFallbackResolver wraps remote with the local resolver. A nil remote
// makes every call local.
func NewFallbackResolver(remote Resolver, local *LocalResolver, logger *zap.Logger) *FallbackResolver {
	if local == nil {
		local = NewLocalResolver(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackResolver{
		remote: remote,
		local:  local,
		logger: logger,
	}
}

// Resolve returns the remote result, or the local one if the remote failed.
// Only a cancelled context produces an error.
func (f *FallbackResolver) Resolve(ctx context.Context, word string) ([]LetterUnit, error) {
	if f.remote != nil {
		units, err := f.remote.Resolve(ctx, word)
		if err == nil {
			return units, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		f.logger.Debug("Remote resolution failed, using local letters",
			zap.String("word", word),
			zap.String("remote", f.remote.Name()),
			zap.Error(err),
		)
	}

	return f.local.Spell(word), nil
}

// Name returns the resolver name
func (f *FallbackResolver) Name() string {
	if f.remote == nil {
		return f.local.Name()
	}
	return fmt.Sprintf("%s (fallback: %s)", f.remote.Name(), f.local.Name())
}
