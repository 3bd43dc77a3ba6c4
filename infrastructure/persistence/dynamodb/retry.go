package dynamodb

import (
	"context"
	stderrors "errors"

	"inviter-backend/pkg/errors"
)

// maxOptimisticAttempts bounds the read-mutate-write loop. Three attempts
// absorbs ordinary contention; a hotter item is a design problem and should
// surface as a conflict instead of spinning.
const maxOptimisticAttempts = 3

// updateWithRetry runs a read-mutate-conditional-write loop for versioned
// items. load reads the current state, mutate applies the change in memory,
// write persists it conditioned on the version load observed and must return
// ErrConditionFailed when the condition loses. After maxOptimisticAttempts
// losses the caller gets a ConcurrentModificationError for the named
// resource.
func updateWithRetry[T any](
	ctx context.Context,
	resource string,
	load func(ctx context.Context) (T, error),
	mutate func(current T) (T, error),
	write func(ctx context.Context, updated T) error,
) (T, error) {
	var zero T
	for attempt := 0; attempt < maxOptimisticAttempts; attempt++ {
		current, err := load(ctx)
		if err != nil {
			return zero, err
		}
		updated, err := mutate(current)
		if err != nil {
			return zero, err
		}
		err = write(ctx, updated)
		if err == nil {
			return updated, nil
		}
		if !stderrors.Is(err, ErrConditionFailed) {
			return zero, err
		}
	}
	return zero, errors.NewConcurrentModificationError(resource)
}
