package enrich

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/lookup-cli/internal/resilience"
)

// Attempt invokes call up to max times, returning the first result accept
// approves along with the number of calls made. Failed attempts sleep the
// schedule's next jittered delay before retrying; there is no sleep after
// the final attempt. A call error is logged and treated like an
// unacceptable result, never surfaced. The returned error is non-nil only
// when the context was cancelled mid-row, in which case the result must be
// discarded.
func Attempt[T any](ctx context.Context, log *zap.Logger, max int, sched *resilience.Schedule, call func(context.Context) (T, error), accept func(T) bool) (T, int, error) {
	if max < 1 {
		max = 1
	}
	var last T
	for attempt := 1; attempt <= max; attempt++ {
		res, err := call(ctx)
		if err != nil {
			var zero T
			last = zero
			log.Warn("agent call failed",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", max),
				zap.Error(err))
		} else {
			last = res
		}

		if accept(last) {
			return last, attempt, nil
		}
		if attempt == max {
			break
		}
		if err := sched.Sleep(ctx); err != nil {
			return last, attempt, err
		}
	}
	if err := ctx.Err(); err != nil {
		return last, max, err
	}
	return last, max, nil
}
