// lexicon/retry.go
package lexicon

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/khaldane/Scrabble-Game/logger"
)

// Retrying 对后端错误做退避重试，重试耗尽后返回 ErrUnavailable
type Retrying struct {
	next     Oracle
	attempts uint
	delay    time.Duration
}

func NewRetrying(next Oracle, attempts uint, delay time.Duration) *Retrying {
	if attempts == 0 {
		attempts = 1
	}
	return &Retrying{next: next, attempts: attempts, delay: delay}
}

func (r *Retrying) IsWord(ctx context.Context, candidate string) (bool, error) {
	var found bool
	err := retry.Do(
		func() error {
			ok, err := r.next.IsWord(ctx, candidate)
			if err != nil {
				return err
			}
			found = ok
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(r.attempts),
		retry.Delay(r.delay),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			logger.Log.Warnf("lexicon lookup for %q failed (attempt %d): %v", candidate, n+1, err)
			return retry.BackOffDelay(n, err, config)
		}),
	)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return found, nil
}
