package apiclient

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// Backoff computes the delay before retry number attempt (starting at 1).
type Backoff interface {
	Delay(attempt int) time.Duration
}

// ExponentialBackoff doubles the delay on every attempt, with optional jitter.
type ExponentialBackoff struct {
	Initial time.Duration
	Max     time.Duration
	Jitter  float64 // 0..1, fraction of the delay randomized in both directions
}

func (b ExponentialBackoff) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	initial := b.Initial
	if initial <= 0 {
		initial = 200 * time.Millisecond
	}
	ceiling := b.Max
	if ceiling <= 0 {
		ceiling = 5 * time.Second
	}

	d := float64(initial) * math.Pow(2, float64(attempt-1))
	if b.Jitter > 0 {
		d *= 1 + (rand.Float64()*2-1)*b.Jitter
	}
	if d > float64(ceiling) {
		d = float64(ceiling)
	}
	return time.Duration(d)
}

// ConstantBackoff waits the same interval between attempts.
type ConstantBackoff time.Duration

func (b ConstantBackoff) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return time.Duration(b)
}

func defaultBackoff() Backoff {
	return ExponentialBackoff{Initial: 200 * time.Millisecond, Max: 5 * time.Second, Jitter: 0.2}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
