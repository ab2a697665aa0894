package timeutil

import (
	"math"
	"math/rand"
	"time"
)

// ComputeJitter returns a uniform random duration in [0, limit).
// A non-positive limit yields 0.
func ComputeJitter(limit time.Duration, rng *rand.Rand) time.Duration {
	if limit <= 0 || rng == nil {
		return 0
	}
	return time.Duration(rng.Int63n(int64(limit)))
}

// ExponentialBackoffDelay returns initial * multiplier^(backoffCount-1),
// capped at the max duration, plus up to jitter of random noise.
// backoffCount below 1 is treated as 1.
func ExponentialBackoffDelay(
	backoffCount int,
	jitter time.Duration,
	rng *rand.Rand,
	backoffParam BackoffParam,
) time.Duration {
	if backoffCount < 1 {
		backoffCount = 1
	}
	delay := float64(backoffParam.InitialDuration()) *
		math.Pow(backoffParam.Multiplier(), float64(backoffCount-1))
	if maxDelay := float64(backoffParam.MaxDuration()); maxDelay > 0 && delay > maxDelay {
		delay = maxDelay
	}
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay) + ComputeJitter(jitter, rng)
}
