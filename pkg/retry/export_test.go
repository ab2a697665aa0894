package retry

import "time"

// SetSleep replaces the backoff sleep and returns a restore func.
func SetSleep(f func(time.Duration)) func() {
	old := sleep
	sleep = f
	return func() { sleep = old }
}
