package health

import (
	"context"
	"runtime"

	"github.com/go-faster/errors"
)

// GoroutineCountCheck fails when the process exceeds max goroutines, a cheap
// proxy for leaked work.
func GoroutineCountCheck(max int) CheckFunc {
	return func(context.Context) error {
		if n := runtime.NumGoroutine(); n > max {
			return errors.Errorf("too many goroutines: %d > %d", n, max)
		}
		return nil
	}
}
