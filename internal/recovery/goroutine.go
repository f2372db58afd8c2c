package recovery

import (
	"fmt"
	"runtime/debug"

	"github.com/bathymetrix/rudics/internal/logger"
)

// SafeGoWithCleanup runs a function in a goroutine with panic recovery and
// cleanup. Cleanup runs whether or not fn panics.
func SafeGoWithCleanup(name string, fn func(), cleanup func()) {
	go func() {
		defer func() {
			if cleanup != nil {
				cleanup()
			}
			if r := recover(); r != nil {
				logger.Logger.Error().
					Str("goroutine", name).
					Str("stack", string(debug.Stack())).
					Msgf("panic recovered: %v", r)
			}
		}()
		fn()
	}()
}

// Call runs fn on the current goroutine and turns a panic into an error
func Call(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Logger.Debug().
				Str("task", name).
				Str("stack", string(debug.Stack())).
				Msg("panic converted to error")
			err = fmt.Errorf("panic in %s: %v", name, r)
		}
	}()
	return fn()
}
