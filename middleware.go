package capstack

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/capstack-dev/capstack-sdk/typekey"
)

// Middleware is a function that wraps a ResolveFunc to add cross-cutting
// behavior. Middleware executes in FIFO order (first registered wraps
// first, onion model).
//
// Example usage:
//
//	timing := func(next capstack.ResolveFunc) capstack.ResolveFunc {
//	    return func(key typekey.Key, slot string) (interface{}, error) {
//	        start := time.Now()
//	        defer func() { observe(time.Since(start)) }()
//	        return next(key, slot)
//	    }
//	}
type Middleware func(next ResolveFunc) ResolveFunc

// LoggingMiddleware returns a middleware that logs every capability
// resolution through the given structured logger.
func LoggingMiddleware(logger *log.Logger) Middleware {
	return func(next ResolveFunc) ResolveFunc {
		return func(key typekey.Key, slot string) (interface{}, error) {
			v, err := next(key, slot)
			if err != nil {
				logger.Error("capability resolution failed", "type", key.String(), "slot", slot, "err", err)
				return v, err
			}
			logger.Debug("capability resolved", "type", key.String(), "slot", slot)
			return v, nil
		}
	}
}

// PanicRecoveryMiddleware returns a middleware that catches panics from
// misbehaving provider factories and converts them to a ResolutionPanicError
// instead of crashing the process.
func PanicRecoveryMiddleware() Middleware {
	return func(next ResolveFunc) ResolveFunc {
		return func(key typekey.Key, slot string) (v interface{}, err error) {
			defer func() {
				if rec := recover(); rec != nil {
					v = nil
					err = &ResolutionPanicError{Key: key, Slot: slot, Value: rec}
				}
			}()
			return next(key, slot)
		}
	}
}

// ResolutionPanicError wraps a panic raised during capability resolution.
type ResolutionPanicError struct {
	Value interface{}
	Key   typekey.Key
	Slot  string
}

func (e *ResolutionPanicError) Error() string {
	return fmt.Sprintf("panic resolving slot %q of type %q: %v", e.Slot, e.Key.String(), e.Value)
}
