// Package global holds the process-wide request constructor, the analogue
// of replacing the runtime's built-in request type. Package xhr never
// imports it; programs opt in by calling Install.
package global

import (
	"sync"

	apperrors "github.com/kbukum/xhrkit/errors"
	"github.com/kbukum/xhrkit/xhr"
)

// Factory constructs a new request.
type Factory func() *xhr.Request

var (
	mu      sync.RWMutex
	factory Factory
)

// Install makes f the process default and returns a function that restores
// the previous one.
func Install(f Factory) (restore func()) {
	mu.Lock()
	prev := factory
	factory = f
	mu.Unlock()

	return func() {
		mu.Lock()
		factory = prev
		mu.Unlock()
	}
}

// InstallDefault installs a factory that passes opts to xhr.New.
func InstallDefault(opts ...xhr.Option) (restore func()) {
	return Install(func() *xhr.Request { return xhr.New(opts...) })
}

// Installed reports whether a factory is installed.
func Installed() bool {
	mu.RLock()
	defer mu.RUnlock()
	return factory != nil
}

// New constructs a request with the installed factory.
func New() (*xhr.Request, error) {
	mu.RLock()
	f := factory
	mu.RUnlock()
	if f == nil {
		return nil, apperrors.New(apperrors.ErrCodeTransportUnavailable, "no request constructor installed")
	}
	return f(), nil
}
