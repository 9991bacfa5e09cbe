package compute

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/gpucontext"
)

// OpenOptions configures Open.
type OpenOptions struct {
	// Provider shares a device owned by a host application. Backends that
	// cannot use it ignore it.
	Provider gpucontext.DeviceProvider

	// Workers bounds CPU parallelism for backends that run on the host.
	// Zero means GOMAXPROCS.
	Workers int
}

// Opener opens a device for a backend.
type Opener func(opts OpenOptions) (Device, error)

var (
	backendsMu sync.RWMutex
	backends   = map[string]Opener{}
)

// Register makes a backend available by name. It panics if name is empty or
// already registered, like database/sql.Register.
func Register(name string, open Opener) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	if name == "" || open == nil {
		panic("compute: Register with empty name or nil opener")
	}
	if _, dup := backends[name]; dup {
		panic("compute: Register called twice for backend " + name)
	}
	backends[name] = open
}

// Backends returns the registered backend names in sorted order.
func Backends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open opens a device on the named backend.
func Open(name string, opts OpenOptions) (Device, error) {
	backendsMu.RLock()
	open, ok := backends[name]
	backendsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrUnknownBackend, name, Backends())
	}
	dev, err := open(opts)
	if err != nil {
		return nil, fmt.Errorf("compute: open %s: %w", name, err)
	}
	Logger().Info("compute: device opened", "backend", name, "device", dev.Name())
	return dev, nil
}
