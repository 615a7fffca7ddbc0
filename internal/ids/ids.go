// Package ids provides the identifier generators injected into reducers.
package ids

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator returns a fresh identifier on every call.
type Generator func() string

// UUID generates random version 4 UUIDs.
func UUID() string {
	return uuid.New().String()
}

// Sequence returns a generator that yields the given ids in order and
// then falls back to "id-<n>", skipping any id it already returned.
func Sequence(values ...string) Generator {
	var (
		mu   sync.Mutex
		n    int
		used = make(map[string]bool, len(values))
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		if n <= len(values) {
			used[values[n-1]] = true
			return values[n-1]
		}
		id := fmt.Sprintf("id-%d", n)
		for used[id] {
			n++
			id = fmt.Sprintf("id-%d", n)
		}
		used[id] = true
		return id
	}
}

// Fixed returns a generator that always yields id. Only useful when a
// test creates a single entity.
func Fixed(id string) Generator {
	return func() string { return id }
}
