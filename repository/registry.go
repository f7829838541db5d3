package repository

import (
	"reflect"
	"sync"
)

var (
	registryMu sync.Mutex
	registry   = make(map[reflect.Type]any)
)

// Instance returns the singleton repository for the model type T,
// building it on first call. Two calls for the same T return the
// identical object; distinct model types never collide. Construction
// fails with ErrDatabaseNotSet when no handle has been installed.
func Instance[T Model]() (*Repository[T], error) {
	registryMu.Lock()
	defer registryMu.Unlock()

	key := reflect.TypeOf((*T)(nil)).Elem()
	if cached, ok := registry[key]; ok {
		return cached.(*Repository[T]), nil
	}

	db := Default()
	if db == nil {
		return nil, ErrDatabaseNotSet
	}

	repo := New[T](db)
	registry[key] = repo
	return repo, nil
}

// resetRegistry clears the singleton cache and the default handle.
// Test hook only.
func resetRegistry() {
	registryMu.Lock()
	registry = make(map[reflect.Type]any)
	registryMu.Unlock()
	Use(nil)
}
