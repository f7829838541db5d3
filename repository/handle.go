package repository

import (
	"errors"
	"sync"

	"recordbase/datastore"
)

// ErrDatabaseNotSet is returned when a repository is requested or used
// before Use has installed a database handle.
var ErrDatabaseNotSet = errors.New("repository: database not set")

var (
	defaultMu sync.RWMutex
	defaultDB *datastore.DB
)

// Use installs the process-wide database handle read by Instance.
// Calling it again replaces the previous handle; last write wins.
func Use(db *datastore.DB) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultDB = db
}

// Default returns the currently installed database handle, or nil when
// none has been set.
func Default() *datastore.DB {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultDB
}
