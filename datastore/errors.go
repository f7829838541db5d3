package datastore

import "errors"

// ErrNotFound is returned by lookups when no live record matches.
var ErrNotFound = errors.New("datastore: record not found")
