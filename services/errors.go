package services

import "errors"

// Common service-level errors
var (
	ErrNoteNotFound         = errors.New("note not found")
	ErrContextNotFound      = errors.New("context not found")
	ErrContextAlreadyExists = errors.New("context already exists")
)
