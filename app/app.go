package app

import (
	"log/slog"

	"recordbase/services"
	"recordbase/validator"
)

// App holds all application dependencies
// This struct is the central point for dependency injection
type App struct {
	NoteService    *services.NoteService
	ContextService *services.ContextService
	Validator      *validator.Validator
	Logger         *slog.Logger
}

// New creates a new App instance with all dependencies
func New(noteService *services.NoteService, contextService *services.ContextService, logger *slog.Logger) *App {
	return &App{
		NoteService:    noteService,
		ContextService: contextService,
		Validator:      validator.New(),
		Logger:         logger,
	}
}
