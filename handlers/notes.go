package handlers

import (
	"errors"

	"recordbase/app"
	"recordbase/models"
	"recordbase/services"

	"github.com/gofiber/fiber/v2"
)

// CreateNote stores a new note
func CreateNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateNoteRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		note, err := a.NoteService.Create(c.Context(), req)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to create note", err)
		}

		return created(c, fiber.Map{"note": note})
	}
}

// GetNote retrieves a note by id
func GetNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		note, err := a.NoteService.Get(c.Context(), c.Params("id"))
		if errors.Is(err, services.ErrNoteNotFound) {
			return notFound(c, "Note not found")
		}
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch note", err)
		}

		return success(c, fiber.Map{"note": note})
	}
}

// ListNotes retrieves all notes, optionally filtered by context
func ListNotes(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		notes, err := a.NoteService.List(c.Context(), c.Query("context"))
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch notes", err)
		}

		return success(c, fiber.Map{"notes": notes})
	}
}

// UpdateNote applies a partial update to an existing note
func UpdateNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.UpdateNoteRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		note, err := a.NoteService.Update(c.Context(), c.Params("id"), req)
		if errors.Is(err, services.ErrNoteNotFound) {
			return notFound(c, "Note not found")
		}
		if err != nil {
			return serverErrorWithDetails(c, "Failed to update note", err)
		}

		return success(c, fiber.Map{"note": note})
	}
}

// DeleteNote soft-deletes a note; with ?permanent=true the note is
// removed from storage entirely
func DeleteNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var err error
		if c.QueryBool("permanent") {
			err = a.NoteService.Destroy(c.Context(), id)
		} else {
			err = a.NoteService.Delete(c.Context(), id)
		}
		if err != nil {
			return serverErrorWithDetails(c, "Failed to delete note", err)
		}

		return success(c, fiber.Map{"deleted": true})
	}
}
