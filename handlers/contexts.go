package handlers

import (
	"errors"

	"recordbase/app"
	"recordbase/models"
	"recordbase/services"

	"github.com/gofiber/fiber/v2"
)

// GetContexts retrieves all contexts
func GetContexts(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		contexts, err := a.ContextService.List(c.Context())
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch contexts", err)
		}

		return success(c, fiber.Map{"contexts": contexts})
	}
}

// CreateContext creates a new context
func CreateContext(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateContextRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		ctx, err := a.ContextService.Create(c.Context(), req.Name, req.Color)
		if errors.Is(err, services.ErrContextAlreadyExists) {
			return badRequest(c, "Context with this name already exists")
		}
		if err != nil {
			return serverErrorWithDetails(c, "Failed to create context", err)
		}

		return created(c, fiber.Map{"context": ctx})
	}
}

// UpdateContext renames or recolors a context; a rename also rewrites
// the context name on all of its notes atomically
func UpdateContext(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.UpdateContextRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		ctx, err := a.ContextService.Update(c.Context(), c.Params("id"), req.Name, req.Color)
		if errors.Is(err, services.ErrContextNotFound) {
			return notFound(c, "Context not found")
		}
		if err != nil {
			return serverErrorWithDetails(c, "Failed to update context", err)
		}

		return success(c, fiber.Map{"context": ctx})
	}
}

// DeleteContext soft-deletes a context and all of its notes
func DeleteContext(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := a.ContextService.Delete(c.Context(), c.Params("id"))
		if errors.Is(err, services.ErrContextNotFound) {
			return notFound(c, "Context not found")
		}
		if err != nil {
			return serverErrorWithDetails(c, "Failed to delete context", err)
		}

		return success(c, fiber.Map{"deleted": true})
	}
}
