package services

import (
	"context"
	"time"

	"recordbase/datastore"
	"recordbase/models"
)

// NoteService handles business logic for notes
type NoteService struct {
	repo NoteRepository
}

// NewNoteService creates a new note service
func NewNoteService(repo NoteRepository) *NoteService {
	return &NoteService{repo: repo}
}

// Create stores a new note and returns it with its id assigned.
func (ns *NoteService) Create(ctx context.Context, req models.CreateNoteRequest) (*models.Note, error) {
	note := &models.Note{
		Context:   req.Context,
		Date:      req.Date,
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: time.Now().UTC(),
	}
	return ns.repo.Create(ctx, note)
}

// Get retrieves a note by id.
func (ns *NoteService) Get(ctx context.Context, id string) (*models.Note, error) {
	note := ns.repo.GetByID(ctx, id)
	if note == nil {
		return nil, ErrNoteNotFound
	}
	return note, nil
}

// Update applies the provided fields to an existing note. Fields left
// nil in the request are not touched.
func (ns *NoteService) Update(ctx context.Context, id string, req models.UpdateNoteRequest) (*models.Note, error) {
	patch := datastore.Fields{}
	if req.Title != nil {
		patch["title"] = *req.Title
	}
	if req.Content != nil {
		patch["content"] = *req.Content
	}
	if req.Pinned != nil {
		patch["pinned"] = *req.Pinned
	}

	note, err := ns.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNoteNotFound
	}
	return note, nil
}

// Delete soft-deletes a note. Deleting an absent note is not an error.
func (ns *NoteService) Delete(ctx context.Context, id string) error {
	return ns.repo.Delete(ctx, id)
}

// Destroy permanently removes a note.
func (ns *NoteService) Destroy(ctx context.Context, id string) error {
	return ns.repo.Destroy(ctx, id)
}

// List returns all notes, optionally restricted to one context.
func (ns *NoteService) List(ctx context.Context, contextName string) ([]models.Note, error) {
	if contextName == "" {
		return ns.repo.GetAll(ctx)
	}
	return ns.repo.GetAll(ctx, datastore.Eq("context", contextName))
}
