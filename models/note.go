package models

import "time"

// Note is a record kind stored in the "notes" collection.
type Note struct {
	ID        string    `json:"id"`
	Context   string    `json:"context"`
	Date      string    `json:"date"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"created_at"`
}

func (Note) TableName() string { return "notes" }

// Context groups notes under a named bucket.
type Context struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

func (Context) TableName() string { return "contexts" }

type CreateNoteRequest struct {
	Context string `json:"context" validate:"required,max=100"`
	Date    string `json:"date" validate:"required,dateformat"`
	Title   string `json:"title" validate:"max=200"`
	Content string `json:"content"`
}

type UpdateNoteRequest struct {
	Title   *string `json:"title" validate:"omitempty,max=200"`
	Content *string `json:"content"`
	Pinned  *bool   `json:"pinned"`
}

type CreateContextRequest struct {
	Name  string `json:"name" validate:"required,contextname,max=100"`
	Color string `json:"color" validate:"omitempty,max=50"`
}

type UpdateContextRequest struct {
	Name  string `json:"name" validate:"required,contextname,max=100"`
	Color string `json:"color" validate:"omitempty,max=50"`
}
