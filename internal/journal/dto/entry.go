package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type EntryInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (in EntryInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.Content, validation.Required),
	)
}

type EntryOutput struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
