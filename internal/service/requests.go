package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CreateCategoryInput defines the body accepted when creating a category.
type CreateCategoryInput struct {
	Name        string  `json:"name" binding:"required,max=100" example:"RPG"`
	Description *string `json:"description" binding:"omitempty,max=1000" example:"Role-playing games"`
}

// UpdateCategoryInput is a partial update; nil fields are left untouched.
type UpdateCategoryInput struct {
	ID          uint    `json:"id" binding:"required" example:"1"`
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

// CategoryRef points a game at an existing category.
type CategoryRef struct {
	ID uint `json:"id" binding:"required" example:"1"`
}

// CreateGameInput defines the body accepted when creating a game.
type CreateGameInput struct {
	Title       string           `json:"title" binding:"required,max=100" example:"Quest"`
	Description *string          `json:"description" binding:"omitempty,max=1000"`
	Price       *decimal.Decimal `json:"price" binding:"required" swaggertype:"number" example:"9.99"`
	Developer   string           `json:"developer" binding:"required,max=100" example:"Acme"`
	ReleaseDate *Date            `json:"releaseDate" binding:"required" swaggertype:"string" example:"2024-01-01"`
	Rating      *float64         `json:"rating" binding:"omitempty,min=0,max=10" example:"8.5"`
	Category    *CategoryRef     `json:"category" binding:"required"`
}

// UpdateGameInput is a partial update; nil fields are left untouched.
type UpdateGameInput struct {
	Title       *string          `json:"title" binding:"omitempty,min=1,max=100"`
	Description *string          `json:"description" binding:"omitempty,max=1000"`
	Price       *decimal.Decimal `json:"price" swaggertype:"number"`
	Developer   *string          `json:"developer" binding:"omitempty,min=1,max=100"`
	ReleaseDate *Date            `json:"releaseDate" swaggertype:"string"`
	Rating      *float64         `json:"rating" binding:"omitempty,min=0,max=10"`
	Category    *CategoryRef     `json:"category"`
}

// Date accepts either a calendar date ("2024-01-01") or an RFC 3339 timestamp.
type Date struct {
	time.Time
}

// NewDate wraps t.
func NewDate(t time.Time) *Date {
	return &Date{Time: t}
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}

	for _, layout := range []string{time.DateOnly, time.RFC3339Nano} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid date %q, expected YYYY-MM-DD or RFC 3339", s)
}
