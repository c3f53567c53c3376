package models

import "time"

type Category struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Color     *string   `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CategoryPatch struct {
	Name  *string
	Color *string
}

func (p CategoryPatch) IsEmpty() bool {
	return p.Name == nil && p.Color == nil
}

// DefaultCategories is the set every new user starts with.
var DefaultCategories = []string{"Food", "Housing", "Transport", "Salary", "Other"}
