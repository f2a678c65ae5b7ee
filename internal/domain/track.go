package domain

import "time"

// Track is the owning unit of a scope tree.
type Track struct {
	ID                  string    `json:"id"`
	// Key is the stable slug referenced by import mappings.
	Key                 string    `json:"key"`
	Name                string    `json:"name"`
	NameAlt             string    `json:"name_alt"`
	Description         string    `json:"description"`
	DescriptionExtended string    `json:"description_extended"`
	Color               string    `json:"color"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
