package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vineyard is a plot of vines owned by a single user.
type Vineyard struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Location     string    `json:"location"`
	AreaHectares float64   `json:"area_hectares"`
	GrapeVariety string    `json:"grape_variety"`
	OwnerID      uuid.UUID `json:"owner_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
