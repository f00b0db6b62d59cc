package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is one catalog row. ExternalID is the business identifier
// (what operators type and what bulk import files carry); the uuid PK
// never leaves the API.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"index;not null"`
	ExternalID  string    `gorm:"uniqueIndex;not null"`
	Description string
	Quantity    int    `gorm:"not null;default:0;check:quantity >= 0"`
	Location    string `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
