package models

import (
	"time"

	"github.com/google/uuid"
)

type Universe struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"not null;index"`
	Description string
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time

	// Relationships
	Owner         User                   `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Collaborators []UniverseCollaborator `gorm:"foreignKey:UniverseID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Materials     []Material             `gorm:"foreignKey:UniverseID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
