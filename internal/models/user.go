package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Username     string            `gorm:"uniqueIndex;not null"`
	Email        *string           `gorm:"uniqueIndex"`
	PasswordHash string            `gorm:"not null"`
	Preferences  datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt    time.Time

	// Relationships
	OwnedUniverses []Universe             `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	OwnedMaterials []Material             `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Collaborations []UniverseCollaborator `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
