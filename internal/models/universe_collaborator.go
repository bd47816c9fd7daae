package models

import (
	"time"

	"github.com/google/uuid"
)

// UniverseCollaborator grants a user read access to a universe it does
// not own. The composite unique index makes collaborator insertion
// idempotent.
type UniverseCollaborator struct {
	ID         uint      `gorm:"primaryKey"`
	UniverseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_universe_user"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_universe_user"`
	CreatedAt  time.Time

	// Relationships
	Universe Universe `gorm:"foreignKey:UniverseID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	User     User     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
