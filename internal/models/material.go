package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type Material struct {
	ID       uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Category string            `gorm:"not null;index"` // "character", "location", "item", "event", "concept"
	Content  datatypes.JSONMap `gorm:"type:jsonb"`

	// Attachments and AIMetadata keep the client's document shape
	// verbatim. Tags duplicates ai_metadata.tags into a text[] column so
	// the superset filter runs as array containment in the database.
	Attachments datatypes.JSON `gorm:"type:jsonb"`
	AIMetadata  datatypes.JSON `gorm:"type:jsonb"`
	Tags        pq.StringArray `gorm:"type:text[]"`

	OwnerID    uuid.UUID `gorm:"type:uuid;not null;index"`
	UniverseID uuid.UUID `gorm:"type:uuid;not null;index"`
	Version    int       `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Relationships
	Owner    User     `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Universe Universe `gorm:"foreignKey:UniverseID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
