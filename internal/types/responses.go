package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID          uuid.UUID              `json:"id"`
	Username    string                 `json:"username"`
	Email       *string                `json:"email"`
	Preferences map[string]interface{} `json:"preferences"`
	CreatedAt   time.Time              `json:"created_at"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type UniverseResponse struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	OwnerID       uuid.UUID   `json:"owner_id"`
	Collaborators []uuid.UUID `json:"collaborators"`
	CreatedAt     time.Time   `json:"created_at"`
}

// Attachment mirrors the client document shape; oss_url is the object
// storage location of the uploaded file.
type Attachment struct {
	FileName string `json:"file_name" binding:"required"`
	FileType string `json:"file_type" binding:"required"`
	OSSURL   string `json:"oss_url" binding:"required"`
}

type AIMetadata struct {
	Summary   *string   `json:"summary"`
	Tags      []string  `json:"tags"`
	Embedding []float64 `json:"embedding,omitempty"`
}

type MaterialResponse struct {
	ID          uuid.UUID              `json:"id"`
	Category    string                 `json:"category"`
	Content     map[string]interface{} `json:"content"`
	Attachments json.RawMessage        `json:"attachments"`
	AIMetadata  json.RawMessage        `json:"ai_metadata"`
	OwnerID     uuid.UUID              `json:"owner_id"`
	UniverseID  uuid.UUID              `json:"universe_id"`
	Version     int                    `json:"version"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

type MaterialListResponse struct {
	Items    []MaterialResponse `json:"items"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

type UploadURLResponse struct {
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
}

type MigrationResultItem struct {
	ID       uuid.UUID `json:"id"`
	Category string    `json:"category"`
	Name     string    `json:"name"`
}

type MigrationResponse struct {
	Message          string                `json:"message"`
	UniverseID       uuid.UUID             `json:"universe_id"`
	CreatedMaterials []MigrationResultItem `json:"created_materials"`
	TotalCreated     int                   `json:"total_created"`
}
