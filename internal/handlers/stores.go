package handlers

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/cosmo-sorter/cosmo/internal/models"
	"github.com/cosmo-sorter/cosmo/internal/services"
	"github.com/cosmo-sorter/cosmo/internal/types"
)

// Store interfaces keep the handlers decoupled from the concrete
// services; the *Service types in internal/services satisfy them.

type UserStore interface {
	Create(input services.CreateUserInput) (*models.User, error)
	Authenticate(username, password string) (*models.User, error)
	GetByID(id uuid.UUID) (*models.User, error)
	Update(id uuid.UUID, input services.UpdateUserInput) (*models.User, error)
	Delete(id uuid.UUID) (bool, error)
}

type UniverseStore interface {
	Create(ownerID uuid.UUID, name, description string) (*models.Universe, error)
	ListForUser(ownerID uuid.UUID) ([]services.UniverseDetail, error)
	GetByID(id uuid.UUID) (*services.UniverseDetail, error)
	Update(id uuid.UUID, input services.UpdateUniverseInput) (*services.UniverseDetail, error)
	Delete(id uuid.UUID) (bool, error)
	AddCollaborator(universeID, userID uuid.UUID) error
	RemoveCollaborator(universeID, userID uuid.UUID) error
	GetOrCreateMigrationUniverse(ownerID uuid.UUID) (*models.Universe, error)
}

type MaterialStore interface {
	Create(ownerID uuid.UUID, input services.CreateMaterialInput) (*models.Material, error)
	GetByID(id uuid.UUID) (*models.Material, error)
	GetByUniverse(universeID uuid.UUID, offset, limit int) ([]models.Material, error)
	Search(input services.SearchMaterialsInput) ([]models.Material, error)
	Update(id uuid.UUID, input services.UpdateMaterialInput) (*models.Material, error)
	Delete(id uuid.UUID) (bool, error)
	CountForUser(ownerID uuid.UUID) (int64, error)
}

func userResponse(user *models.User) types.UserResponse {
	return types.UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Preferences: user.Preferences,
		CreatedAt:   user.CreatedAt,
	}
}

func universeResponse(universe models.Universe, collaborators []uuid.UUID) types.UniverseResponse {
	if collaborators == nil {
		collaborators = []uuid.UUID{}
	}

	return types.UniverseResponse{
		ID:            universe.ID,
		Name:          universe.Name,
		Description:   universe.Description,
		OwnerID:       universe.OwnerID,
		Collaborators: collaborators,
		CreatedAt:     universe.CreatedAt,
	}
}

func materialResponse(material models.Material) types.MaterialResponse {
	attachments := json.RawMessage(material.Attachments)

	if len(attachments) == 0 {
		attachments = json.RawMessage("[]")
	}

	metadata := json.RawMessage(material.AIMetadata)

	if len(metadata) == 0 {
		metadata = json.RawMessage("null")
	}

	return types.MaterialResponse{
		ID:          material.ID,
		Category:    material.Category,
		Content:     material.Content,
		Attachments: attachments,
		AIMetadata:  metadata,
		OwnerID:     material.OwnerID,
		UniverseID:  material.UniverseID,
		Version:     material.Version,
		CreatedAt:   material.CreatedAt,
		UpdatedAt:   material.UpdatedAt,
	}
}
