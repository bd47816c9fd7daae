package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cosmo-sorter/cosmo/internal/models"
	"github.com/cosmo-sorter/cosmo/internal/types"
)

type UniverseService struct {
	db *gorm.DB
}

func NewUniverseService(db *gorm.DB) *UniverseService {
	return &UniverseService{db: db}
}

type UpdateUniverseInput struct {
	Name        *string
	Description *string
}

// UniverseDetail is a universe together with its collaborator user ids,
// which live in their own table.
type UniverseDetail struct {
	models.Universe
	CollaboratorIDs []uuid.UUID
}

func (s *UniverseService) Create(ownerID uuid.UUID, name, description string) (*models.Universe, error) {
	universe := models.Universe{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
	}

	if err := s.db.Create(&universe).Error; err != nil {
		return nil, err
	}

	return &universe, nil
}

// ListForUser returns universes the user owns. Universes where the user
// is merely a collaborator are not listed; only direct reads by id grant
// collaborators access.
func (s *UniverseService) ListForUser(ownerID uuid.UUID) ([]UniverseDetail, error) {
	var universes []models.Universe

	if err := s.db.Where("owner_id = ?", ownerID).Find(&universes).Error; err != nil {
		return nil, err
	}

	details := make([]UniverseDetail, 0, len(universes))

	for _, universe := range universes {
		collaborators, err := s.collaboratorIDs(universe.ID)

		if err != nil {
			return nil, err
		}

		details = append(details, UniverseDetail{Universe: universe, CollaboratorIDs: collaborators})
	}

	return details, nil
}

func (s *UniverseService) GetByID(id uuid.UUID) (*UniverseDetail, error) {
	var universe models.Universe

	if err := s.db.Where("id = ?", id).First(&universe).Error; err != nil {
		return nil, err
	}

	collaborators, err := s.collaboratorIDs(id)

	if err != nil {
		return nil, err
	}

	return &UniverseDetail{Universe: universe, CollaboratorIDs: collaborators}, nil
}

func (s *UniverseService) Update(id uuid.UUID, input UpdateUniverseInput) (*UniverseDetail, error) {
	updates := make(map[string]interface{})

	if input.Name != nil {
		updates["name"] = *input.Name
	}

	if input.Description != nil {
		updates["description"] = *input.Description
	}

	if len(updates) > 0 {
		err := s.db.Model(&models.Universe{}).Where("id = ?", id).Updates(updates).Error

		if err != nil {
			return nil, err
		}
	}

	return s.GetByID(id)
}

// Delete removes the universe. Contained materials and collaborator rows
// go with it through the foreign key cascades.
func (s *UniverseService) Delete(id uuid.UUID) (bool, error) {
	result := s.db.Delete(&models.Universe{}, "id = ?", id)

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// AddCollaborator inserts the membership row, doing nothing if it is
// already present.
func (s *UniverseService) AddCollaborator(universeID, userID uuid.UUID) error {
	row := models.UniverseCollaborator{
		UniverseID: universeID,
		UserID:     userID,
	}

	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

func (s *UniverseService) RemoveCollaborator(universeID, userID uuid.UUID) error {
	return s.db.
		Where("universe_id = ? AND user_id = ?", universeID, userID).
		Delete(&models.UniverseCollaborator{}).Error
}

func (s *UniverseService) IsCollaborator(universeID, userID uuid.UUID) (bool, error) {
	var count int64

	err := s.db.Model(&models.UniverseCollaborator{}).
		Where("universe_id = ? AND user_id = ?", universeID, userID).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// GetOrCreateMigrationUniverse finds the caller's migration universe by
// its fixed name, creating it on first use.
func (s *UniverseService) GetOrCreateMigrationUniverse(ownerID uuid.UUID) (*models.Universe, error) {
	var universe models.Universe

	err := s.db.
		Where("owner_id = ? AND name = ?", ownerID, types.MigrationUniverseName).
		First(&universe).Error

	if err == nil {
		return &universe, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return s.Create(ownerID, types.MigrationUniverseName, types.MigrationUniverseDescription)
}

func (s *UniverseService) collaboratorIDs(universeID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}

	err := s.db.Model(&models.UniverseCollaborator{}).
		Where("universe_id = ?", universeID).
		Pluck("user_id", &ids).Error

	if err != nil {
		return nil, err
	}

	return ids, nil
}
