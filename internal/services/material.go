package services

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/cosmo-sorter/cosmo/internal/models"
	"github.com/cosmo-sorter/cosmo/internal/types"
)

type MaterialService struct {
	db *gorm.DB
}

func NewMaterialService(db *gorm.DB) *MaterialService {
	return &MaterialService{db: db}
}

type CreateMaterialInput struct {
	Category    string
	Content     map[string]interface{}
	UniverseID  uuid.UUID
	Attachments []types.Attachment
	AIMetadata  *types.AIMetadata
}

type UpdateMaterialInput struct {
	Category    *string
	Content     map[string]interface{}
	Attachments []types.Attachment
	AIMetadata  *types.AIMetadata
}

type SearchMaterialsInput struct {
	OwnerID    uuid.UUID
	UniverseID *uuid.UUID
	Category   string
	Tags       []string
	Offset     int
	Limit      int
}

func (s *MaterialService) Create(ownerID uuid.UUID, input CreateMaterialInput) (*models.Material, error) {
	attachments := input.Attachments

	if attachments == nil {
		attachments = []types.Attachment{}
	}

	attachmentsJSON, err := json.Marshal(attachments)

	if err != nil {
		return nil, err
	}

	material := models.Material{
		ID:          uuid.New(),
		Category:    input.Category,
		Content:     datatypes.JSONMap(input.Content),
		Attachments: datatypes.JSON(attachmentsJSON),
		OwnerID:     ownerID,
		UniverseID:  input.UniverseID,
		Version:     1,
	}

	if material.Content == nil {
		material.Content = datatypes.JSONMap{}
	}

	if input.AIMetadata != nil {
		metadataJSON, err := json.Marshal(input.AIMetadata)

		if err != nil {
			return nil, err
		}

		material.AIMetadata = datatypes.JSON(metadataJSON)
		material.Tags = pq.StringArray(input.AIMetadata.Tags)
	}

	if err := s.db.Create(&material).Error; err != nil {
		return nil, err
	}

	return &material, nil
}

func (s *MaterialService) GetByID(id uuid.UUID) (*models.Material, error) {
	var material models.Material

	if err := s.db.Where("id = ?", id).First(&material).Error; err != nil {
		return nil, err
	}

	return &material, nil
}

func (s *MaterialService) GetByUniverse(universeID uuid.UUID, offset, limit int) ([]models.Material, error) {
	var materials []models.Material

	err := s.db.
		Where("universe_id = ?", universeID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&materials).Error

	if err != nil {
		return nil, err
	}

	return materials, nil
}

// Search filters the caller's own materials. The tag filter matches
// materials whose tag set contains every requested tag.
func (s *MaterialService) Search(input SearchMaterialsInput) ([]models.Material, error) {
	query := s.db.Where("owner_id = ?", input.OwnerID)

	if input.UniverseID != nil {
		query = query.Where("universe_id = ?", *input.UniverseID)
	}

	if input.Category != "" {
		query = query.Where("category = ?", input.Category)
	}

	if len(input.Tags) > 0 {
		query = query.Where("tags @> ?", pq.StringArray(input.Tags))
	}

	var materials []models.Material

	err := query.
		Order("created_at DESC").
		Offset(input.Offset).
		Limit(input.Limit).
		Find(&materials).Error

	if err != nil {
		return nil, err
	}

	return materials, nil
}

// Update merges only the supplied fields and bumps the version so stale
// clients can detect concurrent edits.
func (s *MaterialService) Update(id uuid.UUID, input UpdateMaterialInput) (*models.Material, error) {
	updates := make(map[string]interface{})

	if input.Category != nil {
		updates["category"] = *input.Category
	}

	if input.Content != nil {
		updates["content"] = datatypes.JSONMap(input.Content)
	}

	if input.Attachments != nil {
		attachmentsJSON, err := json.Marshal(input.Attachments)

		if err != nil {
			return nil, err
		}

		updates["attachments"] = datatypes.JSON(attachmentsJSON)
	}

	if input.AIMetadata != nil {
		metadataJSON, err := json.Marshal(input.AIMetadata)

		if err != nil {
			return nil, err
		}

		updates["ai_metadata"] = datatypes.JSON(metadataJSON)
		updates["tags"] = pq.StringArray(input.AIMetadata.Tags)
	}

	if len(updates) > 0 {
		updates["version"] = gorm.Expr("version + 1")

		err := s.db.Model(&models.Material{}).Where("id = ?", id).Updates(updates).Error

		if err != nil {
			return nil, err
		}
	}

	return s.GetByID(id)
}

func (s *MaterialService) Delete(id uuid.UUID) (bool, error) {
	result := s.db.Delete(&models.Material{}, "id = ?", id)

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// CountForUser is the exact total used by the search pagination path.
func (s *MaterialService) CountForUser(ownerID uuid.UUID) (int64, error) {
	var count int64

	err := s.db.Model(&models.Material{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error

	if err != nil {
		return 0, err
	}

	return count, nil
}
