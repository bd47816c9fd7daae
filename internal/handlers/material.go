package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cosmo-sorter/cosmo/internal/authz"
	"github.com/cosmo-sorter/cosmo/internal/models"
	"github.com/cosmo-sorter/cosmo/internal/services"
	"github.com/cosmo-sorter/cosmo/internal/storage"
	"github.com/cosmo-sorter/cosmo/internal/types"
	"github.com/cosmo-sorter/cosmo/internal/utils"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type MaterialHandler struct {
	materials MaterialStore
	universes UniverseStore
	presigner *storage.Presigner
}

// NewMaterialHandler wires the material routes. presigner may be nil
// when attachment storage is not configured; the upload-URL route then
// answers 503.
func NewMaterialHandler(materials MaterialStore, universes UniverseStore, presigner *storage.Presigner) *MaterialHandler {
	return &MaterialHandler{materials: materials, universes: universes, presigner: presigner}
}

type CreateMaterialRequest struct {
	Category    string                 `json:"category" binding:"required,oneof=character location item event concept"`
	Content     map[string]interface{} `json:"content"`
	UniverseID  uuid.UUID              `json:"universe_id" binding:"required"`
	Attachments []types.Attachment     `json:"attachments" binding:"omitempty,dive"`
	AIMetadata  *types.AIMetadata      `json:"ai_metadata"`
}

type UpdateMaterialRequest struct {
	Category    *string                `json:"category" binding:"omitempty,oneof=character location item event concept"`
	Content     map[string]interface{} `json:"content"`
	Attachments []types.Attachment     `json:"attachments" binding:"omitempty,dive"`
	AIMetadata  *types.AIMetadata      `json:"ai_metadata"`
}

func (h *MaterialHandler) List(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	page, pageSize, ok := paginationParams(ctx)

	if !ok {
		return
	}

	category := ctx.Query("category")

	if category != "" && !validCategory(category) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	var tags []string

	if raw := ctx.Query("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(tag); trimmed != "" {
				tags = append(tags, trimmed)
			}
		}
	}

	offset := (page - 1) * pageSize

	var items []models.Material
	var total int64

	if rawUniverseID := ctx.Query("universe_id"); rawUniverseID != "" {
		universeID, err := uuid.Parse(rawUniverseID)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid universe ID"})
			return
		}

		universe, err := h.universes.GetByID(universeID)

		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Universe not found"})
			} else {
				log.Printf("Failed to retrieve universe: %v", err)
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve universe"})
			}
			return
		}

		if !authz.Allowed(userID, universe.OwnerID, universe.CollaboratorIDs, authz.ActionRead) {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to access this universe"})
			return
		}

		items, err = h.materials.GetByUniverse(universeID, offset, pageSize)

		if err != nil {
			log.Printf("Failed to list materials: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve materials"})
			return
		}

		// The universe-scoped path reports the page length as the total
		// rather than a real count. Clients depend on it, so it stays.
		total = int64(len(items))
	} else {
		items, err = h.materials.Search(services.SearchMaterialsInput{
			OwnerID:  userID,
			Category: category,
			Tags:     tags,
			Offset:   offset,
			Limit:    pageSize,
		})

		if err != nil {
			log.Printf("Failed to search materials: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve materials"})
			return
		}

		total, err = h.materials.CountForUser(userID)

		if err != nil {
			log.Printf("Failed to count materials: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve materials"})
			return
		}
	}

	response := types.MaterialListResponse{
		Items:    make([]types.MaterialResponse, 0, len(items)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}

	for _, item := range items {
		response.Items = append(response.Items, materialResponse(item))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *MaterialHandler) Create(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateMaterialRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	universe, err := h.universes.GetByID(req.UniverseID)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Universe not found"})
		} else {
			log.Printf("Failed to retrieve universe: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve universe"})
		}
		return
	}

	// Creating inside a universe requires read access to it: owner or
	// collaborator.
	if !authz.Allowed(userID, universe.OwnerID, universe.CollaboratorIDs, authz.ActionRead) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to add materials to this universe"})
		return
	}

	material, err := h.materials.Create(userID, services.CreateMaterialInput{
		Category:    req.Category,
		Content:     req.Content,
		UniverseID:  req.UniverseID,
		Attachments: req.Attachments,
		AIMetadata:  req.AIMetadata,
	})

	if err != nil {
		log.Printf("Failed to create material: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create material"})
		return
	}

	ctx.JSON(http.StatusCreated, materialResponse(*material))
}

func (h *MaterialHandler) Get(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	material, ok := h.fetch(ctx)

	if !ok {
		return
	}

	collaborators := h.universeCollaborators(material)

	if !authz.Allowed(userID, material.OwnerID, collaborators, authz.ActionRead) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to access this material"})
		return
	}

	ctx.JSON(http.StatusOK, materialResponse(*material))
}

func (h *MaterialHandler) Update(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req UpdateMaterialRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	material, ok := h.fetch(ctx)

	if !ok {
		return
	}

	if !authz.Allowed(userID, material.OwnerID, nil, authz.ActionWrite) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to update this material"})
		return
	}

	updated, err := h.materials.Update(material.ID, services.UpdateMaterialInput{
		Category:    req.Category,
		Content:     req.Content,
		Attachments: req.Attachments,
		AIMetadata:  req.AIMetadata,
	})

	if err != nil {
		log.Printf("Failed to update material: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update material"})
		return
	}

	ctx.JSON(http.StatusOK, materialResponse(*updated))
}

func (h *MaterialHandler) Delete(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	material, ok := h.fetch(ctx)

	if !ok {
		return
	}

	if !authz.Allowed(userID, material.OwnerID, nil, authz.ActionWrite) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to delete this material"})
		return
	}

	if _, err := h.materials.Delete(material.ID); err != nil {
		log.Printf("Failed to delete material: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete material"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

// UploadURL hands the client a presigned PUT URL for a new attachment
// object.
func (h *MaterialHandler) UploadURL(ctx *gin.Context) {
	if _, err := utils.GetCurrentUserID(ctx); err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if h.presigner == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Attachment storage is not configured"})
		return
	}

	key, url, err := h.presigner.UploadURL(ctx.Request.Context())

	if err != nil {
		log.Printf("Failed to presign upload URL: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload URL"})
		return
	}

	ctx.JSON(http.StatusOK, types.UploadURLResponse{Key: key, UploadURL: url})
}

func (h *MaterialHandler) fetch(ctx *gin.Context) (*models.Material, bool) {
	id, err := uuid.Parse(ctx.Param("id"))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid material ID"})
		return nil, false
	}

	material, err := h.materials.GetByID(id)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Material not found"})
		} else {
			log.Printf("Failed to retrieve material: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve material"})
		}
		return nil, false
	}

	return material, true
}

// universeCollaborators loads the collaborator set of the material's
// universe for read authorization. A missing universe simply yields no
// collaborators.
func (h *MaterialHandler) universeCollaborators(material *models.Material) []uuid.UUID {
	universe, err := h.universes.GetByID(material.UniverseID)

	if err != nil {
		return nil
	}

	return universe.CollaboratorIDs
}

func paginationParams(ctx *gin.Context) (int, int, bool) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))

	if err != nil || page < 1 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page"})
		return 0, 0, false
	}

	pageSize, err := strconv.Atoi(ctx.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))

	if err != nil || pageSize < 1 || pageSize > maxPageSize {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page size"})
		return 0, 0, false
	}

	return page, pageSize, true
}

func validCategory(category string) bool {
	switch category {
	case types.CategoryCharacter, types.CategoryLocation, types.CategoryItem, types.CategoryEvent, types.CategoryConcept:
		return true
	}
	return false
}
