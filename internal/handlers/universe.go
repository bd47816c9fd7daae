package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cosmo-sorter/cosmo/internal/authz"
	"github.com/cosmo-sorter/cosmo/internal/services"
	"github.com/cosmo-sorter/cosmo/internal/types"
	"github.com/cosmo-sorter/cosmo/internal/utils"
)

type UniverseHandler struct {
	universes UniverseStore
}

func NewUniverseHandler(universes UniverseStore) *UniverseHandler {
	return &UniverseHandler{universes: universes}
}

type CreateUniverseRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateUniverseRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *UniverseHandler) List(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	details, err := h.universes.ListForUser(userID)

	if err != nil {
		log.Printf("Failed to list universes: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve universes"})
		return
	}

	response := make([]types.UniverseResponse, 0, len(details))

	for _, detail := range details {
		response = append(response, universeResponse(detail.Universe, detail.CollaboratorIDs))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *UniverseHandler) Create(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateUniverseRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	universe, err := h.universes.Create(userID, req.Name, req.Description)

	if err != nil {
		log.Printf("Failed to create universe: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create universe"})
		return
	}

	ctx.JSON(http.StatusCreated, universeResponse(*universe, nil))
}

func (h *UniverseHandler) Get(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	detail, ok := h.fetch(ctx)

	if !ok {
		return
	}

	if !authz.Allowed(userID, detail.OwnerID, detail.CollaboratorIDs, authz.ActionRead) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to access this universe"})
		return
	}

	ctx.JSON(http.StatusOK, universeResponse(detail.Universe, detail.CollaboratorIDs))
}

func (h *UniverseHandler) Update(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req UpdateUniverseRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	detail, ok := h.fetch(ctx)

	if !ok {
		return
	}

	if !authz.Allowed(userID, detail.OwnerID, detail.CollaboratorIDs, authz.ActionWrite) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to update this universe"})
		return
	}

	updated, err := h.universes.Update(detail.ID, services.UpdateUniverseInput{
		Name:        req.Name,
		Description: req.Description,
	})

	if err != nil {
		log.Printf("Failed to update universe: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update universe"})
		return
	}

	ctx.JSON(http.StatusOK, universeResponse(updated.Universe, updated.CollaboratorIDs))
}

func (h *UniverseHandler) Delete(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	detail, ok := h.fetch(ctx)

	if !ok {
		return
	}

	if !authz.Allowed(userID, detail.OwnerID, detail.CollaboratorIDs, authz.ActionWrite) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to delete this universe"})
		return
	}

	if _, err := h.universes.Delete(detail.ID); err != nil {
		log.Printf("Failed to delete universe: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete universe"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *UniverseHandler) AddCollaborator(ctx *gin.Context) {
	h.modifyCollaborators(ctx, h.universes.AddCollaborator)
}

func (h *UniverseHandler) RemoveCollaborator(ctx *gin.Context) {
	h.modifyCollaborators(ctx, h.universes.RemoveCollaborator)
}

func (h *UniverseHandler) modifyCollaborators(ctx *gin.Context, change func(universeID, userID uuid.UUID) error) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	collaboratorID, err := uuid.Parse(ctx.Param("user_id"))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	detail, ok := h.fetch(ctx)

	if !ok {
		return
	}

	if !authz.Allowed(userID, detail.OwnerID, detail.CollaboratorIDs, authz.ActionWrite) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to manage collaborators"})
		return
	}

	if err := change(detail.ID, collaboratorID); err != nil {
		log.Printf("Failed to change collaborators: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change collaborators"})
		return
	}

	updated, err := h.universes.GetByID(detail.ID)

	if err != nil {
		log.Printf("Failed to reload universe: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve universe"})
		return
	}

	ctx.JSON(http.StatusOK, universeResponse(updated.Universe, updated.CollaboratorIDs))
}

// fetch resolves the :id path parameter, writing the 400/404 response
// itself when the universe cannot be loaded. NotFound is decided before
// any authorization check.
func (h *UniverseHandler) fetch(ctx *gin.Context) (*services.UniverseDetail, bool) {
	id, err := uuid.Parse(ctx.Param("id"))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid universe ID"})
		return nil, false
	}

	detail, err := h.universes.GetByID(id)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Universe not found"})
		} else {
			log.Printf("Failed to retrieve universe: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve universe"})
		}
		return nil, false
	}

	return detail, true
}
