package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cosmo-sorter/cosmo/internal/services"
	"github.com/cosmo-sorter/cosmo/internal/types"
	"github.com/cosmo-sorter/cosmo/internal/utils"
)

type SyncHandler struct {
	universes UniverseStore
	materials MaterialStore
}

func NewSyncHandler(universes UniverseStore, materials MaterialStore) *SyncHandler {
	return &SyncHandler{universes: universes, materials: materials}
}

// categoryMapping translates the frontend's LocalStorage category names
// to material categories. Unknown names fall back to "concept".
var categoryMapping = map[string]string{
	"character": types.CategoryCharacter,
	"geography": types.CategoryLocation,
	"items":     types.CategoryItem,
	"worldview": types.CategoryConcept,
}

func mapCategory(frontendCategory string) string {
	if category, ok := categoryMapping[frontendCategory]; ok {
		return category
	}
	return types.CategoryConcept
}

// LocalStorage migrates client-side cached analysis data into the
// caller's migration universe, one material per category key. Entries
// that are not JSON objects are skipped rather than failing the whole
// migration.
func (h *SyncHandler) LocalStorage(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var payload map[string]interface{}

	if err := ctx.ShouldBindJSON(&payload); err != nil || len(payload) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}

	analysisData, ok := payload["analysis_data"].(map[string]interface{})

	if !ok || len(analysisData) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No analysis data found"})
		return
	}

	universe, err := h.universes.GetOrCreateMigrationUniverse(userID)

	if err != nil {
		log.Printf("Failed to resolve migration universe: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve migration universe"})
		return
	}

	created := []types.MigrationResultItem{}

	for frontendCategory, entry := range analysisData {
		content, ok := entry.(map[string]interface{})

		if !ok {
			continue
		}

		material, err := h.materials.Create(userID, services.CreateMaterialInput{
			Category:   mapCategory(frontendCategory),
			Content:    content,
			UniverseID: universe.ID,
		})

		if err != nil {
			log.Printf("Failed to migrate %q material: %v", frontendCategory, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to migrate materials"})
			return
		}

		name := "未命名"

		if value, ok := content["name"].(string); ok && value != "" {
			name = value
		}

		created = append(created, types.MigrationResultItem{
			ID:       material.ID,
			Category: material.Category,
			Name:     name,
		})
	}

	ctx.JSON(http.StatusOK, types.MigrationResponse{
		Message:          "Migration completed successfully",
		UniverseID:       universe.ID,
		CreatedMaterials: created,
		TotalCreated:     len(created),
	})
}
