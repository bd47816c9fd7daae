package handlers_test

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/cosmo-sorter/cosmo/internal/auth"
	"github.com/cosmo-sorter/cosmo/internal/handlers"
	"github.com/cosmo-sorter/cosmo/internal/models"
	"github.com/cosmo-sorter/cosmo/internal/router"
	"github.com/cosmo-sorter/cosmo/internal/services"
	"github.com/cosmo-sorter/cosmo/internal/types"
)

// In-memory stores implementing the handler interfaces, so the route
// tests exercise middleware + handlers end to end without a database.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserStore) Create(input services.CreateUserInput) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Username == input.Username {
			return nil, services.ErrDuplicateIdentity
		}
		if input.Email != nil && user.Email != nil && *user.Email == *input.Email {
			return nil, services.ErrDuplicateIdentity
		}
	}

	passwordHash, err := auth.HashPassword(input.Password)

	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Preferences:  datatypes.JSONMap{},
		CreatedAt:    time.Now(),
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserStore) Authenticate(username, password string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Username == username {
			if auth.CheckPassword(password, user.PasswordHash) {
				return user, nil
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) GetByID(id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserStore) Update(id uuid.UUID, input services.UpdateUserInput) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Email != nil {
		user.Email = input.Email
	}
	if input.Password != nil {
		passwordHash, err := auth.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = passwordHash
	}
	if input.Preferences != nil {
		user.Preferences = datatypes.JSONMap(input.Preferences)
	}
	return user, nil
}

func (f *fakeUserStore) Delete(id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[id]; !ok {
		return false, nil
	}
	delete(f.users, id)
	return true, nil
}

type fakeUniverse struct {
	universe      models.Universe
	collaborators map[uuid.UUID]bool
}

type fakeUniverseStore struct {
	mu        sync.Mutex
	universes map[uuid.UUID]*fakeUniverse
}

func newFakeUniverseStore() *fakeUniverseStore {
	return &fakeUniverseStore{universes: make(map[uuid.UUID]*fakeUniverse)}
}

func (f *fakeUniverseStore) Create(ownerID uuid.UUID, name, description string) (*models.Universe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	universe := models.Universe{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		CreatedAt:   time.Now(),
	}
	f.universes[universe.ID] = &fakeUniverse{
		universe:      universe,
		collaborators: make(map[uuid.UUID]bool),
	}
	return &universe, nil
}

func (f *fakeUniverseStore) ListForUser(ownerID uuid.UUID) ([]services.UniverseDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var details []services.UniverseDetail
	for _, entry := range f.universes {
		if entry.universe.OwnerID == ownerID {
			details = append(details, services.UniverseDetail{
				Universe:        entry.universe,
				CollaboratorIDs: collaboratorIDs(entry),
			})
		}
	}
	return details, nil
}

func (f *fakeUniverseStore) GetByID(id uuid.UUID) (*services.UniverseDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.universes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &services.UniverseDetail{
		Universe:        entry.universe,
		CollaboratorIDs: collaboratorIDs(entry),
	}, nil
}

func (f *fakeUniverseStore) Update(id uuid.UUID, input services.UpdateUniverseInput) (*services.UniverseDetail, error) {
	f.mu.Lock()

	entry, ok := f.universes[id]
	if !ok {
		f.mu.Unlock()
		return nil, gorm.ErrRecordNotFound
	}
	if input.Name != nil {
		entry.universe.Name = *input.Name
	}
	if input.Description != nil {
		entry.universe.Description = *input.Description
	}
	f.mu.Unlock()

	return f.GetByID(id)
}

func (f *fakeUniverseStore) Delete(id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.universes[id]; !ok {
		return false, nil
	}
	delete(f.universes, id)
	return true, nil
}

func (f *fakeUniverseStore) AddCollaborator(universeID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.universes[universeID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	entry.collaborators[userID] = true
	return nil
}

func (f *fakeUniverseStore) RemoveCollaborator(universeID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.universes[universeID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(entry.collaborators, userID)
	return nil
}

func (f *fakeUniverseStore) GetOrCreateMigrationUniverse(ownerID uuid.UUID) (*models.Universe, error) {
	f.mu.Lock()
	for _, entry := range f.universes {
		if entry.universe.OwnerID == ownerID && entry.universe.Name == types.MigrationUniverseName {
			universe := entry.universe
			f.mu.Unlock()
			return &universe, nil
		}
	}
	f.mu.Unlock()

	return f.Create(ownerID, types.MigrationUniverseName, types.MigrationUniverseDescription)
}

func collaboratorIDs(entry *fakeUniverse) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(entry.collaborators))
	for id := range entry.collaborators {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

type fakeMaterial struct {
	material models.Material
	tags     []string
}

type fakeMaterialStore struct {
	mu        sync.Mutex
	materials []*fakeMaterial
}

func newFakeMaterialStore() *fakeMaterialStore {
	return &fakeMaterialStore{}
}

func (f *fakeMaterialStore) Create(ownerID uuid.UUID, input services.CreateMaterialInput) (*models.Material, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

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
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	var tags []string
	if input.AIMetadata != nil {
		metadataJSON, err := json.Marshal(input.AIMetadata)
		if err != nil {
			return nil, err
		}
		material.AIMetadata = datatypes.JSON(metadataJSON)
		tags = input.AIMetadata.Tags
	}

	f.materials = append(f.materials, &fakeMaterial{material: material, tags: tags})
	return &material, nil
}

func (f *fakeMaterialStore) GetByID(id uuid.UUID) (*models.Material, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, entry := range f.materials {
		if entry.material.ID == id {
			material := entry.material
			return &material, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMaterialStore) GetByUniverse(universeID uuid.UUID, offset, limit int) ([]models.Material, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []models.Material
	for _, entry := range f.materials {
		if entry.material.UniverseID == universeID {
			matched = append(matched, entry.material)
		}
	}
	return pageOf(matched, offset, limit), nil
}

func (f *fakeMaterialStore) Search(input services.SearchMaterialsInput) ([]models.Material, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []models.Material
	for _, entry := range f.materials {
		if entry.material.OwnerID != input.OwnerID {
			continue
		}
		if input.UniverseID != nil && entry.material.UniverseID != *input.UniverseID {
			continue
		}
		if input.Category != "" && entry.material.Category != input.Category {
			continue
		}
		if !containsAll(entry.tags, input.Tags) {
			continue
		}
		matched = append(matched, entry.material)
	}
	return pageOf(matched, input.Offset, input.Limit), nil
}

func (f *fakeMaterialStore) Update(id uuid.UUID, input services.UpdateMaterialInput) (*models.Material, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, entry := range f.materials {
		if entry.material.ID != id {
			continue
		}
		if input.Category != nil {
			entry.material.Category = *input.Category
		}
		if input.Content != nil {
			entry.material.Content = datatypes.JSONMap(input.Content)
		}
		if input.Attachments != nil {
			attachmentsJSON, err := json.Marshal(input.Attachments)
			if err != nil {
				return nil, err
			}
			entry.material.Attachments = datatypes.JSON(attachmentsJSON)
		}
		if input.AIMetadata != nil {
			metadataJSON, err := json.Marshal(input.AIMetadata)
			if err != nil {
				return nil, err
			}
			entry.material.AIMetadata = datatypes.JSON(metadataJSON)
			entry.tags = input.AIMetadata.Tags
		}
		entry.material.Version++
		entry.material.UpdatedAt = time.Now()
		material := entry.material
		return &material, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMaterialStore) Delete(id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, entry := range f.materials {
		if entry.material.ID == id {
			f.materials = append(f.materials[:i], f.materials[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMaterialStore) CountForUser(ownerID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, entry := range f.materials {
		if entry.material.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

func pageOf(items []models.Material, offset, limit int) []models.Material {
	if offset >= len(items) {
		return []models.Material{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func containsAll(have, want []string) bool {
	for _, tag := range want {
		found := false
		for _, owned := range have {
			if owned == tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// testEnv wires a full router over the fake stores.
type testEnv struct {
	router    *gin.Engine
	tokens    *auth.TokenManager
	users     *fakeUserStore
	universes *fakeUniverseStore
	materials *fakeMaterialStore
}

func newTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	users := newFakeUserStore()
	universes := newFakeUniverseStore()
	materials := newFakeMaterialStore()

	r := router.NewRouter(router.Deps{
		Tokens:         tokens,
		Users:          users,
		AuthHandler:    handlers.NewAuthHandler(users, tokens),
		Universes:      handlers.NewUniverseHandler(universes),
		Materials:      handlers.NewMaterialHandler(materials, universes, nil),
		Sync:           handlers.NewSyncHandler(universes, materials),
		AllowedOrigins: []string{"http://localhost:3000"},
	})

	return &testEnv{
		router:    r,
		tokens:    tokens,
		users:     users,
		universes: universes,
		materials: materials,
	}
}

// registerUser creates a user directly in the fake store and returns it
// with a valid bearer token.
func (env *testEnv) registerUser(username string) (*models.User, string) {
	user, err := env.users.Create(services.CreateUserInput{
		Username: username,
		Password: "password123",
	})
	if err != nil {
		panic(err)
	}

	token, err := env.tokens.Issue(user.ID)
	if err != nil {
		panic(err)
	}

	return user, token
}
