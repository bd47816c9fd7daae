package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cosmo-sorter/cosmo/internal/auth"
	"github.com/cosmo-sorter/cosmo/internal/services"
	"github.com/cosmo-sorter/cosmo/internal/types"
	"github.com/cosmo-sorter/cosmo/internal/utils"
)

type AuthHandler struct {
	users  UserStore
	tokens *auth.TokenManager
}

func NewAuthHandler(users UserStore, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

type RegisterRequest struct {
	Username string  `json:"username" binding:"required"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password string  `json:"password" binding:"required,min=8"`
}

// LoginRequest is form-encoded, matching the OAuth2 password flow the
// frontend already speaks.
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type UpdateMeRequest struct {
	Username    *string                `json:"username"`
	Email       *string                `json:"email" binding:"omitempty,email"`
	Password    *string                `json:"password" binding:"omitempty,min=8"`
	Preferences map[string]interface{} `json:"preferences"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	if req.Email != nil {
		lowered := strings.ToLower(strings.TrimSpace(*req.Email))
		req.Email = &lowered
	}

	user, err := h.users.Create(services.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})

	if err != nil {
		if errors.Is(err, services.ErrDuplicateIdentity) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already registered"})
			return
		}
		log.Printf("Failed to create user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, userResponse(user))
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.users.Authenticate(req.Username, req.Password)

	if err != nil {
		log.Printf("Database error during authentication: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// Unknown username and wrong password produce the same response.
	if user == nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect username or password"})
		return
	}

	token, err := h.tokens.Issue(user.ID)

	if err != nil {
		log.Printf("Failed to issue token: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, types.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := h.users.GetByID(currentUser.ID)

	if err != nil {
		log.Printf("Failed to fetch user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, userResponse(user))
}

func (h *AuthHandler) UpdateMe(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req UpdateMeRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Email != nil {
		lowered := strings.ToLower(strings.TrimSpace(*req.Email))
		req.Email = &lowered
	}

	user, err := h.users.Update(currentUser.ID, services.UpdateUserInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Preferences: req.Preferences,
	})

	if err != nil {
		if errors.Is(err, services.ErrDuplicateIdentity) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already registered"})
			return
		}
		log.Printf("Failed to update user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, userResponse(user))
}

func (h *AuthHandler) DeleteMe(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req struct {
		Password string `json:"password" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Password is required for account deletion"})
		return
	}

	user, err := h.users.GetByID(currentUser.ID)

	if err != nil {
		log.Printf("Failed to fetch user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Incorrect password"})
		return
	}

	if _, err := h.users.Delete(currentUser.ID); err != nil {
		log.Printf("Failed to delete user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}
