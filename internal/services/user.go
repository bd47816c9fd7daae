package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/cosmo-sorter/cosmo/internal/auth"
	"github.com/cosmo-sorter/cosmo/internal/models"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type CreateUserInput struct {
	Username string
	Email    *string
	Password string
}

type UpdateUserInput struct {
	Username    *string
	Email       *string
	Password    *string
	Preferences map[string]interface{}
}

func (s *UserService) Create(input CreateUserInput) (*models.User, error) {
	var existing models.User

	query := s.db.Where("username = ?", input.Username)

	if input.Email != nil {
		query = s.db.Where("username = ? OR email = ?", input.Username, *input.Email)
	}

	err := query.First(&existing).Error

	if err == nil {
		return nil, ErrDuplicateIdentity
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(input.Password)

	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Preferences:  datatypes.JSONMap{},
	}

	if err := s.db.Create(&user).Error; err != nil {
		// The pre-check above races with concurrent registrations; the
		// unique indexes are the source of truth.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateIdentity
		}
		return nil, err
	}

	return &user, nil
}

// Authenticate returns the user for valid credentials and (nil, nil) for
// both an unknown username and a wrong password, so callers cannot tell
// the two apart.
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.GetByUsername(username)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, nil
	}

	return user, nil
}

func (s *UserService) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User

	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *UserService) GetByUsername(username string) (*models.User, error) {
	var user models.User

	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *UserService) GetByEmail(email string) (*models.User, error) {
	var user models.User

	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *UserService) Update(id uuid.UUID, input UpdateUserInput) (*models.User, error) {
	updates := make(map[string]interface{})

	if input.Username != nil {
		updates["username"] = *input.Username
	}

	if input.Email != nil {
		updates["email"] = *input.Email
	}

	if input.Password != nil {
		passwordHash, err := auth.HashPassword(*input.Password)

		if err != nil {
			return nil, err
		}

		updates["password_hash"] = passwordHash
	}

	if input.Preferences != nil {
		updates["preferences"] = datatypes.JSONMap(input.Preferences)
	}

	if len(updates) > 0 {
		err := s.db.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error

		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrDuplicateIdentity
			}
			return nil, err
		}
	}

	return s.GetByID(id)
}

func (s *UserService) Delete(id uuid.UUID) (bool, error) {
	result := s.db.Delete(&models.User{}, "id = ?", id)

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
