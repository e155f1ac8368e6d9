package services

import (
	"errors"
	"regexp"

	"gorm.io/gorm"

	"github.com/brunocorregedoria/reforma2/internal/models"
	"github.com/brunocorregedoria/reforma2/internal/utils"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService handles registration, login and profile management
type AuthService struct {
	db     *gorm.DB
	secret string
}

// NewAuthService creates an AuthService signing tokens with the given secret
func NewAuthService(db *gorm.DB, secret string) *AuthService {
	return &AuthService{db: db, secret: secret}
}

// RegisterInput carries the fields accepted by Register
type RegisterInput struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

// Register creates a user and returns it with a signed token. The password
// is bcrypt-hashed and the role defaults to viewer.
func (s *AuthService) Register(input RegisterInput) (*models.User, string, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, "", NewValidationError("name, email and password are required")
	}
	if !emailPattern.MatchString(input.Email) {
		return nil, "", NewValidationError("invalid email format")
	}
	if len(input.Password) < 6 {
		return nil, "", NewValidationError("password must be at least 6 characters long")
	}

	role := input.Role
	if role == "" {
		role = models.RoleViewer
	}
	if !models.ValidRole(role) {
		return nil, "", NewValidationError("invalid role")
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
		return nil, "", NewInternalError("failed to check existing user")
	}
	if count > 0 {
		return nil, "", NewConflictError("email already in use")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, "", NewInternalError("failed to hash password")
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashed,
		Role:     role,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, "", NewConflictError("email already in use")
	}

	token, err := utils.GenerateToken(user.ID, s.secret)
	if err != nil {
		return nil, "", NewInternalError("failed to generate token")
	}

	return &user, token, nil
}

// Login verifies credentials and returns the user with a signed token.
// Unknown email and wrong password produce the same generic error.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", NewValidationError("email and password are required")
	}

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, "", NewAuthError("invalid credentials")
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, "", NewAuthError("invalid credentials")
	}

	token, err := utils.GenerateToken(user.ID, s.secret)
	if err != nil {
		return nil, "", NewInternalError("failed to generate token")
	}

	return &user, token, nil
}

// GetProfile returns the user with the given id
func (s *AuthService) GetProfile(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("user not found")
		}
		return nil, NewInternalError("failed to load user")
	}
	return &user, nil
}

// UpdateProfileInput carries the optional profile fields; nil means unchanged
type UpdateProfileInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// UpdateProfile applies the provided fields. A new email colliding with a
// different user's email is rejected.
func (s *AuthService) UpdateProfile(userID uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		if !emailPattern.MatchString(*input.Email) {
			return nil, NewValidationError("invalid email format")
		}
		var count int64
		if err := s.db.Model(&models.User{}).
			Where("email = ? AND id <> ?", *input.Email, userID).
			Count(&count).Error; err != nil {
			return nil, NewInternalError("failed to check existing user")
		}
		if count > 0 {
			return nil, NewConflictError("email already in use")
		}
		user.Email = *input.Email
	}
	if input.Name != nil {
		user.Name = *input.Name
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, NewInternalError("failed to update profile")
	}
	return user, nil
}

// ChangePassword re-hashes and persists a new password after verifying the
// current one.
func (s *AuthService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return NewValidationError("current and new password are required")
	}
	if len(newPassword) < 6 {
		return NewValidationError("new password must be at least 6 characters long")
	}

	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}

	if !utils.CheckPasswordHash(currentPassword, user.Password) {
		return NewAuthError("current password is incorrect")
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return NewInternalError("failed to hash password")
	}

	if err := s.db.Model(user).Update("password", hashed).Error; err != nil {
		return NewInternalError("failed to update password")
	}
	return nil
}
