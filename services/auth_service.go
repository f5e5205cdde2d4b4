package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/tournament-draw/models"
	"github.com/Dosada05/tournament-draw/repositories"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	tokenTTL          = 24 * time.Hour
)

type CreateAdminInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthService interface {
	CreateAdmin(ctx context.Context, input CreateAdminInput) (*models.Admin, error)
	// Login проверяет пароль и выдаёт подписанный HS256 токен.
	Login(ctx context.Context, input LoginInput) (string, error)
}

type authService struct {
	adminRepo repositories.AdminRepository
	jwtSecret []byte
}

func NewAuthService(adminRepo repositories.AdminRepository, jwtSecret []byte) AuthService {
	return &authService{
		adminRepo: adminRepo,
		jwtSecret: jwtSecret,
	}
}

func (s *authService) CreateAdmin(ctx context.Context, input CreateAdminInput) (*models.Admin, error) {
	if input.Username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidationFailed)
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.Admin{
		Username:     input.Username,
		PasswordHash: string(hash),
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, repositories.ErrAdminUsernameTaken) {
			return nil, ErrAdminUsernameConflict
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return admin, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (string, error) {
	admin, err := s.adminRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to load admin %q: %w", input.Username, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(input.Password)) != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"admin_id": admin.ID,
		"username": admin.Username,
		"exp":      now.Add(tokenTTL).Unix(),
		"iat":      now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
