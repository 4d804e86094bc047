package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/aswat-contest/config"
	"github.com/Dosada05/aswat-contest/models"
	"github.com/Dosada05/aswat-contest/utils"
)

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*models.User, error)
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type credential struct {
	user         models.User
	passwordHash string
}

type authService struct {
	credentials map[string]credential
}

// NewAuthService builds the login table from the configured admin and
// judges. Usernames are matched case-insensitively; a judge logs in with
// their id.
func NewAuthService(cfg *config.Config) AuthService {
	creds := make(map[string]credential, len(cfg.Judges)+1)
	for _, j := range cfg.Judges {
		creds[strings.ToLower(j.ID)] = credential{
			user:         models.User{ID: j.ID, Name: j.Name, Role: models.RoleJudge},
			passwordHash: j.PasswordHash,
		}
	}
	adminName := cfg.AdminDisplayName
	if adminName == "" {
		adminName = cfg.AdminUsername
	}
	creds[strings.ToLower(cfg.AdminUsername)] = credential{
		user:         models.User{ID: cfg.AdminUsername, Name: adminName, Role: models.RoleAdmin},
		passwordHash: cfg.AdminPasswordHash,
	}
	return &authService{credentials: creds}
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	cred, ok := s.credentials[strings.ToLower(strings.TrimSpace(input.Username))]
	if !ok {
		utils.BurnCompare(input.Password)
		return nil, ErrInvalidCredentials
	}

	if err := utils.ComparePassword(cred.passwordHash, input.Password); err != nil {
		if errors.Is(err, utils.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	user := cred.user
	return &user, nil
}
