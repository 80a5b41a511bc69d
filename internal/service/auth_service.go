package service

import (
	"errors"

	"go-stocktrack/internal/model"
	"go-stocktrack/internal/repository"
	"go-stocktrack/pkg/config"
	"go-stocktrack/pkg/jwt"

	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService interface {
	Login(username, password string) (*LoginResult, error)
}

// LoginResult carries the session principal plus a bearer token for API
// clients.
type LoginResult struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
	jwtCfg   config.JWTConfig
}

func NewAuthService(userRepo repository.UserRepository, jwtCfg config.JWTConfig) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
	}
}

func (s *authService) Login(username, password string) (*LoginResult, error) {
	// 1. Look up by unique username
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Verify password against the stored hash
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// 3. Issue bearer token
	token, err := jwt.Generate(s.jwtCfg.Secret, user.ID, user.Username, user.FullName, user.Role, s.jwtCfg.Issuer, s.jwtCfg.ExpirationHours)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResult{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}
