package service

import (
	"errors"

	"go-stocktrack/internal/model"
	"go-stocktrack/internal/repository"
	"go-stocktrack/internal/ws"
	"go-stocktrack/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrSelfDelete        = errors.New("you cannot delete your own account")
)

type UserService interface {
	Register(req *RegisterRequest, actor *model.User) (*model.User, error)
	DeleteUser(id uuid.UUID, actor *model.User) error
	GetAllUsers() ([]model.UserResponse, error)
}

type RegisterRequest struct {
	FullName string `json:"fullname" form:"fullname" validate:"required"`
	Username string `json:"username" form:"username" validate:"required,min=3"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
	Role     string `json:"role" form:"role" validate:"omitempty,oneof=admin manager staff"`
}

type userService struct {
	userRepo repository.UserRepository
	txRepo   repository.TransactionRepository
	db       *gorm.DB
	hub      *ws.Hub
}

func NewUserService(userRepo repository.UserRepository, txRepo repository.TransactionRepository, db *gorm.DB, hub *ws.Hub) UserService {
	return &userService{
		userRepo: userRepo,
		txRepo:   txRepo,
		db:       db,
		hub:      hub,
	}
}

func (s *userService) Register(req *RegisterRequest, actor *model.User) (*model.User, error) {
	// 1. Validate request
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	// 2. Check if username already exists
	if _, err := s.userRepo.FindByUsername(req.Username); err == nil {
		return nil, ErrDuplicateUsername
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.DefaultRole
	}

	// 3. Create user; the password is stored as a salted hash, never plaintext
	user := &model.User{
		FullName: req.FullName,
		Username: req.Username,
		Role:     role,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteUser removes a user and appends a DEL_USER_<id> ledger entry
// attributed to the acting user, in one commit. Self-deletion is forbidden.
func (s *userService) DeleteUser(id uuid.UUID, actor *model.User) error {
	if id == actor.ID {
		return ErrSelfDelete
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	changeType := model.ChangeDeleteUser(user.ID)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		entry := &model.Transaction{
			UserID:     actor.ID,
			ChangeType: changeType,
		}
		if err := s.txRepo.Append(tx, entry); err != nil {
			return err
		}
		return s.userRepo.Delete(tx, user.ID)
	})
	if err != nil {
		return err
	}

	s.hub.Publish(ws.LedgerEvent{
		ChangeType: changeType,
		Actor:      actor.Username,
	})
	return nil
}

func (s *userService) GetAllUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}
