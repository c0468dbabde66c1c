package service

import (
	"errors"
	"strings"

	"go-marketplace-toko/internal/model"
	"go-marketplace-toko/internal/repository"
	"go-marketplace-toko/pkg/refcodec"
	"go-marketplace-toko/pkg/validator"

	"gorm.io/gorm"
)

type UserService interface {
	CreateUser(caller Caller, req *CreateUserRequest) (*model.UserResponse, error)
	GetAllUsers(caller Caller) ([]model.UserResponse, error)
	GetAssignableUsers(caller Caller) ([]model.UserOption, error)
}

type CreateUserRequest struct {
	Nama     string `json:"nama" form:"nama" validate:"required,max=255"`
	Username string `json:"username" form:"username" validate:"required,max=255"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
	Role     string `json:"role" form:"role" validate:"required,oneof=admin member"`
}

type userService struct {
	userRepo repository.UserRepository
	codec    refcodec.Codec
}

func NewUserService(userRepo repository.UserRepository, codec refcodec.Codec) UserService {
	return &userService{
		userRepo: userRepo,
		codec:    codec,
	}
}

func (s *userService) CreateUser(caller Caller, req *CreateUserRequest) (*model.UserResponse, error) {
	if !caller.IsAdmin() {
		return nil, ErrAccessDenied
	}

	// 1. Validate request
	if req == nil {
		req = &CreateUserRequest{}
	}
	req.Username = strings.TrimSpace(req.Username)
	if fields := validator.FieldErrors(req); fields != nil {
		return nil, newValidationError(fields)
	}

	// 2. Check if username already exists
	if _, err := s.userRepo.FindByUsername(req.Username); err == nil {
		return nil, usernameTaken()
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 3. Create user
	user := &model.User{
		Nama:     strings.TrimSpace(req.Nama),
		Username: req.Username,
		Role:     model.Role(req.Role),
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	// 4. Save to database
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, usernameTaken()
		}
		return nil, err
	}

	ref, err := s.codec.Encode(user.ID)
	if err != nil {
		return nil, err
	}
	response := user.ToResponse(ref)
	return &response, nil
}

func (s *userService) GetAllUsers(caller Caller) ([]model.UserResponse, error) {
	if !caller.IsAdmin() {
		return nil, ErrAccessDenied
	}

	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		ref, err := s.codec.Encode(user.ID)
		if err != nil {
			return nil, err
		}
		responses[i] = user.ToResponse(ref)
	}
	return responses, nil
}

// GetAssignableUsers lists the users a store can be given to.
func (s *userService) GetAssignableUsers(caller Caller) ([]model.UserOption, error) {
	if !caller.IsAdmin() {
		return nil, ErrAccessDenied
	}

	users, err := s.userRepo.FindByRoleNot(model.RoleAdmin)
	if err != nil {
		return nil, err
	}

	options := make([]model.UserOption, len(users))
	for i, u := range users {
		options[i] = model.UserOption{ID: u.ID, Nama: u.Nama, Username: u.Username}
	}
	return options, nil
}

func usernameTaken() error {
	return newValidationError(map[string]string{"username": "Username sudah digunakan."})
}
