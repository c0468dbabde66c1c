package service

import (
	"errors"
	"fmt"

	"go-marketplace-toko/internal/model"
	"go-marketplace-toko/internal/repository"
	"go-marketplace-toko/pkg/jwt"
	"go-marketplace-toko/pkg/refcodec"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSessionExpired = errors.New("session expired (logged in on another device)")

// MinPasswordLength applies to created users and password resets.
const MinPasswordLength = 6

type AuthService interface {
	Login(username, password string) (*LoginResponse, error)
	ValidateToken(tokenString string) (*TokenValidationResponse, error)
	ResetPassword(username, newPassword string) error
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type TokenValidationResponse struct {
	User model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
	codec    refcodec.Codec
}

func NewAuthService(userRepo repository.UserRepository, codec refcodec.Codec) AuthService {
	return &authService{
		userRepo: userRepo,
		codec:    codec,
	}
}

func (s *authService) Login(username, password string) (*LoginResponse, error) {
	// 1. Find user by username
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Verify password
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// 3. Single Session: Generate New Token Version
	newTokenVersion := uuid.New().String()
	if err := s.userRepo.UpdateTokenVersion(user.ID, newTokenVersion); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	// 4. Generate JWT token with TokenVersion
	token, err := jwt.GenerateToken(user.ID, user.Username, user.Nama, string(user.Role), newTokenVersion)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	ref, err := s.codec.Encode(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token: token,
		User:  user.ToResponse(ref),
	}, nil
}

func (s *authService) ValidateToken(tokenString string) (*TokenValidationResponse, error) {
	// 1. Validate JWT token
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	// 2. Find user by ID from token claims
	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	// 3. Check against DB for strict session (TokenVersion)
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionExpired
	}

	ref, err := s.codec.Encode(user.ID)
	if err != nil {
		return nil, err
	}
	return &TokenValidationResponse{User: user.ToResponse(ref)}, nil
}

// ResetPassword sets a new password and signs out every open session.
func (s *authService) ResetPassword(username, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return newValidationError(map[string]string{
			"password": fmt.Sprintf("Field password minimal %d karakter.", MinPasswordLength),
		})
	}

	// 1. Find user
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	// 2. Set new password
	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}

	// 3. Update in database
	if err := s.userRepo.UpdatePassword(user.ID, user.Password); err != nil {
		return err
	}

	// 4. Invalidate existing sessions
	return s.userRepo.UpdateTokenVersion(user.ID, uuid.New().String())
}
