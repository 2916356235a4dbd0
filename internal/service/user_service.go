package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"wapprove/internal/middleware"
	"wapprove/internal/model"
	"wapprove/internal/repository"
	"wapprove/internal/workflow"
	"wapprove/pkg/pagination"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// --- DTOs ---

type CreateUserDTO struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	PhoneNumber  string `json:"phone_number"`
	Password     string `json:"password" binding:"required,min=6"`
	Role         string `json:"role" binding:"required,oneof=ADMIN STAFF MANAGER DIRECTOR PURCHASING"`
	DepartmentID string `json:"department_id" binding:"omitempty,uuid"`
}

type UpdateUserDTO struct {
	Name         *string `json:"name"`
	Email        *string `json:"email" binding:"omitempty,email"`
	PhoneNumber  *string `json:"phone_number"`
	Password     *string `json:"password" binding:"omitempty,min=6"`
	Role         *string `json:"role" binding:"omitempty,oneof=ADMIN STAFF MANAGER DIRECTOR PURCHASING"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	IsActive     *bool   `json:"is_active"`
}

type LoginDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserFilterDTO struct {
	Query        string `form:"query"`
	Role         string `form:"role"`
	DepartmentID string `form:"department_id"`
	Page         int    `form:"page"`
	Limit        int    `form:"limit"`
}

type TokenPair struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         *model.User `json:"user"`
}

// --- Interface ---

type UserService interface {
	Create(ctx context.Context, dto CreateUserDTO) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context, dto UserFilterDTO) ([]model.User, int64, error)
	Update(ctx context.Context, id string, dto UpdateUserDTO) (*model.User, error)
	Delete(ctx context.Context, id string) error
	Login(ctx context.Context, dto LoginDTO) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}

type userService struct {
	userRepo       repository.UserRepository
	departmentRepo repository.DepartmentRepository
}

func NewUserService(userRepo repository.UserRepository, departmentRepo repository.DepartmentRepository) UserService {
	return &userService{userRepo: userRepo, departmentRepo: departmentRepo}
}

// --- Implementation ---

func (s *userService) Create(ctx context.Context, dto CreateUserDTO) (*model.User, error) {
	if _, err := s.userRepo.GetByEmail(ctx, dto.Email); err == nil {
		return nil, fmt.Errorf("email %s is already registered", dto.Email)
	}

	var departmentID *uuid.UUID
	if dto.DepartmentID != "" {
		if _, err := s.departmentRepo.GetByID(ctx, dto.DepartmentID); err != nil {
			return nil, workflow.NotFoundf("department %s not found", dto.DepartmentID)
		}
		parsed, err := uuid.Parse(dto.DepartmentID)
		if err != nil {
			return nil, fmt.Errorf("invalid department_id: %w", err)
		}
		departmentID = &parsed
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:         dto.Name,
		Email:        dto.Email,
		PhoneNumber:  dto.PhoneNumber,
		Password:     string(hashed),
		Role:         dto.Role,
		DepartmentID: departmentID,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, workflow.NotFoundf("user %s not found", id)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, dto UserFilterDTO) ([]model.User, int64, error) {
	dto.Page, dto.Limit = pagination.Normalize(dto.Page, dto.Limit)

	return s.userRepo.List(ctx, repository.UserFilter{
		Query:        dto.Query,
		Role:         dto.Role,
		DepartmentID: dto.DepartmentID,
		Page:         dto.Page,
		Limit:        dto.Limit,
	})
}

func (s *userService) Update(ctx context.Context, id string, dto UpdateUserDTO) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, workflow.NotFoundf("user %s not found", id)
	}

	if dto.Email != nil && *dto.Email != user.Email {
		if _, lookupErr := s.userRepo.GetByEmail(ctx, *dto.Email); lookupErr == nil {
			return nil, fmt.Errorf("email %s is already registered", *dto.Email)
		}
		user.Email = *dto.Email
	}
	if dto.Name != nil {
		user.Name = *dto.Name
	}
	if dto.PhoneNumber != nil {
		user.PhoneNumber = *dto.PhoneNumber
	}
	if dto.Password != nil {
		hashed, hashErr := bcrypt.GenerateFromPassword([]byte(*dto.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, fmt.Errorf("failed to hash password: %w", hashErr)
		}
		user.Password = string(hashed)
	}
	if dto.Role != nil {
		user.Role = *dto.Role
	}
	if dto.DepartmentID != nil {
		if *dto.DepartmentID == "" {
			user.DepartmentID = nil
		} else {
			if _, deptErr := s.departmentRepo.GetByID(ctx, *dto.DepartmentID); deptErr != nil {
				return nil, workflow.NotFoundf("department %s not found", *dto.DepartmentID)
			}
			parsed, parseErr := uuid.Parse(*dto.DepartmentID)
			if parseErr != nil {
				return nil, fmt.Errorf("invalid department_id: %w", parseErr)
			}
			user.DepartmentID = &parsed
		}
	}
	if dto.IsActive != nil {
		user.IsActive = *dto.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return workflow.NotFoundf("user %s not found", id)
	}
	return s.userRepo.Delete(ctx, id)
}

func (s *userService) Login(ctx context.Context, dto LoginDTO) (*TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, dto.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}
	if !user.IsActive {
		return nil, errors.New("account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(dto.Password)); err != nil {
		return nil, errors.New("invalid email or password")
	}

	return s.issueTokens(ctx, user)
}

// Refresh trades a valid refresh token for a new token pair. The old token
// is rotated out.
func (s *userService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	stored, err := s.userRepo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, errors.New("refresh token expired")
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID.String())
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}
	if !user.IsActive {
		return nil, errors.New("account is deactivated")
	}

	if err := s.userRepo.DeleteRefreshTokensForUser(ctx, user.ID.String()); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *userService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.userRepo.DeleteRefreshTokensForUser(ctx, userID.String())
}

func (s *userService) issueTokens(ctx context.Context, user *model.User) (*TokenPair, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(24 * time.Hour).Unix(),
	})

	accessToken, err := token.SignedString(middleware.GetJWTSecret())
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := randomToken()
	if err != nil {
		return nil, err
	}
	record := &model.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: now.Add(7 * 24 * time.Hour),
	}
	if err := s.userRepo.CreateRefreshToken(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
