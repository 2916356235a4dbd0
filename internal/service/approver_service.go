package service

import (
	"context"
	"errors"
	"fmt"

	"wapprove/internal/model"
	"wapprove/internal/repository"
	"wapprove/internal/workflow"
	"wapprove/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateApproverDTO struct {
	UserID        string `json:"user_id" binding:"required,uuid"`
	DepartmentID  string `json:"department_id" binding:"required,uuid"`
	ApproverType  string `json:"approver_type" binding:"required,oneof=MANAGER DIRECTOR PURCHASING"`
	ApprovalLevel int    `json:"approval_level" binding:"required,gt=0"`
}

type UpdateApproverDTO struct {
	ApproverType  *string `json:"approver_type" binding:"omitempty,oneof=MANAGER DIRECTOR PURCHASING"`
	ApprovalLevel *int    `json:"approval_level" binding:"omitempty,gt=0"`
}

type ApproverFilterDTO struct {
	DepartmentID  string `form:"department_id"`
	ApproverType  string `form:"approver_type"`
	ApprovalLevel int    `form:"approval_level"`
	Page          int    `form:"page"`
	Limit         int    `form:"limit"`
}

// --- Interface ---

// ApproverService manages the approver rows that make up each department's
// approval chain.
type ApproverService interface {
	Create(ctx context.Context, dto CreateApproverDTO) (*model.Approver, error)
	GetByID(ctx context.Context, id string) (*model.Approver, error)
	List(ctx context.Context, dto ApproverFilterDTO) ([]model.Approver, int64, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]model.Approver, error)
	Update(ctx context.Context, id string, dto UpdateApproverDTO) (*model.Approver, error)
	Delete(ctx context.Context, id string) error
}

type approverService struct {
	approverRepo   repository.ApproverRepository
	userRepo       repository.UserRepository
	departmentRepo repository.DepartmentRepository
}

func NewApproverService(
	approverRepo repository.ApproverRepository,
	userRepo repository.UserRepository,
	departmentRepo repository.DepartmentRepository,
) ApproverService {
	return &approverService{
		approverRepo:   approverRepo,
		userRepo:       userRepo,
		departmentRepo: departmentRepo,
	}
}

// --- Implementation ---

func (s *approverService) Create(ctx context.Context, dto CreateApproverDTO) (*model.Approver, error) {
	userID, err := uuid.Parse(dto.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user_id: %w", err)
	}
	departmentID, err := uuid.Parse(dto.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("invalid department_id: %w", err)
	}

	if _, err := s.userRepo.GetByID(ctx, dto.UserID); err != nil {
		return nil, workflow.NotFoundf("user %s not found", dto.UserID)
	}
	if _, err := s.departmentRepo.GetByID(ctx, dto.DepartmentID); err != nil {
		return nil, workflow.NotFoundf("department %s not found", dto.DepartmentID)
	}

	existing, err := s.approverRepo.GetByUserAndDepartment(ctx, userID, departmentID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing approver: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("user is already an approver for this department")
	}

	approver := &model.Approver{
		UserID:        userID,
		DepartmentID:  departmentID,
		ApproverType:  dto.ApproverType,
		ApprovalLevel: dto.ApprovalLevel,
	}
	if err := s.approverRepo.Create(ctx, approver); err != nil {
		return nil, fmt.Errorf("failed to create approver: %w", err)
	}

	return s.approverRepo.GetByID(ctx, approver.ID.String())
}

func (s *approverService) GetByID(ctx context.Context, id string) (*model.Approver, error) {
	approver, err := s.approverRepo.GetByID(ctx, id)
	if err != nil {
		return nil, workflow.NotFoundf("approver %s not found", id)
	}
	return approver, nil
}

func (s *approverService) List(ctx context.Context, dto ApproverFilterDTO) ([]model.Approver, int64, error) {
	dto.Page, dto.Limit = pagination.Normalize(dto.Page, dto.Limit)

	return s.approverRepo.List(ctx, repository.ApproverFilter{
		DepartmentID:  dto.DepartmentID,
		ApproverType:  dto.ApproverType,
		ApprovalLevel: dto.ApprovalLevel,
		Page:          dto.Page,
		Limit:         dto.Limit,
	})
}

func (s *approverService) ListByDepartment(ctx context.Context, departmentID string) ([]model.Approver, error) {
	department, err := s.departmentRepo.GetByID(ctx, departmentID)
	if err != nil {
		return nil, workflow.NotFoundf("department %s not found", departmentID)
	}
	return s.approverRepo.ListByDepartment(ctx, department.ID)
}

func (s *approverService) Update(ctx context.Context, id string, dto UpdateApproverDTO) (*model.Approver, error) {
	approver, err := s.approverRepo.GetByID(ctx, id)
	if err != nil {
		return nil, workflow.NotFoundf("approver %s not found", id)
	}

	if dto.ApproverType != nil {
		approver.ApproverType = *dto.ApproverType
	}
	if dto.ApprovalLevel != nil {
		approver.ApprovalLevel = *dto.ApprovalLevel
	}

	if err := s.approverRepo.Update(ctx, approver); err != nil {
		return nil, fmt.Errorf("failed to update approver: %w", err)
	}
	return s.approverRepo.GetByID(ctx, id)
}

func (s *approverService) Delete(ctx context.Context, id string) error {
	if _, err := s.approverRepo.GetByID(ctx, id); err != nil {
		return workflow.NotFoundf("approver %s not found", id)
	}
	return s.approverRepo.Delete(ctx, id)
}
