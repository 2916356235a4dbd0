package service

import (
	"context"
	"fmt"

	"wapprove/internal/model"
	"wapprove/internal/repository"
	"wapprove/internal/workflow"
	"wapprove/pkg/pagination"
)

// --- DTOs ---

type CreateDepartmentDTO struct {
	Name           string `json:"name" binding:"required"`
	Code           string `json:"code" binding:"required"`
	ApprovalLayers int    `json:"approval_layers" binding:"omitempty,gte=0"`
}

type UpdateDepartmentDTO struct {
	Name           *string `json:"name"`
	Code           *string `json:"code"`
	ApprovalLayers *int    `json:"approval_layers" binding:"omitempty,gte=0"`
	IsActive       *bool   `json:"is_active"`
}

type DepartmentFilterDTO struct {
	Query    string `form:"query"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

// --- Interface ---

type DepartmentService interface {
	Create(ctx context.Context, dto CreateDepartmentDTO) (*model.Department, error)
	GetByID(ctx context.Context, id string) (*model.Department, error)
	List(ctx context.Context, dto DepartmentFilterDTO) ([]model.Department, int64, error)
	Update(ctx context.Context, id string, dto UpdateDepartmentDTO) (*model.Department, error)
	Delete(ctx context.Context, id string) error
}

type departmentService struct {
	departmentRepo repository.DepartmentRepository
}

func NewDepartmentService(departmentRepo repository.DepartmentRepository) DepartmentService {
	return &departmentService{departmentRepo: departmentRepo}
}

// --- Implementation ---

func (s *departmentService) Create(ctx context.Context, dto CreateDepartmentDTO) (*model.Department, error) {
	if _, err := s.departmentRepo.GetByCode(ctx, dto.Code); err == nil {
		return nil, fmt.Errorf("department code %s is already in use", dto.Code)
	}

	department := &model.Department{
		Name:           dto.Name,
		Code:           dto.Code,
		ApprovalLayers: dto.ApprovalLayers,
		IsActive:       true,
	}
	if err := s.departmentRepo.Create(ctx, department); err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}
	return department, nil
}

func (s *departmentService) GetByID(ctx context.Context, id string) (*model.Department, error) {
	department, err := s.departmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, workflow.NotFoundf("department %s not found", id)
	}
	return department, nil
}

func (s *departmentService) List(ctx context.Context, dto DepartmentFilterDTO) ([]model.Department, int64, error) {
	dto.Page, dto.Limit = pagination.Normalize(dto.Page, dto.Limit)

	return s.departmentRepo.List(ctx, repository.DepartmentFilter{
		Query:    dto.Query,
		IsActive: dto.IsActive,
		Page:     dto.Page,
		Limit:    dto.Limit,
	})
}

func (s *departmentService) Update(ctx context.Context, id string, dto UpdateDepartmentDTO) (*model.Department, error) {
	department, err := s.departmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, workflow.NotFoundf("department %s not found", id)
	}

	if dto.Code != nil && *dto.Code != department.Code {
		if _, lookupErr := s.departmentRepo.GetByCode(ctx, *dto.Code); lookupErr == nil {
			return nil, fmt.Errorf("department code %s is already in use", *dto.Code)
		}
		department.Code = *dto.Code
	}
	if dto.Name != nil {
		department.Name = *dto.Name
	}
	if dto.ApprovalLayers != nil {
		department.ApprovalLayers = *dto.ApprovalLayers
	}
	if dto.IsActive != nil {
		department.IsActive = *dto.IsActive
	}

	if err := s.departmentRepo.Update(ctx, department); err != nil {
		return nil, fmt.Errorf("failed to update department: %w", err)
	}
	return department, nil
}

func (s *departmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.departmentRepo.GetByID(ctx, id); err != nil {
		return workflow.NotFoundf("department %s not found", id)
	}
	return s.departmentRepo.Delete(ctx, id)
}
