package repository

import (
	"context"
	"errors"

	"wapprove/internal/model"
	"wapprove/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApproverFilter narrows List results.
type ApproverFilter struct {
	DepartmentID  string
	ApproverType  string
	ApprovalLevel int
	Page          int
	Limit         int
}

type ApproverRepository interface {
	Create(ctx context.Context, approver *model.Approver) error
	GetByID(ctx context.Context, id string) (*model.Approver, error)
	GetByUserAndDepartment(ctx context.Context, userID, departmentID uuid.UUID) (*model.Approver, error)
	ListByUserAndDepartment(ctx context.Context, userID, departmentID uuid.UUID) ([]model.Approver, error)
	ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]model.Approver, error)
	ListByDepartmentAndLevel(ctx context.Context, departmentID uuid.UUID, level int) ([]model.Approver, error)
	DepartmentIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	List(ctx context.Context, filter ApproverFilter) ([]model.Approver, int64, error)
	Update(ctx context.Context, approver *model.Approver) error
	Delete(ctx context.Context, id string) error
	EnsureVirtual(ctx context.Context, userID, departmentID uuid.UUID) (*model.Approver, error)
}

type approverRepository struct {
	db *gorm.DB
}

func NewApproverRepository(db *gorm.DB) ApproverRepository {
	return &approverRepository{db: db}
}

func (r *approverRepository) Create(ctx context.Context, approver *model.Approver) error {
	return GetDB(ctx, r.db).Create(approver).Error
}

func (r *approverRepository) GetByID(ctx context.Context, id string) (*model.Approver, error) {
	var approver model.Approver
	if err := GetDB(ctx, r.db).
		Preload("User").
		Preload("Department").
		First(&approver, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &approver, nil
}

// GetByUserAndDepartment returns the user's lowest-level registration in the
// department. Users registered at several levels get one row per level, so
// the order keeps the result deterministic.
func (r *approverRepository) GetByUserAndDepartment(ctx context.Context, userID, departmentID uuid.UUID) (*model.Approver, error) {
	var approver model.Approver
	err := GetDB(ctx, r.db).
		Where("user_id = ? AND department_id = ?", userID, departmentID).
		Order("approval_level ASC").
		First(&approver).Error
	if err != nil {
		return nil, err
	}
	return &approver, nil
}

// ListByUserAndDepartment returns every registration the user holds in the
// department, lowest level first.
func (r *approverRepository) ListByUserAndDepartment(ctx context.Context, userID, departmentID uuid.UUID) ([]model.Approver, error) {
	var approvers []model.Approver
	err := GetDB(ctx, r.db).
		Where("user_id = ? AND department_id = ?", userID, departmentID).
		Order("approval_level ASC").
		Find(&approvers).Error
	if err != nil {
		return nil, err
	}
	return approvers, nil
}

func (r *approverRepository) ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]model.Approver, error) {
	var approvers []model.Approver
	err := GetDB(ctx, r.db).
		Where("department_id = ?", departmentID).
		Order("approval_level ASC").
		Find(&approvers).Error
	if err != nil {
		return nil, err
	}
	return approvers, nil
}

func (r *approverRepository) ListByDepartmentAndLevel(ctx context.Context, departmentID uuid.UUID, level int) ([]model.Approver, error) {
	var approvers []model.Approver
	err := GetDB(ctx, r.db).
		Preload("User").
		Where("department_id = ? AND approval_level = ?", departmentID, level).
		Find(&approvers).Error
	if err != nil {
		return nil, err
	}
	return approvers, nil
}

func (r *approverRepository) DepartmentIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := GetDB(ctx, r.db).
		Model(&model.Approver{}).
		Where("user_id = ?", userID).
		Distinct().
		Pluck("department_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *approverRepository) List(ctx context.Context, filter ApproverFilter) ([]model.Approver, int64, error) {
	query := GetDB(ctx, r.db).Model(&model.Approver{})

	if filter.DepartmentID != "" {
		query = query.Where("department_id = ?", filter.DepartmentID)
	}
	if filter.ApproverType != "" {
		query = query.Where("approver_type = ?", filter.ApproverType)
	}
	if filter.ApprovalLevel > 0 {
		query = query.Where("approval_level = ?", filter.ApprovalLevel)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var approvers []model.Approver
	offset := pagination.Offset(filter.Page, filter.Limit)
	if err := query.
		Preload("User").
		Preload("Department").
		Order("approval_level ASC").
		Offset(offset).
		Limit(filter.Limit).
		Find(&approvers).Error; err != nil {
		return nil, 0, err
	}

	return approvers, total, nil
}

func (r *approverRepository) Update(ctx context.Context, approver *model.Approver) error {
	return GetDB(ctx, r.db).Save(approver).Error
}

func (r *approverRepository) Delete(ctx context.Context, id string) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Approver{}).Error
}

// EnsureVirtual returns the approver record for an admin/purchasing user in
// the given department, creating the level-999 PURCHASING row if missing.
// Decision logs need a first-class approver id even for users who act only
// on the terminal layer.
func (r *approverRepository) EnsureVirtual(ctx context.Context, userID, departmentID uuid.UUID) (*model.Approver, error) {
	var approver model.Approver
	err := GetDB(ctx, r.db).
		Where("user_id = ? AND department_id = ?", userID, departmentID).
		Order("approval_level ASC").
		First(&approver).Error
	if err == nil {
		return &approver, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	approver = model.Approver{
		UserID:        userID,
		DepartmentID:  departmentID,
		ApproverType:  model.ApproverTypePurchasing,
		ApprovalLevel: model.VirtualApproverLevel,
	}
	if err := GetDB(ctx, r.db).Create(&approver).Error; err != nil {
		return nil, err
	}
	return &approver, nil
}
