package repository

import (
	"context"

	"wapprove/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApprovalLogRepository interface {
	Create(ctx context.Context, log *model.ApprovalLog) error
	HasApproved(ctx context.Context, requestID, approverID uuid.UUID) (bool, error)
	ApprovedApproverIDs(ctx context.Context, requestID uuid.UUID, approverIDs []uuid.UUID) ([]uuid.UUID, error)
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]model.ApprovalLog, error)
}

type approvalLogRepository struct {
	db *gorm.DB
}

func NewApprovalLogRepository(db *gorm.DB) ApprovalLogRepository {
	return &approvalLogRepository{db: db}
}

func (r *approvalLogRepository) Create(ctx context.Context, log *model.ApprovalLog) error {
	return GetDB(ctx, r.db).Create(log).Error
}

func (r *approvalLogRepository) HasApproved(ctx context.Context, requestID, approverID uuid.UUID) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).
		Model(&model.ApprovalLog{}).
		Where("request_id = ? AND approver_id = ? AND approval_status = ?",
			requestID, approverID, model.ApprovalApproved).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ApprovedApproverIDs returns which of the given approvers have an APPROVED
// decision on record for the request.
func (r *approvalLogRepository) ApprovedApproverIDs(ctx context.Context, requestID uuid.UUID, approverIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(approverIDs) == 0 {
		return nil, nil
	}

	var ids []uuid.UUID
	err := GetDB(ctx, r.db).
		Model(&model.ApprovalLog{}).
		Where("request_id = ? AND approver_id IN ? AND approval_status = ?",
			requestID, approverIDs, model.ApprovalApproved).
		Pluck("approver_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *approvalLogRepository) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]model.ApprovalLog, error) {
	var logs []model.ApprovalLog
	err := GetDB(ctx, r.db).
		Preload("Approver").
		Preload("Approver.User").
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
