package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wapprove/internal/model"
	"wapprove/internal/repository"
	"wapprove/internal/workflow"
	"wapprove/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// --- DTOs ---

type RequestItemDTO struct {
	ItemName              string          `json:"item_name" binding:"required"`
	Quantity              int             `json:"quantity" binding:"required,gt=0"`
	UnitPrice             decimal.Decimal `json:"unit_price" binding:"required"`
	TotalPrice            decimal.Decimal `json:"total_price" binding:"required"`
	Specifications        string          `json:"specifications"`
	Category              string          `json:"category" binding:"required,oneof=OFFICE_SUPPLIES EQUIPMENT SERVICES MAINTENANCE OTHER"`
	RequestedDeliveryDate string          `json:"requested_delivery_date"`
}

type CreateRequestDTO struct {
	UserID       string           `json:"user_id" binding:"required,uuid"`
	DepartmentID string           `json:"department_id" binding:"required,uuid"`
	Description  string           `json:"description" binding:"required"`
	StatusNote   string           `json:"status_note"`
	UrgencyLevel string           `json:"urgency_level" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	RequestDate  string           `json:"request_date" binding:"required"`
	Draft        bool             `json:"draft"`
	RequestItems []RequestItemDTO `json:"request_items" binding:"required,min=1,dive"`
}

type UpdateRequestDTO struct {
	Description  *string          `json:"description"`
	StatusNote   *string          `json:"status_note"`
	UrgencyLevel *string          `json:"urgency_level" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	RequestDate  *string          `json:"request_date"`
	RequestItems []RequestItemDTO `json:"request_items" binding:"omitempty,min=1,dive"`
}

type QueryRequestDTO struct {
	Query                string `form:"query"`
	DepartmentID         string `form:"department_id"`
	UserID               string `form:"user_id"`
	Status               string `form:"status"`
	UrgencyLevel         string `form:"urgency_level"`
	CurrentApprovalLevel int    `form:"current_approval_level"`
	StartDate            string `form:"start_date"`
	EndDate              string `form:"end_date"`
	SortBy               string `form:"sort_by"`
	SortOrder            string `form:"sort_order"`
	Page                 int    `form:"page"`
	Limit                int    `form:"limit"`
}

type DecisionDTO struct {
	Notes string `json:"notes"`
}

type RejectDTO struct {
	Notes string `json:"notes" binding:"required"`
}

type HoldDTO struct {
	Notes string `json:"notes"`
}

// --- Interface ---

// RequestService is the workflow orchestrator. Every state-changing action
// runs inside one transaction holding a row lock on the request, so two
// concurrent decisions on the same request serialize and the second one sees
// the first one's outcome.
type RequestService interface {
	Create(ctx context.Context, dto CreateRequestDTO) (*model.Request, error)
	List(ctx context.Context, dto QueryRequestDTO, actorID uuid.UUID) ([]model.Request, int64, error)
	Get(ctx context.Context, id string, actorID uuid.UUID) (*model.Request, error)
	Update(ctx context.Context, id string, dto UpdateRequestDTO) (*model.Request, error)
	Delete(ctx context.Context, id string) error
	Submit(ctx context.Context, id string, actorID uuid.UUID) (*model.Request, error)
	Approve(ctx context.Context, id string, dto DecisionDTO, actorID uuid.UUID) (*model.Request, error)
	Reject(ctx context.Context, id string, dto RejectDTO, actorID uuid.UUID) (*model.Request, error)
	Cancel(ctx context.Context, id string, actorID uuid.UUID) (*model.Request, error)
	Hold(ctx context.Context, id string, dto HoldDTO, actorID uuid.UUID) (*model.Request, error)
	Process(ctx context.Context, id string, actorID uuid.UUID) (*model.Request, error)
	Complete(ctx context.Context, id string, actorID uuid.UUID) (*model.Request, error)
	Logs(ctx context.Context, id string, actorID uuid.UUID) ([]model.ApprovalLog, error)
	Chain(ctx context.Context, departmentID string) ([]workflow.Layer, error)
}

// Broadcaster pushes dashboard events to connected websocket clients.
type Broadcaster interface {
	GetBroadcast() chan []byte
}

type requestService struct {
	txManager        repository.TransactionManager
	requestRepo      repository.RequestRepository
	userRepo         repository.UserRepository
	departmentRepo   repository.DepartmentRepository
	approverRepo     repository.ApproverRepository
	approvalLogRepo  repository.ApprovalLogRepository
	notificationSvc  NotificationService
	hub              Broadcaster
}

func NewRequestService(
	txManager repository.TransactionManager,
	requestRepo repository.RequestRepository,
	userRepo repository.UserRepository,
	departmentRepo repository.DepartmentRepository,
	approverRepo repository.ApproverRepository,
	approvalLogRepo repository.ApprovalLogRepository,
	notificationSvc NotificationService,
	hub Broadcaster,
) RequestService {
	return &requestService{
		txManager:       txManager,
		requestRepo:     requestRepo,
		userRepo:        userRepo,
		departmentRepo:  departmentRepo,
		approverRepo:    approverRepo,
		approvalLogRepo: approvalLogRepo,
		notificationSvc: notificationSvc,
		hub:             hub,
	}
}

// --- Implementation ---

func (s *requestService) Create(ctx context.Context, dto CreateRequestDTO) (*model.Request, error) {
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

	requestDate, err := parseDate(dto.RequestDate)
	if err != nil {
		return nil, fmt.Errorf("invalid request_date: %w", err)
	}

	urgency := dto.UrgencyLevel
	if urgency == "" {
		urgency = model.UrgencyMedium
	}

	var request model.Request
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		code, codeErr := s.generateRequestCode(txCtx)
		if codeErr != nil {
			return codeErr
		}

		status := model.StatusDraft
		level := 1
		if !dto.Draft {
			approvers, listErr := s.approverRepo.ListByDepartment(txCtx, departmentID)
			if listErr != nil {
				return fmt.Errorf("failed to load approval chain: %w", listErr)
			}
			chain := workflow.ResolveChain(approvers)
			status = workflow.InitialStatus(chain)
			level = workflow.InitialLevel(chain)
		}

		request = model.Request{
			UserID:               userID,
			DepartmentID:         departmentID,
			RequestCode:          code,
			Description:          dto.Description,
			StatusNote:           dto.StatusNote,
			TotalAmount:          sumItemTotals(dto.RequestItems),
			CurrentApprovalLevel: level,
			Status:               status,
			UrgencyLevel:         urgency,
			RequestDate:          requestDate,
		}
		if createErr := s.requestRepo.Create(txCtx, &request); createErr != nil {
			return fmt.Errorf("failed to create request: %w", createErr)
		}

		items, itemsErr := buildItems(request.ID, dto.RequestItems)
		if itemsErr != nil {
			return itemsErr
		}
		if createErr := s.requestRepo.CreateItems(txCtx, items); createErr != nil {
			return fmt.Errorf("failed to create request items: %w", createErr)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if request.Status != model.StatusDraft {
		s.notificationSvc.NotifyPendingApprover(ctx, request.ID)
		s.broadcastStatus(&request)
	}

	return s.requestRepo.GetByID(ctx, request.ID.String())
}

func (s *requestService) List(ctx context.Context, dto QueryRequestDTO, actorID uuid.UUID) ([]model.Request, int64, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID.String())
	if err != nil {
		return nil, 0, workflow.NotFoundf("user %s not found", actorID)
	}

	scopes, err := visibilityScopes(ctx, s.approverRepo, actor)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to resolve visibility: %w", err)
	}

	dto.Page, dto.Limit = pagination.Normalize(dto.Page, dto.Limit)

	filter := repository.RequestFilter{
		Query:                dto.Query,
		DepartmentID:         dto.DepartmentID,
		UserID:               dto.UserID,
		Status:               dto.Status,
		UrgencyLevel:         dto.UrgencyLevel,
		CurrentApprovalLevel: dto.CurrentApprovalLevel,
		SortBy:               dto.SortBy,
		SortOrder:            dto.SortOrder,
		Page:                 dto.Page,
		Limit:                dto.Limit,
		Scopes:               scopes,
	}
	if dto.StartDate != "" {
		start, parseErr := parseDate(dto.StartDate)
		if parseErr != nil {
			return nil, 0, fmt.Errorf("invalid start_date: %w", parseErr)
		}
		filter.StartDate = &start
	}
	if dto.EndDate != "" {
		end, parseErr := parseDate(dto.EndDate)
		if parseErr != nil {
			return nil, 0, fmt.Errorf("invalid end_date: %w", parseErr)
		}
		filter.EndDate = &end
	}

	return s.requestRepo.List(ctx, filter)
}

// Get returns the request if the actor's visibility rules allow it. A
// request outside the actor's scope reads as not found rather than
// forbidden, so its existence is not leaked.
func (s *requestService) Get(ctx context.Context, id string, actorID uuid.UUID) (*model.Request, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.NotFoundf("request %s not found", id)
		}
		return nil, err
	}

	actor, err := s.userRepo.GetByID(ctx, actorID.String())
	if err != nil {
		return nil, workflow.NotFoundf("user %s not found", actorID)
	}

	visible, err := canViewRequest(ctx, s.approverRepo, actor, request)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, workflow.NotFoundf("request %s not found", id)
	}

	return request, nil
}

func (s *requestService) Update(ctx context.Context, id string, dto UpdateRequestDTO) (*model.Request, error) {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		request, getErr := s.requestRepo.GetByIDForUpdate(txCtx, id)
		if getErr != nil {
			if errors.Is(getErr, gorm.ErrRecordNotFound) {
				return workflow.NotFoundf("request %s not found", id)
			}
			return getErr
		}

		if request.Status != model.StatusDraft {
			return workflow.InvalidStatef("only DRAFT requests can be updated")
		}

		if dto.Description != nil {
			request.Description = *dto.Description
		}
		if dto.StatusNote != nil {
			request.StatusNote = *dto.StatusNote
		}
		if dto.UrgencyLevel != nil {
			request.UrgencyLevel = *dto.UrgencyLevel
		}
		if dto.RequestDate != nil {
			requestDate, parseErr := parseDate(*dto.RequestDate)
			if parseErr != nil {
				return fmt.Errorf("invalid request_date: %w", parseErr)
			}
			request.RequestDate = requestDate
		}

		if dto.RequestItems != nil {
			if delErr := s.requestRepo.DeleteItems(txCtx, request.ID); delErr != nil {
				return fmt.Errorf("failed to replace request items: %w", delErr)
			}
			items, itemsErr := buildItems(request.ID, dto.RequestItems)
			if itemsErr != nil {
				return itemsErr
			}
			if createErr := s.requestRepo.CreateItems(txCtx, items); createErr != nil {
				return fmt.Errorf("failed to replace request items: %w", createErr)
			}
			request.TotalAmount = sumItemTotals(dto.RequestItems)
		}

		return s.requestRepo.UpdateFields(txCtx, request.ID, map[string]interface{}{
			"description":   request.Description,
			"status_note":   request.StatusNote,
			"urgency_level": request.UrgencyLevel,
			"request_date":  request.RequestDate,
			"total_amount":  request.TotalAmount,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.requestRepo.GetByID(ctx, id)
}

func (s *requestService) Delete(ctx context.Context, id string) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		request, getErr := s.requestRepo.GetByIDForUpdate(txCtx, id)
		if getErr != nil {
			if errors.Is(getErr, gorm.ErrRecordNotFound) {
				return workflow.NotFoundf("request %s not found", id)
			}
			return getErr
		}

		if request.Status != model.StatusDraft {
			return workflow.InvalidStatef("only DRAFT requests can be deleted")
		}

		if delErr := s.requestRepo.DeleteItems(txCtx, request.ID); delErr != nil {
			return fmt.Errorf("failed to delete request items: %w", delErr)
		}
		return s.requestRepo.Delete(txCtx, id)
	})
}

// Submit routes a DRAFT request onto its department's approval chain.
func (s *requestService) Submit(ctx context.Context, id string, actorID uuid.UUID) (*model.Request, error) {
	var submitted model.Request
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		request, getErr := s.requestRepo.GetByIDForUpdate(txCtx, id)
		if getErr != nil {
			if errors.Is(getErr, gorm.ErrRecordNotFound) {
				return workflow.NotFoundf("request %s not found", id)
			}
			return getErr
		}

		if request.Status != model.StatusDraft {
			return workflow.InvalidStatef("only DRAFT requests can be submitted (current status %s)", request.Status)
		}

		actor, userErr := s.userRepo.GetByID(txCtx, actorID.String())
		if userErr != nil {
			return workflow.NotFoundf("user %s not found", actorID)
		}
		if actor.Role == model.RoleStaff && request.UserID != actor.ID {
			return workflow.PermissionDeniedf("staff can only submit their own requests")
		}

		approvers, listErr := s.approverRepo.ListByDepartment(txCtx, request.DepartmentID)
		if listErr != nil {
			return fmt.Errorf("failed to load approval chain: %w", listErr)
		}
		chain := workflow.ResolveChain(approvers)

		request.Status = workflow.InitialStatus(chain)
		request.CurrentApprovalLevel = workflow.InitialLevel(chain)
		submitted = *request

		return s.requestRepo.UpdateFields(txCtx, request.ID, map[string]interface{}{
			"status":                 request.Status,
			"current_approval_level": request.CurrentApprovalLevel,
		})
	})
	if err != nil {
		return nil, err
	}

	s.notificationSvc.NotifyPendingApprover(ctx, submitted.ID)
	s.broadcastStatus(&submitted)

	return s.requestRepo.GetByID(ctx, id)
}

func (s *requestService) Approve(ctx context.Context, id string, dto DecisionDTO, actorID uuid.UUID) (*model.Request, error) {
	var (
		finalStatus string
		actorName   string
		request     *model.Request
	)

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var txErr error
		request, txErr = s.requestRepo.GetByIDForUpdate(txCtx, id)
		if txErr != nil {
			if errors.Is(txErr, gorm.ErrRecordNotFound) {
				return workflow.NotFoundf("request %s not found", id)
			}
			return txErr
		}

		actor, approver, resolveErr := s.resolveActor(txCtx, actorID, request)
		if resolveErr != nil {
			return resolveErr
		}
		actorName = actor.User.Name

		if authErr := workflow.Authorize(workflow.ActionApprove, request, actor); authErr != nil {
			return authErr
		}

		if approver == nil {
			// Admin/purchasing get a first-class approver row so the
			// decision can be logged against it
			var ensureErr error
			approver, ensureErr = s.approverRepo.EnsureVirtual(txCtx, actor.User.ID, request.DepartmentID)
			if ensureErr != nil {
				return fmt.Errorf("failed to resolve approver record: %w", ensureErr)
			}
		}

		already, dupErr := s.approvalLogRepo.HasApproved(txCtx, request.ID, approver.ID)
		if dupErr != nil {
			return fmt.Errorf("failed to check prior approvals: %w", dupErr)
		}
		if already {
			return workflow.DuplicateDecisionf("you have already approved request %s", request.RequestCode)
		}

		log := model.ApprovalLog{
			RequestID:      request.ID,
			ApproverID:     approver.ID,
			ApprovalStatus: model.ApprovalApproved,
			Notes:          dto.Notes,
		}
		if logErr := s.approvalLogRepo.Create(txCtx, &log); logErr != nil {
			return fmt.Errorf("failed to record approval: %w", logErr)
		}

		if workflow.Classify(actor.User.Role) == workflow.ClassAdminOrPurchasing {
			// Terminal layer decides alone, no quorum
			request.Status = model.StatusFullyApproved
			return s.requestRepo.UpdateFields(txCtx, request.ID, map[string]interface{}{
				"status": request.Status,
			})
		}

		satisfied, quorumErr := s.layerSatisfied(txCtx, request)
		if quorumErr != nil {
			return quorumErr
		}
		if !satisfied {
			// Quorum still open; status stays pending
			return nil
		}

		approvers, listErr := s.approverRepo.ListByDepartment(txCtx, request.DepartmentID)
		if listErr != nil {
			return fmt.Errorf("failed to load approval chain: %w", listErr)
		}
		chain := workflow.ResolveChain(approvers)

		nextStatus, nextLevel, advErr := workflow.AdvanceOnApproval(chain, request.CurrentApprovalLevel)
		if advErr != nil {
			return advErr
		}

		request.Status = nextStatus
		request.CurrentApprovalLevel = nextLevel
		return s.requestRepo.UpdateFields(txCtx, request.ID, map[string]interface{}{
			"status":                 request.Status,
			"current_approval_level": request.CurrentApprovalLevel,
		})
	})
	if err != nil {
		return nil, err
	}
	finalStatus = request.Status

	full, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if workflow.IsPending(finalStatus) {
		s.notificationSvc.NotifyPendingApprover(ctx, full.ID)
	}
	s.notificationSvc.NotifyRequester(ctx, StatusUpdateNotification{
		Request:   full,
		Status:    finalStatus,
		ActorName: actorName,
		Notes:     dto.Notes,
	})
	s.broadcastStatus(full)

	return full, nil
}

func (s *requestService) Reject(ctx context.Context, id string, dto RejectDTO, actorID uuid.UUID) (*model.Request, error) {
	var actorName string

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		request, getErr := s.requestRepo.GetByIDForUpdate(txCtx, id)
		if getErr != nil {
			if errors.Is(getErr, gorm.ErrRecordNotFound) {
				return workflow.NotFoundf("request %s not found", id)
			}
			return getErr
		}

		actor, approver, resolveErr := s.resolveActor(txCtx, actorID, request)
		if resolveErr != nil {
			return resolveErr
		}
		actorName = actor.User.Name

		if authErr := workflow.Authorize(workflow.ActionReject, request, actor); authErr != nil {
			return authErr
		}

		if approver == nil {
			if workflow.Classify(actor.User.Role) != workflow.ClassAdminOrPurchasing {
				return workflow.PermissionDeniedf("you are not registered as an approver for this department")
			}
			var ensureErr error
			approver, ensureErr = s.approverRepo.EnsureVirtual(txCtx, actor.User.ID, request.DepartmentID)
			if ensureErr != nil {
				return fmt.Errorf("failed to resolve approver record: %w", ensureErr)
			}
		}

		log := model.ApprovalLog{
			RequestID:      request.ID,
			ApproverID:     approver.ID,
			ApprovalStatus: model.ApprovalRejected,
			Notes:          dto.Notes,
		}
		if logErr := s.approvalLogRepo.Create(txCtx, &log); logErr != nil {
			return fmt.Errorf("failed to record rejection: %w", logErr)
		}

		return s.requestRepo.UpdateFields(txCtx, request.ID, map[string]interface{}{
			"status":      model.StatusRejected,
			"status_note": dto.Notes,
		})
	})
	if err != nil {
		return nil, err
	}

	full, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.notificationSvc.NotifyRequester(ctx, StatusUpdateNotification{
		Request:   full,
		Status:    model.StatusRejected,
		ActorName: actorName,
		Notes:     dto.Notes,
	})
	s.broadcastStatus(full)

	return full, nil
}

func (s *requestService) Cancel(ctx context.Context, id string, actorID uuid.UUID) (*model.Request, error) {
	return s.simpleTransition(ctx, id, actorID, workflow.ActionCancel, model.StatusCancelled, "")
}

func (s *requestService) Hold(ctx context.Context, id string, dto HoldDTO, actorID uuid.UUID) (*model.Request, error) {
	return s.simpleTransition(ctx, id, actorID, workflow.ActionHold, model.StatusOnHold, dto.Notes)
}

func (s *requestService) Process(ctx context.Context, id string, actorID uuid.UUID) (*model.Request, error) {
	return s.simpleTransition(ctx, id, actorID, workflow.ActionProcess, model.StatusInProcess, "")
}

func (s *requestService) Complete(ctx context.Context, id string, actorID uuid.UUID) (*model.Request, error) {
	return s.simpleTransition(ctx, id, actorID, workflow.ActionComplete, model.StatusCompleted, "")
}

// simpleTransition covers the actions that only flip status: cancel, hold,
// process, complete.
func (s *requestService) simpleTransition(ctx context.Context, id string, actorID uuid.UUID, action workflow.Action, newStatus, notes string) (*model.Request, error) {
	var actorName string

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		request, getErr := s.requestRepo.GetByIDForUpdate(txCtx, id)
		if getErr != nil {
			if errors.Is(getErr, gorm.ErrRecordNotFound) {
				return workflow.NotFoundf("request %s not found", id)
			}
			return getErr
		}

		actor, _, resolveErr := s.resolveActor(txCtx, actorID, request)
		if resolveErr != nil {
			return resolveErr
		}
		actorName = actor.User.Name

		if authErr := workflow.Authorize(action, request, actor); authErr != nil {
			return authErr
		}

		fields := map[string]interface{}{"status": newStatus}
		if notes != "" {
			fields["status_note"] = notes
		}
		return s.requestRepo.UpdateFields(txCtx, request.ID, fields)
	})
	if err != nil {
		return nil, err
	}

	full, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.notificationSvc.NotifyRequester(ctx, StatusUpdateNotification{
		Request:   full,
		Status:    newStatus,
		ActorName: actorName,
		Notes:     notes,
	})
	s.broadcastStatus(full)

	return full, nil
}

// Logs returns the decision trail of a request, oldest first. Visibility
// follows the same rules as Get.
func (s *requestService) Logs(ctx context.Context, id string, actorID uuid.UUID) ([]model.ApprovalLog, error) {
	request, err := s.Get(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	return s.approvalLogRepo.ListByRequest(ctx, request.ID)
}

// Chain returns the configured approval layers for a department, in order.
func (s *requestService) Chain(ctx context.Context, departmentID string) ([]workflow.Layer, error) {
	department, err := s.departmentRepo.GetByID(ctx, departmentID)
	if err != nil {
		return nil, workflow.NotFoundf("department %s not found", departmentID)
	}

	approvers, err := s.approverRepo.ListByDepartment(ctx, department.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load approval chain: %w", err)
	}

	return workflow.ResolveChain(approvers), nil
}

// --- Helpers ---

// resolveActor loads the acting user and their approver record for the
// request's department, if any.
func (s *requestService) resolveActor(ctx context.Context, actorID uuid.UUID, request *model.Request) (workflow.Actor, *model.Approver, error) {
	user, err := s.userRepo.GetByID(ctx, actorID.String())
	if err != nil {
		return workflow.Actor{}, nil, workflow.NotFoundf("user %s not found", actorID)
	}

	actor := workflow.Actor{User: user}

	approvers, err := s.approverRepo.ListByUserAndDepartment(ctx, user.ID, request.DepartmentID)
	if err != nil {
		return workflow.Actor{}, nil, fmt.Errorf("failed to resolve approver record: %w", err)
	}

	approver := matchApproverLevel(approvers, request.CurrentApprovalLevel)
	if approver == nil {
		return actor, nil, nil
	}

	actor.IsApprover = true
	actor.ApprovalLevel = approver.ApprovalLevel
	return actor, approver, nil
}

// matchApproverLevel picks the registration for the request's current level.
// A user registered at several levels in one department falls back to their
// lowest level when none matches, so the gate's level check stays
// deterministic.
func matchApproverLevel(approvers []model.Approver, level int) *model.Approver {
	if len(approvers) == 0 {
		return nil
	}
	for i := range approvers {
		if approvers[i].ApprovalLevel == level {
			return &approvers[i]
		}
	}
	return &approvers[0]
}

// layerSatisfied checks whether every approver at the request's current
// level has an APPROVED decision on record.
func (s *requestService) layerSatisfied(ctx context.Context, request *model.Request) (bool, error) {
	approvers, err := s.approverRepo.ListByDepartmentAndLevel(ctx, request.DepartmentID, request.CurrentApprovalLevel)
	if err != nil {
		return false, fmt.Errorf("failed to load level approvers: %w", err)
	}

	approverIDs := make([]uuid.UUID, 0, len(approvers))
	for _, a := range approvers {
		approverIDs = append(approverIDs, a.ID)
	}

	approvedIDs, err := s.approvalLogRepo.ApprovedApproverIDs(ctx, request.ID, approverIDs)
	if err != nil {
		return false, fmt.Errorf("failed to load approvals at level: %w", err)
	}

	return workflow.LayerSatisfied(approvers, approvedIDs), nil
}

func (s *requestService) generateRequestCode(ctx context.Context) (string, error) {
	prefix := "REQ-" + time.Now().Format("20060102") + "-"

	seq, err := s.requestRepo.NextCodeSequence(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to generate request code: %w", err)
	}

	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

func (s *requestService) broadcastStatus(request *model.Request) {
	if s.hub == nil {
		return
	}

	event, err := json.Marshal(map[string]interface{}{
		"type":                   "request_status",
		"request_id":             request.ID,
		"request_code":           request.RequestCode,
		"status":                 request.Status,
		"current_approval_level": request.CurrentApprovalLevel,
	})
	if err != nil {
		return
	}

	select {
	case s.hub.GetBroadcast() <- event:
	default:
		logrus.Warn("Websocket broadcast channel full, dropping request status event")
	}
}

func sumItemTotals(items []RequestItemDTO) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalPrice)
	}
	return total
}

func buildItems(requestID uuid.UUID, dtos []RequestItemDTO) ([]model.RequestItem, error) {
	items := make([]model.RequestItem, 0, len(dtos))
	for _, dto := range dtos {
		item := model.RequestItem{
			RequestID:      requestID,
			ItemName:       dto.ItemName,
			Quantity:       dto.Quantity,
			UnitPrice:      dto.UnitPrice,
			TotalPrice:     dto.TotalPrice,
			Specifications: dto.Specifications,
			Category:       dto.Category,
		}
		if dto.RequestedDeliveryDate != "" {
			date, err := parseDate(dto.RequestedDeliveryDate)
			if err != nil {
				return nil, fmt.Errorf("invalid requested_delivery_date: %w", err)
			}
			item.RequestedDeliveryDate = &date
		}
		items = append(items, item)
	}
	return items, nil
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
