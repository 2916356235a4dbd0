package workflow

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"wapprove/internal/model"
)

func userWithRole(role string, departmentID *uuid.UUID) *model.User {
	return &model.User{
		ID:           uuid.New(),
		Name:         "test user",
		Role:         role,
		DepartmentID: departmentID,
		IsActive:     true,
	}
}

func pendingRequest(status string, level int, departmentID uuid.UUID) *model.Request {
	return &model.Request{
		ID:                   uuid.New(),
		UserID:               uuid.New(),
		DepartmentID:         departmentID,
		RequestCode:          "REQ-20250101-0001",
		Status:               status,
		CurrentApprovalLevel: level,
	}
}

func assertDenied(t *testing.T, err error) {
	t.Helper()
	assert.Error(t, err)
	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindPermissionDenied, kind)
}

func TestStaffNeverApprovesOrRejects(t *testing.T) {
	dept := uuid.New()
	staff := userWithRole(model.RoleStaff, &dept)

	for _, status := range []string{
		model.StatusDraft,
		model.StatusPendingManagerApproval,
		model.StatusPendingDirectorApproval,
		model.StatusPendingPurchasingApproval,
		model.StatusFullyApproved,
		model.StatusOnHold,
	} {
		req := pendingRequest(status, 1, dept)
		assertDenied(t, Authorize(ActionApprove, req, Actor{User: staff}))
		assertDenied(t, Authorize(ActionReject, req, Actor{User: staff}))
	}
}

func TestStaffCancelsOnlyOwnRequests(t *testing.T) {
	dept := uuid.New()
	staff := userWithRole(model.RoleStaff, &dept)

	own := pendingRequest(model.StatusDraft, 1, dept)
	own.UserID = staff.ID
	assert.NoError(t, Authorize(ActionCancel, own, Actor{User: staff}))

	other := pendingRequest(model.StatusDraft, 1, dept)
	assertDenied(t, Authorize(ActionCancel, other, Actor{User: staff}))
}

func TestManagerApprovesOnlyAtPendingManagerStatus(t *testing.T) {
	dept := uuid.New()
	manager := userWithRole(model.RoleManager, &dept)
	actor := Actor{User: manager, IsApprover: true, ApprovalLevel: 1}

	ok := pendingRequest(model.StatusPendingManagerApproval, 1, dept)
	assert.NoError(t, Authorize(ActionApprove, ok, actor))

	wrongStatus := pendingRequest(model.StatusPendingDirectorApproval, 2, dept)
	err := Authorize(ActionApprove, wrongStatus, actor)
	assertDenied(t, err)
	assert.Contains(t, err.Error(), "wrong status")
}

func TestManagerApprovesOnlyOwnDepartment(t *testing.T) {
	home := uuid.New()
	manager := userWithRole(model.RoleManager, &home)
	actor := Actor{User: manager, IsApprover: true, ApprovalLevel: 1}

	foreign := pendingRequest(model.StatusPendingManagerApproval, 1, uuid.New())
	err := Authorize(ActionApprove, foreign, actor)
	assertDenied(t, err)
	assert.Contains(t, err.Error(), "department")
}

func TestManagerApprovesOnlyAtOwnLevel(t *testing.T) {
	dept := uuid.New()
	manager := userWithRole(model.RoleManager, &dept)
	actor := Actor{User: manager, IsApprover: true, ApprovalLevel: 2}

	req := pendingRequest(model.StatusPendingManagerApproval, 1, dept)
	err := Authorize(ActionApprove, req, actor)
	assertDenied(t, err)
	assert.Contains(t, err.Error(), "level")
}

func TestDirectorActsAcrossDepartmentsWhenRegistered(t *testing.T) {
	home := uuid.New()
	director := userWithRole(model.RoleDirector, &home)

	// Registered as approver in a department that is not their home
	req := pendingRequest(model.StatusPendingDirectorApproval, 2, uuid.New())
	assert.NoError(t, Authorize(ActionApprove, req, Actor{User: director, IsApprover: true, ApprovalLevel: 2}))

	// Not registered, denied
	err := Authorize(ActionApprove, req, Actor{User: director})
	assertDenied(t, err)
	assert.Contains(t, err.Error(), "approver")
}

func TestAdminApprovesOnlyAtPurchasingStatus(t *testing.T) {
	dept := uuid.New()
	admin := userWithRole(model.RoleAdmin, nil)

	ready := pendingRequest(model.StatusPendingPurchasingApproval, 3, dept)
	assert.NoError(t, Authorize(ActionApprove, ready, Actor{User: admin}))

	early := pendingRequest(model.StatusPendingManagerApproval, 1, dept)
	assertDenied(t, Authorize(ActionApprove, early, Actor{User: admin}))
}

func TestAdminRejectsFromAnyNonTerminalStatus(t *testing.T) {
	dept := uuid.New()
	purchasing := userWithRole(model.RolePurchasing, nil)

	for _, status := range []string{
		model.StatusDraft,
		model.StatusPendingManagerApproval,
		model.StatusFullyApproved,
		model.StatusOnHold,
		model.StatusInProcess,
	} {
		req := pendingRequest(status, 1, dept)
		assert.NoError(t, Authorize(ActionReject, req, Actor{User: purchasing}), status)
	}
}

func TestManagerRejectsOnlyFromPendingStatuses(t *testing.T) {
	dept := uuid.New()
	manager := userWithRole(model.RoleManager, &dept)
	actor := Actor{User: manager, IsApprover: true, ApprovalLevel: 1}

	assert.NoError(t, Authorize(ActionReject, pendingRequest(model.StatusPendingManagerApproval, 1, dept), actor))
	assert.NoError(t, Authorize(ActionReject, pendingRequest(model.StatusDirectorApproved, 2, dept), actor))
	assertDenied(t, Authorize(ActionReject, pendingRequest(model.StatusFullyApproved, 3, dept), actor))
}

func TestHoldProcessCompleteAreAdminOnly(t *testing.T) {
	dept := uuid.New()
	admin := userWithRole(model.RoleAdmin, nil)
	manager := userWithRole(model.RoleManager, &dept)

	held := pendingRequest(model.StatusPendingManagerApproval, 1, dept)
	assert.NoError(t, Authorize(ActionHold, held, Actor{User: admin}))
	assertDenied(t, Authorize(ActionHold, held, Actor{User: manager, IsApprover: true, ApprovalLevel: 1}))

	approved := pendingRequest(model.StatusFullyApproved, 3, dept)
	assert.NoError(t, Authorize(ActionProcess, approved, Actor{User: admin}))

	inProcess := pendingRequest(model.StatusInProcess, 3, dept)
	assert.NoError(t, Authorize(ActionComplete, inProcess, Actor{User: admin}))
}

func TestProcessAndCompleteRequireExactStatus(t *testing.T) {
	dept := uuid.New()
	admin := userWithRole(model.RoleAdmin, nil)

	notReady := pendingRequest(model.StatusPendingPurchasingApproval, 3, dept)
	err := Authorize(ActionProcess, notReady, Actor{User: admin})
	assert.Error(t, err)
	kind, _ := KindOf(err)
	assert.Equal(t, KindInvalidState, kind)

	err = Authorize(ActionComplete, notReady, Actor{User: admin})
	assert.Error(t, err)
	kind, _ = KindOf(err)
	assert.Equal(t, KindInvalidState, kind)
}

func TestTerminalStatesRejectEveryAction(t *testing.T) {
	dept := uuid.New()
	admin := userWithRole(model.RoleAdmin, nil)

	for _, status := range []string{model.StatusRejected, model.StatusCancelled, model.StatusCompleted} {
		req := pendingRequest(status, 1, dept)
		for _, action := range []Action{ActionApprove, ActionReject, ActionCancel, ActionHold, ActionProcess, ActionComplete} {
			err := Authorize(action, req, Actor{User: admin})
			assert.Error(t, err, "%s on %s", action, status)
			kind, ok := KindOf(err)
			assert.True(t, ok)
			assert.Equal(t, KindInvalidState, kind)
		}
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ClassStaff, Classify(model.RoleStaff))
	assert.Equal(t, ClassManager, Classify(model.RoleManager))
	assert.Equal(t, ClassDirector, Classify(model.RoleDirector))
	assert.Equal(t, ClassAdminOrPurchasing, Classify(model.RoleAdmin))
	assert.Equal(t, ClassAdminOrPurchasing, Classify(model.RolePurchasing))
	assert.Equal(t, ClassUnknown, Classify("INTERN"))
}
