package workflow

import (
	"wapprove/internal/model"
)

// Action is a workflow verb validated by the permission gate.
type Action string

const (
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionCancel   Action = "cancel"
	ActionHold     Action = "hold"
	ActionProcess  Action = "process"
	ActionComplete Action = "complete"
)

// RoleClass partitions user roles by their workflow capabilities. Admin and
// purchasing are one class: both act authoritatively on the terminal layer.
type RoleClass int

const (
	ClassUnknown RoleClass = iota
	ClassStaff
	ClassManager
	ClassDirector
	ClassAdminOrPurchasing
)

// Classify resolves a user role to its capability class once per action.
func Classify(role string) RoleClass {
	switch role {
	case model.RoleStaff:
		return ClassStaff
	case model.RoleManager:
		return ClassManager
	case model.RoleDirector:
		return ClassDirector
	case model.RoleAdmin, model.RolePurchasing:
		return ClassAdminOrPurchasing
	}
	return ClassUnknown
}

// Actor carries what the gate needs to know about the acting user. The
// approver fields describe the actor's Approver record for the request's
// department, if any.
type Actor struct {
	User          *model.User
	IsApprover    bool
	ApprovalLevel int
}

// Authorize accepts or rejects an action before any mutation. Denials carry
// the specific rule violated; callers surface the message verbatim.
func Authorize(action Action, req *model.Request, actor Actor) error {
	if IsTerminal(req.Status) {
		return InvalidStatef("request %s is already %s; no further action is allowed", req.RequestCode, req.Status)
	}

	switch Classify(actor.User.Role) {
	case ClassStaff:
		return authorizeStaff(action, req, actor)
	case ClassManager:
		return authorizeManager(action, req, actor)
	case ClassDirector:
		return authorizeDirector(action, req, actor)
	case ClassAdminOrPurchasing:
		return authorizeAdminOrPurchasing(action, req)
	}
	return PermissionDeniedf("role %s has no workflow access", actor.User.Role)
}

func authorizeStaff(action Action, req *model.Request, actor Actor) error {
	switch action {
	case ActionCancel:
		if req.UserID != actor.User.ID {
			return PermissionDeniedf("staff can only cancel their own requests")
		}
		return nil
	case ActionApprove, ActionReject:
		return PermissionDeniedf("staff cannot %s requests", action)
	}
	return PermissionDeniedf("only admin or purchasing can %s a request", action)
}

func authorizeManager(action Action, req *model.Request, actor Actor) error {
	switch action {
	case ActionApprove:
		if req.Status != model.StatusPendingManagerApproval {
			return PermissionDeniedf("wrong status: request is %s, not %s", req.Status, model.StatusPendingManagerApproval)
		}
		if actor.User.DepartmentID == nil || *actor.User.DepartmentID != req.DepartmentID {
			return PermissionDeniedf("wrong department: managers approve only requests from their own department")
		}
		if !actor.IsApprover {
			return PermissionDeniedf("manager is not registered as an approver for this department")
		}
		if actor.ApprovalLevel != req.CurrentApprovalLevel {
			return PermissionDeniedf("wrong level: request is at approval level %d, you approve at level %d", req.CurrentApprovalLevel, actor.ApprovalLevel)
		}
		return nil
	case ActionReject:
		if !rejectableByChainApprover(req.Status) {
			return PermissionDeniedf("wrong status: request in status %s cannot be rejected by a manager", req.Status)
		}
		if actor.User.DepartmentID == nil || *actor.User.DepartmentID != req.DepartmentID {
			return PermissionDeniedf("wrong department: managers reject only requests from their own department")
		}
		return nil
	case ActionCancel:
		return PermissionDeniedf("only the requesting staff member, admin, or purchasing can cancel a request")
	}
	return PermissionDeniedf("only admin or purchasing can %s a request", action)
}

func authorizeDirector(action Action, req *model.Request, actor Actor) error {
	switch action {
	case ActionApprove:
		if req.Status != model.StatusPendingDirectorApproval {
			return PermissionDeniedf("wrong status: request is %s, not %s", req.Status, model.StatusPendingDirectorApproval)
		}
		if !actor.IsApprover {
			return PermissionDeniedf("director is not registered as an approver for this department")
		}
		if actor.ApprovalLevel != req.CurrentApprovalLevel {
			return PermissionDeniedf("wrong level: request is at approval level %d, you approve at level %d", req.CurrentApprovalLevel, actor.ApprovalLevel)
		}
		return nil
	case ActionReject:
		if !rejectableByChainApprover(req.Status) {
			return PermissionDeniedf("wrong status: request in status %s cannot be rejected by a director", req.Status)
		}
		if !actor.IsApprover {
			return PermissionDeniedf("director is not registered as an approver for this department")
		}
		return nil
	case ActionCancel:
		return PermissionDeniedf("only the requesting staff member, admin, or purchasing can cancel a request")
	}
	return PermissionDeniedf("only admin or purchasing can %s a request", action)
}

func authorizeAdminOrPurchasing(action Action, req *model.Request) error {
	switch action {
	case ActionApprove:
		if req.Status != model.StatusPendingPurchasingApproval {
			return PermissionDeniedf("wrong status: request is %s, not %s", req.Status, model.StatusPendingPurchasingApproval)
		}
		return nil
	case ActionReject, ActionCancel, ActionHold:
		// Any non-terminal status; terminal states are guarded above
		return nil
	case ActionProcess:
		if req.Status != model.StatusFullyApproved {
			return InvalidStatef("request must be %s before processing (current status %s)", model.StatusFullyApproved, req.Status)
		}
		return nil
	case ActionComplete:
		if req.Status != model.StatusInProcess {
			return InvalidStatef("request must be %s before completion (current status %s)", model.StatusInProcess, req.Status)
		}
		return nil
	}
	return PermissionDeniedf("unknown action %q", action)
}

// rejectableByChainApprover lists the statuses a manager or director may
// reject from.
func rejectableByChainApprover(status string) bool {
	switch status {
	case model.StatusPendingManagerApproval,
		model.StatusPendingDirectorApproval,
		model.StatusDirectorApproved:
		return true
	}
	return false
}
