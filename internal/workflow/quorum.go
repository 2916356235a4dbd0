package workflow

import (
	"github.com/google/uuid"

	"wapprove/internal/model"
)

// LayerSatisfied reports whether every approver configured at a layer has an
// APPROVED decision on record. A layer with zero configured approvers is
// never satisfied; such a chain must fall through to the synthetic
// purchasing layer rather than silently skip a step.
func LayerSatisfied(approvers []model.Approver, approvedApproverIDs []uuid.UUID) bool {
	if len(approvers) == 0 {
		return false
	}

	approved := make(map[uuid.UUID]bool, len(approvedApproverIDs))
	for _, id := range approvedApproverIDs {
		approved[id] = true
	}

	for _, a := range approvers {
		if !approved[a.ID] {
			return false
		}
	}
	return true
}
