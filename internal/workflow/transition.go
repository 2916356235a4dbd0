package workflow

import (
	"strconv"

	"wapprove/internal/model"
)

// IsTerminal reports whether no further workflow action is valid for status.
func IsTerminal(status string) bool {
	switch status {
	case model.StatusRejected, model.StatusCancelled, model.StatusCompleted:
		return true
	}
	return false
}

// IsPending reports whether status is awaiting an approval decision.
func IsPending(status string) bool {
	switch status {
	case model.StatusPendingManagerApproval,
		model.StatusPendingDirectorApproval,
		model.StatusPendingPurchasingApproval:
		return true
	}
	return false
}

// AdvanceOnApproval computes the next status and approval level once the
// layer at level is satisfied. When no layer is configured above the current
// one, the request moves onto a synthetic purchasing layer at maxLevel+1;
// satisfying a purchasing layer yields FULLY_APPROVED.
func AdvanceOnApproval(chain []Layer, level int) (status string, nextLevel int, err error) {
	current, ok := LayerAt(chain, level)
	if !ok {
		return "", 0, ChainMisconfiguredf("no approval layer configured at level %d", level)
	}

	if next, ok := LayerAt(chain, nextConfiguredLevel(chain, level)); ok {
		switch next.ApproverType {
		case model.ApproverTypeManager:
			return model.StatusPendingManagerApproval, next.ApprovalLevel, nil
		case model.ApproverTypeDirector:
			return model.StatusPendingDirectorApproval, next.ApprovalLevel, nil
		default:
			return model.StatusPendingPurchasingApproval, next.ApprovalLevel, nil
		}
	}

	if current.ApproverType != model.ApproverTypePurchasing {
		// Synthetic final purchasing layer
		return model.StatusPendingPurchasingApproval, MaxLevel(chain) + 1, nil
	}

	return model.StatusFullyApproved, level, nil
}

// nextConfiguredLevel returns the smallest configured level above the given
// one, or 0 when none exists.
func nextConfiguredLevel(chain []Layer, level int) int {
	for _, layer := range chain {
		if layer.ApprovalLevel > level {
			return layer.ApprovalLevel
		}
	}
	return 0
}

// StatusLabel is a human-readable label for a layer, used in WhatsApp
// notification messages.
func StatusLabel(layer Layer) string {
	level := strconv.Itoa(layer.ApprovalLevel)
	switch layer.ApproverType {
	case model.ApproverTypeManager:
		return "Manager Approval (Level " + level + ")"
	case model.ApproverTypeDirector:
		return "Director Approval (Level " + level + ")"
	case model.ApproverTypePurchasing:
		return "Purchasing Approval"
	}
	return "Level " + level + " Approval"
}
