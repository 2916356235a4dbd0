package workflow

import (
	"sort"

	"wapprove/internal/model"
)

// Layer is one step of a department's approval chain. A layer may be backed
// by several approver rows sharing the same level; they form a quorum group.
type Layer struct {
	ApprovalLevel int    `json:"approval_level"`
	ApproverType  string `json:"approver_type"`
}

// ResolveChain derives the ordered layer sequence from a department's
// approver rows: ascending by level, one layer per level. Must be recomputed
// on every decision since approvers can be added or removed between decisions.
func ResolveChain(approvers []model.Approver) []Layer {
	byLevel := make(map[int]string)
	for _, a := range approvers {
		if a.ApprovalLevel == model.VirtualApproverLevel {
			// Lazily created admin/purchasing rows are not part of the chain
			continue
		}
		if _, ok := byLevel[a.ApprovalLevel]; !ok {
			byLevel[a.ApprovalLevel] = a.ApproverType
		}
	}

	layers := make([]Layer, 0, len(byLevel))
	for level, approverType := range byLevel {
		layers = append(layers, Layer{ApprovalLevel: level, ApproverType: approverType})
	}
	sort.Slice(layers, func(i, j int) bool {
		return layers[i].ApprovalLevel < layers[j].ApprovalLevel
	})

	return layers
}

// InitialStatus computes a new request's first pending status from the
// chain's first layer. An empty chain routes straight to purchasing.
func InitialStatus(chain []Layer) string {
	if len(chain) == 0 {
		return model.StatusPendingPurchasingApproval
	}

	switch chain[0].ApproverType {
	case model.ApproverTypeManager:
		return model.StatusPendingManagerApproval
	case model.ApproverTypeDirector:
		return model.StatusPendingDirectorApproval
	default:
		return model.StatusPendingPurchasingApproval
	}
}

// InitialLevel returns the level of the layer first awaiting decision, or 1
// when the chain is empty.
func InitialLevel(chain []Layer) int {
	if len(chain) == 0 {
		return 1
	}
	return chain[0].ApprovalLevel
}

// LayerAt returns the chain layer at the given level, if any.
func LayerAt(chain []Layer, level int) (Layer, bool) {
	for _, layer := range chain {
		if layer.ApprovalLevel == level {
			return layer, true
		}
	}
	return Layer{}, false
}

// MaxLevel returns the highest configured level, or 0 for an empty chain.
func MaxLevel(chain []Layer) int {
	if len(chain) == 0 {
		return 0
	}
	return chain[len(chain)-1].ApprovalLevel
}
