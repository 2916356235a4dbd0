package workflow

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"wapprove/internal/model"
)

func TestLayerSatisfiedRequiresAllApprovers(t *testing.T) {
	first := approverAt(1, model.ApproverTypeManager)
	second := approverAt(1, model.ApproverTypeManager)
	group := []model.Approver{first, second}

	assert.False(t, LayerSatisfied(group, nil))
	assert.False(t, LayerSatisfied(group, []uuid.UUID{first.ID}))
	assert.True(t, LayerSatisfied(group, []uuid.UUID{first.ID, second.ID}))
}

func TestLayerSatisfiedSingleApprover(t *testing.T) {
	only := approverAt(1, model.ApproverTypeManager)

	assert.True(t, LayerSatisfied([]model.Approver{only}, []uuid.UUID{only.ID}))
}

func TestLayerSatisfiedIgnoresForeignApprovals(t *testing.T) {
	member := approverAt(1, model.ApproverTypeManager)

	// An approval from someone outside the quorum group does not count
	assert.False(t, LayerSatisfied([]model.Approver{member}, []uuid.UUID{uuid.New()}))
}

func TestEmptyLayerIsNeverSatisfied(t *testing.T) {
	assert.False(t, LayerSatisfied(nil, []uuid.UUID{uuid.New()}))
	assert.False(t, LayerSatisfied(nil, nil))
}
