package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wapprove/internal/model"
)

func twoLayerChain() []Layer {
	return []Layer{
		{ApprovalLevel: 1, ApproverType: model.ApproverTypeManager},
		{ApprovalLevel: 2, ApproverType: model.ApproverTypeDirector},
	}
}

func TestAdvanceMovesToNextConfiguredLayer(t *testing.T) {
	status, level, err := AdvanceOnApproval(twoLayerChain(), 1)

	assert.NoError(t, err)
	assert.Equal(t, model.StatusPendingDirectorApproval, status)
	assert.Equal(t, 2, level)
}

func TestAdvancePastLastLayerGoesToSyntheticPurchasing(t *testing.T) {
	status, level, err := AdvanceOnApproval(twoLayerChain(), 2)

	assert.NoError(t, err)
	assert.Equal(t, model.StatusPendingPurchasingApproval, status)
	assert.Equal(t, 3, level)
}

func TestAdvanceOffPurchasingLayerIsFullyApproved(t *testing.T) {
	chain := []Layer{
		{ApprovalLevel: 1, ApproverType: model.ApproverTypeManager},
		{ApprovalLevel: 2, ApproverType: model.ApproverTypePurchasing},
	}

	status, level, err := AdvanceOnApproval(chain, 2)

	assert.NoError(t, err)
	assert.Equal(t, model.StatusFullyApproved, status)
	assert.Equal(t, 2, level)
}

func TestAdvanceSkipsGapsInLevels(t *testing.T) {
	chain := []Layer{
		{ApprovalLevel: 1, ApproverType: model.ApproverTypeManager},
		{ApprovalLevel: 5, ApproverType: model.ApproverTypeDirector},
	}

	status, level, err := AdvanceOnApproval(chain, 1)

	assert.NoError(t, err)
	assert.Equal(t, model.StatusPendingDirectorApproval, status)
	assert.Equal(t, 5, level)
}

func TestAdvanceAtUnknownLevelIsChainMisconfigured(t *testing.T) {
	_, _, err := AdvanceOnApproval(twoLayerChain(), 7)

	assert.Error(t, err)
	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindChainMisconfigured, kind)
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(model.StatusRejected))
	assert.True(t, IsTerminal(model.StatusCancelled))
	assert.True(t, IsTerminal(model.StatusCompleted))
	assert.False(t, IsTerminal(model.StatusOnHold))
	assert.False(t, IsTerminal(model.StatusFullyApproved))
	assert.False(t, IsTerminal(model.StatusDraft))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Manager Approval (Level 1)",
		StatusLabel(Layer{ApprovalLevel: 1, ApproverType: model.ApproverTypeManager}))
	assert.Equal(t, "Director Approval (Level 2)",
		StatusLabel(Layer{ApprovalLevel: 2, ApproverType: model.ApproverTypeDirector}))
	assert.Equal(t, "Purchasing Approval",
		StatusLabel(Layer{ApprovalLevel: 3, ApproverType: model.ApproverTypePurchasing}))
}
