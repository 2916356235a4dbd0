package workflow

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"wapprove/internal/model"
)

func approverAt(level int, approverType string) model.Approver {
	return model.Approver{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		DepartmentID:  uuid.New(),
		ApproverType:  approverType,
		ApprovalLevel: level,
	}
}

func TestResolveChainOrdersAndDeduplicates(t *testing.T) {
	approvers := []model.Approver{
		approverAt(2, model.ApproverTypeDirector),
		approverAt(1, model.ApproverTypeManager),
		approverAt(1, model.ApproverTypeManager), // second manager at level 1, same layer
	}

	chain := ResolveChain(approvers)

	assert.Equal(t, []Layer{
		{ApprovalLevel: 1, ApproverType: model.ApproverTypeManager},
		{ApprovalLevel: 2, ApproverType: model.ApproverTypeDirector},
	}, chain)
}

func TestResolveChainIgnoresVirtualApprovers(t *testing.T) {
	approvers := []model.Approver{
		approverAt(1, model.ApproverTypeManager),
		approverAt(model.VirtualApproverLevel, model.ApproverTypePurchasing),
	}

	chain := ResolveChain(approvers)

	assert.Len(t, chain, 1)
	assert.Equal(t, 1, chain[0].ApprovalLevel)
}

func TestInitialStatusEmptyChainGoesToPurchasing(t *testing.T) {
	assert.Equal(t, model.StatusPendingPurchasingApproval, InitialStatus(nil))
	assert.Equal(t, 1, InitialLevel(nil))
}

func TestInitialStatusFollowsFirstLayer(t *testing.T) {
	managerFirst := ResolveChain([]model.Approver{
		approverAt(1, model.ApproverTypeManager),
		approverAt(2, model.ApproverTypeDirector),
	})
	assert.Equal(t, model.StatusPendingManagerApproval, InitialStatus(managerFirst))
	assert.Equal(t, 1, InitialLevel(managerFirst))

	directorFirst := ResolveChain([]model.Approver{
		approverAt(2, model.ApproverTypeDirector),
	})
	assert.Equal(t, model.StatusPendingDirectorApproval, InitialStatus(directorFirst))
	assert.Equal(t, 2, InitialLevel(directorFirst))
}

func TestMaxLevel(t *testing.T) {
	assert.Equal(t, 0, MaxLevel(nil))

	chain := ResolveChain([]model.Approver{
		approverAt(1, model.ApproverTypeManager),
		approverAt(3, model.ApproverTypeDirector),
	})
	assert.Equal(t, 3, MaxLevel(chain))
}
