package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"wapprove/internal/model"
)

func approverAtLevel(level int) model.Approver {
	return model.Approver{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		DepartmentID:  uuid.New(),
		ApproverType:  model.ApproverTypeManager,
		ApprovalLevel: level,
	}
}

func TestMatchApproverLevelPrefersCurrentLevel(t *testing.T) {
	// One user registered at two levels in the same department must
	// resolve to the row matching the request's current level, not
	// whichever row the database returns first.
	low := approverAtLevel(1)
	high := approverAtLevel(2)

	picked := matchApproverLevel([]model.Approver{low, high}, 2)
	assert.NotNil(t, picked)
	assert.Equal(t, high.ID, picked.ID)

	picked = matchApproverLevel([]model.Approver{low, high}, 1)
	assert.NotNil(t, picked)
	assert.Equal(t, low.ID, picked.ID)
}

func TestMatchApproverLevelFallsBackToLowest(t *testing.T) {
	low := approverAtLevel(1)
	high := approverAtLevel(2)

	picked := matchApproverLevel([]model.Approver{low, high}, 5)
	assert.NotNil(t, picked)
	assert.Equal(t, low.ID, picked.ID)
}

func TestMatchApproverLevelNoRegistrations(t *testing.T) {
	assert.Nil(t, matchApproverLevel(nil, 1))
}
