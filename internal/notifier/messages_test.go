package notifier

import (
	"testing"

	"wapprove/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"999", "999"},
		{"1000", "1.000"},
		{"1500000", "1.500.000"},
		{"1234567890", "1.234.567.890"},
		{"1500000.25", "1.500.000,25"},
		{"-25000", "-25.000"},
	}

	for _, tc := range cases {
		amount, err := decimal.NewFromString(tc.in)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, FormatAmount(amount), "input %s", tc.in)
	}
}

func TestApprovalMessageIncludesReplyInstructions(t *testing.T) {
	req := &model.Request{
		RequestCode: "REQ-20241201-0001",
		Description: "Office chairs for the new floor",
		TotalAmount: decimal.NewFromInt(4500000),
		User:        &model.User{Name: "Budi Santoso"},
		RequestItems: []model.RequestItem{
			{
				ItemName:   "Ergonomic chair",
				Category:   model.CategoryOfficeSupplies,
				Quantity:   3,
				UnitPrice:  decimal.NewFromInt(1500000),
				TotalPrice: decimal.NewFromInt(4500000),
			},
		},
	}

	msg := ApprovalMessage(req, "Manager Approval")

	assert.Contains(t, msg, "REQ-20241201-0001")
	assert.Contains(t, msg, "Budi Santoso")
	assert.Contains(t, msg, "Rp 4.500.000")
	assert.Contains(t, msg, "Level: Manager Approval")
	assert.Contains(t, msg, "Qty: 3")
	assert.Contains(t, msg, "*APPROVE REQ-20241201-0001*")
	assert.Contains(t, msg, "*REJECT REQ-20241201-0001 [reason]*")
}

func TestApprovalMessageWithoutItems(t *testing.T) {
	req := &model.Request{
		RequestCode: "REQ-20241201-0002",
		Description: "Misc",
		TotalAmount: decimal.NewFromInt(100000),
		User:        &model.User{Name: "Siti"},
	}

	msg := ApprovalMessage(req, "Director Approval")

	assert.NotContains(t, msg, "ITEM DETAILS")
	assert.Contains(t, msg, "*APPROVE REQ-20241201-0002*")
}

func TestStatusUpdateMessage(t *testing.T) {
	msg := StatusUpdateMessage("REQ-20241201-0001", model.StatusRejected, "Dewi", "Budget exceeded")

	assert.Contains(t, msg, "❌")
	assert.Contains(t, msg, "REQ-20241201-0001")
	assert.Contains(t, msg, "Status: REJECTED")
	assert.Contains(t, msg, "By: Dewi")
	assert.Contains(t, msg, "Notes: Budget exceeded")
}

func TestStatusUpdateMessageOmitsEmptyNotes(t *testing.T) {
	msg := StatusUpdateMessage("REQ-20241201-0001", model.StatusFullyApproved, "Dewi", "")

	assert.Contains(t, msg, "🎉")
	assert.NotContains(t, msg, "Notes:")
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "❌ *Error*\n\nrequest not found", ErrorMessage("request not found"))
}
