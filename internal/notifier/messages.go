package notifier

import (
	"fmt"
	"strings"

	"wapprove/internal/model"

	"github.com/shopspring/decimal"
)

// ApprovalMessage renders the WhatsApp prompt sent to an approver when a
// request lands on their desk, including reply instructions.
func ApprovalMessage(req *model.Request, approvalLevel string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🔔 *APPROVAL REQUEST*\n\n")
	fmt.Fprintf(&b, "📋 Request: %s\n", req.RequestCode)
	fmt.Fprintf(&b, "👤 Requester: %s\n", req.User.Name)
	fmt.Fprintf(&b, "📝 Description: %s\n", req.Description)
	fmt.Fprintf(&b, "💰 Total Amount: Rp %s\n", FormatAmount(req.TotalAmount))
	fmt.Fprintf(&b, "📊 Level: %s", approvalLevel)

	if len(req.RequestItems) > 0 {
		b.WriteString("\n\n📦 *ITEM DETAILS:*")
		for i, item := range req.RequestItems {
			fmt.Fprintf(&b, "\n\n%d. %s", i+1, item.ItemName)
			fmt.Fprintf(&b, "\n   📁 Category: %s", item.Category)
			fmt.Fprintf(&b, "\n   🔢 Qty: %d", item.Quantity)
			fmt.Fprintf(&b, "\n   💵 Unit Price: Rp %s", FormatAmount(item.UnitPrice))
			fmt.Fprintf(&b, "\n   💰 Total: Rp %s", FormatAmount(item.TotalPrice))
		}
	}

	fmt.Fprintf(&b, "\n\nPlease review and approve/reject this request.\n\n")
	fmt.Fprintf(&b, "Reply with:\n")
	fmt.Fprintf(&b, "• *APPROVE %s* - to approve\n", req.RequestCode)
	fmt.Fprintf(&b, "• *REJECT %s [reason]* - to reject\n\n", req.RequestCode)
	b.WriteString("Thank you! 🙏")

	return b.String()
}

// StatusUpdateMessage renders the WhatsApp notice sent to the requester when
// a request changes status.
func StatusUpdateMessage(requestCode, status, actorName, notes string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s *REQUEST UPDATE*\n\n", statusEmoji(status))
	fmt.Fprintf(&b, "📋 Request: %s\n", requestCode)
	fmt.Fprintf(&b, "📊 Status: %s\n", status)
	fmt.Fprintf(&b, "👤 By: %s", actorName)

	if notes != "" {
		fmt.Fprintf(&b, "\n📝 Notes: %s", notes)
	}

	return b.String()
}

// HelpMessage lists the commands the WhatsApp bot understands.
func HelpMessage() string {
	return `🤖 *WApprove Bot Commands*

To approve a request:
*APPROVE REQ-YYYYMMDD-XXXX*

To reject a request:
*REJECT REQ-YYYYMMDD-XXXX [reason]*

Example:
• APPROVE REQ-20241201-0001
• REJECT REQ-20241201-0001 Budget exceeded

Need help? Contact administrator.`
}

// ErrorMessage wraps an error notice for a WhatsApp reply.
func ErrorMessage(message string) string {
	return "❌ *Error*\n\n" + message
}

func statusEmoji(status string) string {
	switch status {
	case model.StatusManagerApproved, model.StatusDirectorApproved, model.StatusCompleted:
		return "✅"
	case model.StatusFullyApproved:
		return "🎉"
	case model.StatusRejected:
		return "❌"
	case model.StatusOnHold:
		return "⏸️"
	case model.StatusInProcess:
		return "🔄"
	case model.StatusCancelled:
		return "🚫"
	default:
		return "📋"
	}
}

// FormatAmount renders a monetary value with dot thousand separators,
// e.g. 1500000 becomes "1.500.000".
func FormatAmount(amount decimal.Decimal) string {
	whole := amount.Truncate(0)
	frac := amount.Sub(whole).Abs()

	digits := whole.Abs().BigInt().String()
	var b strings.Builder
	if amount.IsNegative() {
		b.WriteByte('-')
	}
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	if !frac.IsZero() {
		fracStr := frac.String() // "0.25"
		b.WriteByte(',')
		b.WriteString(strings.TrimPrefix(fracStr, "0."))
	}

	return b.String()
}
