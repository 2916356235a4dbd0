package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseWebhookCommandApprove(t *testing.T) {
	cmd, ok := ParseWebhookCommand("APPROVE REQ-20241201-0001")

	assert.True(t, ok)
	assert.Equal(t, "APPROVE", cmd.Action)
	assert.Equal(t, "REQ-20241201-0001", cmd.RequestCode)
	assert.Empty(t, cmd.Reason)
}

func TestParseWebhookCommandReject(t *testing.T) {
	cmd, ok := ParseWebhookCommand("REJECT REQ-20241201-0001 Budget exceeded")

	assert.True(t, ok)
	assert.Equal(t, "REJECT", cmd.Action)
	assert.Equal(t, "REQ-20241201-0001", cmd.RequestCode)
	assert.Equal(t, "BUDGET EXCEEDED", cmd.Reason)
}

func TestParseWebhookCommandNormalizesCaseAndWhitespace(t *testing.T) {
	cmd, ok := ParseWebhookCommand("  approve req-20241201-0042  ")

	assert.True(t, ok)
	assert.Equal(t, "APPROVE", cmd.Action)
	assert.Equal(t, "REQ-20241201-0042", cmd.RequestCode)
}

func TestParseWebhookCommandRejectsMalformedInput(t *testing.T) {
	cases := []string{
		"",
		"hello",
		"APPROVE",
		"APPROVE REQ-123",
		"REJECT REQ-20241201-0001", // reject requires a reason
		"APPROVE REQ-20241201-0001 extra words",
	}

	for _, body := range cases {
		_, ok := ParseWebhookCommand(body)
		assert.False(t, ok, "input %q should not parse", body)
	}
}
