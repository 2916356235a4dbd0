package notifier

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(secret, payload string) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestValidateWebhookSignature(t *testing.T) {
	sender := NewTwilioSender(TwilioConfig{WebhookSecret: "test_secret"})
	payload := "https://example.com/webhook/whatsappBodyAPPROVE REQ-20241201-0001Fromwhatsapp:+628123456789"

	assert.True(t, sender.ValidateWebhookSignature(sign("test_secret", payload), payload))
	assert.False(t, sender.ValidateWebhookSignature(sign("wrong_secret", payload), payload))
	assert.False(t, sender.ValidateWebhookSignature("garbage", payload))
}

func TestValidateWebhookSignatureSkippedWithoutSecret(t *testing.T) {
	sender := NewTwilioSender(TwilioConfig{})

	assert.True(t, sender.ValidateWebhookSignature("anything", "any payload"))
}
