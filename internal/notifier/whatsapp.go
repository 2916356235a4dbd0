package notifier

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Response reports the outcome of one send attempt. Delivery failures
// never block workflow progress.
type Response struct {
	Success    bool
	MessageSID string
	Error      string
}

// Sender delivers WhatsApp messages. Implementations must not block
// indefinitely; failures are reported via Response, not panics.
type Sender interface {
	Send(ctx context.Context, to, body string) Response
}

// TwilioConfig holds the WhatsApp channel credentials.
type TwilioConfig struct {
	AccountSID     string
	AuthToken      string
	WhatsAppNumber string // e.g. "whatsapp:+14155238886"
	WebhookSecret  string
}

// TwilioConfigFromEnv reads the Twilio settings from the environment.
func TwilioConfigFromEnv() TwilioConfig {
	return TwilioConfig{
		AccountSID:     os.Getenv("TWILIO_ACCOUNT_SID"),
		AuthToken:      os.Getenv("TWILIO_AUTH_TOKEN"),
		WhatsAppNumber: os.Getenv("TWILIO_WHATSAPP_NUMBER"),
		WebhookSecret:  os.Getenv("TWILIO_WEBHOOK_SECRET"),
	}
}

// TwilioSender sends WhatsApp messages through the Twilio messaging API.
type TwilioSender struct {
	cfg    TwilioConfig
	client *http.Client
}

func NewTwilioSender(cfg TwilioConfig) *TwilioSender {
	return &TwilioSender{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *TwilioSender) Send(ctx context.Context, to, body string) Response {
	form := url.Values{}
	form.Set("From", s.cfg.WhatsAppNumber)
	form.Set("To", "whatsapp:"+to)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", s.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		logrus.WithError(err).WithField("to", to).Error("Failed to send WhatsApp message")
		return Response{Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	var payload struct {
		SID     string `json:"sid"`
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)

	if resp.StatusCode >= 300 {
		logrus.WithFields(logrus.Fields{
			"to":     to,
			"status": resp.StatusCode,
		}).Error("Twilio rejected WhatsApp message")
		return Response{Success: false, Error: fmt.Sprintf("twilio status %d: %s", resp.StatusCode, payload.Message)}
	}

	logrus.WithFields(logrus.Fields{"to": to, "sid": payload.SID}).Info("WhatsApp message sent")
	return Response{Success: true, MessageSID: payload.SID}
}

// ValidateWebhookSignature checks the HMAC-SHA1 signature of an inbound
// webhook body. Validation is skipped when no secret is configured so local
// development does not need provider credentials.
func (s *TwilioSender) ValidateWebhookSignature(signature, body string) bool {
	if s.cfg.WebhookSecret == "" {
		logrus.Warn("Webhook signature validation skipped - no secret configured")
		return true
	}

	mac := hmac.New(sha1.New, []byte(s.cfg.WebhookSecret))
	mac.Write([]byte(body))
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(signature), []byte(expected))
}
