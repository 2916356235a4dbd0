package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"wapprove/internal/model"
	"wapprove/internal/notifier"
	"wapprove/internal/repository"

	"github.com/sirupsen/logrus"
)

var (
	approveCommandRe = regexp.MustCompile(`^APPROVE\s+(REQ-\d{8}-\d{4})$`)
	rejectCommandRe  = regexp.MustCompile(`^REJECT\s+(REQ-\d{8}-\d{4})\s+(.+)$`)
)

// WebhookCommand is a parsed inbound WhatsApp instruction.
type WebhookCommand struct {
	Action      string // APPROVE or REJECT
	RequestCode string
	Reason      string
}

// InboundMessage is an inbound WhatsApp webhook payload.
type InboundMessage struct {
	From string // "whatsapp:+62812..."
	Body string
}

// DeliveryStatus is a provider message status callback.
type DeliveryStatus struct {
	MessageSID string
	Status     string
}

// --- Interface ---

// WebhookService processes inbound WhatsApp traffic: approval commands from
// approvers and delivery status callbacks from the provider.
type WebhookService interface {
	HandleIncomingMessage(ctx context.Context, msg InboundMessage)
	HandleStatusCallback(ctx context.Context, status DeliveryStatus)
}

type webhookService struct {
	userRepo        repository.UserRepository
	requestRepo     repository.RequestRepository
	requestSvc      RequestService
	notificationSvc NotificationService
	sender          notifier.Sender
}

func NewWebhookService(
	userRepo repository.UserRepository,
	requestRepo repository.RequestRepository,
	requestSvc RequestService,
	notificationSvc NotificationService,
	sender notifier.Sender,
) WebhookService {
	return &webhookService{
		userRepo:        userRepo,
		requestRepo:     requestRepo,
		requestSvc:      requestSvc,
		notificationSvc: notificationSvc,
		sender:          sender,
	}
}

// --- Implementation ---

// ParseWebhookCommand extracts an APPROVE/REJECT command from a message
// body. Returns false when the message is not a recognized command.
func ParseWebhookCommand(body string) (WebhookCommand, bool) {
	text := strings.ToUpper(strings.TrimSpace(body))

	if m := approveCommandRe.FindStringSubmatch(text); m != nil {
		return WebhookCommand{Action: "APPROVE", RequestCode: m[1]}, true
	}
	if m := rejectCommandRe.FindStringSubmatch(text); m != nil {
		return WebhookCommand{Action: "REJECT", RequestCode: m[1], Reason: m[2]}, true
	}
	return WebhookCommand{}, false
}

func (s *webhookService) HandleIncomingMessage(ctx context.Context, msg InboundMessage) {
	phoneNumber := strings.TrimPrefix(msg.From, "whatsapp:")

	logrus.WithFields(logrus.Fields{
		"from": phoneNumber,
		"body": msg.Body,
	}).Info("Processing incoming WhatsApp message")

	user, err := s.userRepo.GetByPhoneNumber(ctx, phoneNumber)
	if err != nil {
		logrus.WithField("phone", phoneNumber).Warn("No user registered for inbound WhatsApp number")
		s.reply(ctx, phoneNumber, notifier.ErrorMessage("User not found. Please contact administrator."))
		return
	}

	command, ok := ParseWebhookCommand(msg.Body)
	if !ok {
		s.reply(ctx, phoneNumber, notifier.HelpMessage())
		return
	}

	s.processCommand(ctx, user, command, phoneNumber)
}

func (s *webhookService) processCommand(ctx context.Context, user *model.User, command WebhookCommand, phoneNumber string) {
	request, err := s.requestRepo.GetByCode(ctx, command.RequestCode)
	if err != nil {
		s.reply(ctx, phoneNumber, notifier.ErrorMessage(fmt.Sprintf("Request %s not found.", command.RequestCode)))
		return
	}

	switch command.Action {
	case "APPROVE":
		_, err = s.requestSvc.Approve(ctx, request.ID.String(), DecisionDTO{Notes: "Approved via WhatsApp"}, user.ID)
		if err == nil {
			s.reply(ctx, phoneNumber, fmt.Sprintf("Request %s has been approved successfully! ✅", command.RequestCode))
		}
	case "REJECT":
		reason := command.Reason
		if reason == "" {
			reason = "Rejected via WhatsApp"
		}
		_, err = s.requestSvc.Reject(ctx, request.ID.String(), RejectDTO{Notes: reason}, user.ID)
		if err == nil {
			s.reply(ctx, phoneNumber, fmt.Sprintf("Request %s has been rejected. ❌", command.RequestCode))
		}
	}

	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"request_code": command.RequestCode,
			"action":       command.Action,
			"user_id":      user.ID,
		}).Warn("WhatsApp approval command failed")
		s.reply(ctx, phoneNumber, notifier.ErrorMessage(err.Error()))
	}
}

func (s *webhookService) HandleStatusCallback(ctx context.Context, status DeliveryStatus) {
	if err := s.notificationSvc.HandleDeliveryStatus(ctx, status.MessageSID, status.Status); err != nil {
		logrus.WithError(err).WithField("message_sid", status.MessageSID).Error("Failed to process delivery status callback")
	}
}

func (s *webhookService) reply(ctx context.Context, phoneNumber, body string) {
	if resp := s.sender.Send(ctx, phoneNumber, body); !resp.Success {
		logrus.WithField("to", phoneNumber).Warn("Failed to send WhatsApp reply")
	}
}
