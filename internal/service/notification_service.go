package service

import (
	"context"
	"fmt"
	"time"

	"wapprove/internal/model"
	"wapprove/internal/notifier"
	"wapprove/internal/repository"
	"wapprove/internal/workflow"
	"wapprove/pkg/pagination"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// --- DTOs ---

type NotificationFilterDTO struct {
	UserID    string `form:"user_id" binding:"omitempty,uuid"`
	RequestID string `form:"request_id" binding:"omitempty,uuid"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
}

type StatusUpdateNotification struct {
	Request   *model.Request
	Status    string
	ActorName string
	Notes     string
}

// --- Interface ---

// NotificationService delivers WhatsApp notifications and keeps the
// per-message delivery log. Sends are best effort: a failed send is recorded
// as unsent and picked up later by RetryUnsent.
type NotificationService interface {
	NotifyPendingApprover(ctx context.Context, requestID uuid.UUID)
	NotifyRequester(ctx context.Context, update StatusUpdateNotification)
	History(ctx context.Context, filter NotificationFilterDTO) ([]model.Notification, int64, error)
	MarkRead(ctx context.Context, id string, userID uuid.UUID) (*model.Notification, error)
	RetryUnsent(ctx context.Context) (int, error)
	HandleDeliveryStatus(ctx context.Context, messageSID, status string) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	requestRepo      repository.RequestRepository
	approverRepo     repository.ApproverRepository
	sender           notifier.Sender
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	requestRepo repository.RequestRepository,
	approverRepo repository.ApproverRepository,
	sender notifier.Sender,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		requestRepo:      requestRepo,
		approverRepo:     approverRepo,
		sender:           sender,
	}
}

// --- Implementation ---

// NotifyPendingApprover messages the manager or director whose turn it is.
// Purchasing layers get no WhatsApp message; admin and purchasing work from
// the dashboard.
func (s *notificationService) NotifyPendingApprover(ctx context.Context, requestID uuid.UUID) {
	req, err := s.requestRepo.GetByID(ctx, requestID.String())
	if err != nil {
		logrus.WithError(err).WithField("request_id", requestID).Error("Failed to load request for approval notification")
		return
	}

	if !workflow.IsPending(req.Status) {
		return
	}
	if req.Status == model.StatusPendingPurchasingApproval {
		logrus.WithField("request_code", req.RequestCode).Info("Purchasing level reached, no WhatsApp notification sent")
		return
	}

	approvers, err := s.approverRepo.ListByDepartmentAndLevel(ctx, req.DepartmentID, req.CurrentApprovalLevel)
	if err != nil {
		logrus.WithError(err).WithField("request_code", req.RequestCode).Error("Failed to resolve approvers for notification")
		return
	}

	for _, approver := range approvers {
		if approver.ApproverType == model.ApproverTypePurchasing {
			continue
		}
		if approver.User == nil || approver.User.PhoneNumber == "" {
			logrus.WithFields(logrus.Fields{
				"request_code": req.RequestCode,
				"approver_id":  approver.ID,
			}).Warn("Approver has no phone number, skipping WhatsApp notification")
			continue
		}

		label := workflow.StatusLabel(workflow.Layer{
			ApprovalLevel: approver.ApprovalLevel,
			ApproverType:  approver.ApproverType,
		})
		body := notifier.ApprovalMessage(req, label)

		s.deliver(ctx, &model.Notification{
			RequestID:        &req.ID,
			UserID:           approver.UserID,
			Message:          body,
			NotificationType: model.NotificationPendingApproval,
		}, approver.User.PhoneNumber)
	}
}

// NotifyRequester messages the request owner about a status change.
func (s *notificationService) NotifyRequester(ctx context.Context, update StatusUpdateNotification) {
	req := update.Request
	if req.User == nil || req.User.PhoneNumber == "" {
		logrus.WithField("request_code", req.RequestCode).Warn("Requester has no phone number, skipping status update notification")
		return
	}

	body := notifier.StatusUpdateMessage(req.RequestCode, update.Status, update.ActorName, update.Notes)

	s.deliver(ctx, &model.Notification{
		RequestID:        &req.ID,
		UserID:           req.UserID,
		Message:          body,
		NotificationType: model.NotificationStatusUpdate,
	}, req.User.PhoneNumber)
}

// deliver sends the message and persists the delivery log. The full rendered
// body is stored so a retry can resend it verbatim.
func (s *notificationService) deliver(ctx context.Context, notification *model.Notification, phoneNumber string) {
	resp := s.sender.Send(ctx, phoneNumber, notification.Message)

	notification.IsSent = resp.Success
	notification.MessageSID = resp.MessageSID
	if resp.Success {
		now := time.Now()
		notification.SentAt = &now
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		logrus.WithError(err).Error("Failed to save notification log")
	}
}

func (s *notificationService) History(ctx context.Context, filter NotificationFilterDTO) ([]model.Notification, int64, error) {
	filter.Page, filter.Limit = pagination.Normalize(filter.Page, filter.Limit)

	return s.notificationRepo.List(ctx, repository.NotificationFilter{
		UserID:    filter.UserID,
		RequestID: filter.RequestID,
		Page:      filter.Page,
		Limit:     filter.Limit,
	})
}

func (s *notificationService) MarkRead(ctx context.Context, id string, userID uuid.UUID) (*model.Notification, error) {
	notification, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, workflow.NotFoundf("notification %s not found", id)
	}
	if notification.UserID != userID {
		return nil, workflow.PermissionDeniedf("notification belongs to another user")
	}

	if !notification.IsRead {
		now := time.Now()
		notification.IsRead = true
		notification.ReadAt = &now
		if err := s.notificationRepo.Update(ctx, notification); err != nil {
			return nil, fmt.Errorf("failed to mark notification read: %w", err)
		}
	}

	return notification, nil
}

// RetryUnsent resends notifications whose last delivery attempt failed.
// Returns the number of successful resends.
func (s *notificationService) RetryUnsent(ctx context.Context) (int, error) {
	notifications, err := s.notificationRepo.ListUnsent(ctx, 50)
	if err != nil {
		return 0, fmt.Errorf("failed to list unsent notifications: %w", err)
	}

	sent := 0
	for i := range notifications {
		notification := &notifications[i]
		if notification.User == nil || notification.User.PhoneNumber == "" {
			continue
		}

		resp := s.sender.Send(ctx, notification.User.PhoneNumber, notification.Message)
		if !resp.Success {
			continue
		}

		now := time.Now()
		notification.IsSent = true
		notification.SentAt = &now
		notification.MessageSID = resp.MessageSID
		if err := s.notificationRepo.Update(ctx, notification); err != nil {
			logrus.WithError(err).WithField("notification_id", notification.ID).Error("Failed to update retried notification")
			continue
		}
		sent++
	}

	if sent > 0 {
		logrus.WithField("count", sent).Info("Resent failed WhatsApp notifications")
	}
	return sent, nil
}

// HandleDeliveryStatus applies a provider status callback to the matching
// notification log entry. Unknown message SIDs are ignored.
func (s *notificationService) HandleDeliveryStatus(ctx context.Context, messageSID, status string) error {
	notification, err := s.notificationRepo.GetByMessageSID(ctx, messageSID)
	if err != nil {
		logrus.WithField("message_sid", messageSID).Debug("No notification for delivery status callback")
		return nil
	}

	now := time.Now()
	switch status {
	case "delivered":
		notification.IsSent = true
		notification.SentAt = &now
	case "read":
		notification.IsRead = true
		notification.ReadAt = &now
	case "failed", "undelivered":
		notification.IsSent = false
	default:
		return nil
	}

	if err := s.notificationRepo.Update(ctx, notification); err != nil {
		return fmt.Errorf("failed to update notification delivery status: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"notification_id": notification.ID,
		"status":          status,
	}).Info("Updated notification delivery status")
	return nil
}
