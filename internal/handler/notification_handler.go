package handler

import (
	"net/http"
	"sort"
	"strings"

	"wapprove/internal/middleware"
	"wapprove/internal/model"
	"wapprove/internal/service"
	"wapprove/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// WebhookValidator verifies the provider signature on inbound webhook calls.
type WebhookValidator interface {
	ValidateWebhookSignature(signature, body string) bool
}

type NotificationHandler struct {
	notificationService service.NotificationService
	webhookService      service.WebhookService
	validator           WebhookValidator
}

func NewNotificationHandler(
	notificationService service.NotificationService,
	webhookService service.WebhookService,
	validator WebhookValidator,
) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		webhookService:      webhookService,
		validator:           validator,
	}
}

func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	notifications := router.Group("/notifications")
	{
		notifications.GET("", middleware.RequireRole(), h.List)
		notifications.PATCH("/:id/read", middleware.RequireRole(), h.MarkRead)
		notifications.POST("/retry", middleware.RequireRole(model.RoleAdmin), h.Retry)
	}

	// Provider callbacks, authenticated by signature instead of JWT
	router.POST("/webhook/whatsapp", h.IncomingMessage)
	router.POST("/webhook/whatsapp/status", h.DeliveryStatus)
}

// List handles GET /notifications
// @Summary      List notification history
// @Description  Non-admin callers only see their own notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        user_id     query     string  false  "Filter by recipient (admin only)"
// @Param        request_id  query     string  false  "Filter by request"
// @Param        page        query     int     false  "Page number"
// @Param        limit       query     int     false  "Page size"
// @Success      200  {object}  response.Response{data=[]model.Notification}
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req service.NotificationFilterDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid query parameters"))
		return
	}

	if role, _ := c.Get("userRole"); role != model.RoleAdmin {
		req.UserID = userID.String()
	}

	notifications, total, err := h.notificationService.History(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	meta := response.NewPaginationMeta(req.Page, req.Limit, total)
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, notifications, meta))
}

// MarkRead handles PATCH /notifications/:id/read
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Notification ID"
// @Success      200  {object}  response.Response{data=model.Notification}
// @Failure      404  {object}  response.Response
// @Router       /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	notification, err := h.notificationService.MarkRead(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, notification))
}

// Retry handles POST /notifications/retry
// @Summary      Resend failed notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /notifications/retry [post]
func (h *NotificationHandler) Retry(c *gin.Context) {
	sent, err := h.notificationService.RetryUnsent(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"resent": sent}))
}

// IncomingMessage handles POST /webhook/whatsapp
// @Summary      WhatsApp inbound message webhook
// @Description  Receives APPROVE/REJECT commands sent as WhatsApp replies
// @Tags         webhooks
// @Accept       x-www-form-urlencoded
// @Produce      plain
// @Param        From  formData  string  true  "Sender phone number"
// @Param        Body  formData  string  true  "Message text"
// @Success      200   {string}  string  "OK"
// @Failure      403   {object}  response.Response
// @Router       /webhook/whatsapp [post]
func (h *NotificationHandler) IncomingMessage(c *gin.Context) {
	if !h.validSignature(c) {
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Invalid webhook signature"))
		return
	}

	msg := service.InboundMessage{
		From: c.PostForm("From"),
		Body: c.PostForm("Body"),
	}
	if msg.From == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Missing sender"))
		return
	}

	h.webhookService.HandleIncomingMessage(c.Request.Context(), msg)
	c.String(http.StatusOK, "OK")
}

// DeliveryStatus handles POST /webhook/whatsapp/status
// @Summary      WhatsApp delivery status webhook
// @Tags         webhooks
// @Accept       x-www-form-urlencoded
// @Produce      plain
// @Param        MessageSid     formData  string  true  "Provider message SID"
// @Param        MessageStatus  formData  string  true  "Delivery status"
// @Success      200  {string}  string  "OK"
// @Failure      403  {object}  response.Response
// @Router       /webhook/whatsapp/status [post]
func (h *NotificationHandler) DeliveryStatus(c *gin.Context) {
	if !h.validSignature(c) {
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Invalid webhook signature"))
		return
	}

	status := service.DeliveryStatus{
		MessageSID: c.PostForm("MessageSid"),
		Status:     c.PostForm("MessageStatus"),
	}
	if status.MessageSID == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Missing MessageSid"))
		return
	}

	h.webhookService.HandleStatusCallback(c.Request.Context(), status)
	c.String(http.StatusOK, "OK")
}

// --- Helpers ---

// validSignature rebuilds the signed payload the way Twilio does: the full
// request URL followed by the POST parameters concatenated in sorted key
// order, then checks it against the X-Twilio-Signature header.
func (h *NotificationHandler) validSignature(c *gin.Context) bool {
	if err := c.Request.ParseForm(); err != nil {
		logrus.WithError(err).Warn("Failed to parse webhook form")
		return false
	}

	scheme := "https"
	if c.Request.TLS == nil && c.GetHeader("X-Forwarded-Proto") != "https" {
		scheme = "http"
	}

	var b strings.Builder
	b.WriteString(scheme + "://" + c.Request.Host + c.Request.RequestURI)

	keys := make([]string, 0, len(c.Request.PostForm))
	for k := range c.Request.PostForm {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(c.Request.PostForm.Get(k))
	}

	return h.validator.ValidateWebhookSignature(c.GetHeader("X-Twilio-Signature"), b.String())
}
