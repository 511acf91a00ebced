package handlers

import (
	"formafusion-partners/internal/core/services"
	"formafusion-partners/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles notification endpoints
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List lists the authenticated user's notifications
// @Summary List notifications
// @Description List the authenticated user's notifications, newest first
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	notifications, err := h.notificationService.ListForUser(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list notifications")
	}

	return response.Success(c, "Notifications retrieved successfully", fiber.Map{
		"notifications": notifications,
	})
}

// UnreadCount counts the authenticated user's unread notifications
// @Summary Count unread notifications
// @Description Count the authenticated user's unread notifications
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	count, err := h.notificationService.CountUnread(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to count notifications")
	}

	return response.Success(c, "Unread count retrieved successfully", fiber.Map{
		"count": count,
	})
}

// ReadAll marks all the authenticated user's notifications as read
// @Summary Mark all notifications read
// @Description Mark every notification of the authenticated user as read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /notifications/read-all [post]
func (h *NotificationHandler) ReadAll(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.notificationService.MarkAllRead(c.Context(), userID); err != nil {
		return response.InternalServerError(c, "Failed to mark notifications read")
	}

	return response.Success(c, "All notifications marked as read", nil)
}
