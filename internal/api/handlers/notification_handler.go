package handlers

import (
	"clubhub/internal/dto"
	"clubhub/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	notifService *service.NotificationService
	logger       *zap.Logger
}

func NewNotificationHandler(notifService *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifService: notifService,
		logger:       logger,
	}
}

// ListNotifications godoc
// @Summary My notifications
// @Tags notifications
// @Produce json
// @Param unread query bool false "Only unread"
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Security Bearer
// @Success 200 {array} dto.NotificationResponse
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	items, err := h.notifService.ListMine(c.Context(), userID, c.QueryBool("unread", false), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return serviceError(c, h.logger, err, "List notifications")
	}

	resp := make([]dto.NotificationResponse, 0, len(items))
	for _, n := range items {
		resp = append(resp, dto.NotificationResponse{
			ID:        n.ID.String(),
			Title:     n.Title,
			Body:      n.Body,
			IsRead:    n.IsRead,
			CreatedAt: formatTime(n.CreatedAt),
		})
	}
	return c.JSON(resp)
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Param id path string true "Notification ID"
// @Security Bearer
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c, "notification")
	}

	if err := h.notifService.MarkRead(c.Context(), userID, id); err != nil {
		return serviceError(c, h.logger, err, "Mark notification read")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
