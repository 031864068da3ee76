package handlers

import (
	"errors"

	"clubhub/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var serviceErrorStatus = []struct {
	err    error
	status int
}{
	{service.ErrUserNotFound, fiber.StatusNotFound},
	{service.ErrDepartmentNotFound, fiber.StatusBadRequest},
	{service.ErrDepartmentExists, fiber.StatusConflict},
	{service.ErrClubNotFound, fiber.StatusNotFound},
	{service.ErrClubExists, fiber.StatusConflict},
	{service.ErrClubInactive, fiber.StatusBadRequest},
	{service.ErrAlreadyMember, fiber.StatusConflict},
	{service.ErrNotMember, fiber.StatusNotFound},
	{service.ErrEventNotFound, fiber.StatusNotFound},
	{service.ErrInvalidStartTime, fiber.StatusBadRequest},
	{service.ErrAnnouncementGone, fiber.StatusNotFound},
	{service.ErrNotificationNotFound, fiber.StatusNotFound},
}

// serviceError writes the response for a service failure. Known sentinels keep
// their message; anything else is logged and reported as "<action> failed".
func serviceError(c *fiber.Ctx, logger *zap.Logger, err error, action string) error {
	for _, m := range serviceErrorStatus {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(fiber.Map{
				"error": m.err.Error(),
			})
		}
	}

	logger.Error(action+" failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": action + " failed",
	})
}
