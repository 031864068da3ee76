package handlers

import (
	"errors"
	"strconv"
	"time"

	"clubhub/internal/dto"
	"clubhub/internal/models"
	"clubhub/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

func getUserID(c *fiber.Ctx) (int64, error) {
	userID, ok := c.Locals("userID").(int64)
	if !ok || userID <= 0 {
		return 0, fiber.ErrUnauthorized
	}
	return userID, nil
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// parseAndValidate decodes the body into req and runs the struct validator.
// It writes the 400 response itself and returns false when the caller should stop.
func parseAndValidate(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := validation.Struct(req); err != nil {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "Validation failed",
				"details": vErr.Fields,
			})
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return true, nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized",
	})
}

func badID(c *fiber.Ctx, what string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid " + what + " ID",
	})
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func toDepartmentResponse(d *models.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{
		ID:        d.ID,
		Name:      d.Name,
		CreatedAt: formatTime(d.CreatedAt),
	}
}

func toClubResponse(club *models.Club) dto.ClubResponse {
	return dto.ClubResponse{
		ID:             club.ID,
		Name:           club.Name,
		Description:    club.Description,
		DepartmentID:   club.DepartmentID,
		DepartmentName: club.DepartmentName,
		IsActive:       club.IsActive,
		CreatedAt:      formatTime(club.CreatedAt),
		UpdatedAt:      formatTime(club.UpdatedAt),
	}
}

func toClubResponses(clubs []*models.Club) []dto.ClubResponse {
	out := make([]dto.ClubResponse, 0, len(clubs))
	for _, club := range clubs {
		out = append(out, toClubResponse(club))
	}
	return out
}

func toEventResponse(e *models.Event) dto.EventResponse {
	return dto.EventResponse{
		ID:          e.ID,
		ClubID:      e.ClubID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		StartsAt:    formatTime(e.StartsAt),
		CreatedBy:   e.CreatedBy,
		CreatedAt:   formatTime(e.CreatedAt),
	}
}

func toEventResponses(events []*models.Event) []dto.EventResponse {
	out := make([]dto.EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	return out
}

func toAnnouncementResponse(a *models.Announcement) dto.AnnouncementResponse {
	return dto.AnnouncementResponse{
		ID:        a.ID,
		ClubID:    a.ClubID,
		Title:     a.Title,
		Body:      a.Body,
		CreatedBy: a.CreatedBy,
		CreatedAt: formatTime(a.CreatedAt),
	}
}
