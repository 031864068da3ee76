package handlers

import (
	"clubhub/internal/dto"
	"clubhub/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type EventHandler struct {
	eventService *service.EventService
	annService   *service.AnnouncementService
	logger       *zap.Logger
}

func NewEventHandler(eventService *service.EventService, annService *service.AnnouncementService, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		annService:   annService,
		logger:       logger,
	}
}

// ListClubEvents godoc
// @Summary List a club's events
// @Tags events
// @Produce json
// @Param id path int true "Club ID"
// @Security Bearer
// @Success 200 {array} dto.EventResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/clubs/{id}/events [get]
func (h *EventHandler) ListClubEvents(c *fiber.Ctx) error {
	clubID, err := paramID(c, "id")
	if err != nil {
		return badID(c, "club")
	}

	events, err := h.eventService.ListByClub(c.Context(), clubID)
	if err != nil {
		return serviceError(c, h.logger, err, "List events")
	}
	return c.JSON(toEventResponses(events))
}

// UpcomingEvents godoc
// @Summary Upcoming events across all clubs
// @Tags events
// @Produce json
// @Param limit query int false "Max events (default 20, max 100)"
// @Security Bearer
// @Success 200 {array} dto.EventResponse
// @Router /api/v1/events/upcoming [get]
func (h *EventHandler) UpcomingEvents(c *fiber.Ctx) error {
	events, err := h.eventService.Upcoming(c.Context(), c.QueryInt("limit", 20))
	if err != nil {
		return serviceError(c, h.logger, err, "List upcoming events")
	}
	return c.JSON(toEventResponses(events))
}

// CreateEvent godoc
// @Summary Schedule an event
// @Description Creates the event and notifies every club member
// @Tags events
// @Accept json
// @Produce json
// @Param id path int true "Club ID"
// @Param request body dto.EventRequest true "Event"
// @Security Bearer
// @Success 201 {object} dto.EventResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/clubs/{id}/events [post]
func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	clubID, err := paramID(c, "id")
	if err != nil {
		return badID(c, "club")
	}

	var req dto.EventRequest
	if ok, err := parseAndValidate(c, &req); !ok {
		return err
	}

	event, err := h.eventService.Create(c.Context(), clubID, userID, &req)
	if err != nil {
		return serviceError(c, h.logger, err, "Create event")
	}
	return c.Status(fiber.StatusCreated).JSON(toEventResponse(event))
}

// DeleteEvent godoc
// @Summary Delete an event
// @Tags events
// @Param id path int true "Event ID"
// @Security Bearer
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/v1/events/{id} [delete]
func (h *EventHandler) DeleteEvent(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badID(c, "event")
	}

	if err := h.eventService.Delete(c.Context(), id); err != nil {
		return serviceError(c, h.logger, err, "Delete event")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListAnnouncements godoc
// @Summary List a club's announcements
// @Tags announcements
// @Produce json
// @Param id path int true "Club ID"
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Security Bearer
// @Success 200 {array} dto.AnnouncementResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/clubs/{id}/announcements [get]
func (h *EventHandler) ListAnnouncements(c *fiber.Ctx) error {
	clubID, err := paramID(c, "id")
	if err != nil {
		return badID(c, "club")
	}

	items, err := h.annService.ListByClub(c.Context(), clubID, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return serviceError(c, h.logger, err, "List announcements")
	}

	resp := make([]dto.AnnouncementResponse, 0, len(items))
	for _, a := range items {
		resp = append(resp, toAnnouncementResponse(a))
	}
	return c.JSON(resp)
}

// CreateAnnouncement godoc
// @Summary Post an announcement
// @Description Creates the announcement and notifies every club member
// @Tags announcements
// @Accept json
// @Produce json
// @Param id path int true "Club ID"
// @Param request body dto.AnnouncementRequest true "Announcement"
// @Security Bearer
// @Success 201 {object} dto.AnnouncementResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/clubs/{id}/announcements [post]
func (h *EventHandler) CreateAnnouncement(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	clubID, err := paramID(c, "id")
	if err != nil {
		return badID(c, "club")
	}

	var req dto.AnnouncementRequest
	if ok, err := parseAndValidate(c, &req); !ok {
		return err
	}

	a, err := h.annService.Create(c.Context(), clubID, userID, &req)
	if err != nil {
		return serviceError(c, h.logger, err, "Create announcement")
	}
	return c.Status(fiber.StatusCreated).JSON(toAnnouncementResponse(a))
}

// DeleteAnnouncement godoc
// @Summary Delete an announcement
// @Tags announcements
// @Param id path int true "Announcement ID"
// @Security Bearer
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/v1/announcements/{id} [delete]
func (h *EventHandler) DeleteAnnouncement(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badID(c, "announcement")
	}

	if err := h.annService.Delete(c.Context(), id); err != nil {
		return serviceError(c, h.logger, err, "Delete announcement")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
