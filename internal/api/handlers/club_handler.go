package handlers

import (
	"clubhub/internal/dto"
	"clubhub/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ClubHandler struct {
	clubService *service.ClubService
	logger      *zap.Logger
}

func NewClubHandler(clubService *service.ClubService, logger *zap.Logger) *ClubHandler {
	return &ClubHandler{
		clubService: clubService,
		logger:      logger,
	}
}

// ListClubs godoc
// @Summary List clubs
// @Description All clubs, or only active ones with active=true
// @Tags clubs
// @Produce json
// @Param active query bool false "Only active clubs"
// @Security Bearer
// @Success 200 {array} dto.ClubResponse
// @Router /api/v1/clubs [get]
func (h *ClubHandler) ListClubs(c *fiber.Ctx) error {
	clubs, err := h.clubService.List(c.Context(), c.QueryBool("active", false))
	if err != nil {
		return serviceError(c, h.logger, err, "List clubs")
	}
	return c.JSON(toClubResponses(clubs))
}

// GetClub godoc
// @Summary Get a club
// @Tags clubs
// @Produce json
// @Param id path int true "Club ID"
// @Security Bearer
// @Success 200 {object} dto.ClubResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/clubs/{id} [get]
func (h *ClubHandler) GetClub(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badID(c, "club")
	}

	club, err := h.clubService.Get(c.Context(), id)
	if err != nil {
		return serviceError(c, h.logger, err, "Get club")
	}
	return c.JSON(toClubResponse(club))
}

// MyClubs godoc
// @Summary Clubs I belong to
// @Tags clubs
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.ClubResponse
// @Router /api/v1/clubs/mine [get]
func (h *ClubHandler) MyClubs(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	clubs, err := h.clubService.MyClubs(c.Context(), userID)
	if err != nil {
		return serviceError(c, h.logger, err, "List my clubs")
	}
	return c.JSON(toClubResponses(clubs))
}

// CreateClub godoc
// @Summary Create a club
// @Tags clubs
// @Accept json
// @Produce json
// @Param request body dto.ClubRequest true "Club"
// @Security Bearer
// @Success 201 {object} dto.ClubResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/clubs [post]
func (h *ClubHandler) CreateClub(c *fiber.Ctx) error {
	var req dto.ClubRequest
	if ok, err := parseAndValidate(c, &req); !ok {
		return err
	}

	club, err := h.clubService.Create(c.Context(), &req)
	if err != nil {
		return serviceError(c, h.logger, err, "Create club")
	}
	return c.Status(fiber.StatusCreated).JSON(toClubResponse(club))
}

// UpdateClub godoc
// @Summary Update a club
// @Tags clubs
// @Accept json
// @Produce json
// @Param id path int true "Club ID"
// @Param request body dto.ClubRequest true "Club"
// @Security Bearer
// @Success 200 {object} dto.ClubResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/clubs/{id} [put]
func (h *ClubHandler) UpdateClub(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badID(c, "club")
	}

	var req dto.ClubRequest
	if ok, err := parseAndValidate(c, &req); !ok {
		return err
	}

	club, err := h.clubService.Update(c.Context(), id, &req)
	if err != nil {
		return serviceError(c, h.logger, err, "Update club")
	}
	return c.JSON(toClubResponse(club))
}

// DeleteClub godoc
// @Summary Delete a club
// @Tags clubs
// @Param id path int true "Club ID"
// @Security Bearer
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/v1/clubs/{id} [delete]
func (h *ClubHandler) DeleteClub(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badID(c, "club")
	}

	if err := h.clubService.Delete(c.Context(), id); err != nil {
		return serviceError(c, h.logger, err, "Delete club")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// JoinClub godoc
// @Summary Join a club
// @Tags clubs
// @Param id path int true "Club ID"
// @Security Bearer
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/clubs/{id}/membership [post]
func (h *ClubHandler) JoinClub(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	clubID, err := paramID(c, "id")
	if err != nil {
		return badID(c, "club")
	}

	if err := h.clubService.Join(c.Context(), userID, clubID); err != nil {
		return serviceError(c, h.logger, err, "Join club")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LeaveClub godoc
// @Summary Leave a club
// @Tags clubs
// @Param id path int true "Club ID"
// @Security Bearer
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/v1/clubs/{id}/membership [delete]
func (h *ClubHandler) LeaveClub(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	clubID, err := paramID(c, "id")
	if err != nil {
		return badID(c, "club")
	}

	if err := h.clubService.Leave(c.Context(), userID, clubID); err != nil {
		return serviceError(c, h.logger, err, "Leave club")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListMembers godoc
// @Summary List club members
// @Tags clubs
// @Produce json
// @Param id path int true "Club ID"
// @Security Bearer
// @Success 200 {array} dto.ClubMemberResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/clubs/{id}/members [get]
func (h *ClubHandler) ListMembers(c *fiber.Ctx) error {
	clubID, err := paramID(c, "id")
	if err != nil {
		return badID(c, "club")
	}

	members, err := h.clubService.Members(c.Context(), clubID)
	if err != nil {
		return serviceError(c, h.logger, err, "List members")
	}

	resp := make([]dto.ClubMemberResponse, 0, len(members))
	for _, m := range members {
		resp = append(resp, dto.ClubMemberResponse{
			UserID:   m.UserID,
			Username: m.Username,
			Email:    m.Email,
			JoinedAt: formatTime(m.JoinedAt),
		})
	}
	return c.JSON(resp)
}
