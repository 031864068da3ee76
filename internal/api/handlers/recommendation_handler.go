package handlers

import (
	"context"
	"errors"

	"clubhub/internal/dto"
	"clubhub/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Recommender is implemented by service.RecommendationService.
type Recommender interface {
	Recommend(ctx context.Context, userID int64) (*service.RecommendationResult, error)
}

type RecommendationHandler struct {
	recommender Recommender
	logger      *zap.Logger
}

func NewRecommendationHandler(recommender Recommender, logger *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		recommender: recommender,
		logger:      logger,
	}
}

// GetRecommendations godoc
// @Summary Recommend a club
// @Description Suggests one club the caller has not joined. Users without clubs get a pick from their department; everyone else gets the club most similar to one of theirs.
// @Tags recommendations
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.RecommendationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Failure 504 {object} map[string]string
// @Router /api/v1/recommendations [get]
func (h *RecommendationHandler) GetRecommendations(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	result, err := h.recommender.Recommend(c.UserContext(), userID)
	if err != nil {
		return h.recommendationError(c, userID, err)
	}

	return c.JSON([]dto.RecommendationResponse{{
		Club: dto.RecommendedClubResponse{
			ID:             result.Club.ID,
			Name:           result.Club.Name,
			Description:    result.Club.Description,
			DepartmentName: result.Club.DepartmentName,
		},
		RelatedTo: result.RelatedTo,
		Reason:    result.Reason,
	}})
}

func (h *RecommendationHandler) recommendationError(c *fiber.Ctx, userID int64, err error) error {
	var raw string
	var genErr *service.GenerationError
	if errors.As(err, &genErr) {
		raw = genErr.Raw
	}

	status := fiber.StatusInternalServerError
	message := "Failed to generate recommendation"

	switch {
	case errors.Is(err, service.ErrUserNotFound):
		status, message = fiber.StatusNotFound, "User not found"
	case errors.Is(err, service.ErrNoCandidatesAvailable):
		status, message = fiber.StatusNotFound, "No clubs left to recommend"
	case errors.Is(err, service.ErrGenerationUnparseable):
		status, message = fiber.StatusBadRequest, "Recommendation reply could not be parsed"
	case errors.Is(err, service.ErrInvalidSuggestion):
		status, message = fiber.StatusBadRequest, "Recommendation referenced an unknown club"
	case errors.Is(err, service.ErrGenerationTimeout):
		status, message = fiber.StatusGatewayTimeout, "Recommendation timed out"
	default:
		h.logger.Error("Recommendation failed", zap.Int64("user_id", userID), zap.Error(err))
	}

	body := fiber.Map{"error": message}
	if raw != "" {
		body["raw"] = raw
	}
	return c.Status(status).JSON(body)
}
