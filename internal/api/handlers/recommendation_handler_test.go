package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"clubhub/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRecommender struct {
	result *service.RecommendationResult
	err    error
	gotID  int64
}

func (s *stubRecommender) Recommend(_ context.Context, userID int64) (*service.RecommendationResult, error) {
	s.gotID = userID
	return s.result, s.err
}

func newRecommendationApp(rec Recommender, userID interface{}) *fiber.App {
	app := fiber.New()
	app.Get("/recommendations", func(c *fiber.Ctx) error {
		if userID != nil {
			c.Locals("userID", userID)
		}
		return c.Next()
	}, NewRecommendationHandler(rec, zap.NewNop()).GetRecommendations)
	return app
}

func doGet(t *testing.T, app *fiber.App, path string) (int, map[string]interface{}, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var obj map[string]interface{}
	_ = json.Unmarshal(body, &obj)
	return resp.StatusCode, obj, body
}

func TestGetRecommendations_Success(t *testing.T) {
	rec := &stubRecommender{result: &service.RecommendationResult{
		Club:      service.RecommendedClub{ID: 4, Name: "Robotics", Description: "Build robots", DepartmentName: "EE"},
		RelatedTo: "Chess Club",
		Reason:    "You like strategy.",
	}}
	app := newRecommendationApp(rec, int64(42))

	status, _, body := doGet(t, app, "/recommendations")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, int64(42), rec.gotID)

	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Chess Club", list[0]["relatedTo"])
	assert.Equal(t, "You like strategy.", list[0]["reason"])

	club := list[0]["club"].(map[string]interface{})
	assert.Equal(t, float64(4), club["id"])
	assert.Equal(t, "Robotics", club["name"])
	assert.Equal(t, "Build robots", club["description"])
	assert.Equal(t, "EE", club["departmentName"])
}

func TestGetRecommendations_Unauthorized(t *testing.T) {
	app := newRecommendationApp(&stubRecommender{}, nil)

	status, _, _ := doGet(t, app, "/recommendations")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestGetRecommendations_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		wantRaw string
	}{
		{"no candidates", service.ErrNoCandidatesAvailable, fiber.StatusNotFound, ""},
		{"user gone", service.ErrUserNotFound, fiber.StatusNotFound, ""},
		{
			"unparseable",
			&service.GenerationError{Err: fmt.Errorf("%w: no JSON object in reply", service.ErrGenerationUnparseable), Raw: "sure! try chess"},
			fiber.StatusBadRequest,
			"sure! try chess",
		},
		{
			"invalid suggestion",
			&service.GenerationError{Err: fmt.Errorf("%w: club 99", service.ErrInvalidSuggestion), Raw: `{"suggested_club_id":99}`},
			fiber.StatusBadRequest,
			`{"suggested_club_id":99}`,
		},
		{"timeout", &service.GenerationError{Err: service.ErrGenerationTimeout}, fiber.StatusGatewayTimeout, ""},
		{
			"transport",
			&service.GenerationError{Err: fmt.Errorf("%w: ollama returned status 502", service.ErrGenerationTransport), Raw: "bad gateway"},
			fiber.StatusInternalServerError,
			"bad gateway",
		},
		{"unexpected", fmt.Errorf("failed to load clubs: %w", context.Canceled), fiber.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newRecommendationApp(&stubRecommender{err: tt.err}, int64(1))

			status, body, _ := doGet(t, app, "/recommendations")
			assert.Equal(t, tt.status, status)
			assert.NotEmpty(t, body["error"])
			if tt.wantRaw == "" {
				assert.NotContains(t, body, "raw")
			} else {
				assert.Equal(t, tt.wantRaw, body["raw"])
			}
		})
	}
}
