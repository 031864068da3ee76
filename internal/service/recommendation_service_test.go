package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"clubhub/internal/models"
	"clubhub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUsers struct {
	user *models.User
	err  error
}

func (f *fakeUsers) GetByIDWithDepartment(_ context.Context, _ int64) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

type fakeClubs struct {
	mine    []*models.Club
	all     []*models.Club
	mineErr error
	allErr  error
}

func (f *fakeClubs) ListByMember(_ context.Context, _ int64) ([]*models.Club, error) {
	return f.mine, f.mineErr
}

func (f *fakeClubs) ListAll(_ context.Context) ([]*models.Club, error) {
	return f.all, f.allErr
}

type fakeGenerator struct {
	reply   string
	err     error
	block   bool
	prompts []string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.block {
		<-ctx.Done()
		return "", &GenerationError{Err: fmt.Errorf("%w: %w", ErrGenerationTransport, ctx.Err()), Raw: "partial"}
	}
	return g.reply, g.err
}

func deptID(id int64) *int64 { return &id }

func club(id int64, name string, dept *int64, deptName, description string) *models.Club {
	return &models.Club{
		ID:             id,
		Name:           name,
		Description:    description,
		DepartmentID:   dept,
		DepartmentName: deptName,
		IsActive:       true,
	}
}

func csStudent() *models.User {
	return &models.User{
		ID:           1,
		Username:     "ada",
		Role:         models.RoleStudent,
		DepartmentID: deptID(10),
		Department:   &models.Department{ID: 10, Name: "CS"},
	}
}

func newTestService(users UserReader, clubs ClubReader, gen TextGenerator, opts ...RecommendationOption) *RecommendationService {
	return NewRecommendationService(users, clubs, gen, zap.NewNop(), opts...)
}

// Scenario A
func TestRecommend_ColdStartPrefersDepartment(t *testing.T) {
	clubs := &fakeClubs{all: []*models.Club{
		club(1, "Algorithms Club", deptID(10), "CS", "Competitive programming"),
		club(2, "Circuits Club", deptID(20), "EE", "Soldering and circuits"),
	}}
	gen := &fakeGenerator{}
	svc := newTestService(&fakeUsers{user: csStudent()}, clubs, gen)

	for i := 0; i < 50; i++ {
		result, err := svc.Recommend(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Club.ID)
		assert.Equal(t, "CS", result.Club.DepartmentName)
		assert.Equal(t, "CS", result.RelatedTo)
		assert.Contains(t, result.Reason, "CS")
	}
	assert.Empty(t, gen.prompts, "cold start must not call the text generator")
}

// Scenario B
func TestRecommend_ColdStartFallsBackToAllCandidates(t *testing.T) {
	clubs := &fakeClubs{all: []*models.Club{
		club(2, "Circuits Club", deptID(20), "EE", "Soldering and circuits"),
	}}
	svc := newTestService(&fakeUsers{user: csStudent()}, clubs, &fakeGenerator{})

	result, err := svc.Recommend(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Club.ID)
	assert.Equal(t, "CS", result.RelatedTo)
}

func TestRecommend_ColdStartFallbackDrawsFromWholeSet(t *testing.T) {
	clubs := &fakeClubs{all: []*models.Club{
		club(2, "Circuits Club", deptID(20), "EE", ""),
		club(3, "Drama Club", nil, "", ""),
		club(4, "Debate Club", deptID(30), "Law", ""),
	}}

	var sizes []int
	picker := func(n int) int {
		sizes = append(sizes, n)
		return n - 1
	}
	svc := newTestService(&fakeUsers{user: csStudent()}, clubs, &fakeGenerator{}, WithPicker(picker))

	result, err := svc.Recommend(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, sizes)
	assert.Equal(t, int64(4), result.Club.ID)
}

func TestRecommend_ColdStartWithoutDepartment(t *testing.T) {
	user := &models.User{ID: 5, Role: models.RoleStudent}
	clubs := &fakeClubs{all: []*models.Club{
		club(1, "Algorithms Club", deptID(10), "CS", ""),
		club(2, "Drama Club", nil, "", ""),
	}}
	svc := newTestService(&fakeUsers{user: user}, clubs, &fakeGenerator{}, WithPicker(func(n int) int { return 1 }))

	result, err := svc.Recommend(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Club.ID)
	assert.Equal(t, "", result.RelatedTo)
	assert.NotEmpty(t, result.Reason)
}

func TestRecommend_ColdStartWithoutDepartmentIgnoresDepartmentlessClubs(t *testing.T) {
	user := &models.User{ID: 5, Role: models.RoleStudent}
	clubs := &fakeClubs{all: []*models.Club{
		club(1, "Drama Club", nil, "", ""),
		club(2, "Algorithms Club", deptID(10), "CS", ""),
		club(3, "Photo Club", nil, "", ""),
	}}
	var poolSizes []int
	pick := func(n int) int {
		poolSizes = append(poolSizes, n)
		return 1
	}
	gen := &fakeGenerator{}
	svc := newTestService(&fakeUsers{user: user}, clubs, gen, WithPicker(pick))

	result, err := svc.Recommend(context.Background(), 5)
	require.NoError(t, err)

	// a missing department matches no club, so every candidate stays in the pool
	assert.Equal(t, []int{3}, poolSizes)
	assert.Equal(t, int64(2), result.Club.ID)
	assert.Equal(t, "", result.RelatedTo)
	assert.Equal(t, "This club is a good first step into campus life.", result.Reason)
	assert.Empty(t, gen.prompts)
}

// Scenario C
func TestRecommend_NoCandidates(t *testing.T) {
	all := []*models.Club{
		club(1, "A", nil, "", ""),
		club(2, "B", nil, "", ""),
		club(3, "C", nil, "", ""),
	}
	gen := &fakeGenerator{}
	svc := newTestService(&fakeUsers{user: csStudent()}, &fakeClubs{mine: all, all: all}, gen)

	_, err := svc.Recommend(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoCandidatesAvailable)
	assert.Empty(t, gen.prompts)
}

func TestRecommend_NoClubsAtAll(t *testing.T) {
	svc := newTestService(&fakeUsers{user: csStudent()}, &fakeClubs{}, &fakeGenerator{})

	_, err := svc.Recommend(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoCandidatesAvailable)
}

func warmClubs() *fakeClubs {
	mine := []*models.Club{
		club(1, "Chess Club", deptID(10), "CS", "Weekly chess tournaments"),
		club(2, "Go Club", deptID(10), "CS", "The board game"),
	}
	return &fakeClubs{
		mine: mine,
		all: append([]*models.Club{
			club(4, "Robotics", deptID(20), "EE", "Build robots"),
			club(5, "Bridge Club", nil, "", "Card game\nevery Friday"),
			club(6, "Poetry | Prose", deptID(30), "Literature", "Readings"),
		}, mine...),
	}
}

// Scenario D
func TestRecommend_WarmRejectsUnknownSuggestion(t *testing.T) {
	reply := `{"suggested_club_id": 99, "reason": "ID:99 similar"}`
	svc := newTestService(&fakeUsers{user: csStudent()}, warmClubs(), &fakeGenerator{reply: reply})

	_, err := svc.Recommend(context.Background(), 1)
	require.ErrorIs(t, err, ErrInvalidSuggestion)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, reply, genErr.Raw)
}

// P1: a club the user already belongs to is never accepted, even from the generator.
func TestRecommend_WarmRejectsMemberClub(t *testing.T) {
	reply := `{"suggested_club_id": 2, "reason": "You will love it"}`
	svc := newTestService(&fakeUsers{user: csStudent()}, warmClubs(), &fakeGenerator{reply: reply})

	_, err := svc.Recommend(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInvalidSuggestion)
}

// P6
func TestRecommend_WarmRelatedToIsLocalReferenceClub(t *testing.T) {
	reply := `{"suggested_club_id": 5, "reason": "Bridge (id 5) is strategic like Robotics", "related_to": "Robotics"}`
	clubs := warmClubs()
	gen := &fakeGenerator{reply: reply}

	for idx, want := range []string{"Chess Club", "Go Club"} {
		svc := newTestService(&fakeUsers{user: csStudent()}, clubs, gen, WithPicker(func(n int) int {
			require.Equal(t, 2, n)
			return idx
		}))

		result, err := svc.Recommend(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, want, result.RelatedTo)
		assert.Equal(t, int64(5), result.Club.ID)
		assert.Equal(t, "Bridge is strategic like Robotics", result.Reason)
	}
}

func TestRecommend_WarmPromptContents(t *testing.T) {
	gen := &fakeGenerator{reply: `{"suggested_club_id": 4, "reason": "Robots."}`}
	svc := newTestService(&fakeUsers{user: csStudent()}, warmClubs(), gen, WithPicker(func(int) int { return 0 }))

	_, err := svc.Recommend(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, gen.prompts, 1)

	prompt := gen.prompts[0]
	assert.Contains(t, prompt, "Name: Chess Club")
	assert.Contains(t, prompt, "Department: CS")
	assert.Contains(t, prompt, "Description: Weekly chess tournaments")
	assert.Contains(t, prompt, "4 | Robotics | EE | Build robots\n")
	assert.Contains(t, prompt, "5 | Bridge Club | - | Card game every Friday\n")
	assert.Contains(t, prompt, "6 | Poetry / Prose | Literature | Readings\n")
	assert.Contains(t, prompt, `"suggested_club_id"`)
	assert.Contains(t, prompt, `"reason"`)
	assert.NotContains(t, prompt, "1 | Chess Club")
	assert.NotContains(t, prompt, "2 | Go Club")
}

func TestRecommend_WarmParsing(t *testing.T) {
	tests := []struct {
		name   string
		reply  string
		wantID int64
		reason string
	}{
		{
			name:   "plain object",
			reply:  `{"suggested_club_id": 4, "reason": "You like building things."}`,
			wantID: 4,
			reason: "You like building things.",
		},
		{
			name:   "case-insensitive keys",
			reply:  `{"Suggested_Club_ID": 6, "REASON": "Great fit (ID:6) for you"}`,
			wantID: 6,
			reason: "Great fit for you",
		},
		{
			name:   "markdown fence",
			reply:  "```json\n{\"suggested_club_id\": 5, \"reason\": \"Cards!\"}\n```",
			wantID: 5,
			reason: "Cards!",
		},
		{
			name:   "numeric string id",
			reply:  `{"suggested_club_id": "4", "reason": "ok"}`,
			wantID: 4,
			reason: "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&fakeUsers{user: csStudent()}, warmClubs(), &fakeGenerator{reply: tt.reply})

			result, err := svc.Recommend(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, result.Club.ID)
			assert.Equal(t, tt.reason, result.Reason)
		})
	}
}

func TestRecommend_WarmUnparseable(t *testing.T) {
	replies := []string{
		"I think you should join Robotics.",
		`{"suggested_club_id": "robotics", "reason": "x"}`,
		`{"suggested_club_id": 4.5, "reason": "x"}`,
		`{"suggested_club_id": 4}`,
		`{"reason": "no id"}`,
		`{"suggested_club_id": 4, "reason": 7}`,
		`{"suggested_club_id": 4, "reason": "x"`,
		"",
	}

	for _, reply := range replies {
		t.Run(reply, func(t *testing.T) {
			svc := newTestService(&fakeUsers{user: csStudent()}, warmClubs(), &fakeGenerator{reply: reply})

			_, err := svc.Recommend(context.Background(), 1)
			require.ErrorIs(t, err, ErrGenerationUnparseable)

			var genErr *GenerationError
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, reply, genErr.Raw)
		})
	}
}

func TestRecommend_WarmTransportFailure(t *testing.T) {
	gen := &fakeGenerator{err: &GenerationError{
		Err: fmt.Errorf("%w: ollama returned status 500", ErrGenerationTransport),
		Raw: `{"error":"model not found"}`,
	}}
	svc := newTestService(&fakeUsers{user: csStudent()}, warmClubs(), gen)

	_, err := svc.Recommend(context.Background(), 1)
	require.ErrorIs(t, err, ErrGenerationTransport)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, `{"error":"model not found"}`, genErr.Raw)
	assert.Len(t, gen.prompts, 1, "failures are not retried")
}

func TestRecommend_WarmBareGeneratorError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("connection refused")}
	svc := newTestService(&fakeUsers{user: csStudent()}, warmClubs(), gen)

	_, err := svc.Recommend(context.Background(), 1)
	assert.ErrorIs(t, err, ErrGenerationTransport)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRecommend_WarmTimeout(t *testing.T) {
	gen := &fakeGenerator{block: true}
	svc := newTestService(&fakeUsers{user: csStudent()}, warmClubs(), gen, WithGenerationTimeout(10*time.Millisecond))

	_, err := svc.Recommend(context.Background(), 1)
	require.ErrorIs(t, err, ErrGenerationTimeout)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "partial", genErr.Raw)
}

func TestRecommend_CallerCancellationIsNotTimeout(t *testing.T) {
	gen := &fakeGenerator{block: true}
	svc := newTestService(&fakeUsers{user: csStudent()}, warmClubs(), gen, WithGenerationTimeout(time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Recommend(ctx, 1)
	assert.ErrorIs(t, err, ErrGenerationTransport)
	assert.NotErrorIs(t, err, ErrGenerationTimeout)
}

func TestRecommend_UserNotFound(t *testing.T) {
	svc := newTestService(&fakeUsers{err: repository.ErrNotFound}, warmClubs(), &fakeGenerator{})

	_, err := svc.Recommend(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRecommend_RepositoryErrors(t *testing.T) {
	dbDown := errors.New("db down")

	svc := newTestService(&fakeUsers{user: csStudent()}, &fakeClubs{mineErr: dbDown}, &fakeGenerator{})
	_, err := svc.Recommend(context.Background(), 1)
	assert.ErrorIs(t, err, dbDown)

	svc = newTestService(&fakeUsers{user: csStudent()}, &fakeClubs{allErr: dbDown}, &fakeGenerator{})
	_, err = svc.Recommend(context.Background(), 1)
	assert.ErrorIs(t, err, dbDown)
}

// P1 over the default random picker: whatever gets drawn, it is never a membership.
func TestRecommend_NeverReturnsMemberClub(t *testing.T) {
	clubs := warmClubs()
	member := map[int64]bool{}
	for _, c := range clubs.mine {
		member[c.ID] = true
	}

	for _, id := range []int64{4, 5, 6} {
		reply := fmt.Sprintf(`{"suggested_club_id": %d, "reason": "fits"}`, id)
		svc := newTestService(&fakeUsers{user: csStudent()}, clubs, &fakeGenerator{reply: reply})

		result, err := svc.Recommend(context.Background(), 1)
		require.NoError(t, err)
		assert.False(t, member[result.Club.ID])
		assert.True(t, strings.HasSuffix(result.RelatedTo, "Club"))
	}
}

func TestExcludeClubs(t *testing.T) {
	all := []*models.Club{club(1, "A", nil, "", ""), club(2, "B", nil, "", ""), club(3, "C", nil, "", "")}
	mine := []*models.Club{club(2, "B (stale copy)", nil, "", "")}

	got := excludeClubs(all, mine)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
}
