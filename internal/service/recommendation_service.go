package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"clubhub/internal/models"
	"clubhub/internal/repository"

	"go.uber.org/zap"
)

// UserReader loads a user together with their department.
type UserReader interface {
	GetByIDWithDepartment(ctx context.Context, id int64) (*models.User, error)
}

// ClubReader lists clubs with their department names.
type ClubReader interface {
	ListByMember(ctx context.Context, userID int64) ([]*models.Club, error)
	ListAll(ctx context.Context) ([]*models.Club, error)
}

// Picker returns an index in [0, n). Each call is an independent draw.
type Picker func(n int) int

type RecommendedClub struct {
	ID             int64
	Name           string
	Description    string
	DepartmentName string
}

type RecommendationResult struct {
	Club      RecommendedClub
	RelatedTo string
	Reason    string
}

type RecommendationService struct {
	users     UserReader
	clubs     ClubReader
	generator TextGenerator
	pick      Picker
	timeout   time.Duration
	logger    *zap.Logger
}

type RecommendationOption func(*RecommendationService)

// WithPicker replaces the uniform random picker.
func WithPicker(p Picker) RecommendationOption {
	return func(s *RecommendationService) {
		s.pick = p
	}
}

// WithGenerationTimeout bounds the text generator call. Zero waits forever.
func WithGenerationTimeout(d time.Duration) RecommendationOption {
	return func(s *RecommendationService) {
		s.timeout = d
	}
}

func NewRecommendationService(
	users UserReader,
	clubs ClubReader,
	generator TextGenerator,
	logger *zap.Logger,
	opts ...RecommendationOption,
) *RecommendationService {
	s := &RecommendationService{
		users:     users,
		clubs:     clubs,
		generator: generator,
		pick:      rand.IntN,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recommend suggests one club userID has not joined yet.
//
// Users without memberships get a random club from their own department
// (or from all candidates when the department has none left). Everyone
// else gets the text generator's pick of the candidate most similar to a
// randomly chosen club they already belong to.
func (s *RecommendationService) Recommend(ctx context.Context, userID int64) (*RecommendationResult, error) {
	user, err := s.users.GetByIDWithDepartment(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	myClubs, err := s.clubs.ListByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user clubs: %w", err)
	}

	allClubs, err := s.clubs.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load clubs: %w", err)
	}

	candidates := excludeClubs(allClubs, myClubs)
	if len(candidates) == 0 {
		return nil, ErrNoCandidatesAvailable
	}

	if len(myClubs) == 0 {
		return s.recommendByDepartment(user, candidates), nil
	}

	return s.recommendBySimilarity(ctx, user, myClubs, candidates)
}

func (s *RecommendationService) recommendByDepartment(user *models.User, candidates []*models.Club) *RecommendationResult {
	pool := candidates
	var sameDepartment []*models.Club
	for _, club := range candidates {
		if club.InDepartment(user.DepartmentID) {
			sameDepartment = append(sameDepartment, club)
		}
	}
	if len(sameDepartment) > 0 {
		pool = sameDepartment
	}

	club := pool[s.pick(len(pool))]
	department := user.DepartmentName()

	reason := "This club is a good first step into campus life."
	if department != "" {
		reason = fmt.Sprintf("This club is recommended because of your department: %s.", department)
	}

	s.logger.Info("Cold-start recommendation",
		zap.Int64("user_id", user.ID),
		zap.Int64("club_id", club.ID),
		zap.Bool("department_match", len(sameDepartment) > 0),
	)

	return &RecommendationResult{
		Club:      summarizeClub(club),
		RelatedTo: department,
		Reason:    reason,
	}
}

func (s *RecommendationService) recommendBySimilarity(
	ctx context.Context,
	user *models.User,
	myClubs []*models.Club,
	candidates []*models.Club,
) (*RecommendationResult, error) {
	reference := myClubs[s.pick(len(myClubs))]
	prompt := buildRecommendationPrompt(reference, candidates)

	genCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.generator.Generate(genCtx, prompt)
	if err != nil {
		return nil, s.generationFailure(ctx, err)
	}

	suggestion, err := parseSuggestion(raw)
	if err != nil {
		s.logger.Warn("Unparseable recommendation reply", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, &GenerationError{Err: fmt.Errorf("%w: %v", ErrGenerationUnparseable, err), Raw: raw}
	}

	club := findClub(candidates, suggestion.ClubID)
	if club == nil {
		s.logger.Warn("Recommendation outside candidate list",
			zap.Int64("user_id", user.ID),
			zap.Int64("suggested_club_id", suggestion.ClubID),
		)
		return nil, &GenerationError{
			Err: fmt.Errorf("%w: club %d", ErrInvalidSuggestion, suggestion.ClubID),
			Raw: raw,
		}
	}

	s.logger.Info("Similarity recommendation",
		zap.Int64("user_id", user.ID),
		zap.Int64("reference_club_id", reference.ID),
		zap.Int64("club_id", club.ID),
	)

	return &RecommendationResult{
		Club:      summarizeClub(club),
		RelatedTo: reference.Name,
		Reason:    CleanReason(sanitizeUTF8(suggestion.Reason)),
	}, nil
}

// generationFailure maps a generator error onto the recommendation taxonomy.
// Only the deadline set by this service counts as a timeout.
func (s *RecommendationService) generationFailure(ctx context.Context, err error) error {
	var genErr *GenerationError
	raw := ""
	if errors.As(err, &genErr) {
		raw = genErr.Raw
	}

	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		s.logger.Warn("Text generator timed out", zap.Duration("timeout", s.timeout))
		return &GenerationError{Err: ErrGenerationTimeout, Raw: raw}
	}

	s.logger.Error("Text generator failed", zap.Error(err))
	if genErr != nil {
		return genErr
	}
	return &GenerationError{Err: fmt.Errorf("%w: %w", ErrGenerationTransport, err)}
}

type suggestion struct {
	ClubID int64
	Reason string
}

// parseSuggestion reads the generator reply as one JSON object. Key matching
// is case-insensitive; text around the object (markdown fences, chatter) is
// ignored.
func parseSuggestion(raw string) (*suggestion, error) {
	content := strings.TrimSpace(raw)
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end < start {
		return nil, errors.New("no JSON object in reply")
	}

	var payload struct {
		SuggestedClubID *json.Number `json:"suggested_club_id"`
		Reason          *string      `json:"reason"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if payload.SuggestedClubID == nil {
		return nil, errors.New("missing suggested_club_id")
	}
	id, err := payload.SuggestedClubID.Int64()
	if err != nil {
		return nil, fmt.Errorf("suggested_club_id is not an integer: %s", payload.SuggestedClubID.String())
	}
	if payload.Reason == nil {
		return nil, errors.New("missing reason")
	}

	return &suggestion{ClubID: id, Reason: *payload.Reason}, nil
}

func buildRecommendationPrompt(reference *models.Club, candidates []*models.Club) string {
	var b strings.Builder

	b.WriteString("A university student wants to join one more club.\n\n")
	b.WriteString("The student is already a member of this club:\n")
	fmt.Fprintf(&b, "Name: %s\n", promptField(reference.Name, 0))
	fmt.Fprintf(&b, "Department: %s\n", promptField(reference.DepartmentName, 0))
	fmt.Fprintf(&b, "Description: %s\n\n", promptField(reference.Description, 600))

	b.WriteString("Candidate clubs (id | name | department | description):\n")
	for _, club := range candidates {
		fmt.Fprintf(&b, "%d | %s | %s | %s\n",
			club.ID,
			promptField(club.Name, 0),
			promptField(club.DepartmentName, 0),
			promptField(club.Description, 300),
		)
	}

	b.WriteString("\nPick the ONE candidate club most similar to the student's club.\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Answer with a single JSON object and nothing else.\n")
	b.WriteString("- The object has exactly two keys: \"suggested_club_id\" (integer) and \"reason\" (string).\n")
	b.WriteString("- \"suggested_club_id\" MUST be one of the ids in the candidate list above.\n")
	b.WriteString("- \"reason\" is one or two sentences addressed to the student; do not mention ids.\n")
	b.WriteString("Example: {\"suggested_club_id\": 12, \"reason\": \"...\"}\n")

	return b.String()
}

func excludeClubs(all, exclude []*models.Club) []*models.Club {
	skip := make(map[int64]struct{}, len(exclude))
	for _, club := range exclude {
		skip[club.ID] = struct{}{}
	}

	candidates := make([]*models.Club, 0, len(all))
	for _, club := range all {
		if _, ok := skip[club.ID]; !ok {
			candidates = append(candidates, club)
		}
	}
	return candidates
}

func findClub(clubs []*models.Club, id int64) *models.Club {
	for _, club := range clubs {
		if club.ID == id {
			return club
		}
	}
	return nil
}

func summarizeClub(club *models.Club) RecommendedClub {
	return RecommendedClub{
		ID:             club.ID,
		Name:           club.Name,
		Description:    club.Description,
		DepartmentName: club.DepartmentName,
	}
}
