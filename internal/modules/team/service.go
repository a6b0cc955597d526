package team

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/partydex/partydex/internal/events"
	"github.com/partydex/partydex/internal/modules/pokemon"
	"github.com/partydex/partydex/internal/modules/typechart"
	"github.com/rs/zerolog"
)

// shareIDLength is the length of generated share IDs
const shareIDLength = 10

// RosterLookup resolves roster members for enrichment
type RosterLookup interface {
	GetByID(id int) (pokemon.CachedPokemon, bool)
}

// CoverageAnalyzer computes the type coverage of a list of roster IDs
type CoverageAnalyzer interface {
	Analyze(ids []int) (*typechart.CoverageResult, error)
}

// Service applies team ownership and validation rules over the repository
type Service struct {
	repo         *Repository
	roster       RosterLookup
	analyzer     CoverageAnalyzer
	eventManager *events.Manager
	now          func() time.Time
	log          zerolog.Logger
}

// NewService creates a new team service
func NewService(
	repo *Repository,
	roster RosterLookup,
	analyzer CoverageAnalyzer,
	eventManager *events.Manager,
	log zerolog.Logger,
) *Service {
	return &Service{
		repo:         repo,
		roster:       roster,
		analyzer:     analyzer,
		eventManager: eventManager,
		now:          time.Now,
		log:          log.With().Str("service", "team").Logger(),
	}
}

// Create stores a new team for userID
func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (*TeamView, error) {
	name, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := validateMembers(input.Pokemon); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	team := &Team{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		IsPublic:  input.IsPublic,
		CreatedAt: now,
		UpdatedAt: now,
		Members:   sortedMembers(input.Pokemon),
	}
	if team.IsPublic {
		team.ShareID = newShareID()
	}

	if err := s.repo.Create(ctx, team, MaxTeamsPerUser); err != nil {
		return nil, err
	}

	s.emit(&events.TeamCreatedData{TeamID: team.ID, Members: len(team.Members)})
	return s.view(team), nil
}

// ListByUser returns the user's teams, most recently updated first
func (s *Service) ListByUser(ctx context.Context, userID string) ([]TeamView, error) {
	teams, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]TeamView, len(teams))
	for i := range teams {
		views[i] = *s.view(&teams[i])
	}
	return views, nil
}

// Get returns a team the user owns, or any public team
func (s *Service) Get(ctx context.Context, teamID, userID string) (*TeamView, error) {
	team, err := s.readable(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	return s.view(team), nil
}

// GetByShareID returns a public team by its share ID.
// Private teams yield ErrNotPublic.
func (s *Service) GetByShareID(ctx context.Context, shareID string) (*TeamView, error) {
	team, err := s.repo.GetByShareID(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if !team.IsPublic {
		return nil, ErrNotPublic
	}
	return s.view(team), nil
}

// Update applies a partial update to a team the user owns.
// Making a team public assigns a share ID if it has none; making it private clears it.
func (s *Service) Update(ctx context.Context, teamID, userID string, input UpdateInput) (*TeamView, error) {
	team, err := s.owned(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name, err := validateName(*input.Name)
		if err != nil {
			return nil, err
		}
		team.Name = name
	}
	if input.Pokemon != nil {
		if err := validateMembers(*input.Pokemon); err != nil {
			return nil, err
		}
		team.Members = sortedMembers(*input.Pokemon)
	}
	if input.IsPublic != nil {
		team.IsPublic = *input.IsPublic
		switch {
		case team.IsPublic && team.ShareID == "":
			team.ShareID = newShareID()
		case !team.IsPublic:
			team.ShareID = ""
		}
	}
	team.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, team, input.Pokemon != nil); err != nil {
		return nil, err
	}

	s.emit(&events.TeamUpdatedData{
		TeamID:   team.ID,
		Members:  len(team.Members),
		IsPublic: team.IsPublic,
	})
	return s.view(team), nil
}

// Delete removes a team the user owns
func (s *Service) Delete(ctx context.Context, teamID, userID string) error {
	if _, err := s.owned(ctx, teamID, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, teamID); err != nil {
		return err
	}

	s.emit(&events.TeamDeletedData{TeamID: teamID})
	return nil
}

// Analyze returns the type coverage of a team the user can read
func (s *Service) Analyze(ctx context.Context, teamID, userID string) (*Analysis, error) {
	team, err := s.readable(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]int, len(team.Members))
	for i, m := range team.Members {
		ids[i] = m.PokemonID
	}

	coverage, err := s.analyzer.Analyze(ids)
	if err != nil {
		return nil, err
	}

	return &Analysis{
		TeamID:     team.ID,
		PokemonIDs: ids,
		Coverage:   coverage,
	}, nil
}

// readable loads a team the user owns or that is public
func (s *Service) readable(ctx context.Context, teamID, userID string) (*Team, error) {
	team, err := s.repo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.UserID != userID && !team.IsPublic {
		return nil, ErrForbidden
	}
	return team, nil
}

// owned loads a team the user owns
func (s *Service) owned(ctx context.Context, teamID, userID string) (*Team, error) {
	team, err := s.repo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.UserID != userID {
		return nil, ErrForbidden
	}
	return team, nil
}

// view joins display attributes from the roster cache.
// Members missing from the cache get a placeholder.
func (s *Service) view(team *Team) *TeamView {
	v := &TeamView{
		ID:        team.ID,
		UserID:    team.UserID,
		Name:      team.Name,
		IsPublic:  team.IsPublic,
		CreatedAt: team.CreatedAt,
		UpdatedAt: team.UpdatedAt,
		Pokemon:   make([]MemberView, len(team.Members)),
	}
	if team.ShareID != "" {
		shareID := team.ShareID
		v.ShareID = &shareID
	}

	for i, m := range team.Members {
		v.Pokemon[i] = MemberView{
			PokemonID: m.PokemonID,
			Position:  m.Position,
			Pokemon:   s.summary(m.PokemonID),
		}
	}
	return v
}

func (s *Service) summary(id int) PokemonSummary {
	p, ok := s.roster.GetByID(id)
	if !ok {
		return PokemonSummary{
			ID:     id,
			Name:   fmt.Sprintf("Pokemon #%d", id),
			NameEn: fmt.Sprintf("pokemon-%d", id),
			Types:  []string{},
			Sprite: "",
		}
	}
	return PokemonSummary{
		ID:     p.ID,
		Name:   p.Name,
		NameEn: p.NameEn,
		Types:  p.Types,
		Sprite: p.Sprite,
	}
}

func (s *Service) emit(data events.EventData) {
	if s.eventManager != nil {
		s.eventManager.EmitTyped("team", data)
	}
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name must not be empty", ErrValidation)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", fmt.Errorf("%w: name must be at most %d characters", ErrValidation, MaxNameLength)
	}
	return name, nil
}

func validateMembers(members []Member) error {
	if len(members) > MaxMembers {
		return fmt.Errorf("%w: a team holds at most %d pokemon", ErrValidation, MaxMembers)
	}

	seen := make(map[int]bool, len(members))
	for _, m := range members {
		if m.PokemonID < 1 {
			return fmt.Errorf("%w: pokemonId must be a positive integer", ErrValidation)
		}
		if m.Position < 0 || m.Position > MaxPosition {
			return fmt.Errorf("%w: position must be between 0 and %d", ErrValidation, MaxPosition)
		}
		if seen[m.Position] {
			return fmt.Errorf("%w: duplicate positions are not allowed", ErrValidation)
		}
		seen[m.Position] = true
	}
	return nil
}

// sortedMembers returns a copy of members ordered by position
func sortedMembers(members []Member) []Member {
	out := make([]Member, len(members))
	copy(out, members)
	slices.SortFunc(out, func(a, b Member) int {
		return a.Position - b.Position
	})
	return out
}

// newShareID returns a random URL-safe share ID
func newShareID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:shareIDLength]
}
