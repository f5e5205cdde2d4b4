package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/Dosada05/tournament-draw/models"
	"github.com/Dosada05/tournament-draw/repositories"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

// fakePlayerRepository держит игроков в памяти.
type fakePlayerRepository struct {
	players []*models.Player
	nextID  int
}

func newFakePlayerRepository(players ...*models.Player) *fakePlayerRepository {
	repo := &fakePlayerRepository{nextID: 1}
	for _, p := range players {
		copied := *p
		if copied.ID == 0 {
			copied.ID = repo.nextID
		}
		if copied.ID >= repo.nextID {
			repo.nextID = copied.ID + 1
		}
		repo.players = append(repo.players, &copied)
	}
	return repo
}

func (r *fakePlayerRepository) Create(_ context.Context, player *models.Player) error {
	copied := *player
	copied.ID = r.nextID
	r.nextID++
	r.players = append(r.players, &copied)
	player.ID = copied.ID
	return nil
}

func (r *fakePlayerRepository) GetByID(_ context.Context, id int) (*models.Player, error) {
	for _, p := range r.players {
		if p.ID == id {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repositories.ErrPlayerNotFound
}

func (r *fakePlayerRepository) ListByCategory(_ context.Context, category string) ([]*models.Player, error) {
	result := make([]*models.Player, 0)
	for _, p := range r.players {
		if p.Category == category {
			copied := *p
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakePlayerRepository) ListUnpaid(_ context.Context) ([]*models.Player, error) {
	result := make([]*models.Player, 0)
	for _, p := range r.players {
		if !p.IsPaid {
			copied := *p
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakePlayerRepository) SearchByName(_ context.Context, query string) ([]*models.Player, error) {
	result := make([]*models.Player, 0)
	needle := strings.ToLower(query)
	for _, p := range r.players {
		if strings.Contains(strings.ToLower(p.FirstName), needle) ||
			strings.Contains(strings.ToLower(p.LastName), needle) {
			copied := *p
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakePlayerRepository) ListPaidWithoutGroup(_ context.Context) ([]*models.Player, error) {
	result := make([]*models.Player, 0)
	for _, p := range r.players {
		if p.IsPaid && p.GroupName == nil {
			copied := *p
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakePlayerRepository) ListGrouped(_ context.Context) ([]*models.Player, error) {
	result := make([]*models.Player, 0)
	for _, p := range r.players {
		if p.GroupName != nil {
			copied := *p
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakePlayerRepository) SetPaid(_ context.Context, id int) error {
	for _, p := range r.players {
		if p.ID == id {
			p.IsPaid = true
			return nil
		}
	}
	return repositories.ErrPlayerNotFound
}

func (r *fakePlayerRepository) AssignGroup(_ context.Context, id int, groupName string) error {
	for _, p := range r.players {
		if p.ID == id {
			p.GroupName = &groupName
			return nil
		}
	}
	return repositories.ErrPlayerNotFound
}

// fakeMatchRepository хранит матчи в памяти и раздаёт ID по порядку вставки.
type fakeMatchRepository struct {
	matches []*models.Match
	nextID  int
}

func newFakeMatchRepository() *fakeMatchRepository {
	return &fakeMatchRepository{nextID: 1}
}

func (r *fakeMatchRepository) CreateBatch(_ context.Context, matches []*models.Match) error {
	for _, match := range matches {
		match.ID = r.nextID
		r.nextID++
		copied := *match
		r.matches = append(r.matches, &copied)
	}
	return nil
}

func (r *fakeMatchRepository) GetByID(_ context.Context, id int) (*models.Match, error) {
	for _, m := range r.matches {
		if m.ID == id {
			copied := *m
			return &copied, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (r *fakeMatchRepository) List(_ context.Context, filter repositories.MatchListFilter) ([]*models.Match, error) {
	result := make([]*models.Match, 0)
	for _, m := range r.matches {
		if filter.TournamentID != nil && m.TournamentID != *filter.TournamentID {
			continue
		}
		if filter.GroupName != nil && (m.GroupName == nil || *m.GroupName != *filter.GroupName) {
			continue
		}
		if len(filter.Rounds) > 0 {
			found := false
			for _, round := range filter.Rounds {
				if m.Round == round {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		copied := *m
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].MatchOrder < result[j].MatchOrder
	})
	return result, nil
}

func (r *fakeMatchRepository) UpdatePlayers(_ context.Context, id int, player1ID, player2ID *int, status models.MatchStatus) error {
	for _, m := range r.matches {
		if m.ID == id {
			m.Player1ID = player1ID
			m.Player2ID = player2ID
			m.Status = status
			return nil
		}
	}
	return repositories.ErrMatchNotFound
}

func (r *fakeMatchRepository) UpdateResult(_ context.Context, id int, player1Score, player2Score int, winnerID *int, status models.MatchStatus) error {
	for _, m := range r.matches {
		if m.ID == id {
			m.Player1Score = &player1Score
			m.Player2Score = &player2Score
			m.WinnerID = winnerID
			m.Status = status
			return nil
		}
	}
	return repositories.ErrMatchNotFound
}

// fakeTournamentRepository повторяет уникальность категории из схемы БД.
type fakeTournamentRepository struct {
	tournaments []*models.Tournament
	nextID      int
}

func newFakeTournamentRepository() *fakeTournamentRepository {
	return &fakeTournamentRepository{nextID: 1}
}

func (r *fakeTournamentRepository) Create(_ context.Context, tournament *models.Tournament) error {
	for _, t := range r.tournaments {
		if t.Category == tournament.Category {
			return repositories.ErrTournamentCategoryTaken
		}
	}
	tournament.ID = r.nextID
	r.nextID++
	copied := *tournament
	r.tournaments = append(r.tournaments, &copied)
	return nil
}

func (r *fakeTournamentRepository) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	for _, t := range r.tournaments {
		if t.ID == id {
			copied := *t
			return &copied, nil
		}
	}
	return nil, repositories.ErrTournamentNotFound
}

func (r *fakeTournamentRepository) GetByCategory(_ context.Context, category string) (*models.Tournament, error) {
	for _, t := range r.tournaments {
		if t.Category == category {
			copied := *t
			return &copied, nil
		}
	}
	return nil, repositories.ErrTournamentNotFound
}

func (r *fakeTournamentRepository) UpdateStatus(_ context.Context, id int, status models.TournamentStatus) error {
	for _, t := range r.tournaments {
		if t.ID == id {
			t.Status = status
			return nil
		}
	}
	return repositories.ErrTournamentNotFound
}
