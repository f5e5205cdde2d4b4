package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/tournament-draw/brackets"
	"github.com/Dosada05/tournament-draw/models"
	"github.com/Dosada05/tournament-draw/repositories"
)

// RecordResultInput - результат матча от судейского стола. Явный WinnerID
// имеет приоритет над счётом: для видов спорта, где ничья разрешается
// тай-брейком, движок исхода не выводит.
type RecordResultInput struct {
	Player1Score int
	Player2Score int
	WinnerID     *int
	Status       *models.MatchStatus
}

// MatchFilter - фильтры листинга матчей, все опциональны.
type MatchFilter struct {
	Category  *string
	GroupName *string
	Rounds    []models.MatchRound
}

type MatchService interface {
	// RecordResult применяет счёт к матчу и определяет победителя.
	// Равный счёт без явного победителя сохраняется как ничья
	// (winner_id = NULL), матч при этом завершается.
	RecordResult(ctx context.Context, matchID int, input RecordResultInput) (*models.Match, error)

	// ListMatches возвращает матчи по фильтрам в порядке match_order.
	// Для выборки по категории к матчам подвязываются карточки игроков.
	ListMatches(ctx context.Context, filter MatchFilter) ([]*models.Match, error)
}

type matchService struct {
	matchRepo      repositories.MatchRepository
	tournamentRepo repositories.TournamentRepository
	playerRepo     repositories.PlayerRepository
	hub            *brackets.Hub
	logger         *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	playerRepo repositories.PlayerRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo:      matchRepo,
		tournamentRepo: tournamentRepo,
		playerRepo:     playerRepo,
		hub:            hub,
		logger:         logger,
	}
}

func (s *matchService) RecordResult(ctx context.Context, matchID int, input RecordResultInput) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}

	winnerID := input.WinnerID
	if winnerID != nil {
		if !playerInMatch(match, *winnerID) {
			return nil, ErrWinnerNotInMatch
		}
	} else {
		switch {
		case input.Player1Score > input.Player2Score:
			winnerID = match.Player1ID
		case input.Player2Score > input.Player1Score:
			winnerID = match.Player2ID
		default:
			// Ничья: победителя нет.
			winnerID = nil
		}
	}

	status := models.MatchStatusCompleted
	if input.Status != nil {
		status = *input.Status
	}

	if err := s.matchRepo.UpdateResult(ctx, matchID, input.Player1Score, input.Player2Score, winnerID, status); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to record result for match %d: %w", matchID, err)
	}

	p1Score, p2Score := input.Player1Score, input.Player2Score
	match.Player1Score = &p1Score
	match.Player2Score = &p2Score
	match.WinnerID = winnerID
	match.Status = status

	s.logger.Info("match result recorded",
		slog.Int("match_id", matchID),
		slog.String("round", string(match.Round)),
		slog.Int("player1_score", p1Score),
		slog.Int("player2_score", p2Score),
	)

	// Завершённый финал закрывает турнир.
	if status == models.MatchStatusCompleted && match.Round == models.RoundFinal {
		if err := s.tournamentRepo.UpdateStatus(ctx, match.TournamentID, models.TournamentStatusCompleted); err != nil {
			return nil, fmt.Errorf("failed to complete tournament %d: %w", match.TournamentID, err)
		}
		s.logger.Info("tournament completed", slog.Int("tournament_id", match.TournamentID))
	}

	s.broadcastMatchUpdate(ctx, match)
	return match, nil
}

func (s *matchService) ListMatches(ctx context.Context, filter MatchFilter) ([]*models.Match, error) {
	repoFilter := repositories.MatchListFilter{
		GroupName: filter.GroupName,
		Rounds:    filter.Rounds,
	}

	if filter.Category != nil {
		tournament, err := s.tournamentRepo.GetByCategory(ctx, *filter.Category)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				// Категория без турнира - пустой список, а не ошибка.
				return []*models.Match{}, nil
			}
			return nil, fmt.Errorf("failed to resolve tournament for category %q: %w", *filter.Category, err)
		}
		repoFilter.TournamentID = &tournament.ID
	}

	matches, err := s.matchRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	if filter.Category != nil {
		if err := s.attachPlayers(ctx, *filter.Category, matches); err != nil {
			return nil, err
		}
	}
	return matches, nil
}

// attachPlayers подвязывает к матчам категории карточки участников одним
// запросом списка игроков.
func (s *matchService) attachPlayers(ctx context.Context, category string, matches []*models.Match) error {
	players, err := s.playerRepo.ListByCategory(ctx, category)
	if err != nil {
		return fmt.Errorf("failed to load players for category %q: %w", category, err)
	}
	byID := make(map[int]*models.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	for _, m := range matches {
		if m.Player1ID != nil {
			m.Player1 = byID[*m.Player1ID]
		}
		if m.Player2ID != nil {
			m.Player2 = byID[*m.Player2ID]
		}
	}
	return nil
}

func (s *matchService) broadcastMatchUpdate(ctx context.Context, match *models.Match) {
	if s.hub == nil {
		return
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, match.TournamentID)
	if err != nil {
		s.logger.Warn("failed to resolve tournament for match broadcast",
			slog.Int("match_id", match.ID),
			slog.Any("error", err),
		)
		return
	}
	s.hub.BroadcastToRoom(tournament.Category, brackets.Event{
		Type:     brackets.EventMatchUpdated,
		Category: tournament.Category,
		Payload:  match,
	})
}

func playerInMatch(match *models.Match, playerID int) bool {
	if match.Player1ID != nil && *match.Player1ID == playerID {
		return true
	}
	if match.Player2ID != nil && *match.Player2ID == playerID {
		return true
	}
	return false
}
