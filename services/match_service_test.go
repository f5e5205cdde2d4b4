package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/tournament-draw/models"
)

func matchFixture(t *testing.T) (*fakeMatchRepository, MatchService) {
	t.Helper()
	matchRepo := newFakeMatchRepository()
	group := "A"
	err := matchRepo.CreateBatch(context.Background(), []*models.Match{
		{
			TournamentID: 1,
			Round:        models.RoundGroup,
			GroupName:    &group,
			Player1ID:    intPtr(1),
			Player2ID:    intPtr(2),
			MatchOrder:   1,
			Status:       models.MatchStatusPending,
		},
	})
	if err != nil {
		t.Fatalf("failed to seed match: %v", err)
	}
	svc := NewMatchService(matchRepo, newFakeTournamentRepository(), newFakePlayerRepository(), nil, discardLogger())
	return matchRepo, svc
}

func TestRecordResultDerivesWinnerFromScore(t *testing.T) {
	matchRepo, svc := matchFixture(t)

	match, err := svc.RecordResult(context.Background(), 1, RecordResultInput{Player1Score: 21, Player2Score: 15})
	if err != nil {
		t.Fatalf("RecordResult returned error: %v", err)
	}
	if match.WinnerID == nil || *match.WinnerID != 1 {
		t.Errorf("expected player 1 as winner, got %v", match.WinnerID)
	}
	if match.Status != models.MatchStatusCompleted {
		t.Errorf("expected completed status, got %q", match.Status)
	}

	stored, err := matchRepo.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("failed to reload match: %v", err)
	}
	if stored.Player1Score == nil || *stored.Player1Score != 21 || stored.Player2Score == nil || *stored.Player2Score != 15 {
		t.Errorf("score not persisted: %v / %v", stored.Player1Score, stored.Player2Score)
	}
	if stored.WinnerID == nil || *stored.WinnerID != 1 {
		t.Errorf("winner not persisted: %v", stored.WinnerID)
	}
}

func TestRecordResultTieLeavesNoWinner(t *testing.T) {
	matchRepo, svc := matchFixture(t)

	match, err := svc.RecordResult(context.Background(), 1, RecordResultInput{Player1Score: 10, Player2Score: 10})
	if err != nil {
		t.Fatalf("RecordResult returned error: %v", err)
	}
	if match.WinnerID != nil {
		t.Errorf("tie must leave winner unset, got %v", match.WinnerID)
	}
	if match.Status != models.MatchStatusCompleted {
		t.Errorf("tie still completes the match, got %q", match.Status)
	}

	stored, _ := matchRepo.GetByID(context.Background(), 1)
	if stored.WinnerID != nil {
		t.Errorf("tie winner persisted as %v", stored.WinnerID)
	}
}

func TestRecordResultExplicitWinnerOverridesScore(t *testing.T) {
	_, svc := matchFixture(t)

	// Судья назначает победителем игрока с меньшим счётом (тай-брейк).
	match, err := svc.RecordResult(context.Background(), 1, RecordResultInput{
		Player1Score: 21,
		Player2Score: 19,
		WinnerID:     intPtr(2),
	})
	if err != nil {
		t.Fatalf("RecordResult returned error: %v", err)
	}
	if match.WinnerID == nil || *match.WinnerID != 2 {
		t.Errorf("explicit winner ignored, got %v", match.WinnerID)
	}
}

func TestRecordResultRejectsForeignWinner(t *testing.T) {
	_, svc := matchFixture(t)

	_, err := svc.RecordResult(context.Background(), 1, RecordResultInput{
		Player1Score: 21,
		Player2Score: 15,
		WinnerID:     intPtr(99),
	})
	if !errors.Is(err, ErrWinnerNotInMatch) {
		t.Errorf("expected ErrWinnerNotInMatch, got %v", err)
	}
}

func TestRecordResultMatchNotFound(t *testing.T) {
	_, svc := matchFixture(t)

	_, err := svc.RecordResult(context.Background(), 42, RecordResultInput{Player1Score: 21, Player2Score: 15})
	if !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("expected ErrMatchNotFound, got %v", err)
	}
}

func TestRecordResultFinalCompletesTournament(t *testing.T) {
	matchRepo := newFakeMatchRepository()
	tournamentRepo := newFakeTournamentRepository()
	if err := tournamentRepo.Create(context.Background(), &models.Tournament{Name: "ms", Category: "ms", Status: models.TournamentStatusOngoing}); err != nil {
		t.Fatalf("failed to seed tournament: %v", err)
	}
	group := "A"
	err := matchRepo.CreateBatch(context.Background(), []*models.Match{
		{TournamentID: 1, Round: models.RoundGroup, GroupName: &group, Player1ID: intPtr(1), Player2ID: intPtr(2), MatchOrder: 1, Status: models.MatchStatusPending},
		{TournamentID: 1, Round: models.RoundFinal, Player1ID: intPtr(1), Player2ID: intPtr(2), MatchOrder: 1015, Status: models.MatchStatusPending},
	})
	if err != nil {
		t.Fatalf("failed to seed matches: %v", err)
	}
	svc := NewMatchService(matchRepo, tournamentRepo, newFakePlayerRepository(), nil, discardLogger())

	if _, err := svc.RecordResult(context.Background(), 1, RecordResultInput{Player1Score: 21, Player2Score: 15}); err != nil {
		t.Fatalf("group result returned error: %v", err)
	}
	if tournamentRepo.tournaments[0].Status != models.TournamentStatusOngoing {
		t.Fatal("a group result must not complete the tournament")
	}

	if _, err := svc.RecordResult(context.Background(), 2, RecordResultInput{Player1Score: 21, Player2Score: 18}); err != nil {
		t.Fatalf("final result returned error: %v", err)
	}
	if tournamentRepo.tournaments[0].Status != models.TournamentStatusCompleted {
		t.Errorf("recorded final must complete the tournament, status is %q", tournamentRepo.tournaments[0].Status)
	}
}

func TestListMatchesUnknownCategoryReturnsEmpty(t *testing.T) {
	_, svc := matchFixture(t)

	category := "ws"
	matches, err := svc.ListMatches(context.Background(), MatchFilter{Category: &category})
	if err != nil {
		t.Fatalf("ListMatches returned error: %v", err)
	}
	if matches == nil || len(matches) != 0 {
		t.Errorf("expected empty slice for category without tournament, got %v", matches)
	}
}

func TestListMatchesFiltersByCategoryAndRounds(t *testing.T) {
	matchRepo := newFakeMatchRepository()
	tournamentRepo := newFakeTournamentRepository()
	if err := tournamentRepo.Create(context.Background(), &models.Tournament{Name: "ms", Category: "ms", Status: models.TournamentStatusOngoing}); err != nil {
		t.Fatalf("failed to seed tournament: %v", err)
	}
	group := "A"
	err := matchRepo.CreateBatch(context.Background(), []*models.Match{
		{TournamentID: 1, Round: models.RoundGroup, GroupName: &group, MatchOrder: 1, Status: models.MatchStatusPending},
		{TournamentID: 1, Round: models.RoundOf16, MatchOrder: 1001, Status: models.MatchStatusPending},
		{TournamentID: 1, Round: models.RoundFinal, MatchOrder: 1015, Status: models.MatchStatusPending},
		{TournamentID: 2, Round: models.RoundGroup, GroupName: &group, MatchOrder: 1, Status: models.MatchStatusPending},
	})
	if err != nil {
		t.Fatalf("failed to seed matches: %v", err)
	}
	svc := NewMatchService(matchRepo, tournamentRepo, newFakePlayerRepository(), nil, discardLogger())

	category := "ms"
	matches, err := svc.ListMatches(context.Background(), MatchFilter{
		Category: &category,
		Rounds:   models.KnockoutRounds,
	})
	if err != nil {
		t.Fatalf("ListMatches returned error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 knockout matches, got %d", len(matches))
	}
	if matches[0].Round != models.RoundOf16 || matches[1].Round != models.RoundFinal {
		t.Errorf("knockout matches out of order: %q, %q", matches[0].Round, matches[1].Round)
	}
}

func TestListMatchesAttachesPlayerCards(t *testing.T) {
	matchRepo := newFakeMatchRepository()
	tournamentRepo := newFakeTournamentRepository()
	if err := tournamentRepo.Create(context.Background(), &models.Tournament{Name: "ms", Category: "ms", Status: models.TournamentStatusOngoing}); err != nil {
		t.Fatalf("failed to seed tournament: %v", err)
	}
	playerRepo := newFakePlayerRepository(
		&models.Player{ID: 1, FirstName: "Anna", LastName: "Lee", Category: "ms", IsPaid: true},
		&models.Player{ID: 2, FirstName: "Boris", LastName: "Kim", Category: "ms", IsPaid: true},
	)
	group := "A"
	err := matchRepo.CreateBatch(context.Background(), []*models.Match{
		{TournamentID: 1, Round: models.RoundGroup, GroupName: &group, Player1ID: intPtr(1), Player2ID: intPtr(2), MatchOrder: 1, Status: models.MatchStatusPending},
		{TournamentID: 1, Round: models.RoundOf16, MatchOrder: 1001, Status: models.MatchStatusPending},
	})
	if err != nil {
		t.Fatalf("failed to seed matches: %v", err)
	}
	svc := NewMatchService(matchRepo, tournamentRepo, playerRepo, nil, discardLogger())

	category := "ms"
	matches, err := svc.ListMatches(context.Background(), MatchFilter{Category: &category})
	if err != nil {
		t.Fatalf("ListMatches returned error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Player1 == nil || matches[0].Player1.FirstName != "Anna" {
		t.Errorf("player1 card not attached: %v", matches[0].Player1)
	}
	if matches[0].Player2 == nil || matches[0].Player2.FirstName != "Boris" {
		t.Errorf("player2 card not attached: %v", matches[0].Player2)
	}
	// Пустой слот сетки остаётся без карточек.
	if matches[1].Player1 != nil || matches[1].Player2 != nil {
		t.Error("empty knockout slot must not get player cards")
	}
}
