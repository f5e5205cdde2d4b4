package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/tournament-draw/models"
	"github.com/lib/pq"
)

var ErrMatchNotFound = errors.New("match not found")

// MatchListFilter - фильтры листинга; nil-поля не ограничивают выборку.
type MatchListFilter struct {
	TournamentID *int
	GroupName    *string
	Rounds       []models.MatchRound
}

type MatchRepository interface {
	// CreateBatch вставляет пачку матчей одной транзакцией и проставляет
	// созданным записям ID и created_at.
	CreateBatch(ctx context.Context, matches []*models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context, filter MatchListFilter) ([]*models.Match, error)
	UpdatePlayers(ctx context.Context, id int, player1ID, player2ID *int, status models.MatchStatus) error
	UpdateResult(ctx context.Context, id int, player1Score, player2Score int, winnerID *int, status models.MatchStatus) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, tournament_id, round, group_name, player1_id, player2_id,
	player1_score, player2_score, winner_id, match_order, status, created_at`

func (r *postgresMatchRepository) CreateBatch(ctx context.Context, matches []*models.Match) error {
	if len(matches) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for match batch: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO matches (tournament_id, round, group_name, player1_id, player2_id, match_order, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	for _, match := range matches {
		err := tx.QueryRowContext(ctx, query,
			match.TournamentID,
			match.Round,
			match.GroupName,
			match.Player1ID,
			match.Player2ID,
			match.MatchOrder,
			match.Status,
		).Scan(&match.ID, &match.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert match (order %d): %w", match.MatchOrder, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit match batch: %w", err)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&match.ID,
		&match.TournamentID,
		&match.Round,
		&match.GroupName,
		&match.Player1ID,
		&match.Player2ID,
		&match.Player1Score,
		&match.Player2Score,
		&match.WinnerID,
		&match.MatchOrder,
		&match.Status,
		&match.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) List(ctx context.Context, filter MatchListFilter) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE 1=1`)

	args := make([]interface{}, 0, 3)
	placeholderIndex := 1

	if filter.TournamentID != nil {
		queryBuilder.WriteString(" AND tournament_id = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.TournamentID)
		placeholderIndex++
	}
	if filter.GroupName != nil {
		queryBuilder.WriteString(" AND group_name = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *filter.GroupName)
		placeholderIndex++
	}
	if len(filter.Rounds) > 0 {
		rounds := make([]string, len(filter.Rounds))
		for i, round := range filter.Rounds {
			rounds[i] = string(round)
		}
		queryBuilder.WriteString(" AND round = ANY($")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		queryBuilder.WriteString(")")
		args = append(args, pq.Array(rounds))
	}

	queryBuilder.WriteString(" ORDER BY match_order ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var match models.Match
		if scanErr := rows.Scan(
			&match.ID,
			&match.TournamentID,
			&match.Round,
			&match.GroupName,
			&match.Player1ID,
			&match.Player2ID,
			&match.Player1Score,
			&match.Player2Score,
			&match.WinnerID,
			&match.MatchOrder,
			&match.Status,
			&match.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, &match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdatePlayers(ctx context.Context, id int, player1ID, player2ID *int, status models.MatchStatus) error {
	query := `UPDATE matches SET player1_id = $1, player2_id = $2, status = $3 WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, player1ID, player2ID, status, id)
	if err != nil {
		return fmt.Errorf("failed to update players for match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, id int, player1Score, player2Score int, winnerID *int, status models.MatchStatus) error {
	query := `UPDATE matches SET player1_score = $1, player2_score = $2, winner_id = $3, status = $4 WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, player1Score, player2Score, winnerID, status, id)
	if err != nil {
		return fmt.Errorf("failed to update result for match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}
