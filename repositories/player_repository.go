package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-draw/models"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	ListByCategory(ctx context.Context, category string) ([]*models.Player, error)
	ListUnpaid(ctx context.Context) ([]*models.Player, error)
	SearchByName(ctx context.Context, query string) ([]*models.Player, error)
	ListPaidWithoutGroup(ctx context.Context) ([]*models.Player, error)
	ListGrouped(ctx context.Context) ([]*models.Player, error)
	SetPaid(ctx context.Context, id int) error
	AssignGroup(ctx context.Context, id int, groupName string) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

const playerColumns = `id, firstname, lastname, affiliation, seed_rank, category, group_name, slip_key, is_paid, created_at`

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO players (firstname, lastname, affiliation, seed_rank, category, slip_key, is_paid)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		player.FirstName,
		player.LastName,
		player.Affiliation,
		player.SeedRank,
		player.Category,
		player.SlipKey,
		player.IsPaid,
	).Scan(&player.ID, &player.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`

	player := &models.Player{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&player.ID,
		&player.FirstName,
		&player.LastName,
		&player.Affiliation,
		&player.SeedRank,
		&player.Category,
		&player.GroupName,
		&player.SlipKey,
		&player.IsPaid,
		&player.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player by id %d: %w", id, err)
	}
	return player, nil
}

func (r *postgresPlayerRepository) ListByCategory(ctx context.Context, category string) ([]*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE category = $1 ORDER BY id ASC`
	return r.queryPlayers(ctx, query, category)
}

func (r *postgresPlayerRepository) ListUnpaid(ctx context.Context) ([]*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE is_paid = FALSE ORDER BY created_at ASC`
	return r.queryPlayers(ctx, query)
}

func (r *postgresPlayerRepository) SearchByName(ctx context.Context, search string) ([]*models.Player, error) {
	query := `SELECT ` + playerColumns + `
		FROM players
		WHERE firstname ILIKE '%' || $1 || '%' OR lastname ILIKE '%' || $1 || '%'
		ORDER BY lastname ASC, firstname ASC`
	return r.queryPlayers(ctx, query, search)
}

func (r *postgresPlayerRepository) ListPaidWithoutGroup(ctx context.Context) ([]*models.Player, error) {
	query := `SELECT ` + playerColumns + `
		FROM players
		WHERE is_paid = TRUE AND group_name IS NULL
		ORDER BY category ASC, id ASC`
	return r.queryPlayers(ctx, query)
}

func (r *postgresPlayerRepository) ListGrouped(ctx context.Context) ([]*models.Player, error) {
	query := `SELECT ` + playerColumns + `
		FROM players
		WHERE is_paid = TRUE AND group_name IS NOT NULL
		ORDER BY category ASC, group_name ASC, id ASC`
	return r.queryPlayers(ctx, query)
}

func (r *postgresPlayerRepository) SetPaid(ctx context.Context, id int) error {
	query := `UPDATE players SET is_paid = TRUE WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark player %d as paid: %w", id, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) AssignGroup(ctx context.Context, id int, groupName string) error {
	query := `UPDATE players SET group_name = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, groupName, id)
	if err != nil {
		return fmt.Errorf("failed to assign group %q to player %d: %w", groupName, id, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) queryPlayers(ctx context.Context, query string, args ...interface{}) ([]*models.Player, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		var player models.Player
		if scanErr := rows.Scan(
			&player.ID,
			&player.FirstName,
			&player.LastName,
			&player.Affiliation,
			&player.SeedRank,
			&player.Category,
			&player.GroupName,
			&player.SlipKey,
			&player.IsPaid,
			&player.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", scanErr)
		}
		players = append(players, &player)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player rows iteration: %w", err)
	}
	return players, nil
}
