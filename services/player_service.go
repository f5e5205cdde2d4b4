package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/Dosada05/tournament-draw/models"
	"github.com/Dosada05/tournament-draw/repositories"
	"github.com/Dosada05/tournament-draw/storage"
)

// RegisterPlayerInput - сырые поля формы регистрации. Affiliation и
// SeedRank приходят строками: "-" и пустая строка означают отсутствие.
type RegisterPlayerInput struct {
	FirstName   string
	LastName    string
	Affiliation string
	SeedRank    string
	Category    string
}

type GroupAssignment struct {
	PlayerID  int    `json:"player_id"`
	GroupName string `json:"group_name"`
}

// PaymentSearchResult - урезанная карточка игрока для поиска оплат.
type PaymentSearchResult struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	IsPaid    bool   `json:"is_paid"`
}

type PlayerService interface {
	Register(ctx context.Context, input RegisterPlayerInput, slip io.Reader, slipContentType string) (*models.Player, error)
	SearchPayments(ctx context.Context, query string) ([]PaymentSearchResult, error)
	ListUnpaid(ctx context.Context) ([]*models.Player, error)
	Approve(ctx context.Context, id int) (*models.Player, error)
	ListAvailableForGrouping(ctx context.Context) ([]*models.Player, error)

	// ListGrouped возвращает распределённых игроков, сгруппированных по
	// категории, внутри категории - по группе.
	ListGrouped(ctx context.Context) (map[string]map[string][]*models.Player, error)
	AssignGroups(ctx context.Context, assignments []GroupAssignment) error
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
	logger     *slog.Logger
}

func NewPlayerService(playerRepo repositories.PlayerRepository, uploader storage.FileUploader, logger *slog.Logger) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
		uploader:   uploader,
		logger:     logger,
	}
}

func (s *playerService) Register(ctx context.Context, input RegisterPlayerInput, slip io.Reader, slipContentType string) (*models.Player, error) {
	if input.FirstName == "" || input.LastName == "" || input.Category == "" {
		return nil, fmt.Errorf("%w: firstname, lastname and category are required", ErrValidationFailed)
	}
	if slip == nil {
		return nil, ErrSlipRequired
	}

	ext, err := slipExtension(slipContentType)
	if err != nil {
		return nil, err
	}

	player := &models.Player{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Category:  input.Category,
		IsPaid:    false,
	}

	if input.Affiliation != "" && input.Affiliation != "-" {
		affiliation := input.Affiliation
		player.Affiliation = &affiliation
	}
	if input.SeedRank != "" && input.SeedRank != "-" {
		rank, convErr := strconv.Atoi(input.SeedRank)
		if convErr != nil || rank < 1 {
			return nil, fmt.Errorf("%w: seed_rank must be a positive integer", ErrValidationFailed)
		}
		player.SeedRank = &rank
	}

	key := fmt.Sprintf("slips/slip-%d%s", time.Now().UnixNano(), ext)
	if _, err := s.uploader.Upload(ctx, key, slipContentType, slip); err != nil {
		return nil, fmt.Errorf("failed to upload payment slip: %w", err)
	}
	player.SlipKey = &key

	if err := s.playerRepo.Create(ctx, player); err != nil {
		// Запись не создана - не оставляем осиротевший файл.
		if delErr := s.uploader.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to delete orphaned slip after registration failure",
				slog.String("key", key),
				slog.Any("error", delErr),
			)
		}
		return nil, fmt.Errorf("failed to register player: %w", err)
	}

	s.logger.Info("player registered",
		slog.Int("player_id", player.ID),
		slog.String("category", player.Category),
	)
	s.populateSlipURL(player)
	return player, nil
}

func (s *playerService) SearchPayments(ctx context.Context, query string) ([]PaymentSearchResult, error) {
	if query == "" {
		return []PaymentSearchResult{}, nil
	}
	players, err := s.playerRepo.SearchByName(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search players by name: %w", err)
	}
	results := make([]PaymentSearchResult, 0, len(players))
	for _, p := range players {
		results = append(results, PaymentSearchResult{
			FirstName: p.FirstName,
			LastName:  p.LastName,
			IsPaid:    p.IsPaid,
		})
	}
	return results, nil
}

func (s *playerService) ListUnpaid(ctx context.Context) ([]*models.Player, error) {
	players, err := s.playerRepo.ListUnpaid(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list unpaid players: %w", err)
	}
	for _, p := range players {
		s.populateSlipURL(p)
	}
	return players, nil
}

func (s *playerService) Approve(ctx context.Context, id int) (*models.Player, error) {
	if err := s.playerRepo.SetPaid(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to approve player %d: %w", id, err)
	}
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload approved player %d: %w", id, err)
	}
	return player, nil
}

func (s *playerService) ListAvailableForGrouping(ctx context.Context) ([]*models.Player, error) {
	players, err := s.playerRepo.ListPaidWithoutGroup(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players available for grouping: %w", err)
	}
	return players, nil
}

func (s *playerService) ListGrouped(ctx context.Context) (map[string]map[string][]*models.Player, error) {
	players, err := s.playerRepo.ListGrouped(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list grouped players: %w", err)
	}

	// Репозиторий отдаёт игроков в порядке категория/группа/id, поэтому
	// слайсы внутри карты уже отсортированы.
	grouped := make(map[string]map[string][]*models.Player)
	for _, p := range players {
		byGroup, ok := grouped[p.Category]
		if !ok {
			byGroup = make(map[string][]*models.Player)
			grouped[p.Category] = byGroup
		}
		name := p.GroupNameOrEmpty()
		byGroup[name] = append(byGroup[name], p)
	}
	return grouped, nil
}

func (s *playerService) AssignGroups(ctx context.Context, assignments []GroupAssignment) error {
	if len(assignments) == 0 {
		return ErrGroupAssignmentsRequired
	}
	for _, a := range assignments {
		if a.GroupName == "" {
			return fmt.Errorf("%w: empty group name for player %d", ErrValidationFailed, a.PlayerID)
		}
		player, err := s.playerRepo.GetByID(ctx, a.PlayerID)
		if err != nil {
			if errors.Is(err, repositories.ErrPlayerNotFound) {
				return fmt.Errorf("%w: player %d", ErrPlayerNotFound, a.PlayerID)
			}
			return fmt.Errorf("failed to load player %d for grouping: %w", a.PlayerID, err)
		}
		if !player.IsPaid {
			return fmt.Errorf("%w: player %d", ErrGroupAssignmentPlayerPaid, a.PlayerID)
		}
		if err := s.playerRepo.AssignGroup(ctx, a.PlayerID, a.GroupName); err != nil {
			return fmt.Errorf("failed to assign group %q to player %d: %w", a.GroupName, a.PlayerID, err)
		}
	}
	s.logger.Info("groups assigned", slog.Int("players", len(assignments)))
	return nil
}

func (s *playerService) populateSlipURL(player *models.Player) {
	if player == nil || player.SlipKey == nil || *player.SlipKey == "" || s.uploader == nil {
		return
	}
	if url := s.uploader.GetPublicURL(*player.SlipKey); url != "" {
		player.SlipURL = &url
	}
}

func slipExtension(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/webp":
		return ".webp", nil
	case "application/pdf":
		return ".pdf", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedSlipContent, contentType)
	}
}
