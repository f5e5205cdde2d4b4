package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Dosada05/tournament-draw/brackets"
	"github.com/Dosada05/tournament-draw/models"
	"github.com/Dosada05/tournament-draw/repositories"
	"golang.org/x/sync/errgroup"
)

// Сообщения FillBracket: нарушение предусловий - это не ошибка, а ответ
// с Generated=false, чтобы фронтенд мог опрашивать готовность.
const (
	MessageBracketGenerated        = "Bracket generated"
	MessageBracketAlreadyGenerated = "Bracket already generated"
	MessageGroupStageNotCompleted  = "Group stage not completed"
)

// knockoutOrderBase - смещение match_order матчей плей-офф, чтобы их
// нумерация никогда не пересекалась с групповой и сетка сортировалась
// одним ORDER BY match_order.
const knockoutOrderBase = 1000

// defaultQualifiersPerGroup - запасная квота, если сохранённые правила
// квалификации не читаются.
const defaultQualifiersPerGroup = 2

type FillBracketResult struct {
	Message   string `json:"message"`
	Generated bool   `json:"generated"`
}

type DrawService interface {
	// BuildDraw создаёт турнир категории: групповые матчи по круговой
	// системе, пустой скелет плей-офф с расставленными сеяными и
	// зафиксированные правила квалификации.
	BuildDraw(ctx context.Context, category string) (*models.Tournament, error)

	// BuildAllDraws вызывает BuildDraw для каждой категории, в которой
	// есть сгруппированные игроки.
	BuildAllDraws(ctx context.Context) ([]*models.Tournament, error)

	// FillBracket по завершении группового этапа заполняет round16
	// парами сеяные+квалифицировавшиеся.
	FillBracket(ctx context.Context, category string) (*FillBracketResult, error)
}

type drawService struct {
	playerRepo     repositories.PlayerRepository
	matchRepo      repositories.MatchRepository
	tournamentRepo repositories.TournamentRepository
	hub            *brackets.Hub
	logger         *slog.Logger
}

func NewDrawService(
	playerRepo repositories.PlayerRepository,
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) DrawService {
	return &drawService{
		playerRepo:     playerRepo,
		matchRepo:      matchRepo,
		tournamentRepo: tournamentRepo,
		hub:            hub,
		logger:         logger,
	}
}

func (s *drawService) BuildAllDraws(ctx context.Context) ([]*models.Tournament, error) {
	grouped, err := s.playerRepo.ListGrouped(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list grouped players: %w", err)
	}
	if len(grouped) == 0 {
		return nil, ErrNoGroupedPlayers
	}

	categories := make([]string, 0)
	seen := make(map[string]bool)
	for _, p := range grouped {
		if !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}

	tournaments := make([]*models.Tournament, 0, len(categories))
	for _, category := range categories {
		tournament, err := s.BuildDraw(ctx, category)
		if err != nil {
			return nil, fmt.Errorf("failed to build draw for category %q: %w", category, err)
		}
		tournaments = append(tournaments, tournament)
	}
	return tournaments, nil
}

func (s *drawService) BuildDraw(ctx context.Context, category string) (*models.Tournament, error) {
	players, err := s.playerRepo.ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for category %q: %w", category, err)
	}

	grouped, seeded := partitionPlayers(players)
	if len(grouped) == 0 && len(seeded) == 0 {
		return nil, ErrNoGroupedPlayers
	}

	groups := groupsInScanOrder(grouped)
	slots := brackets.PlaceSeeds(seeded)

	numSeeds := 0
	for _, slot := range slots {
		if slot != nil {
			numSeeds++
		}
	}

	// Квота квалификации фиксируется при создании сетки, до того как
	// сыгран хотя бы один групповой матч.
	var rulesPayload *string
	if open := brackets.BracketSize - numSeeds; open > 0 && len(groups) > 0 {
		order := make([]string, len(groups))
		sizes := make(map[string]int, len(groups))
		for i, g := range groups {
			order[i] = g.Name
			sizes[g.Name] = len(g.PlayerIDs)
		}
		rules := brackets.AllocateQualifierSlots(order, sizes, open)
		raw, marshalErr := json.Marshal(rules)
		if marshalErr != nil {
			return nil, fmt.Errorf("failed to marshal qualification rules: %w", marshalErr)
		}
		payload := string(raw)
		rulesPayload = &payload
	}

	tournament := &models.Tournament{
		Name:               category,
		Category:           category,
		Status:             models.TournamentStatusOngoing,
		QualificationRules: rulesPayload,
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentCategoryTaken) {
			return nil, ErrTournamentCategoryTaken
		}
		return nil, fmt.Errorf("failed to create tournament for category %q: %w", category, err)
	}

	matches := make([]*models.Match, 0)

	matchOrder := 0
	for _, pair := range brackets.RoundRobinPairs(groups) {
		matchOrder++
		groupName := pair.GroupName
		p1, p2 := pair.Player1ID, pair.Player2ID
		matches = append(matches, &models.Match{
			TournamentID: tournament.ID,
			Round:        models.RoundGroup,
			GroupName:    &groupName,
			Player1ID:    &p1,
			Player2ID:    &p2,
			MatchOrder:   matchOrder,
			Status:       models.MatchStatusPending,
		})
	}

	matches = append(matches, knockoutSkeleton(tournament.ID, slots)...)

	if err := s.matchRepo.CreateBatch(ctx, matches); err != nil {
		return nil, fmt.Errorf("failed to persist matches for tournament %d: %w", tournament.ID, err)
	}

	s.logger.Info("draw built",
		slog.String("category", category),
		slog.Int("tournament_id", tournament.ID),
		slog.Int("groups", len(groups)),
		slog.Int("group_matches", matchOrder),
		slog.Int("seeds", numSeeds),
	)
	return tournament, nil
}

func (s *drawService) FillBracket(ctx context.Context, category string) (*FillBracketResult, error) {
	tournament, err := s.tournamentRepo.GetByCategory(ctx, category)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament for category %q: %w", category, err)
	}

	var (
		players      []*models.Player
		groupMatches []*models.Match
		r16Matches   []*models.Match
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		players, err = s.playerRepo.ListByCategory(gCtx, category)
		return err
	})
	g.Go(func() error {
		var err error
		groupMatches, err = s.matchRepo.List(gCtx, repositories.MatchListFilter{
			TournamentID: &tournament.ID,
			Rounds:       []models.MatchRound{models.RoundGroup},
		})
		return err
	})
	g.Go(func() error {
		var err error
		r16Matches, err = s.matchRepo.List(gCtx, repositories.MatchListFilter{
			TournamentID: &tournament.ID,
			Rounds:       []models.MatchRound{models.RoundOf16},
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load bracket fill snapshot for tournament %d: %w", tournament.ID, err)
	}

	for _, m := range groupMatches {
		if m.Status != models.MatchStatusCompleted {
			return &FillBracketResult{Message: MessageGroupStageNotCompleted}, nil
		}
	}
	// Защита от повторного заполнения: пара игроков в любом round16 -
	// признак уже построенной сетки.
	for _, m := range r16Matches {
		if m.Player1ID != nil && m.Player2ID != nil {
			return &FillBracketResult{Message: MessageBracketAlreadyGenerated}, nil
		}
	}

	standings := brackets.ComputeGroupStandings(groupMatches)
	quota := s.resolveQualificationRules(tournament, standings)

	_, seeded := partitionSeeded(players)
	sort.SliceStable(seeded, func(i, j int) bool {
		return *seeded[i].SeedRank < *seeded[j].SeedRank
	})
	if len(seeded) > brackets.BracketSize {
		seeded = seeded[:brackets.BracketSize]
	}
	seededIDs := make(map[int]bool, len(seeded))
	for _, p := range seeded {
		seededIDs[p.ID] = true
	}

	// Сеяные не занимают квалификационные места своей группы.
	affiliations := make(map[int]string, len(players))
	for _, p := range players {
		affiliations[p.ID] = p.AffiliationOrEmpty()
	}
	withoutSeeds := make(map[string][]brackets.PlayerStanding, len(standings))
	for group, table := range standings {
		filtered := make([]brackets.PlayerStanding, 0, len(table))
		for _, st := range table {
			if !seededIDs[st.PlayerID] {
				filtered = append(filtered, st)
			}
		}
		withoutSeeds[group] = filtered
	}
	qualifiers := brackets.SelectQualifiers(withoutSeeds, quota, affiliations)

	entrants := make([]brackets.Entrant, 0, len(seeded)+len(qualifiers))
	for _, p := range seeded {
		entrants = append(entrants, brackets.Entrant{
			PlayerID:    p.ID,
			Affiliation: p.AffiliationOrEmpty(),
			GroupName:   p.GroupNameOrEmpty(),
		})
	}
	for _, q := range qualifiers {
		entrants = append(entrants, brackets.Entrant{
			PlayerID:    q.PlayerID,
			Affiliation: q.Affiliation,
			GroupName:   q.GroupName,
		})
	}

	pairs, leftover := brackets.PairEntrants(entrants)
	if leftover != nil {
		s.logger.Warn("odd number of knockout entrants, one left unpaired",
			slog.String("category", category),
			slog.Int("player_id", leftover.PlayerID),
		)
	}

	// Пары записываются в существующие слоты round16 по возрастанию
	// match_order; лишние пары отбрасываются, лишние слоты остаются пустыми.
	for i, pair := range pairs {
		if i >= len(r16Matches) {
			s.logger.Warn("more pairs than round16 slots, dropping the rest",
				slog.String("category", category),
				slog.Int("dropped", len(pairs)-len(r16Matches)),
			)
			break
		}
		p1, p2 := pair.Player1ID, pair.Player2ID
		if err := s.matchRepo.UpdatePlayers(ctx, r16Matches[i].ID, &p1, &p2, models.MatchStatusPending); err != nil {
			return nil, fmt.Errorf("failed to fill round16 match %d: %w", r16Matches[i].ID, err)
		}
	}

	s.logger.Info("bracket filled",
		slog.String("category", category),
		slog.Int("tournament_id", tournament.ID),
		slog.Int("seeds", len(seeded)),
		slog.Int("qualifiers", len(qualifiers)),
		slog.Int("pairs", len(pairs)),
	)

	if s.hub != nil {
		s.hub.BroadcastToRoom(category, brackets.Event{
			Type:     brackets.EventBracketFilled,
			Category: category,
			Payload:  map[string]interface{}{"tournament_id": tournament.ID, "pairs": len(pairs)},
		})
	}

	return &FillBracketResult{Message: MessageBracketGenerated, Generated: true}, nil
}

// resolveQualificationRules читает сохранённую при создании сетки квоту.
// Повреждённые или отсутствующие правила не валят заполнение: логируется
// предупреждение и каждая группа получает defaultQualifiersPerGroup мест.
func (s *drawService) resolveQualificationRules(tournament *models.Tournament, standings map[string][]brackets.PlayerStanding) map[string]int {
	if tournament.QualificationRules != nil {
		quota := make(map[string]int)
		if err := json.Unmarshal([]byte(*tournament.QualificationRules), &quota); err == nil {
			return quota
		}
		s.logger.Warn("unparsable qualification rules payload, falling back to default quota",
			slog.Int("tournament_id", tournament.ID),
			slog.Int("default_per_group", defaultQualifiersPerGroup),
		)
	} else {
		s.logger.Warn("tournament has no qualification rules payload, using default quota",
			slog.Int("tournament_id", tournament.ID),
			slog.Int("default_per_group", defaultQualifiersPerGroup),
		)
	}

	quota := make(map[string]int, len(standings))
	for group := range standings {
		quota[group] = defaultQualifiersPerGroup
	}
	return quota
}

// knockoutSkeleton строит пустые матчи плей-офф: 8 round16 по парам слотов
// (2m, 2m+1) массива посева, затем 4 quarter, 2 semi и финал.
func knockoutSkeleton(tournamentID int, slots [brackets.BracketSize]*int) []*models.Match {
	matches := make([]*models.Match, 0, brackets.BracketSize-1)
	order := knockoutOrderBase

	for m := 0; m < brackets.BracketSize/2; m++ {
		order++
		matches = append(matches, &models.Match{
			TournamentID: tournamentID,
			Round:        models.RoundOf16,
			Player1ID:    slots[2*m],
			Player2ID:    slots[2*m+1],
			MatchOrder:   order,
			Status:       models.MatchStatusPending,
		})
	}
	for _, stage := range []struct {
		round models.MatchRound
		count int
	}{
		{models.RoundQuarter, 4},
		{models.RoundSemi, 2},
		{models.RoundFinal, 1},
	} {
		for i := 0; i < stage.count; i++ {
			order++
			matches = append(matches, &models.Match{
				TournamentID: tournamentID,
				Round:        stage.round,
				MatchOrder:   order,
				Status:       models.MatchStatusPending,
			})
		}
	}
	return matches
}

// partitionPlayers делит оплаченных игроков категории на сгруппированных и
// сеяных. Сеяный игрок с назначенной группой попадает в обе части: группу он
// играет, но в плей-офф идёт по посеву.
func partitionPlayers(players []*models.Player) (grouped, seeded []*models.Player) {
	for _, p := range players {
		if !p.IsPaid {
			continue
		}
		if p.GroupName != nil {
			grouped = append(grouped, p)
		}
		if p.SeedRank != nil {
			seeded = append(seeded, p)
		}
	}
	return grouped, seeded
}

func partitionSeeded(players []*models.Player) (rest, seeded []*models.Player) {
	for _, p := range players {
		if !p.IsPaid {
			continue
		}
		if p.SeedRank != nil {
			seeded = append(seeded, p)
		} else {
			rest = append(rest, p)
		}
	}
	return rest, seeded
}

// groupsInScanOrder собирает группы в порядке первого появления при проходе
// по сгруппированным игрокам - тот же порядок использует распределитель
// квалификационных мест.
func groupsInScanOrder(grouped []*models.Player) []brackets.Group {
	groups := make([]brackets.Group, 0)
	index := make(map[string]int)
	for _, p := range grouped {
		name := *p.GroupName
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, brackets.Group{Name: name})
		}
		groups[i].PlayerIDs = append(groups[i].PlayerIDs, p.ID)
	}
	return groups
}
