package brackets

import (
	"sort"

	"github.com/Dosada05/tournament-draw/models"
)

// PlayerStanding - накопленная статистика игрока внутри группы.
type PlayerStanding struct {
	PlayerID  int    `json:"player_id"`
	GroupName string `json:"group_name"`
	Points    int    `json:"points"`
	Wins      int    `json:"wins"`
	GamesWon  int    `json:"games_won"`
	GamesLost int    `json:"games_lost"`
}

// GamesRatio - третий ключ ранжирования. Игрок без проигранных геймов
// ранжируется по числу выигранных.
func (s PlayerStanding) GamesRatio() float64 {
	if s.GamesLost > 0 {
		return float64(s.GamesWon) / float64(s.GamesLost)
	}
	return float64(s.GamesWon)
}

// ComputeGroupStandings сворачивает завершённые матчи группового этапа в
// отсортированные таблицы по группам. Начисление за матч: победителю
// +2 очка и +1 победа, проигравшему +1 очко, только если он взял хотя бы
// один гейм (поражение 0:N очков не приносит). Геймы суммируются как есть
// независимо от исхода. Ранжирование по убыванию: очки, победы, соотношение
// геймов; дальше - порядок первого появления в списке матчей (стабильная
// сортировка). Матчи не группового раунда, незавершённые и без победителя
// игнорируются. Результат - чистая функция входа: перестановка матчей
// меняет только порядок равных по всем трём ключам.
func ComputeGroupStandings(matches []*models.Match) map[string][]PlayerStanding {
	type key struct {
		group  string
		player int
	}
	stats := make(map[key]*PlayerStanding)
	order := make(map[string][]int)

	touch := func(group string, playerID int) *PlayerStanding {
		k := key{group, playerID}
		st, ok := stats[k]
		if !ok {
			st = &PlayerStanding{PlayerID: playerID, GroupName: group}
			stats[k] = st
			order[group] = append(order[group], playerID)
		}
		return st
	}

	for _, m := range matches {
		if m == nil || m.Round != models.RoundGroup || m.Status != models.MatchStatusCompleted {
			continue
		}
		if m.GroupName == nil || m.Player1ID == nil || m.Player2ID == nil {
			continue
		}
		if m.Player1Score == nil || m.Player2Score == nil || m.WinnerID == nil {
			continue
		}

		group := *m.GroupName
		p1 := touch(group, *m.Player1ID)
		p2 := touch(group, *m.Player2ID)

		p1.GamesWon += *m.Player1Score
		p1.GamesLost += *m.Player2Score
		p2.GamesWon += *m.Player2Score
		p2.GamesLost += *m.Player1Score

		winner, loser := p1, p2
		loserScore := *m.Player2Score
		if *m.WinnerID == *m.Player2ID {
			winner, loser = p2, p1
			loserScore = *m.Player1Score
		}

		winner.Points += 2
		winner.Wins++
		if loserScore > 0 {
			loser.Points++
		}
	}

	result := make(map[string][]PlayerStanding, len(order))
	for group, playerIDs := range order {
		table := make([]PlayerStanding, 0, len(playerIDs))
		for _, id := range playerIDs {
			table = append(table, *stats[key{group, id}])
		}
		sort.SliceStable(table, func(i, j int) bool {
			if table[i].Points != table[j].Points {
				return table[i].Points > table[j].Points
			}
			if table[i].Wins != table[j].Wins {
				return table[i].Wins > table[j].Wins
			}
			return table[i].GamesRatio() > table[j].GamesRatio()
		})
		result[group] = table
	}
	return result
}
