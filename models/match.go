package models

import "time"

type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusCompleted MatchStatus = "completed"
)

type MatchRound string

const (
	RoundGroup   MatchRound = "group"
	RoundOf16    MatchRound = "round16"
	RoundQuarter MatchRound = "quarter"
	RoundSemi    MatchRound = "semi"
	RoundFinal   MatchRound = "final"
)

// KnockoutRounds - раунды плей-офф в порядке следования. Запрос
// round=bracket разворачивается в этот список.
var KnockoutRounds = []MatchRound{RoundOf16, RoundQuarter, RoundSemi, RoundFinal}

// Match - матч группового этапа или плей-офф. Игроки nullable: матчи
// плей-офф создаются пустыми (скелет сетки) и заполняются позже.
// MatchOrder - монотонный ключ сортировки, не временной слот.
type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	Round        MatchRound  `json:"round" db:"round"`
	GroupName    *string     `json:"group_name,omitempty" db:"group_name"`
	Player1ID    *int        `json:"player1_id" db:"player1_id"`
	Player2ID    *int        `json:"player2_id" db:"player2_id"`
	Player1Score *int        `json:"player1_score" db:"player1_score"`
	Player2Score *int        `json:"player2_score" db:"player2_score"`
	WinnerID     *int        `json:"winner_id" db:"winner_id"`
	MatchOrder   int         `json:"match_order" db:"match_order"`
	Status       MatchStatus `json:"status" db:"status"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Player1 *Player `json:"player1,omitempty" db:"-"`
	Player2 *Player `json:"player2,omitempty" db:"-"`
}
