package models

import "time"

// TournamentStatus представляет статусы турнира, соответствующие ENUM в БД.
type TournamentStatus string

const (
	TournamentStatusOngoing   TournamentStatus = "ongoing"
	TournamentStatusCompleted TournamentStatus = "completed"
)

// Tournament - один турнир на категорию. QualificationRules хранит
// сериализованную карту {группа: число выходящих}, рассчитанную при
// создании сетки.
type Tournament struct {
	ID                 int              `json:"id" db:"id"`
	Name               string           `json:"name" db:"name"`
	Category           string           `json:"category" db:"category"`
	Status             TournamentStatus `json:"status" db:"status"`
	QualificationRules *string          `json:"qualification_rules,omitempty" db:"qualification_rules"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`
}
