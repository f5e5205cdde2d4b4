package models

import "time"

// Player - участник турнира. Регистрируется неоплаченным и без группы;
// посев (SeedRank) и группа взаимоисключающие пути в сетку: сеяные игроки
// попадают в плей-офф напрямую, остальные - через групповой этап.
type Player struct {
	ID          int       `json:"id" db:"id"`
	FirstName   string    `json:"firstname" db:"firstname"`
	LastName    string    `json:"lastname" db:"lastname"`
	Affiliation *string   `json:"affiliation,omitempty" db:"affiliation"`
	SeedRank    *int      `json:"seed_rank,omitempty" db:"seed_rank"`
	Category    string    `json:"category" db:"category"`
	GroupName   *string   `json:"group_name,omitempty" db:"group_name"`
	SlipKey     *string   `json:"-" db:"slip_key"`
	SlipURL     *string   `json:"slip_url,omitempty" db:"-"`
	IsPaid      bool      `json:"is_paid" db:"is_paid"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

func (p *Player) AffiliationOrEmpty() string {
	if p.Affiliation == nil {
		return ""
	}
	return *p.Affiliation
}

func (p *Player) GroupNameOrEmpty() string {
	if p.GroupName == nil {
		return ""
	}
	return *p.GroupName
}
