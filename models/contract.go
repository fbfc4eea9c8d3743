package models

import "time"

// Contract — ровно один активный контракт на игрока в составе; у свободных
// агентов контракта нет.
type Contract struct {
	ID        int       `json:"id" db:"id"`
	PlayerID  int       `json:"player_id" db:"player_id"`
	TeamID    int       `json:"team_id" db:"team_id"`
	Salary    int64     `json:"salary" db:"salary"`
	Bonus     int64     `json:"bonus" db:"bonus"`
	Years     int       `json:"years" db:"years"`
	StartYear int       `json:"start_year" db:"start_year"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CapHit — годовая нагрузка на потолок: зарплата плюс бонус,
// амортизированный на срок контракта.
func (c Contract) CapHit() int64 {
	if c.Years <= 0 {
		return c.Salary + c.Bonus
	}
	return c.Salary + c.Bonus/int64(c.Years)
}
