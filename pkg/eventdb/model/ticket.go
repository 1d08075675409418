package model

import "time"

const (
	TicketOpen     = "open"
	TicketResolved = "resolved"
)

type Ticket struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	TeamID    string    `json:"team_id" gorm:"index"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (Ticket) TableName() string {
	return "tickets"
}
