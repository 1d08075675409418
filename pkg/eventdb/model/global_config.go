package model

import "time"

// GlobalConfigID is the id of the single global_config row. The row is created
// once at deployment and only ever updated after that.
const GlobalConfigID = 1

type GlobalConfig struct {
	ID         int        `json:"id" gorm:"primaryKey"`
	Released   bool       `json:"released"`
	ReleasedAt *time.Time `json:"released_at"`
	IntakeOpen bool       `json:"intake_open"`
	EventStart *time.Time `json:"event_start"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (GlobalConfig) TableName() string {
	return "global_config"
}
