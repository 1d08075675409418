package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

const (
	RoleAdmin       = "admin"
	RoleParticipant = "participant"
)

const (
	StatusLobby     = "lobby"
	StatusSetup     = "setup"
	StatusSubmitted = "submitted"
)

// PhotoCount is the number of verification photo slots every team has.
const PhotoCount = 2

// PhotoList is the fixed-length list of photo locators for a team. Empty
// entries are slots that haven't been captured yet. It is stored as a JSON
// column and replaced wholesale on update (last write wins).
type PhotoList [PhotoCount]string

func (p PhotoList) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling photo list")
	}
	return string(b), nil
}

func (p *PhotoList) Scan(value interface{}) error {
	if value == nil {
		*p = PhotoList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.Errorf("cannot scan %T into PhotoList", value)
	}

	return json.Unmarshal(data, p)
}

// Complete is true when every photo slot has a locator.
func (p PhotoList) Complete() bool {
	for _, locator := range p {
		if locator == "" {
			return false
		}
	}
	return true
}

type Team struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	UnitID          string    `json:"unit_id" gorm:"uniqueIndex"`
	Role            string    `json:"role"`
	Secret          string    `json:"-"`
	Member1Name     string    `json:"member1_name"`
	Member2Name     string    `json:"member2_name"`
	Email           string    `json:"email"`
	Photos          PhotoList `json:"photos" gorm:"type:text"`
	RepoLink        string    `json:"repo_link"`
	ArchiveLocator  string    `json:"archive_locator"`
	Status          string    `json:"status"`
	Banned          bool      `json:"banned"`
	HandRaisedCount int       `json:"hand_raised_count"`
	AssignedProblem string    `json:"assigned_problem,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Team) TableName() string {
	return "teams"
}

func (t *Team) IsAdmin() bool {
	return t.Role == RoleAdmin
}

func (t *Team) Submitted() bool {
	return t.Status == StatusSubmitted
}
