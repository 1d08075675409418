package stor

import (
	"time"

	"github.com/hackos/hackd/pkg/eventdb/model"
	"github.com/hackos/hackd/pkg/feed"
	"github.com/hashicorp/go-uuid"
	"gorm.io/gorm"
)

type GormTeamStor struct {
	db       *gorm.DB
	notifier feed.Notifier
}

func NewGormTeamStor(db *gorm.DB, notifier feed.Notifier) *GormTeamStor {
	return &GormTeamStor{db: db, notifier: notifier}
}

// CreateTeam creates a new team record. The caller is responsible for input
// validation; the unique index on unit_id rejects duplicates.
func (s *GormTeamStor) CreateTeam(team *model.Team) (*model.Team, error) {
	var err error

	if team.ID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	if team.Status == "" {
		team.Status = model.StatusLobby
	}

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Create(team).Error
	})

	if err != nil {
		return nil, err
	}

	s.notifier.Publish(feed.NewEvent(feed.OpInsert, feed.SetTeams, team.ID, nil, team))

	return team, nil
}

func (s *GormTeamStor) GetTeamByID(id string) (*model.Team, error) {
	var team model.Team
	if err := s.db.Where("id = ?", id).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *GormTeamStor) GetTeamByUnitID(unitID string) (*model.Team, error) {
	var team model.Team
	if err := s.db.Where("unit_id = ?", unitID).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// GetTeamByCredentials is the identity collaborator's lookup-and-compare
// primitive: verbatim equality on the stored secret, nothing derived.
func (s *GormTeamStor) GetTeamByCredentials(unitID, secret string) (*model.Team, error) {
	var team model.Team
	if err := s.db.Where("unit_id = ? AND secret = ?", unitID, secret).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *GormTeamStor) ListParticipants() ([]model.Team, error) {
	var teams []model.Team
	result := s.db.Where("role = ?", model.RoleParticipant).Order("unit_id").Find(&teams)
	return teams, result.Error
}

func (s *GormTeamStor) UpdateProfile(team *model.Team, member1, member2 string, photos model.PhotoList) (*model.Team, error) {
	return s.applyUpdate(team, func(t *model.Team) {
		t.Member1Name = member1
		t.Member2Name = member2
		t.Photos = photos
	})
}

func (s *GormTeamStor) SetPhoto(team *model.Team, slot int, locator string) (*model.Team, error) {
	return s.applyUpdate(team, func(t *model.Team) {
		t.Photos[slot] = locator
	})
}

func (s *GormTeamStor) SetRepoLink(team *model.Team, link string) (*model.Team, error) {
	return s.applyUpdate(team, func(t *model.Team) {
		t.RepoLink = link
	})
}

func (s *GormTeamStor) SetArchiveLocator(team *model.Team, locator string) (*model.Team, error) {
	return s.applyUpdate(team, func(t *model.Team) {
		t.ArchiveLocator = locator
	})
}

func (s *GormTeamStor) SetStatus(team *model.Team, status string) (*model.Team, error) {
	return s.applyUpdate(team, func(t *model.Team) {
		t.Status = status
	})
}

func (s *GormTeamStor) SetBanned(team *model.Team, banned bool) (*model.Team, error) {
	return s.applyUpdate(team, func(t *model.Team) {
		t.Banned = banned
	})
}

func (s *GormTeamStor) SetAssignedProblem(team *model.Team, problem string) (*model.Team, error) {
	return s.applyUpdate(team, func(t *model.Team) {
		t.AssignedProblem = problem
	})
}

func (s *GormTeamStor) IncrementHandRaised(team *model.Team) (*model.Team, error) {
	return s.applyUpdate(team, func(t *model.Team) {
		t.HandRaisedCount++
	})
}

func (s *GormTeamStor) DeleteTeam(team *model.Team) error {
	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Delete(team).Error
	})

	if err != nil {
		return err
	}

	s.notifier.Publish(feed.NewEvent(feed.OpDelete, feed.SetTeams, team.ID, team, nil))

	return nil
}

// applyUpdate persists a whole-row update and publishes before/after images.
// The row is replaced as-is: concurrent writers to the same team last-write-win,
// there is no version token.
func (s *GormTeamStor) applyUpdate(team *model.Team, mutate func(t *model.Team)) (*model.Team, error) {
	before := *team

	mutate(team)
	team.UpdatedAt = time.Now()

	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Save(team).Error
	})

	if err != nil {
		return nil, err
	}

	s.notifier.Publish(feed.NewEvent(feed.OpUpdate, feed.SetTeams, team.ID, &before, team))

	return team, nil
}
