package stor

import (
	"sort"
	"sync"
	"time"

	"github.com/hackos/hackd/pkg/eventdb/model"
	"github.com/hackos/hackd/pkg/feed"
	"github.com/hashicorp/go-uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type InMemoryTeamStor struct {
	mu       sync.Mutex
	teams    map[string]*model.Team
	notifier feed.Notifier
}

func NewInMemoryTeamStor(notifier feed.Notifier) *InMemoryTeamStor {
	return &InMemoryTeamStor{
		teams:    make(map[string]*model.Team),
		notifier: notifier,
	}
}

func (s *InMemoryTeamStor) CreateTeam(team *model.Team) (*model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.teams {
		if existing.UnitID == team.UnitID {
			return nil, errors.Errorf("duplicate unit id: %s", team.UnitID)
		}
	}

	var err error
	if team.ID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	if team.Status == "" {
		team.Status = model.StatusLobby
	}
	team.CreatedAt = time.Now()
	team.UpdatedAt = team.CreatedAt

	saved := *team
	s.teams[team.ID] = &saved

	s.notifier.Publish(feed.NewEvent(feed.OpInsert, feed.SetTeams, team.ID, nil, team))

	return team, nil
}

func (s *InMemoryTeamStor) GetTeamByID(id string) (*model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	team, ok := s.teams[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *team
	return &copied, nil
}

func (s *InMemoryTeamStor) GetTeamByUnitID(unitID string) (*model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, team := range s.teams {
		if team.UnitID == unitID {
			copied := *team
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *InMemoryTeamStor) GetTeamByCredentials(unitID, secret string) (*model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, team := range s.teams {
		if team.UnitID == unitID && team.Secret == secret {
			copied := *team
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *InMemoryTeamStor) ListParticipants() ([]model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var teams []model.Team
	for _, team := range s.teams {
		if team.Role == model.RoleParticipant {
			teams = append(teams, *team)
		}
	}

	sort.Slice(teams, func(i, j int) bool { return teams[i].UnitID < teams[j].UnitID })

	return teams, nil
}

func (s *InMemoryTeamStor) UpdateProfile(team *model.Team, member1, member2 string, photos model.PhotoList) (*model.Team, error) {
	return s.applyUpdate(team, func(t *model.Team) {
		t.Member1Name = member1
		t.Member2Name = member2
		t.Photos = photos
	})
}

func (s *InMemoryTeamStor) SetPhoto(team *model.Team, slot int, locator string) (*model.Team, error) {
	return s.applyUpdate(team, func(t *model.Team) {
		t.Photos[slot] = locator
	})
}

func (s *InMemoryTeamStor) SetRepoLink(team *model.Team, link string) (*model.Team, error) {
	return s.applyUpdate(team, func(t *model.Team) {
		t.RepoLink = link
	})
}

func (s *InMemoryTeamStor) SetArchiveLocator(team *model.Team, locator string) (*model.Team, error) {
	return s.applyUpdate(team, func(t *model.Team) {
		t.ArchiveLocator = locator
	})
}

func (s *InMemoryTeamStor) SetStatus(team *model.Team, status string) (*model.Team, error) {
	return s.applyUpdate(team, func(t *model.Team) {
		t.Status = status
	})
}

func (s *InMemoryTeamStor) SetBanned(team *model.Team, banned bool) (*model.Team, error) {
	return s.applyUpdate(team, func(t *model.Team) {
		t.Banned = banned
	})
}

func (s *InMemoryTeamStor) SetAssignedProblem(team *model.Team, problem string) (*model.Team, error) {
	return s.applyUpdate(team, func(t *model.Team) {
		t.AssignedProblem = problem
	})
}

func (s *InMemoryTeamStor) IncrementHandRaised(team *model.Team) (*model.Team, error) {
	return s.applyUpdate(team, func(t *model.Team) {
		t.HandRaisedCount++
	})
}

func (s *InMemoryTeamStor) DeleteTeam(team *model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[team.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.teams, team.ID)

	s.notifier.Publish(feed.NewEvent(feed.OpDelete, feed.SetTeams, team.ID, team, nil))

	return nil
}

func (s *InMemoryTeamStor) applyUpdate(team *model.Team, mutate func(t *model.Team)) (*model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[team.ID]; !ok {
		return nil, gorm.ErrRecordNotFound
	}

	before := *team
	mutate(team)
	team.UpdatedAt = time.Now()

	saved := *team
	s.teams[team.ID] = &saved

	s.notifier.Publish(feed.NewEvent(feed.OpUpdate, feed.SetTeams, team.ID, &before, team))

	return team, nil
}
