package stor

import (
	"time"

	"github.com/hackos/hackd/pkg/eventdb/model"
	"github.com/hackos/hackd/pkg/feed"
	"gorm.io/gorm"
)

type TeamStor interface {
	CreateTeam(team *model.Team) (*model.Team, error)
	GetTeamByID(id string) (*model.Team, error)
	GetTeamByUnitID(unitID string) (*model.Team, error)
	GetTeamByCredentials(unitID, secret string) (*model.Team, error)
	ListParticipants() ([]model.Team, error)
	UpdateProfile(team *model.Team, member1, member2 string, photos model.PhotoList) (*model.Team, error)
	SetPhoto(team *model.Team, slot int, locator string) (*model.Team, error)
	SetRepoLink(team *model.Team, link string) (*model.Team, error)
	SetArchiveLocator(team *model.Team, locator string) (*model.Team, error)
	SetStatus(team *model.Team, status string) (*model.Team, error)
	SetBanned(team *model.Team, banned bool) (*model.Team, error)
	SetAssignedProblem(team *model.Team, problem string) (*model.Team, error)
	IncrementHandRaised(team *model.Team) (*model.Team, error)
	DeleteTeam(team *model.Team) error
}

type ConfigStor interface {
	EnsureConfig() (*model.GlobalConfig, error)
	GetConfig() (*model.GlobalConfig, error)
	Release() (*model.GlobalConfig, error)
	SetIntakeOpen(open bool) (*model.GlobalConfig, error)
	SetEventStart(start *time.Time) (*model.GlobalConfig, error)
}

type TicketStor interface {
	CreateTicket(teamID, message string) (*model.Ticket, error)
	GetOrCreateOpenTicket(teamID, message string) (*model.Ticket, bool, error)
	GetTicketByID(id string) (*model.Ticket, error)
	GetOpenTicketForTeam(teamID string) (*model.Ticket, error)
	ListOpenTickets() ([]model.Ticket, error)
	ListTicketsForTeam(teamID string) ([]model.Ticket, error)
	ResolveTicket(id string) (*model.Ticket, error)
	DeleteTicketsForTeam(teamID string) error
}

type AnnouncementStor interface {
	CreateAnnouncement(body string) (*model.Announcement, error)
	ListAnnouncements() ([]model.Announcement, error)
}

type Stors struct {
	TeamStor         TeamStor
	ConfigStor       ConfigStor
	TicketStor       TicketStor
	AnnouncementStor AnnouncementStor
}

// NewGormStors wires every store to the same db and change feed. Mutations
// publish to the notifier before the write is acknowledged to the caller.
func NewGormStors(db *gorm.DB, notifier feed.Notifier) *Stors {
	return &Stors{
		TeamStor:         NewGormTeamStor(db, notifier),
		ConfigStor:       NewGormConfigStor(db, notifier),
		TicketStor:       NewGormTicketStor(db, notifier),
		AnnouncementStor: NewGormAnnouncementStor(db, notifier),
	}
}

// NewInMemoryStors returns stores backed by process memory, for tests and
// single-shot tooling.
func NewInMemoryStors(notifier feed.Notifier) *Stors {
	return &Stors{
		TeamStor:         NewInMemoryTeamStor(notifier),
		ConfigStor:       NewInMemoryConfigStor(notifier),
		TicketStor:       NewInMemoryTicketStor(notifier),
		AnnouncementStor: NewInMemoryAnnouncementStor(notifier),
	}
}
