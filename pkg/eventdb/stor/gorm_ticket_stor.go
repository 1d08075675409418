package stor

import (
	"github.com/hackos/hackd/pkg/eventdb/model"
	"github.com/hackos/hackd/pkg/feed"
	"github.com/hashicorp/go-uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type GormTicketStor struct {
	db       *gorm.DB
	notifier feed.Notifier
}

func NewGormTicketStor(db *gorm.DB, notifier feed.Notifier) *GormTicketStor {
	return &GormTicketStor{db: db, notifier: notifier}
}

func (s *GormTicketStor) CreateTicket(teamID, message string) (*model.Ticket, error) {
	ticket := &model.Ticket{
		TeamID:  teamID,
		Message: message,
		Status:  model.TicketOpen,
	}

	var err error
	if ticket.ID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Create(ticket).Error
	})

	if err != nil {
		return nil, err
	}

	s.notifier.Publish(feed.NewEvent(feed.OpInsert, feed.SetTickets, teamID, nil, ticket))

	return ticket, nil
}

// GetOrCreateOpenTicket returns the team's open ticket if one exists,
// otherwise creates it. Lookup and insert run in one transaction so two
// simultaneous raises cannot both create. The bool reports whether a ticket
// was created.
func (s *GormTicketStor) GetOrCreateOpenTicket(teamID, message string) (*model.Ticket, bool, error) {
	var (
		ticket  model.Ticket
		created bool
	)

	id, err := uuid.GenerateUUID()
	if err != nil {
		return nil, false, err
	}

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		created = false
		err := tx.Where("team_id = ? AND status = ?", teamID, model.TicketOpen).First(&ticket).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		ticket = model.Ticket{
			ID:      id,
			TeamID:  teamID,
			Message: message,
			Status:  model.TicketOpen,
		}
		created = true
		return tx.Create(&ticket).Error
	})

	if err != nil {
		return nil, false, err
	}

	if created {
		s.notifier.Publish(feed.NewEvent(feed.OpInsert, feed.SetTickets, teamID, nil, &ticket))
	}

	return &ticket, created, nil
}

func (s *GormTicketStor) GetTicketByID(id string) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := s.db.Where("id = ?", id).First(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (s *GormTicketStor) GetOpenTicketForTeam(teamID string) (*model.Ticket, error) {
	var ticket model.Ticket
	err := s.db.Where("team_id = ? AND status = ?", teamID, model.TicketOpen).First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (s *GormTicketStor) ListOpenTickets() ([]model.Ticket, error) {
	var tickets []model.Ticket
	result := s.db.Where("status = ?", model.TicketOpen).Order("created_at").Find(&tickets)
	return tickets, result.Error
}

func (s *GormTicketStor) ListTicketsForTeam(teamID string) ([]model.Ticket, error) {
	var tickets []model.Ticket
	result := s.db.Where("team_id = ?", teamID).Order("created_at").Find(&tickets)
	return tickets, result.Error
}

// ResolveTicket marks a ticket resolved. Resolving an already-resolved ticket
// is a no-op that returns the current row.
func (s *GormTicketStor) ResolveTicket(id string) (*model.Ticket, error) {
	ticket, err := s.GetTicketByID(id)
	if err != nil {
		return nil, err
	}

	if ticket.Status == model.TicketResolved {
		return ticket, nil
	}

	before := *ticket
	ticket.Status = model.TicketResolved

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Save(ticket).Error
	})

	if err != nil {
		return nil, err
	}

	s.notifier.Publish(feed.NewEvent(feed.OpUpdate, feed.SetTickets, ticket.TeamID, &before, ticket))

	return ticket, nil
}

// DeleteTicketsForTeam removes every ticket referencing the team. Runs before
// the team record itself is deleted so no orphaned tickets survive.
func (s *GormTicketStor) DeleteTicketsForTeam(teamID string) error {
	tickets, err := s.ListTicketsForTeam(teamID)
	if err != nil {
		return err
	}

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Where("team_id = ?", teamID).Delete(&model.Ticket{}).Error
	})

	if err != nil {
		return err
	}

	for i := range tickets {
		s.notifier.Publish(feed.NewEvent(feed.OpDelete, feed.SetTickets, teamID, &tickets[i], nil))
	}

	return nil
}
