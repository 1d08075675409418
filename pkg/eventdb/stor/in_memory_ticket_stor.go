package stor

import (
	"sort"
	"sync"
	"time"

	"github.com/hackos/hackd/pkg/eventdb/model"
	"github.com/hackos/hackd/pkg/feed"
	"github.com/hashicorp/go-uuid"
	"gorm.io/gorm"
)

type InMemoryTicketStor struct {
	mu       sync.Mutex
	tickets  map[string]*model.Ticket
	notifier feed.Notifier
}

func NewInMemoryTicketStor(notifier feed.Notifier) *InMemoryTicketStor {
	return &InMemoryTicketStor{
		tickets:  make(map[string]*model.Ticket),
		notifier: notifier,
	}
}

func (s *InMemoryTicketStor) CreateTicket(teamID, message string) (*model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := uuid.GenerateUUID()
	if err != nil {
		return nil, err
	}

	ticket := &model.Ticket{
		ID:        id,
		TeamID:    teamID,
		Message:   message,
		Status:    model.TicketOpen,
		CreatedAt: time.Now(),
	}
	s.tickets[id] = ticket

	s.notifier.Publish(feed.NewEvent(feed.OpInsert, feed.SetTickets, teamID, nil, ticket))

	copied := *ticket
	return &copied, nil
}

func (s *InMemoryTicketStor) GetOrCreateOpenTicket(teamID, message string) (*model.Ticket, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ticket := range s.tickets {
		if ticket.TeamID == teamID && ticket.Status == model.TicketOpen {
			copied := *ticket
			return &copied, false, nil
		}
	}

	id, err := uuid.GenerateUUID()
	if err != nil {
		return nil, false, err
	}

	ticket := &model.Ticket{
		ID:        id,
		TeamID:    teamID,
		Message:   message,
		Status:    model.TicketOpen,
		CreatedAt: time.Now(),
	}
	s.tickets[id] = ticket

	s.notifier.Publish(feed.NewEvent(feed.OpInsert, feed.SetTickets, teamID, nil, ticket))

	copied := *ticket
	return &copied, true, nil
}

func (s *InMemoryTicketStor) GetTicketByID(id string) (*model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *ticket
	return &copied, nil
}

func (s *InMemoryTicketStor) GetOpenTicketForTeam(teamID string) (*model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ticket := range s.tickets {
		if ticket.TeamID == teamID && ticket.Status == model.TicketOpen {
			copied := *ticket
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *InMemoryTicketStor) ListOpenTickets() ([]model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tickets []model.Ticket
	for _, ticket := range s.tickets {
		if ticket.Status == model.TicketOpen {
			tickets = append(tickets, *ticket)
		}
	}

	sort.Slice(tickets, func(i, j int) bool { return tickets[i].CreatedAt.Before(tickets[j].CreatedAt) })

	return tickets, nil
}

func (s *InMemoryTicketStor) ListTicketsForTeam(teamID string) ([]model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tickets []model.Ticket
	for _, ticket := range s.tickets {
		if ticket.TeamID == teamID {
			tickets = append(tickets, *ticket)
		}
	}

	sort.Slice(tickets, func(i, j int) bool { return tickets[i].CreatedAt.Before(tickets[j].CreatedAt) })

	return tickets, nil
}

func (s *InMemoryTicketStor) ResolveTicket(id string) (*model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	if ticket.Status == model.TicketResolved {
		copied := *ticket
		return &copied, nil
	}

	before := *ticket
	ticket.Status = model.TicketResolved

	s.notifier.Publish(feed.NewEvent(feed.OpUpdate, feed.SetTickets, ticket.TeamID, &before, ticket))

	copied := *ticket
	return &copied, nil
}

func (s *InMemoryTicketStor) DeleteTicketsForTeam(teamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, ticket := range s.tickets {
		if ticket.TeamID == teamID {
			delete(s.tickets, id)
			s.notifier.Publish(feed.NewEvent(feed.OpDelete, feed.SetTickets, teamID, ticket, nil))
		}
	}

	return nil
}
