package feed

import (
	"encoding/json"
	"time"
)

const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Record sets a subscriber can watch.
const (
	SetTeams         = "teams"
	SetConfig        = "global_config"
	SetTickets       = "tickets"
	SetAnnouncements = "announcements"
)

// Event is a row-level mutation notification. Subscribers reconcile by
// replacing their local copy with After (or dropping the row on delete);
// they never diff.
type Event struct {
	Op        string          `json:"op"`
	Set       string          `json:"set"`
	TeamID    string          `json:"team_id,omitempty"`
	Before    json.RawMessage `json:"before,omitempty"`
	After     json.RawMessage `json:"after,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewEvent builds an event from row images. teamID is the id of the team the
// row belongs to (the row id for teams, the owning team for tickets, empty
// for global sets); it is what per-team subscription filters match against.
func NewEvent(op, set, teamID string, before, after interface{}) Event {
	ev := Event{
		Op:        op,
		Set:       set,
		TeamID:    teamID,
		Timestamp: time.Now(),
	}
	if before != nil {
		ev.Before, _ = json.Marshal(before)
	}
	if after != nil {
		ev.After, _ = json.Marshal(after)
	}
	return ev
}

// Notifier is what the store layer publishes mutations through.
type Notifier interface {
	Publish(ev Event)
}

// NopNotifier discards events. Used by stores that run without a feed
// (one-shot admin commands, tests that don't exercise delivery).
type NopNotifier struct{}

func (NopNotifier) Publish(Event) {}
