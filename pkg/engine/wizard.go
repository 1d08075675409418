package engine

import (
	"math/rand"
	"sync"

	"github.com/hackos/hackd/pkg/eventdb/model"
	"github.com/hackos/hackd/pkg/eventdb/stor"
)

// Wizard states. Incomplete and Ready are derived from the team record;
// AwaitingConsent and AwaitingReview exist only while a wizard session is
// active; Submitted is the stored terminal status.
const (
	StateIncomplete      = "incomplete"
	StateReady           = "ready"
	StateAwaitingConsent = "awaiting_consent"
	StateAwaitingReview  = "awaiting_review"
	StateSubmitted       = "submitted"
)

// Challenge is the anti-automation check: two single-digit integers whose sum
// the participant must submit. Regenerated on every wrong answer, unlimited
// attempts.
type Challenge struct {
	A int `json:"a"`
	B int `json:"b"`
}

func newChallenge() Challenge {
	return Challenge{A: rand.Intn(10), B: rand.Intn(10)}
}

type wizardSession struct {
	stage     string
	challenge Challenge
}

// Wizard runs the per-team submission state machine. Sessions live in process
// memory and are discarded on cancel; only the final confirmation writes to
// the store. The team record is re-fetched on every step so an admin ban
// landing mid-wizard blocks all further advances.
type Wizard struct {
	mu       sync.Mutex
	sessions map[string]*wizardSession
	teams    stor.TeamStor
	configs  stor.ConfigStor
}

func NewWizard(teams stor.TeamStor, configs stor.ConfigStor) *Wizard {
	return &Wizard{
		sessions: make(map[string]*wizardSession),
		teams:    teams,
		configs:  configs,
	}
}

// State derives the wizard state for a team.
func (w *Wizard) State(team *model.Team) string {
	if team.Submitted() {
		return StateSubmitted
	}

	w.mu.Lock()
	session, ok := w.sessions[team.ID]
	w.mu.Unlock()
	if ok {
		return session.stage
	}

	if Ready(team) {
		return StateReady
	}
	return StateIncomplete
}

// Start moves a ready team into AwaitingConsent and hands back the liveness
// challenge. Refused while banned, frozen, not ready, or already submitted.
func (w *Wizard) Start(teamID string) (Challenge, error) {
	team, err := w.teams.GetTeamByID(teamID)
	if err != nil {
		return Challenge{}, err
	}

	cfg, err := w.configs.GetConfig()
	if err != nil {
		return Challenge{}, err
	}

	switch {
	case team.Banned:
		return Challenge{}, ErrBanned
	case team.Submitted():
		return Challenge{}, ErrAlreadySubmitted
	case !cfg.IntakeOpen:
		return Challenge{}, ErrFrozen
	case !Ready(team):
		return Challenge{}, ErrNotReady
	}

	session := &wizardSession{
		stage:     StateAwaitingConsent,
		challenge: newChallenge(),
	}

	w.mu.Lock()
	w.sessions[teamID] = session
	w.mu.Unlock()

	return session.challenge, nil
}

// Consent advances AwaitingConsent to AwaitingReview. Requires an explicit
// consent acknowledgment and the correct challenge sum; a wrong sum
// regenerates the challenge and the wizard stays where it is, the fresh
// challenge is returned alongside ErrLivenessCheck.
func (w *Wizard) Consent(teamID string, accepted bool, answer int) (Challenge, error) {
	team, err := w.teams.GetTeamByID(teamID)
	if err != nil {
		return Challenge{}, err
	}
	if team.Banned {
		return Challenge{}, ErrBanned
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	session, ok := w.sessions[teamID]
	if !ok || session.stage != StateAwaitingConsent {
		return Challenge{}, ErrNoWizard
	}

	if !accepted {
		return session.challenge, ErrValidation
	}

	if answer != session.challenge.A+session.challenge.B {
		session.challenge = newChallenge()
		return session.challenge, ErrLivenessCheck
	}

	session.stage = StateAwaitingReview
	return session.challenge, nil
}

// Confirm commits the terminal submitted status. Irreversible by team action.
func (w *Wizard) Confirm(teamID string) (*model.Team, error) {
	team, err := w.teams.GetTeamByID(teamID)
	if err != nil {
		return nil, err
	}
	if team.Banned {
		return nil, ErrBanned
	}

	w.mu.Lock()
	session, ok := w.sessions[teamID]
	if !ok || session.stage != StateAwaitingReview {
		w.mu.Unlock()
		return nil, ErrNoWizard
	}
	delete(w.sessions, teamID)
	w.mu.Unlock()

	return w.teams.SetStatus(team, model.StatusSubmitted)
}

// Cancel aborts the wizard from either modal state. Always permitted and
// discards no stored data.
func (w *Wizard) Cancel(teamID string) {
	w.mu.Lock()
	delete(w.sessions, teamID)
	w.mu.Unlock()
}

// ChallengeFor returns the current challenge for an active session, so a
// reconnecting client can re-render it.
func (w *Wizard) ChallengeFor(teamID string) (Challenge, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	session, ok := w.sessions[teamID]
	if !ok {
		return Challenge{}, ErrNoWizard
	}
	return session.challenge, nil
}
