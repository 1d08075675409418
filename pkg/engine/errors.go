package engine

import "github.com/pkg/errors"

// Error taxonomy for workflow operations. Controllers map these onto HTTP
// statuses; nothing here is fatal to the process and every operation is
// independently retryable by the caller.
var (
	// ErrValidation covers rejected input: bad repository format, missing
	// required fields, empty create-team inputs. No state is mutated.
	ErrValidation = errors.New("validation failed")

	// ErrNotReady is returned when a team attempts a gated transition without
	// passing the readiness gate.
	ErrNotReady = errors.New("team is not ready")

	// ErrFrozen is returned for intake-affecting writes while the admin has
	// frozen intake.
	ErrFrozen = errors.New("intake is frozen")

	// ErrBanned overrides every workflow gate for a banned team.
	ErrBanned = errors.New("team is banned")

	// ErrLivenessCheck is returned on a wrong challenge answer. The challenge
	// is regenerated and the wizard stays in place.
	ErrLivenessCheck = errors.New("liveness check failed")

	// ErrAlreadySubmitted is returned for artifact or workflow mutations after
	// the terminal submitted status.
	ErrAlreadySubmitted = errors.New("already submitted")

	// ErrNoWizard is returned for wizard steps without an active wizard
	// session for the team.
	ErrNoWizard = errors.New("no active submission wizard")
)
