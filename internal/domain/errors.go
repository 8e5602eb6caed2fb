package domain

import (
	"errors"
	"fmt"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Taxonomy roots
	ErrMsgNotFound     = "not found"
	ErrMsgInvalidState = "invalid state"
	ErrMsgIncomplete   = "incomplete"
	ErrMsgForbidden    = "forbidden"
	ErrMsgInternal     = "internal error"

	// Lookup errors
	ErrMsgParticipantNotFound = "participant not found"
	ErrMsgEventNotFound       = "event not found"
	ErrMsgItemNotFound        = "item not found"
	ErrMsgRoleNotFound        = "role not found"

	// Session state errors
	ErrMsgWrongPhase           = "operation not allowed in current phase"
	ErrMsgEventAlreadyActive   = "event is already active"
	ErrMsgEventNotActive       = "event is not active"
	ErrMsgNoParticipants       = "no eligible participants"
	ErrMsgInvalidComposition   = "invalid role composition"
	ErrMsgParticipantExists    = "participant already joined"
	ErrMsgFlowBusy             = "another interrupt flow is already active"
	ErrMsgAbstainNotAllowed    = "abstaining is not allowed for this event"
	ErrMsgItemNotUsable        = "item has no uses remaining"
	ErrMsgInvalidParticipantID = "invalid participant id"

	// Response errors
	ErrMsgMissingResponses = "not all participants have responded"

	// Actor errors
	ErrMsgNoActiveEvent   = "actor has no active event"
	ErrMsgIllegalTarget   = "target is not a legal choice"
	ErrMsgParticipantDead = "participant is dead"
)

// Common domain errors
// The four taxonomy roots are NotFound, InvalidState, Incomplete and Forbidden.
// Specific errors wrap one of the roots so callers can match either level with errors.Is.
var (
	ErrNotFound     = errors.New(ErrMsgNotFound)
	ErrInvalidState = errors.New(ErrMsgInvalidState)
	ErrIncomplete   = errors.New(ErrMsgIncomplete)
	ErrForbidden    = errors.New(ErrMsgForbidden)
	ErrInternal     = errors.New(ErrMsgInternal)

	// NotFound
	ErrParticipantNotFound = fmt.Errorf("%w: %s", ErrNotFound, ErrMsgParticipantNotFound)
	ErrEventNotFound       = fmt.Errorf("%w: %s", ErrNotFound, ErrMsgEventNotFound)
	ErrItemNotFound        = fmt.Errorf("%w: %s", ErrNotFound, ErrMsgItemNotFound)
	ErrRoleNotFound        = fmt.Errorf("%w: %s", ErrNotFound, ErrMsgRoleNotFound)

	// InvalidState
	ErrWrongPhase           = fmt.Errorf("%w: %s", ErrInvalidState, ErrMsgWrongPhase)
	ErrEventAlreadyActive   = fmt.Errorf("%w: %s", ErrInvalidState, ErrMsgEventAlreadyActive)
	ErrEventNotActive       = fmt.Errorf("%w: %s", ErrInvalidState, ErrMsgEventNotActive)
	ErrNoParticipants       = fmt.Errorf("%w: %s", ErrInvalidState, ErrMsgNoParticipants)
	ErrInvalidComposition   = fmt.Errorf("%w: %s", ErrInvalidState, ErrMsgInvalidComposition)
	ErrParticipantExists    = fmt.Errorf("%w: %s", ErrInvalidState, ErrMsgParticipantExists)
	ErrFlowBusy             = fmt.Errorf("%w: %s", ErrInvalidState, ErrMsgFlowBusy)
	ErrAbstainNotAllowed    = fmt.Errorf("%w: %s", ErrInvalidState, ErrMsgAbstainNotAllowed)
	ErrItemNotUsable        = fmt.Errorf("%w: %s", ErrInvalidState, ErrMsgItemNotUsable)
	ErrInvalidParticipantID = fmt.Errorf("%w: %s", ErrInvalidState, ErrMsgInvalidParticipantID)

	// Incomplete
	ErrMissingResponses = fmt.Errorf("%w: %s", ErrIncomplete, ErrMsgMissingResponses)

	// Forbidden
	ErrNoActiveEvent   = fmt.Errorf("%w: %s", ErrForbidden, ErrMsgNoActiveEvent)
	ErrIllegalTarget   = fmt.Errorf("%w: %s", ErrForbidden, ErrMsgIllegalTarget)
	ErrParticipantDead = fmt.Errorf("%w: %s", ErrForbidden, ErrMsgParticipantDead)
)
