package session

import (
	"context"

	"github.com/osse101/nightfall/internal/domain"
	"github.com/osse101/nightfall/internal/event"
)

// Advance moves the presentation pointer forward, firing a pending activation.
// Returns false at the end of the log.
func (s *Session) Advance(ctx context.Context) (bool, error) {
	var moved bool
	err := s.do(ctx, "presentation_advance", func(st *state) error {
		moved = st.projection.Advance()
		return nil
	})
	return moved, err
}

// Retreat moves the presentation pointer back. Returns false at the start.
func (s *Session) Retreat(ctx context.Context) (bool, error) {
	var moved bool
	err := s.do(ctx, "presentation_retreat", func(st *state) error {
		moved = st.projection.Retreat()
		return nil
	})
	return moved, err
}

// PushFrame appends a host-authored frame. An empty type means narration.
func (s *Session) PushFrame(ctx context.Context, spec domain.FrameSpec) (domain.Frame, error) {
	var frame domain.Frame
	err := s.do(ctx, "presentation_push", func(st *state) error {
		if spec.Type == "" {
			spec.Type = domain.FrameNarration
		}
		frame = st.projection.PushSpec(spec)
		return nil
	})
	return frame, err
}

// ResetPresentation truncates the log to a single frame for the current phase.
func (s *Session) ResetPresentation(ctx context.Context) error {
	return s.do(ctx, "presentation_reset", func(st *state) error {
		st.projection.Reset(st.phaseFrame())
		return nil
	})
}

// Presentation returns the frame log and pointer.
func (s *Session) Presentation() domain.PresentationState {
	var out domain.PresentationState
	s.read(func(st *state) { out = st.projection.State() })
	return out
}

func (s *state) onActivate(frame domain.Frame) {
	s.presentationRev++
	s.emit(event.NewPresentationActivatedEvent(frame))
}
