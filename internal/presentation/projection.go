// Package presentation holds the shared display log and its movable pointer.
package presentation

import (
	"github.com/osse101/nightfall/internal/domain"
)

// ActivationFunc is called once when the pointer advances onto a frame with an activation.
type ActivationFunc func(frame domain.Frame)

// Projection is an append-only frame log with a current pointer.
// It is not safe for concurrent use; the session serializes access.
type Projection struct {
	frames     []domain.Frame
	current    int
	nextID     int64
	onActivate ActivationFunc
}

// New creates an empty projection.
func New(onActivate ActivationFunc) *Projection {
	return &Projection{current: -1, nextID: 1, onActivate: onActivate}
}

// Push appends a frame with a fresh id. The pointer moves to it when the
// log was empty or jump is set. Returns the appended frame.
func (p *Projection) Push(frameType string, payload map[string]any, activation string, jump bool) domain.Frame {
	f := domain.Frame{
		ID:         p.nextID,
		Type:       frameType,
		Payload:    payload,
		Activation: activation,
	}
	p.nextID++
	p.frames = append(p.frames, f)
	if len(p.frames) == 1 || jump {
		p.current = len(p.frames) - 1
	}
	return f
}

// PushSpec appends a frame described by spec.
func (p *Projection) PushSpec(spec domain.FrameSpec) domain.Frame {
	return p.Push(spec.Type, spec.Payload, spec.Activation, spec.Jump)
}

// Advance moves the pointer forward by one. Landing on a frame with a
// pending activation fires it exactly once and clears it.
func (p *Projection) Advance() bool {
	if p.current+1 >= len(p.frames) {
		return false
	}
	p.current++
	f := &p.frames[p.current]
	if f.Activation != "" {
		fired := *f
		f.Activation = ""
		if p.onActivate != nil {
			p.onActivate(fired)
		}
	}
	return true
}

// Retreat moves the pointer back by one.
func (p *Projection) Retreat() bool {
	if p.current <= 0 {
		return false
	}
	p.current--
	return true
}

// Reset truncates the log and reseeds it with a single frame for the current phase.
// Frame ids keep increasing across resets.
func (p *Projection) Reset(seed domain.FrameSpec) domain.Frame {
	p.frames = nil
	p.current = -1
	return p.Push(seed.Type, seed.Payload, seed.Activation, true)
}

// JumpToLast moves the pointer to the most recent frame of frameType.
func (p *Projection) JumpToLast(frameType string) bool {
	for i := len(p.frames) - 1; i >= 0; i-- {
		if p.frames[i].Type == frameType {
			p.current = i
			return true
		}
	}
	return false
}

// Queue returns a copy of the frame log.
func (p *Projection) Queue() []domain.Frame {
	out := make([]domain.Frame, len(p.frames))
	copy(out, p.frames)
	return out
}

// CurrentIndex returns the pointer position, -1 when the log is empty.
func (p *Projection) CurrentIndex() int {
	return p.current
}

// Len returns the number of frames.
func (p *Projection) Len() int {
	return len(p.frames)
}

// State returns the externally visible projection state.
func (p *Projection) State() domain.PresentationState {
	return domain.PresentationState{Frames: p.Queue(), Current: p.current}
}
