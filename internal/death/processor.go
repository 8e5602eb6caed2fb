// Package death serializes kills so reactions that cause further deaths
// are queued instead of recursing.
package death

import (
	"github.com/osse101/nightfall/internal/domain"
)

// Roster is the participant store the processor mutates.
type Roster interface {
	Participant(id string) (*domain.Participant, bool)
}

// Reactor runs the on-death reaction of a participant.
// It may call Kill on the processor; such calls only enqueue.
type Reactor interface {
	OnDeath(p *domain.Participant, cause string)
}

type queued struct {
	id    string
	cause string
}

// Processor drains kill requests in FIFO order
type Processor struct {
	roster   Roster
	reactor  Reactor
	queue    []queued
	draining bool
}

// NewProcessor creates a processor over roster.
func NewProcessor(roster Roster, reactor Reactor) *Processor {
	return &Processor{roster: roster, reactor: reactor}
}

// Kill marks id dead with cause and runs the cascade. Returns false when the
// participant is unknown or already dead. Calls made while a drain is in
// progress are queued and return immediately.
func (d *Processor) Kill(id, cause string) bool {
	p, ok := d.roster.Participant(id)
	if !ok || !p.Alive {
		return false
	}
	p.Alive = false
	p.DeathCause = cause
	d.queue = append(d.queue, queued{id: id, cause: cause})

	if d.draining {
		return true
	}
	d.drain()
	return true
}

func (d *Processor) drain() {
	d.draining = true
	defer func() {
		// a panicking reaction must not leave the processor stuck in drain mode
		d.draining = false
		d.queue = nil
	}()

	for len(d.queue) > 0 {
		next := d.queue[0]
		d.queue = d.queue[1:]

		p, ok := d.roster.Participant(next.id)
		if !ok {
			continue
		}
		if d.reactor != nil {
			d.reactor.OnDeath(p, next.cause)
		}
		if p.LinkedTo != "" {
			d.Kill(p.LinkedTo, domain.CauseHeartbreak)
		}
	}
}

// Revive clears death state. Returns false if the participant is unknown or alive.
func (d *Processor) Revive(id string) bool {
	p, ok := d.roster.Participant(id)
	if !ok || p.Alive {
		return false
	}
	p.Alive = true
	p.DeathCause = ""
	return true
}

// Draining reports whether a cascade is in progress.
func (d *Processor) Draining() bool {
	return d.draining
}

// Reset drops any queued deaths.
func (d *Processor) Reset() {
	d.queue = nil
	d.draining = false
}
