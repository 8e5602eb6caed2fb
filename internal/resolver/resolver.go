// Package resolver computes which participants take part in an event.
package resolver

import (
	"github.com/osse101/nightfall/internal/catalog"
	"github.com/osse101/nightfall/internal/domain"
)

// Actor is an eligible participant of an event.
// ItemID is set when participation comes from an item rather than the role.
type Actor struct {
	ID     string
	ItemID string
}

// ParticipantsFor returns the union of role-granted and item-granted living actors
// for eventID in seat order, deduplicated by id. Role grants win over item grants.
func ParticipantsFor(v catalog.View, eventID string) []Actor {
	c := v.Catalog()
	ev, ok := c.Event(eventID)
	if !ok {
		return nil
	}
	behavior, _ := c.Behavior(eventID)

	var out []Actor
	for _, p := range v.Living() {
		if grantedByRole(c, behavior, v, ev, p) {
			out = append(out, Actor{ID: p.ID})
			continue
		}
		if itemID, ok := grantingItem(c, p, eventID); ok {
			out = append(out, Actor{ID: p.ID, ItemID: itemID})
		}
	}
	return out
}

// IDs flattens actors to their ids.
func IDs(actors []Actor) []string {
	out := make([]string, len(actors))
	for i, a := range actors {
		out[i] = a.ID
	}
	return out
}

// OfferableEvents lists the events of phase that currently have at least one
// participant accepted by accept (nil accepts all), ordered by priority then id.
func OfferableEvents(v catalog.View, phase domain.Phase, accept func(Actor) bool) []string {
	var out []string
	for _, ev := range v.Catalog().EventsForPhase(phase) {
		for _, a := range ParticipantsFor(v, ev.ID) {
			if accept == nil || accept(a) {
				out = append(out, ev.ID)
				break
			}
		}
	}
	return out
}

func grantedByRole(c *catalog.Catalog, b catalog.Behavior, v catalog.View, ev *domain.EventDef, p *domain.Participant) bool {
	role, ok := c.Role(p.Role)
	if !ok || !role.GrantsEvent(ev.ID) {
		return false
	}
	return b == nil || b.Eligible(v, ev, p)
}

func grantingItem(c *catalog.Catalog, p *domain.Participant, eventID string) (string, bool) {
	for _, inst := range p.Inventory {
		if !inst.Usable() {
			continue
		}
		def, ok := c.Item(inst.ItemID)
		if !ok {
			continue
		}
		if def.Activation.Mode == domain.ActivationEvent && def.Activation.Event == eventID {
			return def.ID, true
		}
	}
	return "", false
}
