package catalog

import (
	"fmt"
	"sort"

	"github.com/osse101/nightfall/internal/domain"
)

// Config is the file representation of a catalog
type Config struct {
	Version     string            `json:"version" yaml:"version"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Teams       domain.Teams      `json:"teams" yaml:"teams"`
	Roles       []domain.RoleDef  `json:"roles" yaml:"roles"`
	Events      []domain.EventDef `json:"events" yaml:"events"`
	Items       []domain.ItemDef  `json:"items" yaml:"items"`
	Composition []CompositionRule `json:"composition,omitempty" yaml:"composition,omitempty"`
}

// CompositionRule adds Count copies of Role once at least MinPlayers have joined.
// A PerPlayers value > 0 instead adds one copy for every PerPlayers participants (at least one).
type CompositionRule struct {
	Role       string `json:"role" yaml:"role"`
	MinPlayers int    `json:"min_players,omitempty" yaml:"min_players,omitempty"`
	Count      int    `json:"count,omitempty" yaml:"count,omitempty"`
	PerPlayers int    `json:"per_players,omitempty" yaml:"per_players,omitempty"`
}

// Catalog holds the immutable role, event and item definitions for a session.
// It is safe for concurrent reads.
type Catalog struct {
	version     string
	teams       domain.Teams
	roles       map[string]*domain.RoleDef
	roleOrder   []string
	events      map[string]*domain.EventDef
	eventOrder  []string
	items       map[string]*domain.ItemDef
	itemOrder   []string
	composition []CompositionRule
	behaviors   *Registry
}

// Build validates cfg against the behavior registry and returns the catalog.
func Build(cfg *Config, reg *Registry) (*Catalog, error) {
	if err := Validate(cfg, reg); err != nil {
		return nil, err
	}

	c := &Catalog{
		version:     cfg.Version,
		teams:       cfg.Teams,
		roles:       make(map[string]*domain.RoleDef, len(cfg.Roles)),
		events:      make(map[string]*domain.EventDef, len(cfg.Events)),
		items:       make(map[string]*domain.ItemDef, len(cfg.Items)),
		composition: append([]CompositionRule(nil), cfg.Composition...),
		behaviors:   reg,
	}
	for i := range cfg.Roles {
		r := cfg.Roles[i]
		c.roles[r.ID] = &r
		c.roleOrder = append(c.roleOrder, r.ID)
	}
	for i := range cfg.Events {
		e := cfg.Events[i]
		c.events[e.ID] = &e
		c.eventOrder = append(c.eventOrder, e.ID)
	}
	for i := range cfg.Items {
		it := cfg.Items[i]
		c.items[it.ID] = &it
		c.itemOrder = append(c.itemOrder, it.ID)
	}
	return c, nil
}

// Version returns the catalog version string.
func (c *Catalog) Version() string { return c.version }

// Teams returns the majority and aggressor team names.
func (c *Catalog) Teams() domain.Teams { return c.teams }

// Role returns a role definition.
func (c *Catalog) Role(id string) (*domain.RoleDef, bool) {
	r, ok := c.roles[id]
	return r, ok
}

// Event returns an event definition.
func (c *Catalog) Event(id string) (*domain.EventDef, bool) {
	e, ok := c.events[id]
	return e, ok
}

// Item returns an item definition.
func (c *Catalog) Item(id string) (*domain.ItemDef, bool) {
	it, ok := c.items[id]
	return it, ok
}

// Roles returns role definitions in declaration order.
func (c *Catalog) Roles() []*domain.RoleDef {
	out := make([]*domain.RoleDef, 0, len(c.roleOrder))
	for _, id := range c.roleOrder {
		out = append(out, c.roles[id])
	}
	return out
}

// Events returns event definitions in declaration order.
func (c *Catalog) Events() []*domain.EventDef {
	out := make([]*domain.EventDef, 0, len(c.eventOrder))
	for _, id := range c.eventOrder {
		out = append(out, c.events[id])
	}
	return out
}

// Items returns item definitions in declaration order.
func (c *Catalog) Items() []*domain.ItemDef {
	out := make([]*domain.ItemDef, 0, len(c.itemOrder))
	for _, id := range c.itemOrder {
		out = append(out, c.items[id])
	}
	return out
}

// Behavior returns the behavior bound to an event.
func (c *Catalog) Behavior(eventID string) (Behavior, bool) {
	e, ok := c.events[eventID]
	if !ok {
		return nil, false
	}
	return c.behaviors.Get(e.Behavior)
}

// Reaction returns a registered death reaction by name.
func (c *Catalog) Reaction(name string) (Reaction, bool) {
	return c.behaviors.Reaction(name)
}

// TeamOf returns the team of a role, or "" for unknown roles.
func (c *Catalog) TeamOf(roleID string) string {
	if r, ok := c.roles[roleID]; ok {
		return r.Team
	}
	return ""
}

// IsAggressor reports whether roleID belongs to the aggressor team.
func (c *Catalog) IsAggressor(roleID string) bool {
	return roleID != "" && c.TeamOf(roleID) == c.teams.Aggressor
}

// Priority returns the effective priority of an event, honoring a role override.
func (c *Catalog) Priority(eventID, roleID string) int {
	e, ok := c.events[eventID]
	if !ok {
		return 0
	}
	if r, ok := c.roles[roleID]; ok && r.PriorityOverride != nil {
		if p, ok := r.PriorityOverride[eventID]; ok {
			return p
		}
	}
	return e.Priority
}

// EventsForPhase returns the events runnable in phase ordered by priority then id.
func (c *Catalog) EventsForPhase(phase domain.Phase) []*domain.EventDef {
	var out []*domain.EventDef
	for _, id := range c.eventOrder {
		if e := c.events[id]; e.InPhase(phase) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Composition returns the role list dealt for n participants.
func (c *Catalog) Composition(n int) ([]string, error) {
	if n < MinPlayers {
		return nil, fmt.Errorf("%w: need at least %d participants, have %d", domain.ErrInvalidComposition, MinPlayers, n)
	}
	if len(c.composition) == 0 {
		return nil, fmt.Errorf("%w: catalog has no composition rules", domain.ErrInvalidComposition)
	}

	var roles []string
	filler := ""
	for _, rule := range c.composition {
		switch {
		case rule.PerPlayers > 0:
			count := n / rule.PerPlayers
			if count < 1 {
				count = 1
			}
			for i := 0; i < count; i++ {
				roles = append(roles, rule.Role)
			}
		case rule.Count == 0:
			filler = rule.Role
		case n >= rule.MinPlayers:
			for i := 0; i < rule.Count; i++ {
				roles = append(roles, rule.Role)
			}
		}
	}
	if len(roles) > n {
		roles = roles[:n]
	}
	if filler == "" && len(roles) < n {
		return nil, fmt.Errorf("%w: composition covers %d of %d participants", domain.ErrInvalidComposition, len(roles), n)
	}
	for len(roles) < n {
		roles = append(roles, filler)
	}
	return roles, nil
}

// ValidateRoles checks an explicit role list for n participants.
func (c *Catalog) ValidateRoles(roles []string, n int) error {
	if len(roles) != n {
		return fmt.Errorf("%w: %d roles for %d participants", domain.ErrInvalidComposition, len(roles), n)
	}
	for _, r := range roles {
		if _, ok := c.roles[r]; !ok {
			return fmt.Errorf("%w: %w: %s", domain.ErrInvalidComposition, domain.ErrRoleNotFound, r)
		}
	}
	return nil
}
