package catalog

import (
	"errors"
	"fmt"

	"github.com/osse101/nightfall/internal/domain"
)

// ErrInvalidCatalog is returned when a catalog fails reference validation
var ErrInvalidCatalog = errors.New("invalid catalog")

// Validate checks cross references that the JSON schema cannot express.
func Validate(cfg *Config, reg *Registry) error {
	if cfg == nil || (len(cfg.Roles) == 0 && len(cfg.Events) == 0) {
		return fmt.Errorf(ErrFmtNothingDefined, ErrInvalidCatalog)
	}
	if cfg.Teams.Majority == "" || cfg.Teams.Aggressor == "" {
		return fmt.Errorf(ErrFmtTeamsMissing, ErrInvalidCatalog)
	}

	events := make(map[string]bool, len(cfg.Events))
	for i, e := range cfg.Events {
		if err := validateEvent(i, &e, events, reg); err != nil {
			return err
		}
	}

	roles := make(map[string]bool, len(cfg.Roles))
	for i, r := range cfg.Roles {
		if r.ID == "" {
			return fmt.Errorf(ErrFmtEmptyID, ErrInvalidCatalog, "role", i)
		}
		if roles[r.ID] {
			return fmt.Errorf(ErrFmtDuplicateID, ErrInvalidCatalog, "role", r.ID)
		}
		roles[r.ID] = true
	}
	for _, r := range cfg.Roles {
		if err := validateRole(cfg, &r, events, roles, reg); err != nil {
			return err
		}
	}

	items := make(map[string]bool, len(cfg.Items))
	for i, it := range cfg.Items {
		if it.ID == "" {
			return fmt.Errorf(ErrFmtEmptyID, ErrInvalidCatalog, "item", i)
		}
		if items[it.ID] {
			return fmt.Errorf(ErrFmtDuplicateID, ErrInvalidCatalog, "item", it.ID)
		}
		items[it.ID] = true
		if it.MaxUses == 0 || it.MaxUses < -1 {
			return fmt.Errorf(ErrFmtBadMaxUses, ErrInvalidCatalog, it.ID, it.MaxUses)
		}
		switch it.Activation.Mode {
		case domain.ActivationEvent:
			if !events[it.Activation.Event] {
				return fmt.Errorf(ErrFmtUnknownEvent, ErrInvalidCatalog, "item", it.ID, it.Activation.Event)
			}
		case domain.ActivationPassive:
			if it.Activation.Capability == "" {
				return fmt.Errorf(ErrFmtBadActivation, ErrInvalidCatalog, it.ID)
			}
		default:
			return fmt.Errorf(ErrFmtBadActivation, ErrInvalidCatalog, it.ID)
		}
	}

	for _, rule := range cfg.Composition {
		if !roles[rule.Role] {
			return fmt.Errorf(ErrFmtUnknownRole, ErrInvalidCatalog, "composition", rule.Role)
		}
	}
	return nil
}

func validateEvent(index int, e *domain.EventDef, seen map[string]bool, reg *Registry) error {
	if e.ID == "" {
		return fmt.Errorf(ErrFmtEmptyID, ErrInvalidCatalog, "event", index)
	}
	if seen[e.ID] {
		return fmt.Errorf(ErrFmtDuplicateID, ErrInvalidCatalog, "event", e.ID)
	}
	seen[e.ID] = true

	if len(e.Phases) == 0 {
		return fmt.Errorf(ErrFmtNoPhases, ErrInvalidCatalog, e.ID)
	}
	for _, p := range e.Phases {
		if p != domain.PhaseDay && p != domain.PhaseNight {
			return fmt.Errorf(ErrFmtInvalidPhaseName, ErrInvalidCatalog, e.ID, p)
		}
	}
	if e.Aggregation != domain.AggregationMajority && e.Aggregation != domain.AggregationIndividual {
		return fmt.Errorf(ErrFmtBadAggregation, ErrInvalidCatalog, e.ID, e.Aggregation)
	}
	if e.Timer < 0 {
		return fmt.Errorf(ErrFmtNegativeTimer, ErrInvalidCatalog, e.ID)
	}
	if _, ok := reg.Get(e.Behavior); !ok {
		return fmt.Errorf(ErrFmtUnknownBehavior, ErrInvalidCatalog, e.ID, e.Behavior)
	}
	return nil
}

func validateRole(cfg *Config, r *domain.RoleDef, events, roles map[string]bool, reg *Registry) error {
	if r.Team != cfg.Teams.Majority && r.Team != cfg.Teams.Aggressor {
		return fmt.Errorf(ErrFmtUnknownTeam, ErrInvalidCatalog, r.ID, r.Team)
	}
	for _, ev := range r.Events {
		if !events[ev] {
			return fmt.Errorf(ErrFmtUnknownEvent, ErrInvalidCatalog, "role", r.ID, ev)
		}
	}
	for _, reaction := range r.Passives {
		if _, ok := reg.Reaction(reaction); !ok {
			return fmt.Errorf(ErrFmtUnknownReaction, ErrInvalidCatalog, r.ID, reaction)
		}
	}
	if r.Succeeds != "" && !roles[r.Succeeds] {
		return fmt.Errorf(ErrFmtUnknownRole, ErrInvalidCatalog, "role "+r.ID, r.Succeeds)
	}
	return nil
}
