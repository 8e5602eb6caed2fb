package catalog

import (
	"github.com/osse101/nightfall/internal/domain"
)

// View is the read-only session state visible to behaviors.
// Behaviors must not mutate the participants they receive.
type View interface {
	Phase() domain.Phase
	Day() int
	Participant(id string) (*domain.Participant, bool)
	// Living returns living participants in seat order.
	Living() []*domain.Participant
	Catalog() *Catalog
}

// Input is what a behavior resolves.
type Input struct {
	Event    *domain.EventDef
	Instance *domain.EventInstance
	// Winner is the tally winner for majority events, "" when nobody received a vote.
	Winner string
	Tally  map[string]int
}

// Behavior is the strategy object bound to an event definition
type Behavior interface {
	// Eligible is the participant predicate applied to role-granted actors.
	Eligible(v View, ev *domain.EventDef, p *domain.Participant) bool
	// Targets returns the legal target ids for actor, in seat order.
	Targets(v View, ev *domain.EventDef, actor *domain.Participant) []string
	// Resolve maps the collected choices to a Resolution without mutating the session.
	Resolve(v View, in Input) *domain.Resolution
}

// SelectionEffect is implemented by behaviors that react immediately to a recorded choice.
type SelectionEffect interface {
	OnSelect(v View, inst *domain.EventInstance, actorID string, target *string) []domain.PrivateResult
}

// Reaction runs when a participant dies and returns promotions to apply.
type Reaction func(v View, dead *domain.Participant) []domain.Promotion

// Registry maps behavior keys and reaction names to implementations
type Registry struct {
	behaviors map[string]Behavior
	reactions map[string]Reaction
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		behaviors: make(map[string]Behavior),
		reactions: make(map[string]Reaction),
	}
}

// NewDefaultRegistry creates a registry with the built-in behaviors and reactions.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(BehaviorEliminate, &EliminateBehavior{})
	r.Register(BehaviorKill, &KillBehavior{})
	r.Register(BehaviorInvestigate, &InvestigateBehavior{})
	r.Register(BehaviorProtect, &ProtectBehavior{})
	r.Register(BehaviorLink, &LinkBehavior{})
	r.Register(BehaviorBlock, &BlockBehavior{})
	r.Register(BehaviorShoot, &ShootBehavior{})
	r.RegisterReaction(domain.ReactionSuccession, Succession)
	// Last words is driven by the flow engine; the name is registered so catalogs can reference it.
	r.RegisterReaction(domain.ReactionLastWords, func(View, *domain.Participant) []domain.Promotion { return nil })
	return r
}

// Register binds a behavior key.
func (r *Registry) Register(key string, b Behavior) {
	r.behaviors[key] = b
}

// RegisterReaction binds a reaction name.
func (r *Registry) RegisterReaction(name string, fn Reaction) {
	r.reactions[name] = fn
}

// Get returns the behavior for key.
func (r *Registry) Get(key string) (Behavior, bool) {
	b, ok := r.behaviors[key]
	return b, ok
}

// Reaction returns the reaction for name.
func (r *Registry) Reaction(name string) (Reaction, bool) {
	fn, ok := r.reactions[name]
	return fn, ok
}
