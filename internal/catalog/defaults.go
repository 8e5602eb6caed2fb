package catalog

import "github.com/osse101/nightfall/internal/domain"

// Built-in ids
const (
	TeamVillage    = "village"
	TeamWerewolves = "werewolves"

	RoleVillager   = "villager"
	RoleWerewolf   = "werewolf"
	RoleSeer       = "seer"
	RoleDoctor     = "doctor"
	RoleHunter     = "hunter"
	RoleJudge      = "judge"
	RoleCupid      = "cupid"
	RoleBouncer    = "bouncer"
	RoleApprentice = "apprentice"

	EventVote        = "vote"
	EventKill        = "kill"
	EventInvestigate = "investigate"
	EventProtect     = "protect"
	EventLink        = "link"
	EventBlock       = "block"
	EventShoot       = "shoot"

	ItemPistol = "pistol"
	ItemLens   = "lens"
	ItemGavel  = "gavel"
	ItemVest   = "vest"
)

var (
	day   = []domain.Phase{domain.PhaseDay}
	night = []domain.Phase{domain.PhaseNight}
)

// DefaultConfig returns the built-in catalog definition.
func DefaultConfig() *Config {
	return &Config{
		Version:     "1.0",
		Description: "Built-in werewolf catalog",
		Teams:       domain.Teams{Majority: TeamVillage, Aggressor: TeamWerewolves},
		Events: []domain.EventDef{
			{ID: EventLink, Name: "Bind Fates", Description: "Choose a player to share your fate", Phases: day, Priority: 1,
				Aggregation: domain.AggregationIndividual, PlayerResolved: true, Behavior: BehaviorLink},
			{ID: EventShoot, Name: "Shoot", Description: "Fire your pistol at a player", Phases: day, Priority: 40,
				Aggregation: domain.AggregationIndividual, AllowAbstain: true, PlayerResolved: true, Behavior: BehaviorShoot},
			{ID: EventVote, Name: "Vote", Description: "Choose a player to eliminate", Phases: day, Priority: 50,
				Aggregation: domain.AggregationMajority, AllowAbstain: true, Timer: 120, Behavior: BehaviorEliminate},
			{ID: EventBlock, Name: "Block", Description: "Choose a player to stop from acting tonight", Phases: night, Priority: 5,
				Aggregation: domain.AggregationIndividual, AllowAbstain: true, PlayerResolved: true, Timer: 60, Behavior: BehaviorBlock},
			{ID: EventProtect, Name: "Protect", Description: "Choose a player to protect tonight", Phases: night, Priority: 10,
				Aggregation: domain.AggregationIndividual, AllowAbstain: true, PlayerResolved: true, Timer: 60, Behavior: BehaviorProtect},
			{ID: EventInvestigate, Name: "Investigate", Description: "Choose a player to learn their team", Phases: night, Priority: 15,
				Aggregation: domain.AggregationIndividual, AllowAbstain: true, PlayerResolved: true, Timer: 60, Behavior: BehaviorInvestigate},
			{ID: EventKill, Name: "Hunt", Description: "Choose a player to kill", Phases: night, Priority: 20,
				Aggregation: domain.AggregationMajority, AllowAbstain: true, Timer: 90, Behavior: BehaviorKill},
		},
		Roles: []domain.RoleDef{
			{ID: RoleVillager, Name: "Villager", Team: TeamVillage, Events: []string{EventVote}},
			{ID: RoleWerewolf, Name: "Werewolf", Team: TeamWerewolves, Events: []string{EventVote, EventKill}},
			{ID: RoleSeer, Name: "Seer", Team: TeamVillage, Events: []string{EventVote, EventInvestigate}},
			{ID: RoleDoctor, Name: "Doctor", Team: TeamVillage, Events: []string{EventVote, EventProtect},
				TargetOverrides: map[string]domain.TargetOverride{EventProtect: {Self: true}}},
			{ID: RoleHunter, Name: "Hunter", Team: TeamVillage, Events: []string{EventVote},
				Passives: map[string]string{domain.PassiveOnDeath: domain.ReactionLastWords}},
			{ID: RoleJudge, Name: "Judge", Team: TeamVillage, Events: []string{EventVote},
				Capabilities: []string{domain.CapabilityOverseer}},
			{ID: RoleCupid, Name: "Cupid", Team: TeamVillage, Events: []string{EventVote, EventLink}},
			{ID: RoleBouncer, Name: "Bouncer", Team: TeamVillage, Events: []string{EventVote, EventBlock}},
			{ID: RoleApprentice, Name: "Apprentice", Team: TeamVillage, Events: []string{EventVote},
				Passives: map[string]string{domain.PassiveOnOtherDeath: domain.ReactionSuccession}, Succeeds: RoleSeer},
		},
		Items: []domain.ItemDef{
			{ID: ItemPistol, Name: "Pistol", MaxUses: 1, Activation: domain.ItemActivation{Mode: domain.ActivationEvent, Event: EventShoot}},
			{ID: ItemLens, Name: "Lens", MaxUses: 1, Activation: domain.ItemActivation{Mode: domain.ActivationEvent, Event: EventInvestigate}},
			{ID: ItemGavel, Name: "Gavel", MaxUses: 1, Activation: domain.ItemActivation{Mode: domain.ActivationPassive, Capability: domain.CapabilityPardon}},
			{ID: ItemVest, Name: "Vest", MaxUses: 1, Activation: domain.ItemActivation{Mode: domain.ActivationPassive, Capability: domain.CapabilityArmor}},
		},
		Composition: []CompositionRule{
			{Role: RoleWerewolf, PerPlayers: 4},
			{Role: RoleSeer, MinPlayers: 5, Count: 1},
			{Role: RoleDoctor, MinPlayers: 6, Count: 1},
			{Role: RoleHunter, MinPlayers: 7, Count: 1},
			{Role: RoleVillager},
		},
	}
}

// Default builds the built-in catalog with the default behavior registry.
func Default() *Catalog {
	c, err := Build(DefaultConfig(), NewDefaultRegistry())
	if err != nil {
		panic("built-in catalog is invalid: " + err.Error())
	}
	return c
}
