package session

import (
	"context"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osse101/nightfall/internal/domain"
)

// Display renders the terminal state of a participant.
func (s *Session) Display(participantID string) (domain.Display, error) {
	var (
		out domain.Display
		err error
	)
	s.read(func(st *state) { out, err = st.display(participantID) })
	return out, err
}

// IdleScroll moves a participant's idle selection through the occupied icon
// slots, wrapping at either end.
func (s *Session) IdleScroll(ctx context.Context, participantID string, delta int) error {
	return s.do(ctx, "idle_scroll", func(st *state) error { return st.idleScroll(participantID, delta) })
}

func (s *state) idleScroll(id string, delta int) error {
	p, err := s.mustParticipant(id)
	if err != nil {
		return err
	}
	var occupied []int
	for i, slot := range s.iconSlots(p) {
		if slot.State != domain.IconEmpty {
			occupied = append(occupied, i)
		}
	}
	if len(occupied) == 0 {
		p.IdleScrollIndex = 0
		return nil
	}
	pos := 0
	for i, idx := range occupied {
		if idx == p.IdleScrollIndex {
			pos = i
			break
		}
	}
	n := len(occupied)
	p.IdleScrollIndex = occupied[((pos+delta)%n+n)%n]
	return nil
}

// idleItem returns the usable item under p's idle scroll, if any.
func (s *state) idleItem(p *domain.Participant) (string, bool) {
	slots := s.iconSlots(p)
	idx := s.idleIndex(p, slots)
	if idx == 0 || slots[idx].State != domain.IconActive {
		return "", false
	}
	return slots[idx].ID, true
}

// idleIndex is p's idle scroll index, reset to the role slot when the item
// it pointed at is gone.
func (s *state) idleIndex(p *domain.Participant, slots []domain.IconSlot) int {
	idx := p.IdleScrollIndex
	if idx < 0 || idx >= len(slots) || slots[idx].State == domain.IconEmpty {
		return 0
	}
	return idx
}

func (s *state) display(id string) (domain.Display, error) {
	p, err := s.mustParticipant(id)
	if err != nil {
		return domain.Display{}, err
	}

	slots := s.iconSlots(p)
	d := domain.Display{
		Line1:           domain.DisplayLine1{Left: p.Name, Right: s.phaseLabel()},
		LEDs:            domain.DisplayLEDs{Yes: domain.LEDOff, No: domain.LEDOff},
		Icons:           slots,
		IdleScrollIndex: s.idleIndex(p, slots),
	}

	switch {
	case s.phase == domain.PhaseLobby:
		d.StatusLED = domain.StatusLobby
		d.Line2 = domain.DisplayLine2{Text: DisplayWaiting, Style: domain.StyleWaiting}
		d.Line3 = domain.DisplayLine3{Text: fmt.Sprintf(DisplaySeatFmt, p.Seat)}
	case s.phase == domain.PhaseGameOver:
		d.StatusLED = domain.StatusGameOver
		d.Line2 = domain.DisplayLine2{Text: fmt.Sprintf(DisplayWinnerFmt, s.winner), Style: domain.StyleNormal}
		d.Line3 = domain.DisplayLine3{Text: s.roleName(p)}
	default:
		if inst := s.currentInstance(p); inst != nil {
			s.promptDisplay(&d, inst, p)
			break
		}
		if !p.Alive {
			d.StatusLED = domain.StatusDead
			d.Line2 = domain.DisplayLine2{Text: DisplayDead, Style: domain.StyleNormal}
			d.Line3 = domain.DisplayLine3{Text: p.DeathCause}
			break
		}
		d.StatusLED = domain.StatusDay
		if s.phase == domain.PhaseNight {
			d.StatusLED = domain.StatusNight
		}
		if d.IdleScrollIndex > 0 {
			s.itemDisplay(&d, slots[d.IdleScrollIndex])
			break
		}
		d.Line2 = domain.DisplayLine2{Text: s.roleName(p), Style: domain.StyleNormal}
		d.Line3 = domain.DisplayLine3{Text: s.catalog.TeamOf(p.Role)}
	}

	return shout(d), nil
}

func (s *state) promptDisplay(d *domain.Display, inst *domain.EventInstance, p *domain.Participant) {
	if r, ok := inst.Results[p.ID]; ok {
		if r == nil {
			d.StatusLED = domain.StatusAbstained
			d.Line2 = domain.DisplayLine2{Text: DisplayAbstained, Style: domain.StyleAbstained}
		} else {
			d.StatusLED = domain.StatusLocked
			d.Line2 = domain.DisplayLine2{Text: s.optionName(inst, *r), Style: domain.StyleLocked}
		}
		d.Line3 = domain.DisplayLine3{Text: DisplayWaitingOthers}
		return
	}

	name := s.eventName(inst.EventID)
	if inst.IsFlow() && s.flowRequest != nil {
		name = s.flowRequest.Name
	}
	d.StatusLED = domain.StatusVoting
	d.Line3 = domain.DisplayLine3{Left: DisplayPrev, Center: name, Right: DisplayNext}
	if p.Cursor == nil {
		d.Line2 = domain.DisplayLine2{Text: DisplayNoTargets, Style: domain.StyleNormal}
	} else {
		d.Line2 = domain.DisplayLine2{Text: s.optionName(inst, *p.Cursor), Style: domain.StyleNormal}
		d.LEDs.Yes = domain.LEDBright
		if inst.Runoff != nil {
			d.LEDs.Yes = domain.LEDPulse
		}
	}
	if inst.AllowAbstain {
		d.LEDs.No = domain.LEDDim
	}
}

func (s *state) phaseLabel() string {
	switch s.phase {
	case domain.PhaseLobby:
		return DisplayLobby
	case domain.PhaseGameOver:
		return DisplayGameOver
	case domain.PhaseNight:
		return fmt.Sprintf(DisplayNightFmt, s.day)
	default:
		return fmt.Sprintf(DisplayDayFmt, s.day)
	}
}

func (s *state) roleName(p *domain.Participant) string {
	if role, ok := s.catalog.Role(p.Role); ok {
		return role.Name
	}
	return ""
}

// itemDisplay shows the item under the idle scroll. YES glows dim when it can be used.
func (s *state) itemDisplay(d *domain.Display, slot domain.IconSlot) {
	name := slot.ID
	if def, ok := s.catalog.Item(slot.ID); ok {
		name = def.Name
	}
	d.Line2 = domain.DisplayLine2{Text: name, Style: domain.StyleNormal}
	if slot.State == domain.IconActive {
		d.LEDs.Yes = domain.LEDDim
		d.Line3 = domain.DisplayLine3{Left: DisplayUseItem}
		return
	}
	d.Line3 = domain.DisplayLine3{Text: DisplayPassiveItem}
}

// iconSlots fills the terminal's icon column: the role first, then usable
// items. Items that need an event to work are active while their holder lives.
func (s *state) iconSlots(p *domain.Participant) []domain.IconSlot {
	slots := make([]domain.IconSlot, MaxTerminalIcons)
	for i := range slots {
		slots[i] = domain.IconSlot{ID: domain.IconEmpty, State: domain.IconEmpty}
	}
	if p.Role != "" {
		slots[0] = domain.IconSlot{ID: p.Role, State: domain.IconInactive}
		if p.Alive {
			slots[0].State = domain.IconActive
		}
	}

	next := 1
	for _, it := range p.Inventory {
		if next == len(slots) {
			break
		}
		if !it.Usable() {
			continue
		}
		look := domain.IconInactive
		if def, ok := s.catalog.Item(it.ItemID); ok && p.Alive && s.inGame() &&
			def.Activation.Mode == domain.ActivationEvent {
			look = domain.IconActive
		}
		slots[next] = domain.IconSlot{ID: it.ItemID, State: look}
		next++
	}
	return slots
}

// shout upper-cases every text field for the terminal's character set.
// A Caser keeps state, so each call gets its own.
func shout(d domain.Display) domain.Display {
	upper := cases.Upper(language.Und)
	d.Line1.Left = upper.String(d.Line1.Left)
	d.Line1.Right = upper.String(d.Line1.Right)
	d.Line2.Text = upper.String(d.Line2.Text)
	d.Line3.Text = upper.String(d.Line3.Text)
	d.Line3.Left = upper.String(d.Line3.Left)
	d.Line3.Center = upper.String(d.Line3.Center)
	d.Line3.Right = upper.String(d.Line3.Right)
	return d
}
