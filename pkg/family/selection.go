package family

import "sync"

// Apply-to option ids offered after a drop.
const (
	ApplyNone      = "none"
	ApplyAllKids   = "all-kids"
	ApplyAllParent = "all-parents"
	ApplyAllFamily = "all-family"
)

// ApplyOptions lists the fixed apply-to choices with their labels.
func ApplyOptions() [][2]string {
	return [][2]string{
		{ApplyNone, "This member only"},
		{ApplyAllKids, "All kids"},
		{ApplyAllParent, "All parents"},
		{ApplyAllFamily, "All family"},
	}
}

// Selection is the set of selected members over a roster. Selection is a
// predicate on the roster, never an independent sequence.
type Selection struct {
	mu       sync.RWMutex
	roster   Roster
	selected map[string]struct{}
}

// NewSelection returns a selection over roster with ids selected.
func NewSelection(roster Roster, ids ...string) *Selection {
	s := &Selection{roster: append(Roster(nil), roster...), selected: make(map[string]struct{})}
	for _, id := range ids {
		s.selected[id] = struct{}{}
	}
	return s
}

// Roster returns the canonical roster.
func (s *Selection) Roster() Roster {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(Roster(nil), s.roster...)
}

// SetRoster replaces the roster, keeping the selection of surviving ids.
func (s *Selection) SetRoster(roster Roster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roster = append(Roster(nil), roster...)
}

// Select adds ids to the selection.
func (s *Selection) Select(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.selected[id] = struct{}{}
	}
}

// Deselect removes ids from the selection.
func (s *Selection) Deselect(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.selected, id)
	}
}

// Toggle flips the selection of id.
func (s *Selection) Toggle(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return
	}
	s.selected[id] = struct{}{}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]struct{})
}

// IsSelected reports whether id is selected.
func (s *Selection) IsSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.selected[id]
	return ok
}

// SelectedIDs returns the selected ids in roster order.
func (s *Selection) SelectedIDs() []string {
	return s.Ordered().IDs()
}

// Ordered returns the selected members in roster order.
func (s *Selection) Ordered() Roster {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(Roster, 0, len(s.selected))
	for _, m := range s.roster {
		if _, ok := s.selected[m.ID]; ok {
			out = append(out, m)
		}
	}
	return out
}

// ResolveTargets picks the members an applied task goes to. applyTo is one of
// the Apply* ids or a member id; anything else falls back to the explicit
// selection and then to the drop member. The result is in roster order.
func ResolveTargets(roster Roster, applyTo, dropMemberID string, selected []string) []string {
	switch applyTo {
	case ApplyNone:
		return roster.Filter([]string{dropMemberID}).IDs()
	case ApplyAllKids:
		return roster.WithRole(Child).IDs()
	case ApplyAllParent:
		return roster.WithRole(Parent).IDs()
	case ApplyAllFamily:
		return roster.IDs()
	}
	if roster.Has(applyTo) {
		return []string{applyTo}
	}
	if picked := roster.Filter(selected); len(picked) > 0 {
		return picked.IDs()
	}
	return roster.Filter([]string{dropMemberID}).IDs()
}
