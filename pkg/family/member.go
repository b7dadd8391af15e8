// Package family holds the family roster and the member selection rules used
// when applying tasks to people.
package family

import (
	"fmt"
	"strings"
)

// Role is a member's role in the family.
type Role string

const (
	Parent Role = "parent"
	Child  Role = "child"
)

// ParseRole converts a string to a Role. Empty input defaults to Child.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case "", Child, "kid":
		return Child, nil
	case Parent:
		return Parent, nil
	}
	return "", fmt.Errorf("family: unknown role %q", raw)
}

// Member is one person in the family.
type Member struct {
	ID           string `json:"id" yaml:"id"`
	FamilyID     string `json:"family_id" yaml:"family_id"`
	Name         string `json:"name" yaml:"name"`
	Role         Role   `json:"role" yaml:"role"`
	Color        string `json:"color,omitempty" yaml:"color,omitempty"`
	Age          *int   `json:"age,omitempty" yaml:"age,omitempty"`
	CalmMode     bool   `json:"calm_mode,omitempty" yaml:"calm_mode,omitempty"`
	TextToSpeech bool   `json:"text_to_speech,omitempty" yaml:"text_to_speech,omitempty"`
	// Position is the roster position; the roster is sorted by it.
	Position int `json:"position" yaml:"position"`
}

// Roster is the family in canonical display order.
type Roster []Member

// ByID returns the member with the given id.
func (r Roster) ByID(id string) (Member, bool) {
	for _, m := range r {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// Has reports whether id is on the roster.
func (r Roster) Has(id string) bool {
	_, ok := r.ByID(id)
	return ok
}

// Name returns the member name or "Unknown".
func (r Roster) Name(id string) string {
	if m, ok := r.ByID(id); ok {
		return m.Name
	}
	return "Unknown"
}

// WithRole filters the roster by role, keeping roster order.
func (r Roster) WithRole(role Role) Roster {
	out := make(Roster, 0, len(r))
	for _, m := range r {
		if m.Role == role {
			out = append(out, m)
		}
	}
	return out
}

// IDs returns the member ids in roster order.
func (r Roster) IDs() []string {
	out := make([]string, len(r))
	for i, m := range r {
		out[i] = m.ID
	}
	return out
}

// Filter keeps the members whose id is in ids. The result is always in roster
// order; the order of ids does not matter and unknown ids are ignored.
func (r Roster) Filter(ids []string) Roster {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make(Roster, 0, len(ids))
	for _, m := range r {
		if _, ok := want[m.ID]; ok {
			out = append(out, m)
		}
	}
	return out
}
