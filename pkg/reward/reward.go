// Package reward tracks family rewards earned by completing chores.
package reward

import "time"

// Reward is earned once the family has completed Threshold chores.
type Reward struct {
	ID          string    `json:"id" yaml:"id"`
	FamilyID    string    `json:"family_id" yaml:"family_id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Threshold   int       `json:"threshold" yaml:"threshold"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// Progress is how far the family is toward one reward.
type Progress struct {
	Reward    Reward `json:"reward" yaml:"reward"`
	Completed int    `json:"completed" yaml:"completed"`
	Remaining int    `json:"remaining" yaml:"remaining"`
	Percent   int    `json:"percent" yaml:"percent"`
	Earned    bool   `json:"earned" yaml:"earned"`
}

// Measure computes progress for r given the number of completed chores.
// Percent is capped at 100.
func Measure(r Reward, completed int) Progress {
	p := Progress{Reward: r, Completed: completed}
	if r.Threshold <= 0 || completed >= r.Threshold {
		p.Earned = true
		p.Percent = 100
		return p
	}
	p.Remaining = r.Threshold - completed
	p.Percent = completed * 100 / r.Threshold
	return p
}

// MeasureAll measures every reward against the same count.
func MeasureAll(rewards []Reward, completed int) []Progress {
	out := make([]Progress, len(rewards))
	for i, r := range rewards {
		out[i] = Measure(r, completed)
	}
	return out
}
