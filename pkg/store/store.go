package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"tableflip.dev/kidoers/pkg/family"
	"tableflip.dev/kidoers/pkg/reward"
	"tableflip.dev/kidoers/pkg/routine"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("store: not found")

// Kind names a record bucket.
type Kind string

const (
	KindMember   Kind = "member"
	KindRoutine  Kind = "routine"
	KindTask     Kind = "task"
	KindTemplate Kind = "template"
	KindGroup    Kind = "group"
	KindReward   Kind = "reward"
)

// Persistence defines the persistence contract for family and routine
// records. Members, routines and rewards are scoped by family, everything
// else by routine.
type Persistence interface {
	Members(ctx context.Context, familyID string) []family.Member
	StoreMember(m family.Member) error
	DeleteMember(familyID, id string) error

	Routines(ctx context.Context, familyID string) []routine.Routine
	Routine(familyID, id string) (routine.Routine, error)
	StoreRoutine(r routine.Routine) error

	Tasks(ctx context.Context, routineID string) []routine.Task
	Task(routineID, id string) (routine.Task, error)
	StoreTask(t routine.Task) error
	DeleteTask(routineID, id string) error

	Templates(ctx context.Context, routineID string) []routine.RecurringTemplate
	Template(routineID, id string) (routine.RecurringTemplate, error)
	StoreTemplate(t routine.RecurringTemplate) error
	DeleteTemplate(routineID, id string) error

	Groups(ctx context.Context, routineID string) []routine.Group
	StoreGroup(g routine.Group) error
	DeleteGroup(routineID, id string) error

	Rewards(ctx context.Context, familyID string) []reward.Reward
	StoreReward(r reward.Reward) error
	DeleteReward(familyID, id string) error

	Watch(ctx context.Context) (<-chan Event, error)
}

// kv is the byte store underneath. *diskv.Diskv satisfies it.
type kv interface {
	Read(key string) ([]byte, error)
	Write(key string, val []byte) error
	Erase(key string) error
	Keys(cancel <-chan struct{}) <-chan string
}

type watcher interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

type records struct {
	kv kv
	w  watcher
}

func (p *records) Watch(ctx context.Context) (<-chan Event, error) {
	return p.w.Watch(ctx)
}

// toKey makes `kind:scope:id`. Scopes are encoded so any id is path safe.
func toKey(kind Kind, scope, id string) string {
	return fmt.Sprintf("%s:%s:%s", kind, toScope(scope), id)
}

// emptyScope stands in for "" so every key has a scope directory.
const emptyScope = "_"

func toScope(s string) string {
	if s == "" {
		return emptyScope
	}
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func fromScope(s string) string {
	if s == emptyScope {
		return ""
	}
	scope, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return fmt.Sprintf("fromScope: %s", err)
	}
	return string(scope)
}

func put(p *records, kind Kind, scope, id string, v any) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("store: %s id required", kind)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.kv.Write(toKey(kind, scope, id), data)
}

func get[T any](p *records, kind Kind, scope, id string) (T, error) {
	var out T
	val, err := p.kv.Read(toKey(kind, scope, id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
		}
		return out, err
	}
	if err := json.Unmarshal(val, &out); err != nil {
		return out, fmt.Errorf("store: decode %s %s: %w", kind, id, err)
	}
	return out, nil
}

func erase(p *records, kind Kind, scope, id string) error {
	if err := p.kv.Erase(toKey(kind, scope, id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
		}
		return err
	}
	return nil
}

func list[T any](ctx context.Context, p *records, kind Kind, scope string) []T {
	prefix := fmt.Sprintf("%s:%s:", kind, toScope(scope))
	all := make([]T, 0)
	for key := range p.kv.Keys(ctx.Done()) {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		val, err := p.kv.Read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		var v T
		if err := json.Unmarshal(val, &v); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		all = append(all, v)
	}
	return all
}

func (p *records) Members(ctx context.Context, familyID string) []family.Member {
	all := list[family.Member](ctx, p, KindMember, familyID)
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Position != all[j].Position {
			return all[i].Position < all[j].Position
		}
		return all[i].ID < all[j].ID
	})
	return all
}

func (p *records) StoreMember(m family.Member) error {
	return put(p, KindMember, m.FamilyID, m.ID, m)
}

func (p *records) DeleteMember(familyID, id string) error {
	return erase(p, KindMember, familyID, id)
}

func (p *records) Routines(ctx context.Context, familyID string) []routine.Routine {
	all := list[routine.Routine](ctx, p, KindRoutine, familyID)
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return all
}

func (p *records) Routine(familyID, id string) (routine.Routine, error) {
	return get[routine.Routine](p, KindRoutine, familyID, id)
}

func (p *records) StoreRoutine(r routine.Routine) error {
	return put(p, KindRoutine, r.FamilyID, r.ID, r)
}

func (p *records) Tasks(ctx context.Context, routineID string) []routine.Task {
	all := list[routine.Task](ctx, p, KindTask, routineID)
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].OrderIndex != all[j].OrderIndex {
			return all[i].OrderIndex < all[j].OrderIndex
		}
		return all[i].ID < all[j].ID
	})
	return all
}

func (p *records) Task(routineID, id string) (routine.Task, error) {
	return get[routine.Task](p, KindTask, routineID, id)
}

func (p *records) StoreTask(t routine.Task) error {
	return put(p, KindTask, t.RoutineID, t.ID, t)
}

func (p *records) DeleteTask(routineID, id string) error {
	return erase(p, KindTask, routineID, id)
}

func (p *records) Templates(ctx context.Context, routineID string) []routine.RecurringTemplate {
	all := list[routine.RecurringTemplate](ctx, p, KindTemplate, routineID)
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return all
}

func (p *records) Template(routineID, id string) (routine.RecurringTemplate, error) {
	return get[routine.RecurringTemplate](p, KindTemplate, routineID, id)
}

func (p *records) StoreTemplate(t routine.RecurringTemplate) error {
	return put(p, KindTemplate, t.RoutineID, t.ID, t)
}

func (p *records) DeleteTemplate(routineID, id string) error {
	return erase(p, KindTemplate, routineID, id)
}

func (p *records) Groups(ctx context.Context, routineID string) []routine.Group {
	all := list[routine.Group](ctx, p, KindGroup, routineID)
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].ID < all[j].ID
	})
	return all
}

func (p *records) StoreGroup(g routine.Group) error {
	return put(p, KindGroup, g.RoutineID, g.ID, g)
}

func (p *records) DeleteGroup(routineID, id string) error {
	return erase(p, KindGroup, routineID, id)
}

func (p *records) Rewards(ctx context.Context, familyID string) []reward.Reward {
	all := list[reward.Reward](ctx, p, KindReward, familyID)
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Threshold != all[j].Threshold {
			return all[i].Threshold < all[j].Threshold
		}
		return all[i].ID < all[j].ID
	})
	return all
}

func (p *records) StoreReward(r reward.Reward) error {
	return put(p, KindReward, r.FamilyID, r.ID, r)
}

func (p *records) DeleteReward(familyID, id string) error {
	return erase(p, KindReward, familyID, id)
}
