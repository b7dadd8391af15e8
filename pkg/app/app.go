package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tableflip.dev/kidoers/pkg/family"
	"tableflip.dev/kidoers/pkg/routine"
	"tableflip.dev/kidoers/pkg/store"
)

// DefaultRoutineName names the draft created when a family has none.
const DefaultRoutineName = "My Routine"

var (
	ErrNotFound      = errors.New("app: not found")
	ErrNoPersistence = errors.New("app: no persistence configured")
	ErrInvalid       = errors.New("app: invalid request")
)

// Service provides the family and routine operations shared by the CLI and
// the apply coordinator.
type Service struct {
	Persistence store.Persistence
	FamilyID    string
	// RoutineID pins the routine EnsureRoutine returns. Empty picks the most
	// recently used routine that is not archived.
	RoutineID string

	Log   *zap.Logger
	Now   func() time.Time
	NewID func() string
}

func (s *Service) ready() error {
	if s.Persistence == nil {
		return ErrNoPersistence
	}
	return nil
}

func (s *Service) family() string {
	if s.FamilyID == "" {
		return "default"
	}
	return s.FamilyID
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now()
}

func (s *Service) id() string {
	if s.NewID == nil {
		return uuid.NewString()
	}
	return s.NewID()
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.Persistence.Watch(ctx)
}

// Members returns the roster in display order.
func (s *Service) Members(ctx context.Context) (family.Roster, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return family.Roster(s.Persistence.Members(ctx, s.family())), nil
}

// FindMember resolves ref as a member id or a case-insensitive name.
func (s *Service) FindMember(ctx context.Context, ref string) (family.Member, error) {
	roster, err := s.Members(ctx)
	if err != nil {
		return family.Member{}, err
	}
	if m, ok := roster.ByID(ref); ok {
		return m, nil
	}
	for _, m := range roster {
		if strings.EqualFold(m.Name, strings.TrimSpace(ref)) {
			return m, nil
		}
	}
	return family.Member{}, fmt.Errorf("%w: member %q", ErrNotFound, ref)
}

// AddMember appends a member to the roster.
func (s *Service) AddMember(ctx context.Context, m family.Member) (family.Member, error) {
	roster, err := s.Members(ctx)
	if err != nil {
		return family.Member{}, err
	}
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return family.Member{}, fmt.Errorf("%w: member name required", ErrInvalid)
	}
	if m.Role == "" {
		m.Role = family.Child
	}
	m.ID = s.id()
	m.FamilyID = s.family()
	m.Position = len(roster) + 1
	if n := len(roster); n > 0 && roster[n-1].Position >= m.Position {
		m.Position = roster[n-1].Position + 1
	}
	if err := s.Persistence.StoreMember(m); err != nil {
		return family.Member{}, err
	}
	s.logger().Info("member added", zap.String("member", m.ID), zap.String("role", string(m.Role)))
	return m, nil
}

// RemoveMember deletes a member and every task and group assigned to them.
func (s *Service) RemoveMember(ctx context.Context, ref string) error {
	m, err := s.FindMember(ctx, ref)
	if err != nil {
		return err
	}
	for _, r := range s.Persistence.Routines(ctx, s.family()) {
		for _, t := range s.Persistence.Tasks(ctx, r.ID) {
			if t.MemberID == m.ID {
				if err := s.Persistence.DeleteTask(r.ID, t.ID); err != nil {
					return err
				}
			}
		}
		for _, g := range s.Persistence.Groups(ctx, r.ID) {
			if g.MemberID == m.ID {
				if err := s.Persistence.DeleteGroup(r.ID, g.ID); err != nil {
					return err
				}
			}
		}
	}
	return s.Persistence.DeleteMember(s.family(), m.ID)
}

// Routines lists the family's routines, oldest first.
func (s *Service) Routines(ctx context.Context) ([]routine.Routine, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.Persistence.Routines(ctx, s.family()), nil
}

// CreateRoutine stores a new draft routine.
func (s *Service) CreateRoutine(ctx context.Context, name string) (routine.Routine, error) {
	if err := s.ready(); err != nil {
		return routine.Routine{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultRoutineName
	}
	now := s.now()
	r := routine.Routine{
		ID:        s.id(),
		FamilyID:  s.family(),
		Name:      name,
		Status:    routine.Draft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Persistence.StoreRoutine(r); err != nil {
		return routine.Routine{}, err
	}
	s.logger().Info("routine created", zap.String("routine", r.ID))
	return r, nil
}

// FindRoutine resolves ref as a routine id or a case-insensitive name.
func (s *Service) FindRoutine(ctx context.Context, ref string) (routine.Routine, error) {
	all, err := s.Routines(ctx)
	if err != nil {
		return routine.Routine{}, err
	}
	for _, r := range all {
		if r.ID == ref {
			return r, nil
		}
	}
	for _, r := range all {
		if strings.EqualFold(r.Name, strings.TrimSpace(ref)) {
			return r, nil
		}
	}
	return routine.Routine{}, fmt.Errorf("%w: routine %q", ErrNotFound, ref)
}

// UseRoutine makes ref the routine EnsureRoutine picks from now on.
func (s *Service) UseRoutine(ctx context.Context, ref string) (routine.Routine, error) {
	r, err := s.FindRoutine(ctx, ref)
	if err != nil {
		return routine.Routine{}, err
	}
	r.UpdatedAt = s.now()
	if err := s.Persistence.StoreRoutine(r); err != nil {
		return routine.Routine{}, err
	}
	s.RoutineID = r.ID
	return r, nil
}

// SetStatus moves ref to status.
func (s *Service) SetStatus(ctx context.Context, ref string, status routine.Status) (routine.Routine, error) {
	r, err := s.FindRoutine(ctx, ref)
	if err != nil {
		return routine.Routine{}, err
	}
	r.Status = status
	r.UpdatedAt = s.now()
	if err := s.Persistence.StoreRoutine(r); err != nil {
		return routine.Routine{}, err
	}
	s.logger().Info("routine status", zap.String("routine", r.ID), zap.String("status", string(status)))
	return r, nil
}

// EnsureRoutine returns the routine to work on, creating a draft when the
// family has none.
func (s *Service) EnsureRoutine(ctx context.Context) (routine.Routine, error) {
	if err := s.ready(); err != nil {
		return routine.Routine{}, err
	}
	if s.RoutineID != "" {
		r, err := s.Persistence.Routine(s.family(), s.RoutineID)
		if err == nil {
			return r, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return routine.Routine{}, err
		}
	}
	var candidates []routine.Routine
	for _, r := range s.Persistence.Routines(ctx, s.family()) {
		if r.Status != routine.Archived {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		r, err := s.CreateRoutine(ctx, DefaultRoutineName)
		if err != nil {
			return routine.Routine{}, err
		}
		s.RoutineID = r.ID
		return r, nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].UpdatedAt.After(candidates[j].UpdatedAt)
	})
	s.RoutineID = candidates[0].ID
	return candidates[0], nil
}

// Tasks lists the tasks stored for routineID.
func (s *Service) Tasks(ctx context.Context, routineID string) ([]routine.Task, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.Persistence.Tasks(ctx, routineID), nil
}

// Templates lists the recurring templates of routineID.
func (s *Service) Templates(ctx context.Context, routineID string) ([]routine.RecurringTemplate, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.Persistence.Templates(ctx, routineID), nil
}
