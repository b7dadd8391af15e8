package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tableflip.dev/kidoers/pkg/reward"
	"tableflip.dev/kidoers/pkg/routine"
)

// SetCompleted marks a task done or not done.
func (s *Service) SetCompleted(ctx context.Context, routineID, taskID string, done bool) (routine.Task, error) {
	if err := s.ready(); err != nil {
		return routine.Task{}, err
	}
	t, err := s.Persistence.Task(routineID, taskID)
	if err != nil {
		return routine.Task{}, notFound(err, "task", taskID)
	}
	if t.Completed == done {
		return t, nil
	}
	t.Completed = done
	if err := s.Persistence.StoreTask(t); err != nil {
		return routine.Task{}, err
	}
	s.logger().Info("task completion", zap.String("task", t.ID), zap.Bool("completed", done))
	return t, nil
}

// Completed counts the finished tasks of routineID.
func (s *Service) Completed(ctx context.Context, routineID string) (int, error) {
	tasks, err := s.Tasks(ctx, routineID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, t := range tasks {
		if t.Completed {
			n++
		}
	}
	return n, nil
}

// AddReward stores a reward the family earns after threshold completed tasks.
func (s *Service) AddReward(ctx context.Context, title, description string, threshold int) (reward.Reward, error) {
	if err := s.ready(); err != nil {
		return reward.Reward{}, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return reward.Reward{}, fmt.Errorf("%w: reward title required", ErrInvalid)
	}
	if threshold <= 0 {
		return reward.Reward{}, fmt.Errorf("%w: reward threshold must be positive, got %d", ErrInvalid, threshold)
	}
	r := reward.Reward{
		ID:          s.id(),
		FamilyID:    s.family(),
		Title:       title,
		Description: strings.TrimSpace(description),
		Threshold:   threshold,
		CreatedAt:   s.now(),
	}
	if err := s.Persistence.StoreReward(r); err != nil {
		return reward.Reward{}, err
	}
	s.logger().Info("reward added", zap.String("reward", r.ID), zap.Int("threshold", threshold))
	return r, nil
}

// RemoveReward deletes a reward by id.
func (s *Service) RemoveReward(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	return notFound(s.Persistence.DeleteReward(s.family(), id), "reward", id)
}

// Rewards measures every reward of the family against the tasks completed in
// the current routine. The count is returned alongside.
func (s *Service) Rewards(ctx context.Context) ([]reward.Progress, int, error) {
	r, err := s.EnsureRoutine(ctx)
	if err != nil {
		return nil, 0, err
	}
	done, err := s.Completed(ctx, r.ID)
	if err != nil {
		return nil, 0, err
	}
	return reward.MeasureAll(s.Persistence.Rewards(ctx, s.family()), done), done, nil
}
