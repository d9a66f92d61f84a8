package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fitlog-app/fitlog/internal/store"
)

// DeleteDay removes a day together with its workouts and chat messages.
// Goals and achievements are left untouched.
func (s *Set) DeleteDay(ctx context.Context, dayID string) error {
	day, err := s.Days.GetByID(ctx, dayID)
	if err != nil {
		return err
	}

	for _, w := range s.Workouts.ListByDay(ctx, dayID) {
		if err := s.Workouts.Delete(ctx, w.ID); err != nil {
			return fmt.Errorf("failed to delete workout %s: %w", w.ID, err)
		}
	}
	if err := s.Messages.DeleteByDay(ctx, dayID); err != nil {
		return fmt.Errorf("failed to delete messages of day %s: %w", dayID, err)
	}

	st := s.Days.store
	if err := st.Delete(ctx, dayKey(dayID), dayWorkoutsKey(dayID), userDayDateKey(day.UserID, day.Date)); err != nil {
		return err
	}
	return st.IndexRemove(ctx, userDaysKey(day.UserID), dayID)
}

// PurgeUser removes every record owned by a user: days with their cascades,
// goals, achievements, equipment, chat settings, and finally the user
// itself. Session revocation is the caller's job; the background
// clear-user-data task does both.
func (s *Set) PurgeUser(ctx context.Context, userID string) error {
	for _, day := range s.Days.ListByUser(ctx, userID) {
		if err := s.DeleteDay(ctx, day.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("failed to delete day %s: %w", day.ID, err)
		}
	}
	for _, g := range s.Goals.ListByUser(ctx, userID) {
		if err := s.Goals.Delete(ctx, g.ID); err != nil {
			return fmt.Errorf("failed to delete goal %s: %w", g.ID, err)
		}
	}
	for _, a := range s.Achievements.ListByUser(ctx, userID) {
		if err := s.Achievements.Delete(ctx, a.ID); err != nil {
			return fmt.Errorf("failed to delete achievement %s: %w", a.ID, err)
		}
	}
	for _, e := range s.Equipment.ListByUser(ctx, userID) {
		if err := s.Equipment.Delete(ctx, e.ID); err != nil {
			return fmt.Errorf("failed to delete equipment %s: %w", e.ID, err)
		}
	}
	if err := s.ChatSettings.Delete(ctx, userID); err != nil {
		return err
	}

	st := s.Users.store
	if err := st.Delete(ctx, userDaysKey(userID), userGoalsKey(userID), userAchievementsKey(userID),
		userWorkoutsKey(userID), userEquipmentKey(userID)); err != nil {
		return err
	}
	return s.Users.Delete(ctx, userID)
}
