package workouts

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-memory workout store. The assistant core only reads
// from a store; this implementation backs the service and the tests, real
// persistence lives in the main application.
type MemoryStore struct {
	mu            sync.RWMutex
	users         map[int]User
	exercises     map[int]Exercise
	workouts      map[int]Workout
	nextWorkoutID int
	nextSetID     int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[int]User),
		exercises:     make(map[int]Exercise),
		workouts:      make(map[int]Workout),
		nextWorkoutID: 1,
		nextSetID:     1,
	}
}

func (s *MemoryStore) AddUser(user User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

func (s *MemoryStore) AddExercise(exercise Exercise) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exercises[exercise.ID] = exercise
}

// AddWorkout stores a workout and assigns ids to it and its sets.
func (s *MemoryStore) AddWorkout(workout Workout) Workout {
	s.mu.Lock()
	defer s.mu.Unlock()

	workout.ID = s.nextWorkoutID
	s.nextWorkoutID++
	for i := range workout.Sets {
		workout.Sets[i].ID = s.nextSetID
		s.nextSetID++
		if workout.Sets[i].SetNumber == 0 {
			workout.Sets[i].SetNumber = i + 1
		}
	}

	s.workouts[workout.ID] = workout
	return workout
}

func (s *MemoryStore) GetUser(_ context.Context, id int) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (s *MemoryStore) GetExercise(_ context.Context, id int) (*Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exercise, ok := s.exercises[id]
	if !ok {
		return nil, ErrExerciseNotFound
	}
	return &exercise, nil
}

// ListWorkouts returns the user's workouts on or after the given date,
// ordered chronologically, with their sets attached.
func (s *MemoryStore) ListWorkouts(_ context.Context, userID int, since time.Time) ([]Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Workout
	for _, w := range s.workouts {
		if w.UserID != userID || w.Date.Before(since) {
			continue
		}
		wCopy := w
		wCopy.Sets = make([]Set, len(w.Sets))
		copy(wCopy.Sets, w.Sets)
		result = append(result, wCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Date.Equal(result[j].Date) {
			return result[i].ID < result[j].ID
		}
		return result[i].Date.Before(result[j].Date)
	})

	return result, nil
}

// ListExercisesByMuscleGroup returns the catalog exercises for a muscle
// group, ordered by name.
func (s *MemoryStore) ListExercisesByMuscleGroup(_ context.Context, muscleGroup string) ([]Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Exercise
	for _, ex := range s.exercises {
		if ex.MuscleGroup == muscleGroup {
			result = append(result, ex)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})

	return result, nil
}
