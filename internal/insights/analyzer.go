package insights

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fittrackr/assistant/internal/telemetry/tracing"
	"github.com/fittrackr/assistant/internal/workouts"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=insights_test

type workoutsStore interface {
	ListWorkouts(ctx context.Context, userID int, since time.Time) ([]workouts.Workout, error)
	GetExercise(ctx context.Context, id int) (*workouts.Exercise, error)
	GetUser(ctx context.Context, id int) (*workouts.User, error)
}

const (
	weeklyLookbackDays  = 90
	monthlyLookbackDays = 30
)

// WeeklyFeature aggregates one ISO week of training. Weeks without any
// logged set are omitted, not zero-filled.
type WeeklyFeature struct {
	Week     string  `json:"week"`
	Volume   float64 `json:"volume"`
	Sessions int     `json:"sessions"`
	AvgReps  float64 `json:"avgReps"`
}

// MonthlySummary is the 30-day training overview.
type MonthlySummary struct {
	Workouts30d    int     `json:"workouts30d"`
	Volume30d      float64 `json:"volume30d"`
	FavoriteMuscle string  `json:"favoriteMuscle,omitempty"`
	WeakMuscle     string  `json:"weakMuscle,omitempty"`
}

// Analyzer computes weekly and monthly aggregates from raw workout data.
// Nothing is cached, every call recomputes from the store.
type Analyzer struct {
	store workoutsStore
}

func NewAnalyzer(store workoutsStore) *Analyzer {
	return &Analyzer{
		store: store,
	}
}

type weekBucket struct {
	year     int
	week     int
	volume   float64
	sessions int
	repsSum  int
	repSets  int
	setCount int
}

// WeeklyFeatures groups the trailing 90 days of sets by ISO week and
// returns one feature row per week, in chronological order.
func (a *Analyzer) WeeklyFeatures(ctx context.Context, userID int) (_ []WeeklyFeature, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "assistant.insights.weeklyFeatures")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	since := time.Now().UTC().AddDate(0, 0, -weeklyLookbackDays)
	workoutList, err := a.store.ListWorkouts(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	buckets := make(map[[2]int]*weekBucket)
	for _, w := range workoutList {
		year, week := w.Date.ISOWeek()
		key := [2]int{year, week}
		bucket, ok := buckets[key]
		if !ok {
			bucket = &weekBucket{year: year, week: week}
			buckets[key] = bucket
		}
		bucket.sessions++
		for _, s := range w.Sets {
			bucket.setCount++
			bucket.volume += s.Volume()
			if s.Reps > 0 {
				bucket.repsSum += s.Reps
				bucket.repSets++
			}
		}
	}

	var ordered []*weekBucket
	for _, bucket := range buckets {
		if bucket.setCount == 0 {
			continue
		}
		ordered = append(ordered, bucket)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].year != ordered[j].year {
			return ordered[i].year < ordered[j].year
		}
		return ordered[i].week < ordered[j].week
	})

	features := make([]WeeklyFeature, 0, len(ordered))
	for _, bucket := range ordered {
		var avgReps float64
		if bucket.repSets > 0 {
			avgReps = float64(bucket.repsSum) / float64(bucket.repSets)
		}
		features = append(features, WeeklyFeature{
			Week:     fmt.Sprintf("%d-W%02d", bucket.year, bucket.week),
			Volume:   bucket.volume,
			Sessions: bucket.sessions,
			AvgReps:  avgReps,
		})
	}

	return features, nil
}

// MonthlySummary aggregates the trailing 30 days: workout count, total
// volume and the most/least worked muscle groups. The weak muscle is only
// reported when at least two distinct groups were trained, and never equals
// the favorite.
func (a *Analyzer) MonthlySummary(ctx context.Context, userID int) (_ *MonthlySummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "assistant.insights.monthlySummary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	since := time.Now().UTC().AddDate(0, 0, -monthlyLookbackDays)
	workoutList, err := a.store.ListWorkouts(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	summary := &MonthlySummary{
		Workouts30d: len(workoutList),
	}

	muscleCounts := make(map[string]int)
	exerciseGroups := make(map[int]string)
	for _, w := range workoutList {
		for _, s := range w.Sets {
			summary.Volume30d += s.Volume()

			group, ok := exerciseGroups[s.ExerciseID]
			if !ok {
				exercise, exErr := a.store.GetExercise(ctx, s.ExerciseID)
				if exErr != nil {
					return nil, fmt.Errorf("get exercise %d: %w", s.ExerciseID, exErr)
				}
				group = exercise.MuscleGroup
				exerciseGroups[s.ExerciseID] = group
			}
			muscleCounts[group]++
		}
	}

	if len(muscleCounts) == 0 {
		return summary, nil
	}

	groups := make([]string, 0, len(muscleCounts))
	for group := range muscleCounts {
		groups = append(groups, group)
	}
	// by set count descending, name ascending for deterministic ties
	sort.Slice(groups, func(i, j int) bool {
		if muscleCounts[groups[i]] != muscleCounts[groups[j]] {
			return muscleCounts[groups[i]] > muscleCounts[groups[j]]
		}
		return groups[i] < groups[j]
	})

	summary.FavoriteMuscle = groups[0]
	if len(groups) > 1 {
		summary.WeakMuscle = groups[len(groups)-1]
	}
	if summary.WeakMuscle == summary.FavoriteMuscle {
		summary.WeakMuscle = ""
	}

	return summary, nil
}
