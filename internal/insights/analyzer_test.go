package insights_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fittrackr/assistant/internal/insights"
	"github.com/fittrackr/assistant/internal/workouts"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// mondayOfCurrentWeek anchors test dates to ISO week boundaries so that
// workouts placed N*7 days apart always land in distinct weeks.
func mondayOfCurrentWeek() time.Time {
	now := time.Now().UTC().Truncate(24 * time.Hour)
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return now.AddDate(0, 0, -(weekday - 1))
}

func weekKey(date time.Time) string {
	year, week := date.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func TestAnalyzer_WeeklyFeatures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := NewMockworkoutsStore(ctrl)
	analyzer := insights.NewAnalyzer(store)

	monday := mondayOfCurrentWeek()
	week1Mon := monday.AddDate(0, 0, -21)
	week1Wed := week1Mon.AddDate(0, 0, 2)
	week2Mon := monday.AddDate(0, 0, -14)

	store.EXPECT().
		ListWorkouts(gomock.Any(), 7, gomock.Any()).
		Return([]workouts.Workout{
			{
				ID: 1, UserID: 7, Date: week1Mon,
				Sets: []workouts.Set{
					{ExerciseID: 1, Reps: 10, WeightKg: 100},
					{ExerciseID: 2, Reps: 8, WeightKg: 50},
				},
			},
			{
				ID: 2, UserID: 7, Date: week1Wed,
				Sets: []workouts.Set{
					{ExerciseID: 1, Reps: 6, WeightKg: 100},
				},
			},
			{
				ID: 3, UserID: 7, Date: week2Mon,
				Sets: []workouts.Set{
					{ExerciseID: 3, DurationSeconds: 600},
					{ExerciseID: 2, Reps: 10, WeightKg: 20},
				},
			},
		}, nil)

	features, err := analyzer.WeeklyFeatures(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, features, 2)

	assert.Equal(t, weekKey(week1Mon), features[0].Week)
	assert.Equal(t, 2, features[0].Sessions)
	assert.InDelta(t, 2000, features[0].Volume, 1e-9)
	assert.InDelta(t, 8, features[0].AvgReps, 1e-9) // (10+8+6)/3

	assert.Equal(t, weekKey(week2Mon), features[1].Week)
	assert.Equal(t, 1, features[1].Sessions)
	assert.InDelta(t, 200, features[1].Volume, 1e-9)
	assert.InDelta(t, 10, features[1].AvgReps, 1e-9) // duration set does not count

	assert.NotEqual(t, features[0].Week, features[1].Week)
}

func TestAnalyzer_WeeklyFeatures_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := NewMockworkoutsStore(ctrl)
	analyzer := insights.NewAnalyzer(store)

	store.EXPECT().
		ListWorkouts(gomock.Any(), 7, gomock.Any()).
		Return(nil, nil)

	features, err := analyzer.WeeklyFeatures(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, features)
}

func TestAnalyzer_MonthlySummary(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := NewMockworkoutsStore(ctrl)
	analyzer := insights.NewAnalyzer(store)

	date := time.Now().UTC().AddDate(0, 0, -5)
	store.EXPECT().
		ListWorkouts(gomock.Any(), 7, gomock.Any()).
		Return([]workouts.Workout{
			{
				ID: 1, UserID: 7, Date: date,
				Sets: []workouts.Set{
					{ExerciseID: 1, Reps: 10, WeightKg: 60},
					{ExerciseID: 1, Reps: 8, WeightKg: 60},
					{ExerciseID: 2, Reps: 12, WeightKg: 40},
				},
			},
			{
				ID: 2, UserID: 7, Date: date.AddDate(0, 0, 2),
				Sets: []workouts.Set{
					{ExerciseID: 1, Reps: 10, WeightKg: 62.5},
				},
			},
		}, nil)

	// the muscle group of each exercise is resolved once, then cached
	store.EXPECT().
		GetExercise(gomock.Any(), 1).
		Return(&workouts.Exercise{ID: 1, Name: "Développé couché", MuscleGroup: workouts.MuscleGroupChest}, nil).
		Times(1)
	store.EXPECT().
		GetExercise(gomock.Any(), 2).
		Return(&workouts.Exercise{ID: 2, Name: "Rowing barre", MuscleGroup: workouts.MuscleGroupBack}, nil).
		Times(1)

	summary, err := analyzer.MonthlySummary(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Workouts30d)
	assert.InDelta(t, 600+480+480+625, summary.Volume30d, 1e-9)
	assert.Equal(t, workouts.MuscleGroupChest, summary.FavoriteMuscle)
	assert.Equal(t, workouts.MuscleGroupBack, summary.WeakMuscle)
}

func TestAnalyzer_MonthlySummary_SingleMuscleGroup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := NewMockworkoutsStore(ctrl)
	analyzer := insights.NewAnalyzer(store)

	store.EXPECT().
		ListWorkouts(gomock.Any(), 7, gomock.Any()).
		Return([]workouts.Workout{
			{
				ID: 1, UserID: 7, Date: time.Now().UTC().AddDate(0, 0, -1),
				Sets: []workouts.Set{
					{ExerciseID: 4, Reps: 5, WeightKg: 120},
					{ExerciseID: 4, Reps: 5, WeightKg: 120},
				},
			},
		}, nil)
	store.EXPECT().
		GetExercise(gomock.Any(), 4).
		Return(&workouts.Exercise{ID: 4, Name: "Squat", MuscleGroup: workouts.MuscleGroupLegs}, nil).
		Times(1)

	summary, err := analyzer.MonthlySummary(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, workouts.MuscleGroupLegs, summary.FavoriteMuscle)
	assert.Empty(t, summary.WeakMuscle, "weak muscle needs at least two trained groups")
}

func TestAnalyzer_MonthlySummary_NoWorkouts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := NewMockworkoutsStore(ctrl)
	analyzer := insights.NewAnalyzer(store)

	store.EXPECT().
		ListWorkouts(gomock.Any(), 7, gomock.Any()).
		Return(nil, nil)

	summary, err := analyzer.MonthlySummary(context.Background(), 7)
	require.NoError(t, err)

	assert.Zero(t, summary.Workouts30d)
	assert.Zero(t, summary.Volume30d)
	assert.Empty(t, summary.FavoriteMuscle)
	assert.Empty(t, summary.WeakMuscle)
}
