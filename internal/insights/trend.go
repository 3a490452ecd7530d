package insights

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/fittrackr/assistant/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
	"gonum.org/v1/gonum/stat"
)

const (
	trendLookbackDays = 60
	trendMinPoints    = 3
	trendHorizonDays  = 7
)

// OneRMInsight is the strength trend of one exercise: the best observed
// Epley estimate, the regression projection one week out and the weekly
// slope.
type OneRMInsight struct {
	Exercise     string  `json:"exercise"`
	Current      float64 `json:"current"`
	Predicted    float64 `json:"predicted"`
	SlopePerWeek float64 `json:"slopePerWeek"`
}

// TrendEstimator fits an ordinary least-squares line through the estimated
// one-rep max of recent sets.
type TrendEstimator struct {
	store workoutsStore
}

func NewTrendEstimator(store workoutsStore) *TrendEstimator {
	return &TrendEstimator{
		store: store,
	}
}

// EstimateTrend computes the 1RM trend for one exercise over the trailing
// 60 days. It returns nil without error when there are fewer than three
// qualifying sets, or when all sets fall on a single day and no slope can
// be fitted.
func (t *TrendEstimator) EstimateTrend(ctx context.Context, userID, exerciseID int) (_ *OneRMInsight, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "assistant.insights.estimateTrend")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise_id", exerciseID))

	today := time.Now().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -trendLookbackDays)
	workoutList, err := t.store.ListWorkouts(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	var days, estimates []float64
	for _, w := range workoutList {
		day := ordinalDay(w.Date)
		for _, s := range w.Sets {
			if s.ExerciseID != exerciseID {
				continue
			}
			est, ok := s.EstimatedOneRM()
			if !ok {
				continue
			}
			days = append(days, day)
			estimates = append(estimates, est)
		}
	}

	if len(estimates) < trendMinPoints {
		return nil, nil
	}
	if allEqual(days) {
		return nil, nil
	}

	intercept, slopePerDay := stat.LinearRegression(days, estimates, nil, false)

	current := estimates[0]
	for _, est := range estimates[1:] {
		current = math.Max(current, est)
	}

	predicted := intercept + slopePerDay*(ordinalDay(today)+trendHorizonDays)

	exercise, err := t.store.GetExercise(ctx, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("get exercise %d: %w", exerciseID, err)
	}

	return &OneRMInsight{
		Exercise:     exercise.Name,
		Current:      roundTo(current, 1),
		Predicted:    roundTo(predicted, 1),
		SlopePerWeek: roundTo(slopePerDay*trendHorizonDays, 3),
	}, nil
}

// TopExercises ranks the user's exercises by qualifying set count over the
// trend lookback window, most used first. Ties resolve to the lower
// exercise id.
func (t *TrendEstimator) TopExercises(ctx context.Context, userID, limit int) (_ []int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "assistant.insights.topExercises")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	since := time.Now().UTC().AddDate(0, 0, -trendLookbackDays)
	workoutList, err := t.store.ListWorkouts(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	setCounts := make(map[int]int)
	for _, w := range workoutList {
		for _, s := range w.Sets {
			if _, ok := s.EstimatedOneRM(); !ok {
				continue
			}
			setCounts[s.ExerciseID]++
		}
	}

	ids := make([]int, 0, len(setCounts))
	for id := range setCounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if setCounts[ids[i]] != setCounts[ids[j]] {
			return setCounts[ids[i]] > setCounts[ids[j]]
		}
		return ids[i] < ids[j]
	})

	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// ordinalDay encodes a date as a day count usable as a regression feature.
func ordinalDay(date time.Time) float64 {
	return float64(date.Unix()) / (24 * 60 * 60)
}

func allEqual(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

func roundTo(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(value*factor) / factor
}
