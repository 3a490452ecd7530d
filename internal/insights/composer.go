package insights

import (
	"context"
	"fmt"

	"github.com/fittrackr/assistant/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const maxTrendInsights = 3

// UserInsights is the full analytics snapshot handed to the reply layer.
type UserInsights struct {
	Workouts30d    int            `json:"workouts30d"`
	Volume30d      float64        `json:"volume30d"`
	FavoriteMuscle string         `json:"favoriteMuscle,omitempty"`
	WeakMuscle     string         `json:"weakMuscle,omitempty"`
	PlanName       string         `json:"planName,omitempty"`
	LoadRisk       LoadRisk       `json:"loadRisk"`
	OneRM          []OneRMInsight `json:"oneRm,omitempty"`
	UserName       string         `json:"userName,omitempty"`
}

// Composer assembles a UserInsights from the monthly summary, the load risk
// verdict and the 1RM trends of the user's most trained exercises.
type Composer struct {
	store    workoutsStore
	analyzer *Analyzer
	trends   *TrendEstimator
	risk     *RiskEstimator
}

func NewComposer(store workoutsStore, analyzer *Analyzer, trends *TrendEstimator, risk *RiskEstimator) *Composer {
	return &Composer{
		store:    store,
		analyzer: analyzer,
		trends:   trends,
		risk:     risk,
	}
}

// Compose builds the snapshot for one user. A non-empty storedName (a name
// the user asked to be called) wins over the profile name. Exercises whose
// trend cannot be fitted are skipped, so OneRM may hold fewer than three
// entries.
func (c *Composer) Compose(ctx context.Context, userID int, planName, storedName string) (_ *UserInsights, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "assistant.insights.compose")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))

	summary, err := c.analyzer.MonthlySummary(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("monthly summary: %w", err)
	}

	loadRisk, err := c.risk.OvertrainingRisk(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("overtraining risk: %w", err)
	}

	exerciseIDs, err := c.trends.TopExercises(ctx, userID, 5)
	if err != nil {
		return nil, fmt.Errorf("top exercises: %w", err)
	}

	var oneRM []OneRMInsight
	for _, exerciseID := range exerciseIDs {
		if len(oneRM) == maxTrendInsights {
			break
		}
		trend, trendErr := c.trends.EstimateTrend(ctx, userID, exerciseID)
		if trendErr != nil {
			return nil, fmt.Errorf("estimate trend for exercise %d: %w", exerciseID, trendErr)
		}
		if trend == nil {
			continue
		}
		oneRM = append(oneRM, *trend)
	}

	userName := storedName
	if userName == "" {
		user, userErr := c.store.GetUser(ctx, userID)
		if userErr != nil {
			log.Warnf("compose insights: get user %d: %s", userID, userErr)
		} else if user.FirstName != "" {
			userName = user.FirstName
		} else {
			userName = user.Username
		}
	}

	return &UserInsights{
		Workouts30d:    summary.Workouts30d,
		Volume30d:      summary.Volume30d,
		FavoriteMuscle: summary.FavoriteMuscle,
		WeakMuscle:     summary.WeakMuscle,
		PlanName:       planName,
		LoadRisk:       loadRisk,
		OneRM:          oneRM,
		UserName:       userName,
	}, nil
}
