package insights

import (
	"context"
	"math"

	"github.com/fittrackr/assistant/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
)

// Reasons attached to a LoadRisk, surfaced as-is in replies.
const (
	ReasonNotEnoughData  = "Pas assez de données"
	ReasonLimitedData    = "Heuristique (données limitées)"
	ReasonModelFallback  = "Heuristique (fallback ML)"
	ReasonOutlierModel   = "IsolationForest (90j)"
)

const (
	riskMinWeeksForModel     = 4
	riskMinWeeksForHeuristic = 2
	heuristicVolumeRatio     = 1.6
	heuristicMinSessions     = 5
	heuristicHighRisk        = 0.7
	heuristicLowRisk         = 0.3
)

// LoadRisk is the overtraining risk verdict. Risk is nil when there is not
// enough history; Reason always explains how the value was obtained.
type LoadRisk struct {
	Risk   *float64 `json:"risk"`
	Reason string   `json:"reason"`
	Ratio  *float64 `json:"ratio,omitempty"`
}

// AnomalyDetector fits an unsupervised outlier model over weekly feature
// vectors and returns one decision score per row, aligned with the input.
// Lower scores mean more anomalous weeks.
type AnomalyDetector interface {
	FitScore(features [][]float64) ([]float64, error)
}

// RiskEstimator scores the risk of overtraining from weekly training
// features. A nil detector means the outlier-model capability is
// unavailable and only the heuristic path is used. Analytic failures never
// surface as errors, they degrade to a labeled heuristic or an absent risk;
// only store failures are returned.
type RiskEstimator struct {
	analyzer *Analyzer
	detector AnomalyDetector
}

func NewRiskEstimator(analyzer *Analyzer, detector AnomalyDetector) *RiskEstimator {
	return &RiskEstimator{
		analyzer: analyzer,
		detector: detector,
	}
}

func (r *RiskEstimator) OvertrainingRisk(ctx context.Context, userID int) (_ LoadRisk, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "assistant.insights.overtrainingRisk")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	features, err := r.analyzer.WeeklyFeatures(ctx, userID)
	if err != nil {
		return LoadRisk{}, err
	}

	if len(features) < riskMinWeeksForModel || r.detector == nil {
		return heuristicRisk(features, ReasonLimitedData), nil
	}

	rows := make([][]float64, len(features))
	for i, f := range features {
		rows[i] = []float64{f.Volume, float64(f.Sessions), f.AvgReps}
	}

	scores, err := r.detector.FitScore(rows)
	if err != nil || len(scores) != len(rows) {
		log.Warnf("overtraining risk for user %d: outlier model failed (%s), falling back to heuristic", userID, err)
		return heuristicRisk(features, ReasonModelFallback), nil
	}

	lastWeekScore := scores[len(scores)-1]
	risk := clamp(0.5-lastWeekScore, 0, 1)
	return LoadRisk{
		Risk:   &risk,
		Reason: ReasonOutlierModel,
	}, nil
}

// heuristicRisk compares the last two weeks: a volume jump above 60% paired
// with five or more sessions flags a high risk.
func heuristicRisk(features []WeeklyFeature, reason string) LoadRisk {
	if len(features) < riskMinWeeksForHeuristic {
		return LoadRisk{Reason: ReasonNotEnoughData}
	}

	last := features[len(features)-1]
	prev := features[len(features)-2]
	ratio := last.Volume / math.Max(prev.Volume, 1)

	risk := heuristicLowRisk
	if ratio > heuristicVolumeRatio && last.Sessions >= heuristicMinSessions {
		risk = heuristicHighRisk
	}

	return LoadRisk{
		Risk:   &risk,
		Reason: reason,
		Ratio:  &ratio,
	}
}

func clamp(value, low, high float64) float64 {
	return math.Min(high, math.Max(low, value))
}
