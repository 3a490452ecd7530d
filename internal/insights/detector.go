package insights

import (
	"fmt"

	iforest "github.com/e-XpertSolutions/go-iforest/v2/iforest"
)

const (
	iforestTrees         = 100
	iforestOutliersRatio = 0.2
)

// IForestDetector scores weekly feature rows with an isolation forest.
// Anomaly scores from the forest grow with abnormality, so the decision
// score handed back is 0.5 minus the anomaly score: normal weeks land near
// 0.5, outliers drop towards zero and below.
type IForestDetector struct{}

func NewIForestDetector() *IForestDetector {
	return &IForestDetector{}
}

func (d *IForestDetector) FitScore(features [][]float64) (scores []float64, err error) {
	// the forest indexes rows without bounds guarding, keep that contained
	defer func() {
		if r := recover(); r != nil {
			scores, err = nil, fmt.Errorf("isolation forest panicked: %v", r)
		}
	}()

	if len(features) == 0 {
		return nil, fmt.Errorf("no feature rows to score")
	}

	forest := iforest.NewForest(iforestTrees, len(features), iforestOutliersRatio)
	forest.Train(features)
	if err := forest.Test(features); err != nil {
		return nil, fmt.Errorf("score feature rows: %w", err)
	}

	scores = make([]float64, len(forest.AnomalyScores))
	for i, anomaly := range forest.AnomalyScores {
		scores[i] = 0.5 - anomaly
	}
	return scores, nil
}
