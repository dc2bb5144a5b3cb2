package explain

import "math"

// SHAPAnalyzer distributes the prediction-baseline difference across features
// proportionally to how far each feature sits from its baseline mean. This is
// a proportional attribution, not a cooperative-game SHAP value.
type SHAPAnalyzer struct {
	baselineValues map[string]float64
}

// NewSHAPAnalyzer creates an analyzer with an empty baseline
func NewSHAPAnalyzer() *SHAPAnalyzer {
	return &SHAPAnalyzer{baselineValues: make(map[string]float64)}
}

// SetBaseline records the per-feature mean over a reference set
func (s *SHAPAnalyzer) SetBaseline(featureValues map[string][]float64) {
	for name, values := range featureValues {
		s.baselineValues[name] = mean(values)
	}
}

// Baseline returns the recorded baseline mean for one feature
func (s *SHAPAnalyzer) Baseline(feature string) float64 {
	return s.baselineValues[feature]
}

// CalculateSHAPValues attributes prediction-baselinePrediction across features
// weighted by each feature's absolute deviation from its baseline. When every
// feature sits at its baseline the divisor falls back to 1.0 and all
// attributions are zero.
func (s *SHAPAnalyzer) CalculateSHAPValues(featureValues map[string]float64, prediction, baselinePrediction float64) map[string]float64 {
	totalDiff := prediction - baselinePrediction

	deviations := make(map[string]float64, len(featureValues))
	totalDeviation := 0.0
	for name, value := range featureValues {
		d := math.Abs(value - s.baselineValues[name])
		deviations[name] = d
		totalDeviation += d
	}

	if totalDeviation == 0 {
		totalDeviation = 1.0
	}

	shapValues := make(map[string]float64, len(featureValues))
	for name, d := range deviations {
		shapValues[name] = totalDiff * (d / totalDeviation)
	}
	return shapValues
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0.0
	}
	s := 0.0
	for _, v := range xs {
		s += v
	}
	return s / float64(len(xs))
}
