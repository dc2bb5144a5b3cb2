package safety

import (
	"math"
	"sort"
)

// DriftDetector flags mean-shift drift between reference and current samples
type DriftDetector struct {
	threshold float64
}

// NewDriftDetector creates a drift detector with the given threshold
func NewDriftDetector(threshold float64) *DriftDetector {
	return &DriftDetector{threshold: threshold}
}

// Threshold returns the configured drift threshold
func (d *DriftDetector) Threshold() float64 {
	return d.threshold
}

// CalculateDriftScore computes the normalized mean shift between two samples.
// Returns 0.0 when either sample is empty. The score is asymmetric and
// unbounded above: it compares means only, not distribution shape.
func (d *DriftDetector) CalculateDriftScore(reference, current []float64) float64 {
	if len(reference) == 0 || len(current) == 0 {
		return 0.0
	}

	refMean := mean(reference)
	curMean := mean(current)

	return math.Abs(curMean-refMean) / (math.Abs(refMean) + 1e-6)
}

// DetectFeatureDrift reports whether one feature's drift score exceeds the threshold
func (d *DriftDetector) DetectFeatureDrift(feature string, reference, current []float64) bool {
	return d.CalculateDriftScore(reference, current) > d.threshold
}

// AssessDrift scores every reference feature against current data. Features
// absent from current score 0.0 via the empty-sample guard; features present
// only in current are ignored. DriftScore is the mean of per-feature scores
// and Detected is true iff at least one feature exceeded the threshold.
func (d *DriftDetector) AssessDrift(datasetName string, reference, current map[string][]float64) DriftMetric {
	features := make([]string, 0, len(reference))
	for name := range reference {
		features = append(features, name)
	}
	sort.Strings(features)

	drifted := make([]string, 0)
	total := 0.0
	for _, name := range features {
		score := d.CalculateDriftScore(reference[name], current[name])
		total += score
		if score > d.threshold {
			drifted = append(drifted, name)
		}
	}

	meanDrift := 0.0
	if len(features) > 0 {
		meanDrift = total / float64(len(features))
	}

	return DriftMetric{
		Dataset:         datasetName,
		DriftScore:      meanDrift,
		Detected:        len(drifted) > 0,
		FeaturesDrifted: drifted,
	}
}
