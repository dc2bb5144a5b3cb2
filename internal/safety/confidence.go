package safety

// ConfidenceMonitor tracks mean prediction confidence against a threshold
type ConfidenceMonitor struct {
	threshold float64
}

// NewConfidenceMonitor creates a confidence monitor with the given threshold
func NewConfidenceMonitor(threshold float64) *ConfidenceMonitor {
	return &ConfidenceMonitor{threshold: threshold}
}

// Threshold returns the configured confidence threshold
func (m *ConfidenceMonitor) Threshold() float64 {
	return m.threshold
}

// CalculateConfidence returns the arithmetic mean of predictions, 0.0 when empty
func (m *ConfidenceMonitor) CalculateConfidence(predictions []float64) float64 {
	return mean(predictions)
}

// CalculateUncertainty returns 1-p for every prediction, preserving order
func (m *ConfidenceMonitor) CalculateUncertainty(predictions []float64) []float64 {
	out := make([]float64, len(predictions))
	for i, p := range predictions {
		out[i] = 1.0 - p
	}
	return out
}

// AssessConfidence classifies mean confidence into a safety metric.
// Below half the threshold is critical, below the threshold is warning,
// at or above it is safe.
func (m *ConfidenceMonitor) AssessConfidence(predictions []float64) SafetyMetric {
	meanConf := m.CalculateConfidence(predictions)

	level := LevelSafe
	switch {
	case meanConf < m.threshold*0.5:
		level = LevelCritical
	case meanConf < m.threshold:
		level = LevelWarning
	}

	return SafetyMetric{
		Name:      "model_confidence",
		Value:     meanConf,
		Threshold: m.threshold,
		Level:     level,
	}
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
