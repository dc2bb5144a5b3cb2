package safety

import (
	"fmt"
	"sort"
)

var riskWeights = map[string]float64{
	"confidence":  0.4,
	"drift":       0.3,
	"performance": 0.2,
	"fairness":    0.1,
}

// defaultRiskWeight applies to metric names outside the fixed weight set
const defaultRiskWeight = 0.1

// RiskAssessor combines named safety metrics into one weighted verdict
type RiskAssessor struct{}

// NewRiskAssessor creates a risk assessor
func NewRiskAssessor() *RiskAssessor {
	return &RiskAssessor{}
}

// levelRisk maps a safety level to its risk contribution. The same mapping
// backs both the weighted score and the reported component risks so the two
// cannot diverge.
func levelRisk(l SafetyLevel) float64 {
	switch l {
	case LevelCritical:
		return 1.0
	case LevelWarning:
		return 0.5
	default:
		return 0.0
	}
}

// CalculateRiskScore returns the weighted risk sum over metrics, clamped to 1.0
func (r *RiskAssessor) CalculateRiskScore(metrics map[string]SafetyMetric) float64 {
	score := 0.0
	for name, metric := range metrics {
		weight, ok := riskWeights[name]
		if !ok {
			weight = defaultRiskWeight
		}
		score += weight * levelRisk(metric.Level)
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// AssessRisk produces the full assessment: overall score, bucketed level,
// per-component risks and textual recommendations.
func (r *RiskAssessor) AssessRisk(metrics map[string]SafetyMetric) RiskAssessment {
	overall := r.CalculateRiskScore(metrics)

	level := LevelSafe
	switch {
	case overall >= 0.7:
		level = LevelCritical
	case overall >= 0.3:
		level = LevelWarning
	}

	componentRisks := make(map[string]float64, len(metrics))
	for name, metric := range metrics {
		componentRisks[name] = levelRisk(metric.Level)
	}

	return RiskAssessment{
		OverallRisk:     overall,
		RiskLevel:       level,
		ComponentRisks:  componentRisks,
		Recommendations: r.generateRecommendations(metrics, level),
	}
}

func (r *RiskAssessor) generateRecommendations(metrics map[string]SafetyMetric, riskLevel SafetyLevel) []string {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	recommendations := make([]string, 0, len(names)+1)
	for _, name := range names {
		switch metrics[name].Level {
		case LevelCritical:
			recommendations = append(recommendations, fmt.Sprintf("CRITICAL: Investigate %s immediately", name))
		case LevelWarning:
			recommendations = append(recommendations, fmt.Sprintf("Review %s metrics", name))
		}
	}

	if riskLevel == LevelCritical {
		recommendations = append(recommendations, "Consider retraining or adjusting model parameters")
	}

	return recommendations
}
