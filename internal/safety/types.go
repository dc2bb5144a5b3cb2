package safety

import "time"

// SafetyLevel classifies a metric by severity
type SafetyLevel string

const (
	LevelSafe     SafetyLevel = "safe"
	LevelWarning  SafetyLevel = "warning"
	LevelCritical SafetyLevel = "critical"
)

// severityRank orders levels SAFE < WARNING < CRITICAL
func severityRank(l SafetyLevel) int {
	switch l {
	case LevelWarning:
		return 1
	case LevelCritical:
		return 2
	default:
		return 0
	}
}

// MoreSevere reports whether l is strictly more severe than other
func (l SafetyLevel) MoreSevere(other SafetyLevel) bool {
	return severityRank(l) > severityRank(other)
}

// SafetyMetric is a named metric value classified against a threshold
type SafetyMetric struct {
	Name      string      `json:"name"`
	Value     float64     `json:"value"`
	Threshold float64     `json:"threshold"`
	Level     SafetyLevel `json:"level"`
}

// DriftMetric summarizes drift detection over one dataset.
// Detected is true iff FeaturesDrifted is non-empty.
type DriftMetric struct {
	Dataset         string   `json:"dataset"`
	DriftScore      float64  `json:"drift_score"`
	Detected        bool     `json:"detected"`
	FeaturesDrifted []string `json:"features_drifted"`
}

// RiskAssessment is the combined verdict over a set of safety metrics
type RiskAssessment struct {
	OverallRisk     float64            `json:"overall_risk"`
	RiskLevel       SafetyLevel        `json:"risk_level"`
	ComponentRisks  map[string]float64 `json:"component_risks"`
	Recommendations []string           `json:"recommendations"`
}

// AuditMetric is the flattened per-metric slice of an audit entry
type AuditMetric struct {
	Value float64     `json:"value"`
	Level SafetyLevel `json:"level"`
}

// AuditEntry is an immutable historical record of one evaluation
type AuditEntry struct {
	ID             string                 `json:"id"`
	Timestamp      time.Time              `json:"timestamp"`
	Dataset        string                 `json:"dataset"`
	OverallRisk    float64                `json:"overall_risk"`
	RiskLevel      SafetyLevel            `json:"risk_level"`
	ComponentRisks map[string]float64     `json:"component_risks"`
	Metrics        map[string]AuditMetric `json:"metrics"`
}
