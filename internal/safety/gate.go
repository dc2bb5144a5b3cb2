package safety

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Gate orchestrates confidence and drift monitoring into a single
// deploy/no-deploy evaluation with an append-only audit trail. The audit log
// is guarded by a mutex so one Gate can sit behind concurrent HTTP handlers.
type Gate struct {
	confidence *ConfidenceMonitor
	drift      *DriftDetector
	risk       *RiskAssessor

	allowWarning bool

	mu       sync.Mutex
	auditLog []AuditEntry
}

// GateConfig carries the gate's safety thresholds
type GateConfig struct {
	ConfidenceThreshold float64
	DriftThreshold      float64
	AllowWarning        bool
}

// DefaultGateConfig mirrors the library defaults
func DefaultGateConfig() GateConfig {
	return GateConfig{
		ConfidenceThreshold: 0.7,
		DriftThreshold:      0.3,
		AllowWarning:        false,
	}
}

// NewGate creates a safety gate from the given thresholds
func NewGate(cfg GateConfig) *Gate {
	return &Gate{
		confidence:   NewConfidenceMonitor(cfg.ConfidenceThreshold),
		drift:        NewDriftDetector(cfg.DriftThreshold),
		risk:         NewRiskAssessor(),
		allowWarning: cfg.AllowWarning,
	}
}

// Evaluate runs confidence and drift assessment over the supplied data,
// combines them into a risk assessment and appends an audit entry.
// Drift collapses to critical/safe at this layer: a detector warning band
// does not exist for the gate's drift metric.
func (g *Gate) Evaluate(predictions []float64, reference, current map[string][]float64, datasetName string) RiskAssessment {
	confidenceMetric := g.confidence.AssessConfidence(predictions)
	driftMetric := g.drift.AssessDrift(datasetName, reference, current)

	driftLevel := LevelSafe
	if driftMetric.Detected {
		driftLevel = LevelCritical
	}

	metrics := map[string]SafetyMetric{
		"confidence": confidenceMetric,
		"drift": {
			Name:      "drift",
			Value:     driftMetric.DriftScore,
			Threshold: g.drift.Threshold(),
			Level:     driftLevel,
		},
	}

	assessment := g.risk.AssessRisk(metrics)
	g.logEvaluation(datasetName, assessment, metrics)

	return assessment
}

// ShouldDeploy maps an assessment to the deploy decision: safe deploys,
// warning deploys only when the gate allows it, critical never deploys.
func (g *Gate) ShouldDeploy(assessment RiskAssessment) bool {
	switch assessment.RiskLevel {
	case LevelSafe:
		return true
	case LevelWarning:
		return g.allowWarning
	default:
		return false
	}
}

func (g *Gate) logEvaluation(dataset string, assessment RiskAssessment, metrics map[string]SafetyMetric) {
	auditMetrics := make(map[string]AuditMetric, len(metrics))
	for name, metric := range metrics {
		auditMetrics[name] = AuditMetric{Value: metric.Value, Level: metric.Level}
	}

	entry := AuditEntry{
		ID:             uuid.NewString(),
		Timestamp:      time.Now(),
		Dataset:        dataset,
		OverallRisk:    assessment.OverallRisk,
		RiskLevel:      assessment.RiskLevel,
		ComponentRisks: assessment.ComponentRisks,
		Metrics:        auditMetrics,
	}

	g.mu.Lock()
	g.auditLog = append(g.auditLog, entry)
	g.mu.Unlock()
}

// AuditLog returns a copy of the evaluation history, oldest first
func (g *Gate) AuditLog() []AuditEntry {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]AuditEntry, len(g.auditLog))
	copy(out, g.auditLog)
	return out
}
