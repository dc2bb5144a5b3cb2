package types

import (
	"time"

	"github.com/modelgate/safegate/internal/safety"
)

// EvaluateRequest is the request body for the safety evaluation endpoint
type EvaluateRequest struct {
	Predictions   []float64            `json:"predictions" binding:"required"`
	ReferenceData map[string][]float64 `json:"reference_data" binding:"required"`
	CurrentData   map[string][]float64 `json:"current_data" binding:"required"`
	DatasetName   string               `json:"dataset_name"`
}

// EvaluateResponse carries the assessment plus the derived deploy decision
type EvaluateResponse struct {
	OverallRisk     float64            `json:"overall_risk"`
	RiskLevel       safety.SafetyLevel `json:"risk_level"`
	ComponentRisks  map[string]float64 `json:"component_risks"`
	Recommendations []string           `json:"recommendations"`
	ShouldDeploy    bool               `json:"should_deploy"`
	Timestamp       time.Time          `json:"timestamp"`
}

// MetricsRequest records a performance snapshot; every field is optional
type MetricsRequest struct {
	Accuracy   *float64 `json:"accuracy"`
	Precision  *float64 `json:"precision"`
	Recall     *float64 `json:"recall"`
	F1Score    *float64 `json:"f1_score"`
	LatencyMS  *float64 `json:"latency_ms"`
	Throughput *float64 `json:"throughput"`
	ErrorRate  *float64 `json:"error_rate"`
}

// FairnessRequest asks for bias reports over grouped predictions
type FairnessRequest struct {
	Predictions     []float64 `json:"predictions" binding:"required"`
	ProtectedGroups []string  `json:"protected_groups" binding:"required"`
	TrueLabels      []int     `json:"true_labels"`
	PrivilegedGroup string    `json:"privileged_group"`
}

// ExplainRequest asks for ranked feature importances
type ExplainRequest struct {
	FeatureValues map[string][]float64 `json:"feature_values" binding:"required"`
	Predictions   []float64            `json:"predictions" binding:"required"`
	TopK          int                  `json:"top_k"`
}
