package monitoring

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// AlertSeverity represents the severity level of an alert
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// ParseAlertSeverity validates a severity label from the request layer
func ParseAlertSeverity(s string) (AlertSeverity, error) {
	switch AlertSeverity(s) {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return AlertSeverity(s), nil
	default:
		return "", fmt.Errorf("unknown alert severity: %q", s)
	}
}

// Alert is a threshold-violation notification
type Alert struct {
	Severity     AlertSeverity `json:"severity"`
	Message      string        `json:"message"`
	MetricName   string        `json:"metric_name"`
	CurrentValue float64       `json:"current_value"`
	Threshold    float64       `json:"threshold"`
	Timestamp    time.Time     `json:"timestamp"`
}

// AlertNotifier receives alerts synchronously as they fire. A returned error
// aborts the recording call that triggered the alert.
type AlertNotifier interface {
	Notify(alert Alert) error
}

// Sample carries up to seven optional metric values. Nil fields are absent:
// they are skipped by threshold checks and omitted from summaries.
type Sample struct {
	Accuracy   *float64 `json:"accuracy,omitempty"`
	Precision  *float64 `json:"precision,omitempty"`
	Recall     *float64 `json:"recall,omitempty"`
	F1Score    *float64 `json:"f1_score,omitempty"`
	LatencyMS  *float64 `json:"latency_ms,omitempty"`
	Throughput *float64 `json:"throughput,omitempty"`
	ErrorRate  *float64 `json:"error_rate,omitempty"`
}

// Snapshot is a timestamped Sample stored in the monitor's history
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`
	Sample
}

// MetricSummary aggregates one metric over a window of snapshots
type MetricSummary struct {
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Latest float64 `json:"latest"`
}

// DefaultAlertThresholds apply when the monitor is built without a config
var DefaultAlertThresholds = map[string]float64{
	"accuracy":   0.7,
	"error_rate": 0.1,
	"latency_ms": 1000.0,
}

// metricNames is the fixed summary order of the seven snapshot fields
var metricNames = []string{
	"accuracy", "precision", "recall", "f1_score",
	"latency_ms", "throughput", "error_rate",
}

func (s *Snapshot) metric(name string) *float64 {
	switch name {
	case "accuracy":
		return s.Accuracy
	case "precision":
		return s.Precision
	case "recall":
		return s.Recall
	case "f1_score":
		return s.F1Score
	case "latency_ms":
		return s.LatencyMS
	case "throughput":
		return s.Throughput
	case "error_rate":
		return s.ErrorRate
	default:
		return nil
	}
}

// PerformanceMonitor keeps an append-only history of metric snapshots and the
// alerts they triggered. All state is mutex-guarded so one monitor can be
// shared across request handlers.
type PerformanceMonitor struct {
	mu         sync.Mutex
	history    []Snapshot
	alerts     []Alert
	thresholds map[string]float64
	notifier   AlertNotifier
}

// NewPerformanceMonitor creates a monitor. Nil thresholds select the defaults;
// a nil notifier disables notification without disabling alert recording.
func NewPerformanceMonitor(thresholds map[string]float64, notifier AlertNotifier) *PerformanceMonitor {
	if thresholds == nil {
		thresholds = DefaultAlertThresholds
	}
	return &PerformanceMonitor{
		thresholds: thresholds,
		notifier:   notifier,
	}
}

// Record stores a snapshot and evaluates the three fixed alert rules:
// accuracy below threshold is critical, error rate and latency above their
// thresholds are warnings. The snapshot is appended before any rule runs, so
// it survives a notifier failure; a failing notifier aborts the call with the
// alerts fired so far already recorded.
func (m *PerformanceMonitor) Record(sample Sample) (Snapshot, error) {
	snapshot := Snapshot{Timestamp: time.Now(), Sample: sample}

	m.mu.Lock()
	m.history = append(m.history, snapshot)
	m.mu.Unlock()

	if sample.Accuracy != nil {
		if threshold, ok := m.thresholds["accuracy"]; ok && threshold != 0 && *sample.Accuracy < threshold {
			if err := m.fireAlert(SeverityCritical,
				fmt.Sprintf("Accuracy dropped below threshold: %.3f < %g", *sample.Accuracy, threshold),
				"accuracy", *sample.Accuracy, threshold); err != nil {
				return snapshot, err
			}
		}
	}

	if sample.ErrorRate != nil {
		if threshold, ok := m.thresholds["error_rate"]; ok && threshold != 0 && *sample.ErrorRate > threshold {
			if err := m.fireAlert(SeverityWarning,
				fmt.Sprintf("Error rate exceeded threshold: %.3f > %g", *sample.ErrorRate, threshold),
				"error_rate", *sample.ErrorRate, threshold); err != nil {
				return snapshot, err
			}
		}
	}

	if sample.LatencyMS != nil {
		if threshold, ok := m.thresholds["latency_ms"]; ok && threshold != 0 && *sample.LatencyMS > threshold {
			if err := m.fireAlert(SeverityWarning,
				fmt.Sprintf("Latency exceeded threshold: %.1fms > %gms", *sample.LatencyMS, threshold),
				"latency_ms", *sample.LatencyMS, threshold); err != nil {
				return snapshot, err
			}
		}
	}

	return snapshot, nil
}

func (m *PerformanceMonitor) fireAlert(severity AlertSeverity, message, metricName string, value, threshold float64) error {
	alert := Alert{
		Severity:     severity,
		Message:      message,
		MetricName:   metricName,
		CurrentValue: value,
		Threshold:    threshold,
		Timestamp:    time.Now(),
	}

	m.mu.Lock()
	m.alerts = append(m.alerts, alert)
	m.mu.Unlock()

	if m.notifier != nil {
		return m.notifier.Notify(alert)
	}
	return nil
}

// Summary aggregates each present metric over the trailing lastN snapshots
// (all of them when lastN <= 0). Metrics absent from every selected snapshot
// are omitted.
func (m *PerformanceMonitor) Summary(lastN int) map[string]MetricSummary {
	m.mu.Lock()
	window := m.history
	if lastN > 0 && lastN < len(window) {
		window = window[len(window)-lastN:]
	}
	selected := make([]Snapshot, len(window))
	copy(selected, window)
	m.mu.Unlock()

	summary := make(map[string]MetricSummary)
	for _, name := range metricNames {
		values := make([]float64, 0, len(selected))
		for i := range selected {
			if v := selected[i].metric(name); v != nil {
				values = append(values, *v)
			}
		}
		if len(values) == 0 {
			continue
		}
		summary[name] = summarize(values)
	}
	return summary
}

// summarize computes mean, population standard deviation, min, max and the
// latest value of a non-empty series
func summarize(values []float64) MetricSummary {
	sum := 0.0
	minV, maxV := values[0], values[0]
	for _, v := range values {
		sum += v
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	mean := sum / float64(len(values))

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))

	return MetricSummary{
		Mean:   mean,
		Std:    math.Sqrt(variance),
		Min:    minV,
		Max:    maxV,
		Latest: values[len(values)-1],
	}
}

// RecentAlerts filters by exact severity (empty matches all) and then keeps
// the trailing limit entries, preserving chronological order.
func (m *PerformanceMonitor) RecentAlerts(severity AlertSeverity, limit int) []Alert {
	m.mu.Lock()
	alerts := make([]Alert, 0, len(m.alerts))
	for _, a := range m.alerts {
		if severity != "" && a.Severity != severity {
			continue
		}
		alerts = append(alerts, a)
	}
	m.mu.Unlock()

	if limit > 0 && limit < len(alerts) {
		alerts = alerts[len(alerts)-limit:]
	}
	return alerts
}

// MetricsFromPredictions derives accuracy, precision, recall and f1 from a
// confusion matrix built by binarizing predictions at the threshold.
// Zero-denominator metrics fall back to 0.0.
func (m *PerformanceMonitor) MetricsFromPredictions(predictions []float64, trueLabels []int, threshold float64) (map[string]float64, error) {
	if len(predictions) != len(trueLabels) {
		return nil, fmt.Errorf("predictions and labels length mismatch: %d != %d", len(predictions), len(trueLabels))
	}

	var tp, fp, tn, fn int
	for i, p := range predictions {
		predicted := 0
		if p >= threshold {
			predicted = 1
		}
		switch {
		case trueLabels[i] == 1 && predicted == 1:
			tp++
		case trueLabels[i] == 0 && predicted == 1:
			fp++
		case trueLabels[i] == 0 && predicted == 0:
			tn++
		default:
			fn++
		}
	}

	accuracy := 0.0
	if len(trueLabels) > 0 {
		accuracy = float64(tp+tn) / float64(len(trueLabels))
	}

	precision := 0.0
	if tp+fp > 0 {
		precision = float64(tp) / float64(tp+fp)
	}

	recall := 0.0
	if tp+fn > 0 {
		recall = float64(tp) / float64(tp+fn)
	}

	f1 := 0.0
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	return map[string]float64{
		"accuracy":  accuracy,
		"precision": precision,
		"recall":    recall,
		"f1_score":  f1,
	}, nil
}
