package fairness

import "fmt"

// Metric identifies a fairness definition
type Metric string

const (
	MetricDemographicParity Metric = "demographic_parity"
	MetricEqualOpportunity  Metric = "equal_opportunity"
	MetricEqualizedOdds     Metric = "equalized_odds"
	MetricDisparateImpact   Metric = "disparate_impact"
)

// BiasReport is the result of one fairness check.
// IsFair holds iff Score >= Threshold.
type BiasReport struct {
	ProtectedAttribute string             `json:"protected_attribute"`
	MetricType         Metric             `json:"metric_type"`
	Score              float64            `json:"score"`
	IsFair             bool               `json:"is_fair"`
	GroupMetrics       map[string]float64 `json:"group_metrics"`
	Threshold          float64            `json:"threshold"`
}

// DefaultClassificationThreshold binarizes predictions when no cutoff is given
const DefaultClassificationThreshold = 0.5

// Analyzer checks binary-thresholded predictions for group-level bias
type Analyzer struct {
	fairnessThreshold float64
}

// NewAnalyzer creates a fairness analyzer. A threshold of 0.8 encodes the
// four-fifths rule.
func NewAnalyzer(fairnessThreshold float64) *Analyzer {
	return &Analyzer{fairnessThreshold: fairnessThreshold}
}

func binarize(predictions []float64, threshold float64) []int {
	binary := make([]int, len(predictions))
	for i, p := range predictions {
		if p >= threshold {
			binary[i] = 1
		}
	}
	return binary
}

// positiveRates computes the share of positive predictions per group
func positiveRates(binary []int, groups []string) map[string]float64 {
	counts := make(map[string]int)
	positives := make(map[string]int)
	for i, g := range groups {
		counts[g]++
		positives[g] += binary[i]
	}

	rates := make(map[string]float64, len(counts))
	for g, n := range counts {
		rates[g] = float64(positives[g]) / float64(n)
	}
	return rates
}

// minMaxRatio reduces per-group rates to min/max, with 1.0 for fewer than
// two groups or an all-zero maximum
func minMaxRatio(rates map[string]float64) float64 {
	if len(rates) < 2 {
		return 1.0
	}

	first := true
	var minRate, maxRate float64
	for _, r := range rates {
		if first {
			minRate, maxRate = r, r
			first = false
			continue
		}
		if r < minRate {
			minRate = r
		}
		if r > maxRate {
			maxRate = r
		}
	}

	if maxRate <= 0 {
		return 1.0
	}
	return minRate / maxRate
}

// DemographicParity checks for equal positive rates across groups
func (a *Analyzer) DemographicParity(predictions []float64, groups []string, threshold float64) (BiasReport, error) {
	if len(predictions) != len(groups) {
		return BiasReport{}, fmt.Errorf("predictions and groups length mismatch: %d != %d", len(predictions), len(groups))
	}

	rates := positiveRates(binarize(predictions, threshold), groups)
	score := minMaxRatio(rates)

	return BiasReport{
		ProtectedAttribute: "group",
		MetricType:         MetricDemographicParity,
		Score:              score,
		IsFair:             score >= a.fairnessThreshold,
		GroupMetrics:       rates,
		Threshold:          a.fairnessThreshold,
	}, nil
}

// EqualOpportunity checks for equal true-positive rates across groups.
// A group with no actual positives gets TPR 0.0.
func (a *Analyzer) EqualOpportunity(predictions []float64, groups []string, trueLabels []int, threshold float64) (BiasReport, error) {
	if len(predictions) != len(groups) {
		return BiasReport{}, fmt.Errorf("predictions and groups length mismatch: %d != %d", len(predictions), len(groups))
	}
	if len(trueLabels) != len(predictions) {
		return BiasReport{}, fmt.Errorf("predictions and labels length mismatch: %d != %d", len(predictions), len(trueLabels))
	}

	binary := binarize(predictions, threshold)

	truePositives := make(map[string]int)
	actualPositives := make(map[string]int)
	seen := make(map[string]bool)
	for i, g := range groups {
		seen[g] = true
		if trueLabels[i] == 1 {
			actualPositives[g]++
			if binary[i] == 1 {
				truePositives[g]++
			}
		}
	}

	tpr := make(map[string]float64, len(seen))
	for g := range seen {
		if actualPositives[g] > 0 {
			tpr[g] = float64(truePositives[g]) / float64(actualPositives[g])
		} else {
			tpr[g] = 0.0
		}
	}

	score := minMaxRatio(tpr)

	return BiasReport{
		ProtectedAttribute: "group",
		MetricType:         MetricEqualOpportunity,
		Score:              score,
		IsFair:             score >= a.fairnessThreshold,
		GroupMetrics:       tpr,
		Threshold:          a.fairnessThreshold,
	}, nil
}

// DisparateImpact compares every non-privileged group's selection rate to the
// privileged group's. The score is the minimum ratio, 1.0 when there are no
// other groups or the privileged rate is zero.
func (a *Analyzer) DisparateImpact(predictions []float64, groups []string, privilegedGroup string, threshold float64) (BiasReport, error) {
	if len(predictions) != len(groups) {
		return BiasReport{}, fmt.Errorf("predictions and groups length mismatch: %d != %d", len(predictions), len(groups))
	}

	rates := positiveRates(binarize(predictions, threshold), groups)

	privilegedRate, ok := rates[privilegedGroup]
	if !ok {
		privilegedRate = 1.0
	}

	minRatio := 1.0
	haveRatio := false
	for g, rate := range rates {
		if g == privilegedGroup {
			continue
		}
		ratio := 1.0
		if privilegedRate > 0 {
			ratio = rate / privilegedRate
		}
		if !haveRatio || ratio < minRatio {
			minRatio = ratio
			haveRatio = true
		}
	}

	return BiasReport{
		ProtectedAttribute: "group",
		MetricType:         MetricDisparateImpact,
		Score:              minRatio,
		IsFair:             minRatio >= a.fairnessThreshold,
		GroupMetrics:       rates,
		Threshold:          a.fairnessThreshold,
	}, nil
}

// ComprehensiveCheck runs demographic parity always, equal opportunity when
// labels are supplied and disparate impact when a privileged group is named,
// in that order.
func (a *Analyzer) ComprehensiveCheck(predictions []float64, groups []string, trueLabels []int, privilegedGroup string) ([]BiasReport, error) {
	reports := make([]BiasReport, 0, 3)

	parity, err := a.DemographicParity(predictions, groups, DefaultClassificationThreshold)
	if err != nil {
		return nil, err
	}
	reports = append(reports, parity)

	if trueLabels != nil {
		opportunity, err := a.EqualOpportunity(predictions, groups, trueLabels, DefaultClassificationThreshold)
		if err != nil {
			return nil, err
		}
		reports = append(reports, opportunity)
	}

	if privilegedGroup != "" {
		impact, err := a.DisparateImpact(predictions, groups, privilegedGroup, DefaultClassificationThreshold)
		if err != nil {
			return nil, err
		}
		reports = append(reports, impact)
	}

	return reports, nil
}
