package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// Class is one of the three student outcomes. The numeric value is the
// class's position in ClassOrder and doubles as its correlation code.
type Class int

const (
	ClassDropout Class = iota
	ClassEnrolled
	ClassGraduate
)

// ClassOrder is the fixed order used for per-class metrics and plots.
var ClassOrder = []Class{ClassDropout, ClassEnrolled, ClassGraduate}

var classLabels = [...]string{"Dropout", "Enrolled", "Graduate"}

func (c Class) String() string {
	if c < 0 || int(c) >= len(classLabels) {
		return fmt.Sprintf("Class(%d)", int(c))
	}
	return classLabels[c]
}

// ParseClass maps an outcome label to its Class.
func ParseClass(label string) (Class, bool) {
	for i, l := range classLabels {
		if l == label {
			return Class(i), true
		}
	}
	return 0, false
}

// EncodeClass returns the integer code for an outcome label, or NaN when
// the label is not one of the known classes.
func EncodeClass(label string) float64 {
	c, ok := ParseClass(label)
	if !ok {
		return math.NaN()
	}
	return float64(c)
}

// PerClassF1 holds the F1 score of each class in ClassOrder. It is encoded
// as a three element JSON array.
type PerClassF1 [3]float64

func NewPerClassF1(dropout, enrolled, graduate float64) PerClassF1 {
	return PerClassF1{dropout, enrolled, graduate}
}

func (p PerClassF1) Dropout() float64  { return p[ClassDropout] }
func (p PerClassF1) Enrolled() float64 { return p[ClassEnrolled] }
func (p PerClassF1) Graduate() float64 { return p[ClassGraduate] }

// At returns the score for c.
func (p PerClassF1) At(c Class) float64 {
	return p[c]
}

// PerClassF1FromSlice validates that values has exactly one entry per class.
func PerClassF1FromSlice(values []float64) (PerClassF1, error) {
	var p PerClassF1
	if len(values) != len(p) {
		return p, fmt.Errorf("per_class_f1: expected %d values, got %d", len(p), len(values))
	}
	copy(p[:], values)
	return p, nil
}

func (p PerClassF1) MarshalJSON() ([]byte, error) {
	return json.Marshal(p[:])
}

func (p *PerClassF1) UnmarshalJSON(data []byte) error {
	var values []float64
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	v, err := PerClassF1FromSlice(values)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Model type labels shown in the leaderboard.
const (
	TypeBaseline = "Baseline"
	TypeEnsemble = "Ensemble"
	TypeModel    = "Model"
)

// ModelResult is the validation performance of one trained model.
type ModelResult struct {
	ModelName     string     `json:"model_name"`
	MacroF1       float64    `json:"macro_f1"`
	Accuracy      float64    `json:"accuracy"`
	PerClassF1    PerClassF1 `json:"per_class_f1"`
	IsBaseline    bool       `json:"is_baseline,omitempty"`
	IsEnsemble    bool       `json:"is_ensemble,omitempty"`
	DeltaFromBest float64    `json:"delta_from_best"`
	DeltaPct      float64    `json:"delta_pct"`
}

// Type returns the display category of the result. Baseline wins over
// Ensemble when both tags are set.
func (r ModelResult) Type() string {
	switch {
	case r.IsBaseline:
		return TypeBaseline
	case r.IsEnsemble:
		return TypeEnsemble
	default:
		return TypeModel
	}
}

// ComparisonRun is a set of results ordered by descending macro F1.
type ComparisonRun []ModelResult

// Best returns the top ranked result. ok is false for an empty run.
func (r ComparisonRun) Best() (best ModelResult, ok bool) {
	if len(r) == 0 {
		return ModelResult{}, false
	}
	return r[0], true
}

// Top returns at most n leading results. It never pads.
func (r ComparisonRun) Top(n int) ComparisonRun {
	if n < 0 {
		n = 0
	}
	if n > len(r) {
		n = len(r)
	}
	return r[:n:n]
}

// FeatureCorrelation is the Pearson coefficient of one feature against the
// encoded outcome.
type FeatureCorrelation struct {
	Feature     string  `json:"feature"`
	Coefficient float64 `json:"coefficient"`
}

// FeatureCorrelationRanking is ordered by descending coefficient with
// undefined (NaN) coefficients last.
type FeatureCorrelationRanking []FeatureCorrelation

// Features returns the feature names in ranking order.
func (r FeatureCorrelationRanking) Features() []string {
	names := make([]string, len(r))
	for i, fc := range r {
		names[i] = fc.Feature
	}
	return names
}
