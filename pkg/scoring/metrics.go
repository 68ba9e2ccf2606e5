// Package scoring computes per-fold evaluation metrics for benchmark tasks
// and aggregates them across folds. Regression folds are scored with error
// metrics (mae, rmse, mape, max_error); classification folds with binary
// metrics (accuracy, balanced_accuracy, f1, rocauc). All functions are pure
// and deterministic.
package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// Scoring errors.
var (
	// ErrLengthMismatch indicates that the truth and prediction sequences
	// have different lengths.
	ErrLengthMismatch = errors.New("scoring: truth and prediction lengths differ")

	// ErrNoSamples indicates an empty input sequence.
	ErrNoSamples = errors.New("scoring: no samples to score")
)

// Metric names, matching the canonical benchmark result schema.
const (
	MetricMAE      = "mae"
	MetricRMSE     = "rmse"
	MetricMAPE     = "mape"
	MetricMaxError = "max_error"

	MetricAccuracy         = "accuracy"
	MetricBalancedAccuracy = "balanced_accuracy"
	MetricF1               = "f1"
	MetricROCAUC           = "rocauc"
)

// mapeEpsilon bounds the divisor of percentage errors away from zero.
const mapeEpsilon = 1e-12

// RegressionMetrics returns the regression metric names in canonical order.
func RegressionMetrics() []string {
	return []string{MetricMAE, MetricRMSE, MetricMAPE, MetricMaxError}
}

// ClassificationMetrics returns the classification metric names in
// canonical order.
func ClassificationMetrics() []string {
	return []string{MetricAccuracy, MetricBalancedAccuracy, MetricF1, MetricROCAUC}
}

// Regression scores predicted values against ground truth and returns the
// full regression metric set keyed by metric name.
func Regression(yTrue, yPred []float64) (map[string]float64, error) {
	if err := checkLengths(len(yTrue), len(yPred)); err != nil {
		return nil, err
	}

	n := len(yTrue)
	absErr := make([]float64, n)
	sqErr := make([]float64, n)
	pctErr := make([]float64, n)
	for i := range yTrue {
		d := yTrue[i] - yPred[i]
		absErr[i] = math.Abs(d)
		sqErr[i] = d * d
		pctErr[i] = math.Abs(d) / math.Max(math.Abs(yTrue[i]), mapeEpsilon)
	}

	return map[string]float64{
		MetricMAE:      stat.Mean(absErr, nil),
		MetricRMSE:     math.Sqrt(stat.Mean(sqErr, nil)),
		MetricMAPE:     stat.Mean(pctErr, nil),
		MetricMaxError: floats.Max(absErr),
	}, nil
}

// Classification scores predicted labels against ground truth and returns
// the full binary classification metric set keyed by metric name.
func Classification(yTrue, yPred []bool) (map[string]float64, error) {
	if err := checkLengths(len(yTrue), len(yPred)); err != nil {
		return nil, err
	}

	tp, tn, fp, fn := confusion(yTrue, yPred)
	return map[string]float64{
		MetricAccuracy:         ratio(tp+tn, tp+tn+fp+fn),
		MetricBalancedAccuracy: (ratio(tp, tp+fn) + ratio(tn, tn+fp)) / 2,
		MetricF1:               ratio(2*tp, 2*tp+fp+fn),
		MetricROCAUC:           rocauc(yTrue, yPred),
	}, nil
}

// MAE returns the mean absolute error between truth and predictions.
func MAE(yTrue, yPred []float64) (float64, error) {
	m, err := Regression(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return m[MetricMAE], nil
}

// RMSE returns the root-mean-squared error between truth and predictions.
func RMSE(yTrue, yPred []float64) (float64, error) {
	m, err := Regression(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return m[MetricRMSE], nil
}

// Accuracy returns the fraction of predictions matching the truth labels.
func Accuracy(yTrue, yPred []bool) (float64, error) {
	m, err := Classification(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return m[MetricAccuracy], nil
}

// ROCAUC returns the area under the receiver operating characteristic
// curve for the predicted labels. Single-class truth sequences have no
// defined curve and score at chance level (0.5).
func ROCAUC(yTrue, yPred []bool) (float64, error) {
	if err := checkLengths(len(yTrue), len(yPred)); err != nil {
		return 0, err
	}
	return rocauc(yTrue, yPred), nil
}

// rocauc ranks samples by predicted label and integrates the ROC curve.
func rocauc(yTrue, yPred []bool) float64 {
	var pos int
	for _, c := range yTrue {
		if c {
			pos++
		}
	}
	if pos == 0 || pos == len(yTrue) {
		return 0.5
	}

	// stat.ROC wants classifier scores in ascending order with the class
	// labels carried alongside.
	type ranked struct {
		score float64
		class bool
	}
	samples := make([]ranked, len(yTrue))
	for i := range yTrue {
		var s float64
		if yPred[i] {
			s = 1
		}
		samples[i] = ranked{score: s, class: yTrue[i]}
	}
	sort.SliceStable(samples, func(i, j int) bool { return samples[i].score < samples[j].score })

	scores := make([]float64, len(samples))
	classes := make([]bool, len(samples))
	for i, s := range samples {
		scores[i] = s.score
		classes[i] = s.class
	}

	tpr, fpr, _ := stat.ROC(nil, scores, classes, nil)
	return integrate.Trapezoidal(fpr, tpr)
}

// confusion tallies the binary confusion counts.
func confusion(yTrue, yPred []bool) (tp, tn, fp, fn float64) {
	for i := range yTrue {
		switch {
		case yTrue[i] && yPred[i]:
			tp++
		case !yTrue[i] && !yPred[i]:
			tn++
		case !yTrue[i] && yPred[i]:
			fp++
		default:
			fn++
		}
	}
	return tp, tn, fp, fn
}

// ratio returns num/den, or 0 when the denominator is 0.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func checkLengths(nTrue, nPred int) error {
	if nTrue != nPred {
		return fmt.Errorf("%w: %d truth values, %d predictions", ErrLengthMismatch, nTrue, nPred)
	}
	if nTrue == 0 {
		return ErrNoSamples
	}
	return nil
}
