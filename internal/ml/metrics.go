package ml

import (
	"math"
	"sort"
)

// Accuracy is the fraction of predictions matching the binary labels.
func Accuracy(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	correct := 0
	for i := range yTrue {
		if (yTrue[i] >= 0.5) == (yPred[i] >= 0.5) {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue))
}

// ConfusionMatrix returns counts indexed [actual][predicted] for binary
// labels (0 = negative, 1 = positive).
func ConfusionMatrix(yTrue, yPred []float64) [2][2]int {
	var m [2][2]int
	for i := range yTrue {
		a, p := 0, 0
		if yTrue[i] >= 0.5 {
			a = 1
		}
		if yPred[i] >= 0.5 {
			p = 1
		}
		m[a][p]++
	}
	return m
}

// PrecisionRecallF1 computes the positive-class precision, recall, and F1.
func PrecisionRecallF1(yTrue, yPred []float64) (precision, recall, f1 float64) {
	m := ConfusionMatrix(yTrue, yPred)
	tp := float64(m[1][1])
	fp := float64(m[0][1])
	fn := float64(m[1][0])

	if tp+fp > 0 {
		precision = tp / (tp + fp)
	}
	if tp+fn > 0 {
		recall = tp / (tp + fn)
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return precision, recall, f1
}

// ROCAUC computes the area under the ROC curve from positive-class scores,
// using the rank statistic with midrank tie handling.
func ROCAUC(yTrue, scores []float64) float64 {
	n := len(yTrue)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return scores[idx[a]] < scores[idx[b]] })

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j < n-1 && scores[idx[j+1]] == scores[idx[i]] {
			j++
		}
		// Midrank for ties.
		r := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = r
		}
		i = j + 1
	}

	var sumPos, nPos, nNeg float64
	for i := range yTrue {
		if yTrue[i] >= 0.5 {
			sumPos += ranks[i]
			nPos++
		} else {
			nNeg++
		}
	}
	if nPos == 0 || nNeg == 0 {
		return 0.5
	}
	return (sumPos - nPos*(nPos+1)/2) / (nPos * nNeg)
}

// RMSE is the root mean squared error.
func RMSE(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	sum := 0.0
	for i := range yTrue {
		d := yTrue[i] - yPred[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(yTrue)))
}

// MAE is the mean absolute error.
func MAE(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	sum := 0.0
	for i := range yTrue {
		sum += math.Abs(yTrue[i] - yPred[i])
	}
	return sum / float64(len(yTrue))
}

// R2 is the coefficient of determination.
func R2(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	mean := 0.0
	for _, y := range yTrue {
		mean += y
	}
	mean /= float64(len(yTrue))

	var ssRes, ssTot float64
	for i := range yTrue {
		ssRes += (yTrue[i] - yPred[i]) * (yTrue[i] - yPred[i])
		ssTot += (yTrue[i] - mean) * (yTrue[i] - mean)
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// MAPE is the mean absolute percentage error over rows with non-zero truth.
func MAPE(yTrue, yPred []float64) float64 {
	sum, n := 0.0, 0
	for i := range yTrue {
		if yTrue[i] == 0 {
			continue
		}
		sum += math.Abs((yTrue[i] - yPred[i]) / yTrue[i])
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// MeanStd returns the mean and population standard deviation of xs.
func MeanStd(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	for _, x := range xs {
		std += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(std / float64(len(xs)))
}
