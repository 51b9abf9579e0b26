package descriptive

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"statdesc/domain/core"
	domainstats "statdesc/domain/stats"
)

// NormalityThreshold is the Shapiro-Wilk p-value every group must exceed
// for Bartlett's test to be preferred over Levene's.
const NormalityThreshold = 0.05

// Bartlett tests the null hypothesis that all groups have equal variance,
// assuming normal populations. Each group needs at least two values.
func Bartlett(groups [][]float64) (statistic, p float64, err error) {
	k := len(groups)
	if k < 2 {
		return math.NaN(), math.NaN(), core.NewInsufficientDataError("Bartlett's test groups", k, 2)
	}

	var total, pooled, logSum, invSum float64
	for i, g := range groups {
		ni := float64(len(g))
		if len(g) < 2 {
			return math.NaN(), math.NaN(), core.NewInsufficientDataError(fmt.Sprintf("Bartlett's test group %d", i+1), len(g), 2)
		}
		v := stat.Variance(g, nil)
		if v == 0 {
			return math.NaN(), math.NaN(), core.NewDegenerateError("Bartlett's test", fmt.Sprintf("group %d has zero variance", i+1))
		}
		total += ni
		pooled += (ni - 1) * v
		logSum += (ni - 1) * math.Log(v)
		invSum += 1 / (ni - 1)
	}

	kk := float64(k)
	dof := total - kk
	pooled /= dof

	numer := dof*math.Log(pooled) - logSum
	denom := 1 + (invSum-1/dof)/(3*(kk-1))
	statistic = numer / denom
	return statistic, chiSquareSurvival(statistic, k-1), nil
}

// Levene tests equality of variances using absolute deviations from each
// group's median (the Brown-Forsythe variant), robust to non-normality.
func Levene(groups [][]float64) (statistic, p float64, err error) {
	k := len(groups)
	if k < 2 {
		return math.NaN(), math.NaN(), core.NewInsufficientDataError("Levene's test groups", k, 2)
	}

	total := 0
	dev := make([][]float64, k)
	groupMean := make([]float64, k)
	grand := 0.0
	for i, g := range groups {
		if len(g) == 0 {
			return math.NaN(), math.NaN(), core.NewInsufficientDataError(fmt.Sprintf("Levene's test group %d", i+1), 0, 1)
		}
		med, err := stats.Median(g)
		if err != nil {
			return math.NaN(), math.NaN(), err
		}
		dev[i] = make([]float64, len(g))
		for j, v := range g {
			dev[i][j] = math.Abs(v - med)
			groupMean[i] += dev[i][j]
		}
		grand += groupMean[i]
		groupMean[i] /= float64(len(g))
		total += len(g)
	}
	if total-k <= 0 {
		return math.NaN(), math.NaN(), core.NewDegenerateError("Levene's test", "no within-group degrees of freedom")
	}
	grand /= float64(total)

	var between, within float64
	for i, d := range dev {
		diff := groupMean[i] - grand
		between += float64(len(d)) * diff * diff
		for _, z := range d {
			e := z - groupMean[i]
			within += e * e
		}
	}
	if within == 0 {
		return math.NaN(), math.NaN(), core.NewDegenerateError("Levene's test", "zero within-group dispersion")
	}

	statistic = float64(total-k) / float64(k-1) * between / within
	return statistic, fSurvival(statistic, k-1, total-k), nil
}

// TestVarianceEquality selects and runs the equality-of-variance test over
// the non-empty columns. It runs only when at least two columns are
// non-empty and at least two have more than two values; otherwise the
// result has MethodNone. Bartlett's test is used when every column has a
// normality p-value above NormalityThreshold, Levene's test otherwise; an
// empty column has no p-value and so selects Levene. Empty columns never
// enter the statistic. A degenerate test keeps its method, leaves the statistic
// undefined and returns the reason as a non-nil error.
func TestVarianceEquality(clean [][]float64, profiles []domainstats.Profile) (domainstats.VarianceTest, error) {
	var groups [][]float64
	eligible := 0
	normal := true
	for j, col := range clean {
		if j >= len(profiles) {
			normal = false
		} else if p, ok := profiles[j].NormalityP.Get(); !ok || p <= NormalityThreshold {
			normal = false
		}
		if len(col) == 0 {
			continue
		}
		groups = append(groups, col)
		if len(col) > 2 {
			eligible++
		}
	}

	result := domainstats.VarianceTest{Method: domainstats.MethodNone}
	if len(groups) < 2 || eligible < 2 {
		return result, nil
	}

	run := Levene
	result.Method = domainstats.MethodLevene
	if normal {
		run = Bartlett
		result.Method = domainstats.MethodBartlett
	}

	statistic, p, err := run(groups)
	if err != nil {
		return result, err
	}
	result.Statistic = domainstats.Defined(statistic)
	result.PValue = domainstats.Defined(p)
	return result, nil
}
