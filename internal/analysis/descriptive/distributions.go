package descriptive

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// tQuantile returns the p quantile of Student's t with df degrees of freedom.
func tQuantile(p float64, df int) float64 {
	if df <= 0 {
		return math.NaN()
	}
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}.Quantile(p)
}

// chiSquareSurvival is the upper tail P(X > x) of a chi-square distribution
func chiSquareSurvival(x float64, df int) float64 {
	if df <= 0 {
		return math.NaN()
	}
	return distuv.ChiSquared{K: float64(df)}.Survival(x)
}

// fSurvival is the upper tail P(X > x) of an F distribution (ANOVA style tests)
func fSurvival(x float64, df1, df2 int) float64 {
	if df1 <= 0 || df2 <= 0 {
		return math.NaN()
	}
	return distuv.F{D1: float64(df1), D2: float64(df2)}.Survival(x)
}

func normalQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}

func normalSurvival(z float64) float64 {
	return distuv.UnitNormal.Survival(z)
}

// poly evaluates c[0] + c[1]x + c[2]x² + ...
func poly(c []float64, x float64) float64 {
	res := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		res = res*x + c[i]
	}
	return res
}
