package descriptive

import (
	"math"
	"sort"

	"statdesc/domain/core"
)

// Royston (1995) polynomial approximations, algorithm AS R94.
var (
	swC1 = []float64{0, 0.221157, -0.147981, -2.071190, 4.434685, -2.706056}
	swC2 = []float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.5440, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
	swG  = []float64{-2.273, 0.459}
)

const (
	// ShapiroMinN is the smallest sample the test accepts.
	ShapiroMinN = 3
	// ShapiroMaxN bounds the range over which the p-value approximation
	// was fitted. Larger samples are still computed.
	ShapiroMaxN = 5000
)

// NormalityResult is the outcome of a Shapiro-Wilk test.
type NormalityResult struct {
	W float64
	P float64
	// Constant is set when every observation is identical.
	Constant bool
	// Approximate is set for n > ShapiroMaxN.
	Approximate bool
}

// ShapiroWilk tests the null hypothesis that x was drawn from a normal
// distribution. x must not contain NaN.
func ShapiroWilk(x []float64) (NormalityResult, error) {
	n := len(x)
	if n < ShapiroMinN {
		return NormalityResult{}, core.NewInsufficientDataError("Shapiro-Wilk test", n, ShapiroMinN)
	}

	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	if sorted[n-1]-sorted[0] == 0 {
		return NormalityResult{W: 1, P: 1, Constant: true}, nil
	}

	a := shapiroCoefficients(n)

	mean := 0.0
	for _, v := range sorted {
		mean += v
	}
	mean /= float64(n)

	ssq := 0.0
	for _, v := range sorted {
		d := v - mean
		ssq += d * d
	}

	num := 0.0
	for i, ai := range a {
		num += ai * (sorted[n-1-i] - sorted[i])
	}

	w := num * num / ssq
	if w > 1 {
		w = 1
	}

	return NormalityResult{
		W:           w,
		P:           shapiroPValue(w, n),
		Approximate: n > ShapiroMaxN,
	}, nil
}

// shapiroCoefficients returns the antisymmetric weights a_1..a_{n/2}
// applied to x_(n+1-i) - x_(i).
func shapiroCoefficients(n int) []float64 {
	half := n / 2
	a := make([]float64, half)
	if n == 3 {
		a[0] = math.Sqrt(0.5)
		return a
	}

	an25 := float64(n) + 0.25
	m := make([]float64, half)
	summ2 := 0.0
	for i := range m {
		m[i] = normalQuantile((float64(i+1) - 0.375) / an25)
		summ2 += m[i] * m[i]
	}
	summ2 *= 2
	ssumm2 := math.Sqrt(summ2)
	rsn := 1 / math.Sqrt(float64(n))

	a[0] = poly(swC1, rsn) - m[0]/ssumm2

	first := 1
	var fac float64
	if n > 5 {
		first = 2
		a[1] = -m[1]/ssumm2 + poly(swC2, rsn)
		fac = math.Sqrt((summ2 - 2*m[0]*m[0] - 2*m[1]*m[1]) /
			(1 - 2*a[0]*a[0] - 2*a[1]*a[1]))
	} else {
		fac = math.Sqrt((summ2 - 2*m[0]*m[0]) / (1 - 2*a[0]*a[0]))
	}
	for i := first; i < half; i++ {
		a[i] = -m[i] / fac
	}
	return a
}

func shapiroPValue(w float64, n int) float64 {
	if n == 3 {
		// exact distribution for three observations
		p := 1.90985931710274 * (math.Asin(math.Sqrt(w)) - 1.04719755119660)
		return math.Min(math.Max(p, 0), 1)
	}

	nn := float64(n)
	y := math.Log(1 - w)
	var m, s float64
	if n <= 11 {
		gamma := poly(swG, nn)
		if y >= gamma {
			return 1e-99
		}
		y = -math.Log(gamma - y)
		m = poly(swC3, nn)
		s = math.Exp(poly(swC4, nn))
	} else {
		ln := math.Log(nn)
		m = poly(swC5, ln)
		s = math.Exp(poly(swC6, ln))
	}
	return normalSurvival((y - m) / s)
}
