package descriptive

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	domainstats "statdesc/domain/stats"
)

// ConfidenceLevel of the interval reported for the mean.
const ConfidenceLevel = 0.95

// SummarizeColumn computes the profile of column j from its clean values
// (missing entries already removed). rows is the column length before
// cleaning. The returned notices describe skipped or degenerate results;
// none of them are errors.
func SummarizeColumn(j int, label string, clean []float64, rows int) (domainstats.Profile, []string) {
	n := len(clean)
	profile := domainstats.Profile{Label: label, N: n, Missing: rows - n}
	if n == 0 {
		return profile, []string{fmt.Sprintf("Skipping column %d, only missing data", j+1)}
	}

	var notices []string
	data := stats.Float64Data(clean)

	mean, _ := stats.Mean(data)
	profile.Mean = domainstats.Defined(mean)

	if n > 1 {
		sd := stat.StdDev(clean, nil)
		profile.StdDev = domainstats.Defined(sd)

		half := tQuantile(1-(1-ConfidenceLevel)/2, n-1) * sd / math.Sqrt(float64(n))
		profile.CILower = domainstats.Defined(mean - half)
		profile.CIUpper = domainstats.Defined(mean + half)
	}

	lo, _ := data.Min()
	hi, _ := data.Max()
	profile.Min = domainstats.Defined(lo)
	profile.Max = domainstats.Defined(hi)

	med, _ := data.Median()
	profile.Median = domainstats.Defined(med)

	sorted := append([]float64(nil), clean...)
	sort.Float64s(sorted)
	profile.Q25 = domainstats.Defined(percentileSorted(sorted, 25))
	profile.Q75 = domainstats.Defined(percentileSorted(sorted, 75))

	if n >= ShapiroMinN {
		res, err := ShapiroWilk(clean)
		if err == nil {
			profile.W = domainstats.Defined(res.W)
			profile.NormalityP = domainstats.Defined(res.P)
			if res.Constant {
				notices = append(notices, fmt.Sprintf("Column %s is constant, Shapiro-Wilk W and p set to 1", label))
			}
			if res.Approximate {
				notices = append(notices, fmt.Sprintf("Column %s has %d values, Shapiro-Wilk p-value may be inaccurate for n > %d", label, n, ShapiroMaxN))
			}
		}
	}

	return profile, notices
}
