package anomaly

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/evergreen-ci/breakout/stats"
)

type observation struct {
	index int
	value float64
}

// esd runs a generalized ESD test over residuals, using the median and the
// scaled median absolute deviation in the test statistic for robustness
// against the outliers it is hunting. Each round removes the most extreme
// remaining residual and compares it against a Student's t critical value;
// the test statistic only shrinks and the critical value only grows, so the
// first non-rejection ends the test. Returns the indexes of the rejected
// observations in detection order.
func esd(residuals []float64, maxOutliers int, alpha float64, direction Direction) []int {
	n := len(residuals)
	active := make([]observation, n)
	for i, v := range residuals {
		active[i] = observation{index: i, value: v}
	}

	var outliers []int
	for i := 1; i <= maxOutliers; i++ {
		if n-i-1 < 1 {
			break
		}

		values := make([]float64, len(active))
		for j, obs := range active {
			values[j] = obs.value
		}
		median := stats.Median(values)
		mad := stats.MedianAbsDev(values)
		if mad == 0 {
			break
		}

		best := 0
		score := math.Inf(-1)
		for j, obs := range active {
			var deviation float64
			switch direction {
			case DirectionPositive:
				deviation = (obs.value - median) / mad
			case DirectionNegative:
				deviation = (median - obs.value) / mad
			default:
				deviation = math.Abs(obs.value-median) / mad
			}
			if deviation > score {
				score = deviation
				best = j
			}
		}

		var p float64
		if direction == DirectionBoth {
			p = 1.0 - alpha/(2.0*float64(n-i+1))
		} else {
			p = 1.0 - alpha/float64(n-i+1)
		}
		crit := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - i - 1)}.Quantile(p)

		remaining := float64(n - i)
		lambda := remaining * crit / math.Sqrt((remaining-1+crit*crit)*(remaining+1))
		if score <= lambda {
			break
		}

		outliers = append(outliers, active[best].index)
		active = append(active[:best], active[best+1:]...)
	}

	return outliers
}
