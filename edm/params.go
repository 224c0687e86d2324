package edm

func validateSeries(series []float64, minSize int) error {
	if minSize < 1 {
		return invalidArgumentf("min size %d must be at least 1", minSize)
	}
	if len(series) < 2*minSize {
		return invalidArgumentf("series of length %d is too short for min size %d", len(series), minSize)
	}
	return nil
}

// Significance and strength levels live in (0, 1].
func validateLevel(name string, value float64) error {
	if value <= 0 || value > 1 {
		return invalidArgumentf("%s %f must be in (0, 1]", name, value)
	}
	return nil
}

// Tail quantiles live strictly inside (0, 1).
func validateQuantile(quant float64) error {
	if quant <= 0 || quant >= 1 {
		return invalidArgumentf("quantile %f must be in (0, 1)", quant)
	}
	return nil
}

func validateDegree(degree int) error {
	if degree < 0 {
		return invalidArgumentf("detrending degree %d must not be negative", degree)
	}
	return nil
}
