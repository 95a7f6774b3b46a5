package switcher

// hysteresisGap separates the activate and deactivate thresholds.
const hysteresisGap = 0.5

// NextAxisState applies hysteresis to an axis reading: above threshold is
// active, below threshold-0.5 is inactive, anything between keeps last.
func NextAxisState(last bool, value, threshold float64) bool {
	switch {
	case value > threshold:
		return true
	case value < threshold-hysteresisGap:
		return false
	default:
		return last
	}
}
