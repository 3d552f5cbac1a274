package device

// Peak is one detected spectral peak as published on the wire.
type Peak struct {
	Frequency float64 `json:"frequency"`
	Magnitude float64 `json:"magnitude"`
}

// peakCriteria are the thresholds for peak detection.
type peakCriteria struct {
	height     float64 // minimum magnitude
	distance   int     // minimum bin separation between peaks
	prominence float64 // minimum rise above the surrounding baseline
}

var (
	strictCriteria  = peakCriteria{height: 0.1, distance: 5, prominence: 0.05}
	lenientCriteria = peakCriteria{height: 0.03, distance: 3, prominence: 0.02}
)

// refineWindow is the half-width, in bins, used to snap a detected peak to
// the true local maximum.
const refineWindow = 8

// findPeaks locates peaks in the magnitude spectrum. The strict criteria are
// tried first; if nothing qualifies, a lenient pass keeps the display alive
// on weak signals.
func findPeaks(freqs, mags []float64) []Peak {
	peaks := detect(freqs, mags, strictCriteria)
	if len(peaks) == 0 {
		peaks = detect(freqs, mags, lenientCriteria)
	}
	return peaks
}

func detect(freqs, mags []float64, c peakCriteria) []Peak {
	var out []Peak
	lastIdx := -c.distance
	for i := 1; i < len(mags)-1; i++ {
		if mags[i] < c.height || mags[i] < mags[i-1] || mags[i] < mags[i+1] {
			continue
		}
		if i-lastIdx < c.distance {
			continue
		}
		if prominence(mags, i) < c.prominence {
			continue
		}

		idx := refine(mags, i)
		out = append(out, Peak{Frequency: freqs[idx], Magnitude: mags[idx]})
		lastIdx = i
	}
	return out
}

// prominence measures how far a peak rises above the higher of the two
// valleys separating it from taller terrain (or the spectrum edge).
func prominence(mags []float64, i int) float64 {
	leftMin := mags[i]
	for j := i - 1; j >= 0; j-- {
		if mags[j] > mags[i] {
			break
		}
		if mags[j] < leftMin {
			leftMin = mags[j]
		}
	}
	rightMin := mags[i]
	for j := i + 1; j < len(mags); j++ {
		if mags[j] > mags[i] {
			break
		}
		if mags[j] < rightMin {
			rightMin = mags[j]
		}
	}
	base := leftMin
	if rightMin > base {
		base = rightMin
	}
	return mags[i] - base
}

// refine snaps a peak index to the true maximum within refineWindow bins.
func refine(mags []float64, i int) int {
	lo := i - refineWindow
	if lo < 0 {
		lo = 0
	}
	hi := i + refineWindow
	if hi > len(mags)-1 {
		hi = len(mags) - 1
	}
	best := lo
	for j := lo + 1; j <= hi; j++ {
		if mags[j] > mags[best] {
			best = j
		}
	}
	return best
}
