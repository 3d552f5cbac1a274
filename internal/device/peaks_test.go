package device

import (
	"math"
	"testing"
)

// bumps builds a flat spectrum of n bins with triangular bumps, indexed by
// center bin and height. freqs are just the bin indices.
func bumps(n int, centers map[int]float64) (freqs, mags []float64) {
	freqs = make([]float64, n)
	mags = make([]float64, n)
	for i := range freqs {
		freqs[i] = float64(i)
	}
	for c, h := range centers {
		mags[c] = h
		if c > 0 && mags[c-1] < h/2 {
			mags[c-1] = h / 2
		}
		if c < n-1 && mags[c+1] < h/2 {
			mags[c+1] = h / 2
		}
	}
	return freqs, mags
}

func TestFindPeaksStrict(t *testing.T) {
	freqs, mags := bumps(100, map[int]float64{20: 0.5, 60: 0.3})
	peaks := findPeaks(freqs, mags)
	if len(peaks) != 2 {
		t.Fatalf("found %d peaks, want 2: %+v", len(peaks), peaks)
	}
	got := map[float64]float64{}
	for _, p := range peaks {
		got[p.Frequency] = p.Magnitude
	}
	if got[20] != 0.5 || got[60] != 0.3 {
		t.Errorf("peaks = %v, want bins 20 (0.5) and 60 (0.3)", got)
	}
}

func TestFindPeaksLenientFallback(t *testing.T) {
	// Below the strict 0.1 height floor but above the lenient 0.03 one.
	freqs, mags := bumps(100, map[int]float64{40: 0.06})
	peaks := findPeaks(freqs, mags)
	if len(peaks) != 1 {
		t.Fatalf("found %d peaks, want 1 via the lenient pass: %+v", len(peaks), peaks)
	}
	if peaks[0].Frequency != 40 {
		t.Errorf("peak at bin %v, want 40", peaks[0].Frequency)
	}
}

func TestFindPeaksNothingBelowFloor(t *testing.T) {
	freqs, mags := bumps(100, map[int]float64{40: 0.01})
	if peaks := findPeaks(freqs, mags); len(peaks) != 0 {
		t.Errorf("found %d peaks in a sub-threshold spectrum, want 0", len(peaks))
	}
}

func TestFindPeaksMinimumDistance(t *testing.T) {
	// Two maxima 2 bins apart; the strict 5-bin separation keeps only the
	// first.
	freqs := make([]float64, 100)
	mags := make([]float64, 100)
	for i := range freqs {
		freqs[i] = float64(i)
	}
	mags[19], mags[20], mags[21], mags[22], mags[23] = 0.25, 0.5, 0.2, 0.45, 0.1

	peaks := findPeaks(freqs, mags)
	if len(peaks) != 1 {
		t.Fatalf("found %d peaks, want 1 after distance suppression: %+v", len(peaks), peaks)
	}
	if peaks[0].Frequency != 20 {
		t.Errorf("surviving peak at bin %v, want 20", peaks[0].Frequency)
	}
}

func TestProminenceRejectsShoulder(t *testing.T) {
	// A small bump on the flank of a tall peak has almost no prominence and
	// must not be reported.
	n := 60
	freqs := make([]float64, n)
	mags := make([]float64, n)
	for i := range freqs {
		freqs[i] = float64(i)
	}
	for i := 10; i <= 30; i++ {
		mags[i] = float64(i-10) / 20.0 // ramp up to 1.0 at bin 30
	}
	for i := 31; i < 40; i++ {
		mags[i] = mags[30] - float64(i-30)*0.1
	}
	mags[20] += 0.07 // local max on the ramp, but prominence only ~0.02

	peaks := findPeaks(freqs, mags)
	if len(peaks) != 1 {
		t.Fatalf("found %d peaks, want 1: %+v", len(peaks), peaks)
	}
	if peaks[0].Frequency != 30 {
		t.Errorf("peak at bin %v, want the summit at 30", peaks[0].Frequency)
	}
}

func TestRefineSnapsToLocalMaximum(t *testing.T) {
	mags := make([]float64, 50)
	mags[20] = 0.5
	mags[24] = 0.8 // taller neighbor within the refine window
	if got := refine(mags, 20); got != 24 {
		t.Errorf("refine(20) = %d, want 24", got)
	}
	if got := refine(mags, 2); got != 0 {
		t.Errorf("refine(2) on a flat prefix = %d, want 0", got)
	}
}

func TestFindPeaksOnSyntheticSignal(t *testing.T) {
	// Noiseless synthesized signal: expect the base tone and its harmonics.
	const base = 10.0
	samples := make([]float64, blockSize)
	for i := range samples {
		ti := float64(i) / sampleRate
		samples[i] = math.Sin(2*math.Pi*base*ti) +
			0.5*math.Sin(2*math.Pi*2*base*ti) +
			0.3*math.Sin(2*math.Pi*3*base*ti)
	}
	freqs, mags := spectrum(samples, sampleRate)
	peaks := findPeaks(freqs, mags)

	for _, want := range []float64{base, 2 * base, 3 * base} {
		found := false
		for _, p := range peaks {
			if math.Abs(p.Frequency-want) < 1.0 {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("no peak near %v Hz; got %+v", want, peaks)
		}
	}
}
