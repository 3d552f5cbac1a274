package device

import "math"

// maxPlotFreq caps the published spectrum; higher bins are noise for this
// sensor and only clutter the plot.
const maxPlotFreq = 100.0

// fft computes an in-place radix-2 Cooley-Tukey FFT. len(x) must be a power
// of two.
func fft(x []complex128) {
	n := len(x)
	if n <= 1 {
		return
	}

	// Bit-reversal permutation.
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j |= bit
		if i < j {
			x[i], x[j] = x[j], x[i]
		}
	}

	for size := 2; size <= n; size <<= 1 {
		step := -2 * math.Pi / float64(size)
		for start := 0; start < n; start += size {
			for k := 0; k < size/2; k++ {
				angle := step * float64(k)
				w := complex(math.Cos(angle), math.Sin(angle))
				a := x[start+k]
				b := x[start+k+size/2] * w
				x[start+k] = a + b
				x[start+k+size/2] = a - b
			}
		}
	}
}

// spectrum converts a block of time-domain samples to a single-sided
// magnitude spectrum, truncated at maxPlotFreq.
func spectrum(samples []float64, sampleRate float64) (freqs, mags []float64) {
	n := len(samples)
	buf := make([]complex128, n)
	for i, v := range samples {
		buf[i] = complex(v, 0)
	}
	fft(buf)

	half := n/2 + 1
	freqs = make([]float64, 0, half)
	mags = make([]float64, 0, half)
	for k := 0; k < half; k++ {
		f := sampleRate * float64(k) / float64(n)
		if f > maxPlotFreq {
			break
		}
		m := math.Hypot(real(buf[k]), imag(buf[k])) / float64(n)
		// Single-sided: interior bins carry both halves of the energy.
		if k > 0 && k < n/2 {
			m *= 2
		}
		freqs = append(freqs, f)
		mags = append(mags, m)
	}
	return freqs, mags
}
