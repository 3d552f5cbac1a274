// Package device implements a mock FFT analyzer: the same HTTP API the
// Raspberry Pi firmware exposes, backed by a synthesized signal, so the
// client can be developed and tested without hardware.
package device

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

const (
	blockSize      = 1024  // samples per analysis block (power of two for the FFT)
	sampleRate     = 500.0 // samples per second
	updateInterval = 200 * time.Millisecond
)

// Measurement is the summary result served by /api/fft/data.
type Measurement struct {
	Timestamp  float64 `json:"timestamp"`
	PeakData   []Peak  `json:"peak_data"`
	MaxVoltage float64 `json:"max_voltage"`
	TotalPower float64 `json:"total_power"`
	IsRunning  bool    `json:"is_running"`
}

// RawMeasurement is the full spectrum served by /api/fft/raw.
type RawMeasurement struct {
	Timestamp     float64   `json:"timestamp"`
	FrequencyData []float64 `json:"frequency_data"`
	MagnitudeData []float64 `json:"magnitude_data"`
	TimeData      []float64 `json:"time_data"`
	IsRunning     bool      `json:"is_running"`
}

// Analyzer runs the analysis loop in the background and publishes the latest
// block's results under a lock.
type Analyzer struct {
	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}

	baseFreq    float64
	noiseLevel  float64
	timeCounter float64

	timeData   []float64
	freqData   []float64
	magData    []float64
	peaks      []Peak
	maxVoltage float64
	totalPower float64
	timestamp  float64
}

// NewAnalyzer creates an idle analyzer with the default signal parameters.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		baseFreq:   10.0,
		noiseLevel: 0.1,
	}
}

// Start launches the analysis loop. Returns false if already running.
func (a *Analyzer) Start() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return false
	}
	a.running = true
	a.stop = make(chan struct{})
	a.done = make(chan struct{})
	go a.run(a.stop, a.done)
	return true
}

// Stop halts the analysis loop and waits for it to exit. Returns false if
// not running.
func (a *Analyzer) Stop() bool {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return false
	}
	a.running = false
	close(a.stop)
	done := a.done
	a.mu.Unlock()

	select {
	case <-done:
	case <-time.After(time.Second):
	}
	return true
}

// Running reports whether the analysis loop is active.
func (a *Analyzer) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// UpdateSettings adjusts signal parameters. Nil fields are left unchanged.
func (a *Analyzer) UpdateSettings(baseFreq, noiseLevel *float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if baseFreq != nil {
		a.baseFreq = *baseFreq
	}
	if noiseLevel != nil {
		a.noiseLevel = *noiseLevel
	}
}

// Data returns the latest summary measurement.
func (a *Analyzer) Data() Measurement {
	a.mu.Lock()
	defer a.mu.Unlock()
	peaks := make([]Peak, len(a.peaks))
	copy(peaks, a.peaks)
	return Measurement{
		Timestamp:  a.timestamp,
		PeakData:   peaks,
		MaxVoltage: a.maxVoltage,
		TotalPower: a.totalPower,
		IsRunning:  a.running,
	}
}

// Raw returns the latest full spectrum. Time data is truncated to 100
// samples to keep the payload small, as the firmware does.
func (a *Analyzer) Raw() RawMeasurement {
	a.mu.Lock()
	defer a.mu.Unlock()
	td := a.timeData
	if len(td) > 100 {
		td = td[:100]
	}
	return RawMeasurement{
		Timestamp:     a.timestamp,
		FrequencyData: append([]float64(nil), a.freqData...),
		MagnitudeData: append([]float64(nil), a.magData...),
		TimeData:      append([]float64(nil), td...),
		IsRunning:     a.running,
	}
}

func (a *Analyzer) run(stop, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		default:
		}

		t0 := time.Now()
		a.step()

		if elapsed := time.Since(t0); elapsed < updateInterval {
			select {
			case <-stop:
				return
			case <-time.After(updateInterval - elapsed):
			}
		}
	}
}

// step generates one block of samples, analyzes it, and publishes the result.
func (a *Analyzer) step() {
	a.mu.Lock()
	baseFreq := a.baseFreq
	noiseLevel := a.noiseLevel
	start := a.timeCounter
	a.mu.Unlock()

	dt := 1.0 / sampleRate
	samples := make([]float64, blockSize)
	for i := range samples {
		t := start + float64(i)*dt
		samples[i] = synthesize(t, baseFreq, noiseLevel)
	}

	freqs, mags := spectrum(samples, sampleRate)
	peaks := findPeaks(freqs, mags)

	maxVoltage := 0.0
	for _, v := range samples {
		if av := math.Abs(v); av > maxVoltage {
			maxVoltage = av
		}
	}
	totalPower := 0.0
	for _, m := range mags {
		totalPower += m * m
	}

	a.mu.Lock()
	a.timeData = samples
	a.freqData = freqs
	a.magData = mags
	a.peaks = peaks
	a.maxVoltage = maxVoltage
	a.totalPower = totalPower
	a.timestamp = float64(time.Now().UnixNano()) / 1e9
	a.timeCounter = start + float64(blockSize)*dt
	a.mu.Unlock()
}

// synthesize produces the test signal: a base tone with harmonics and a
// subharmonic, plus noise and a slow DC drift.
func synthesize(t, baseFreq, noiseLevel float64) float64 {
	signal := math.Sin(2*math.Pi*baseFreq*t) +
		0.5*math.Sin(2*math.Pi*2*baseFreq*t) +
		0.3*math.Sin(2*math.Pi*3*baseFreq*t) +
		0.2*math.Sin(2*math.Pi*baseFreq/2*t)
	noise := rand.NormFloat64() * noiseLevel * 0.8
	drift := 0.2 * math.Sin(2*math.Pi*0.05*t)
	return signal + noise + drift
}
