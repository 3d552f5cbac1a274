// Package client provides the HTTP client for the FFT analyzer's REST API.
// Types mirror the device wire protocol.
package client

// StatusResponse is returned by GET /api/status.
type StatusResponse struct {
	Status          string  `json:"status"`
	Version         string  `json:"version"`
	AnalysisRunning bool    `json:"analysis_running"`
	Uptime          float64 `json:"uptime"`
}

// ControlResponse is returned by the start/stop/settings endpoints.
type ControlResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Peak is a single detected peak in the magnitude spectrum.
type Peak struct {
	Frequency float64 `json:"frequency"`
	Magnitude float64 `json:"magnitude"`
}

// FFTData is the summary measurement returned by GET /api/fft/data.
type FFTData struct {
	Timestamp  float64 `json:"timestamp"`
	PeakData   []Peak  `json:"peak_data"`
	MaxVoltage float64 `json:"max_voltage"`
	TotalPower float64 `json:"total_power"`
	IsRunning  bool    `json:"is_running"`
}

// RawData is the full spectrum returned by GET /api/fft/raw.
type RawData struct {
	Timestamp     float64   `json:"timestamp"`
	FrequencyData []float64 `json:"frequency_data"`
	MagnitudeData []float64 `json:"magnitude_data"`
	TimeData      []float64 `json:"time_data"`
	IsRunning     bool      `json:"is_running"`
}

// Settings carries analysis parameters for POST /api/fft/settings.
// Nil fields are omitted and left unchanged on the device.
type Settings struct {
	BaseFreq   *float64 `json:"base_freq,omitempty"`
	NoiseLevel *float64 `json:"noise_level,omitempty"`
}
