// Package session owns the connection and polling session with one FFT
// analyzer device. The Manager is the only writer of session state; the TUI
// holds read-only snapshots and forwards user intents in.
package session

import (
	"github.com/pifft/remote/internal/client"
)

// Status is the connection state of the session.
type Status int

const (
	Disconnected Status = iota
	Connecting
	Connected
	ConnectionFailed
)

var statusNames = map[Status]string{
	Disconnected:     "disconnected",
	Connecting:       "connecting",
	Connected:        "connected",
	ConnectionFailed: "connection failed",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return "unknown"
}

// Acquisition is the analysis state of the device. It is meaningful only
// while the session is Connected; any disconnect forces it back to Idle.
type Acquisition int

const (
	Idle Acquisition = iota
	StartPending
	Running
	StopPending
)

var acquisitionNames = map[Acquisition]string{
	Idle:         "idle",
	StartPending: "starting",
	Running:      "running",
	StopPending:  "stopping",
}

func (a Acquisition) String() string {
	if n, ok := acquisitionNames[a]; ok {
		return n
	}
	return "unknown"
}

// Snapshot is one complete measurement result from a poll. It fully replaces
// the previous snapshot; fields are never merged.
type Snapshot struct {
	Timestamp  float64
	Peaks      []client.Peak
	MaxVoltage float64
	TotalPower float64
	Running    bool
}

func snapshotFrom(d *client.FFTData) Snapshot {
	peaks := make([]client.Peak, len(d.PeakData))
	copy(peaks, d.PeakData)
	return Snapshot{
		Timestamp:  d.Timestamp,
		Peaks:      peaks,
		MaxVoltage: d.MaxVoltage,
		TotalPower: d.TotalPower,
		Running:    d.IsRunning,
	}
}

// Session is the aggregate visible to the presentation layer.
type Session struct {
	Endpoint      client.Endpoint
	Status        Status
	Acquisition   Acquisition
	DeviceVersion string

	// Snapshot is present only while Connected with at least one successful
	// poll since the last connect.
	Snapshot *Snapshot

	// Raw is the last on-demand spectrum fetch, cleared on disconnect.
	Raw *client.RawData

	// LastError is the most recent transport failure; cleared by the next
	// successful operation.
	LastError error

	// PollFailures counts consecutive failed polls; reset on success.
	PollFailures int
}

// clone returns a copy safe to hand outside the manager.
func (s *Session) clone() Session {
	c := *s
	if s.Snapshot != nil {
		snap := *s.Snapshot
		snap.Peaks = make([]client.Peak, len(s.Snapshot.Peaks))
		copy(snap.Peaks, s.Snapshot.Peaks)
		c.Snapshot = &snap
	}
	if s.Raw != nil {
		raw := *s.Raw
		raw.FrequencyData = append([]float64(nil), s.Raw.FrequencyData...)
		raw.MagnitudeData = append([]float64(nil), s.Raw.MagnitudeData...)
		raw.TimeData = append([]float64(nil), s.Raw.TimeData...)
		c.Raw = &raw
	}
	return c
}
