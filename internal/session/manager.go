package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/pifft/remote/internal/client"
)

// DefaultPollInterval is how often the scheduler fetches measurement data
// while analysis is running.
const DefaultPollInterval = time.Second

// Transport issues requests to one device. *client.HTTPClient satisfies it;
// tests substitute a fake.
type Transport interface {
	Status(ctx context.Context) (*client.StatusResponse, error)
	StartAnalysis(ctx context.Context) (*client.ControlResponse, error)
	StopAnalysis(ctx context.Context) (*client.ControlResponse, error)
	FetchData(ctx context.Context) (*client.FFTData, error)
	FetchRaw(ctx context.Context) (*client.RawData, error)
	UpdateSettings(ctx context.Context, s client.Settings) (*client.ControlResponse, error)
}

// DialFunc builds a Transport for an endpoint. Connect calls it once per
// attempt so a changed endpoint gets a fresh client.
type DialFunc func(client.Endpoint) Transport

// Manager is the session state machine. All mutation happens through its
// methods; network results are applied asynchronously and discarded when the
// session epoch has moved on (a connect or disconnect happened in between).
type Manager struct {
	mu        sync.Mutex
	dial      DialFunc
	interval  time.Duration
	epoch     uint64
	transport Transport
	state     Session

	pollCancel   context.CancelFunc
	pollGen      uint64
	pollBusy     bool
	rawBusy      bool
	settingsBusy bool

	updates chan struct{}
}

// NewManager creates a manager in the Disconnected state. An interval of
// zero selects DefaultPollInterval.
func NewManager(dial DialFunc, interval time.Duration) *Manager {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Manager{
		dial:     dial,
		interval: interval,
		updates:  make(chan struct{}, 1),
	}
}

// State returns a copy of the current session.
func (m *Manager) State() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Updates returns a coalescing notification channel. One receive may cover
// several state changes; read the latest state with State.
func (m *Manager) Updates() <-chan struct{} {
	return m.updates
}

func (m *Manager) notifyLocked() {
	select {
	case m.updates <- struct{}{}:
	default:
	}
}

// Connect validates the endpoint and begins a connection test. It is a no-op
// unless the session is Disconnected or ConnectionFailed.
func (m *Manager) Connect(host string, port int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Status != Disconnected && m.state.Status != ConnectionFailed {
		return
	}

	ep := client.Endpoint{Host: host, Port: port}
	if err := ep.Validate(); err != nil {
		m.state.LastError = err
		m.notifyLocked()
		return
	}

	m.epoch++
	epoch := m.epoch
	m.transport = m.dial(ep)
	lastErr := m.state.LastError
	m.state = Session{Endpoint: ep, Status: Connecting, LastError: lastErr}
	m.notifyLocked()

	t := m.transport
	go func() {
		resp, err := t.Status(context.Background())
		m.applyConnect(epoch, resp, err)
	}()
}

func (m *Manager) applyConnect(epoch uint64, resp *client.StatusResponse, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if epoch != m.epoch {
		return
	}
	if err != nil {
		m.state.Status = ConnectionFailed
		m.state.LastError = err
		m.notifyLocked()
		return
	}
	m.state.Status = Connected
	m.state.DeviceVersion = resp.Version
	m.state.LastError = nil
	if resp.AnalysisRunning {
		m.state.Acquisition = Running
		m.beginPollingLocked()
	} else {
		m.state.Acquisition = Idle
	}
	m.notifyLocked()
}

// Disconnect tears the session down locally. It is valid from any state and
// always succeeds; results of in-flight requests are discarded via the epoch.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.epoch++
	m.endPollingLocked()
	m.transport = nil
	m.state = Session{Endpoint: m.state.Endpoint}
	m.notifyLocked()
}

// StartAnalysis asks the device to start acquisition. Idempotent: issued only
// when Connected and Idle, so a second call never sends a duplicate request.
func (m *Manager) StartAnalysis() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Status != Connected || m.state.Acquisition != Idle {
		return
	}
	m.state.Acquisition = StartPending
	m.notifyLocked()

	epoch := m.epoch
	t := m.transport
	go func() {
		resp, err := t.StartAnalysis(context.Background())
		m.applyStart(epoch, resp, err)
	}()
}

func (m *Manager) applyStart(epoch uint64, resp *client.ControlResponse, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if epoch != m.epoch || m.state.Acquisition != StartPending {
		return
	}
	if err == nil && !resp.Success {
		err = fmt.Errorf("device refused start: %s", resp.Message)
	}
	if err != nil {
		m.state.Acquisition = Idle
		m.state.LastError = err
		m.notifyLocked()
		return
	}
	m.state.Acquisition = Running
	m.state.LastError = nil
	m.beginPollingLocked()
	m.notifyLocked()
}

// StopAnalysis asks the device to stop acquisition. Issued only when
// Connected and Running.
func (m *Manager) StopAnalysis() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Status != Connected || m.state.Acquisition != Running {
		return
	}
	m.state.Acquisition = StopPending
	m.notifyLocked()

	epoch := m.epoch
	t := m.transport
	go func() {
		resp, err := t.StopAnalysis(context.Background())
		m.applyStop(epoch, resp, err)
	}()
}

func (m *Manager) applyStop(epoch uint64, resp *client.ControlResponse, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if epoch != m.epoch || m.state.Acquisition != StopPending {
		return
	}
	if err == nil && !resp.Success {
		err = fmt.Errorf("device refused stop: %s", resp.Message)
	}
	if err != nil {
		m.state.Acquisition = Running
		m.state.LastError = err
		m.notifyLocked()
		return
	}
	m.state.Acquisition = Idle
	m.state.LastError = nil
	m.endPollingLocked()
	m.notifyLocked()
}

// FetchRaw requests the full spectrum once. At most one raw fetch is in
// flight at a time.
func (m *Manager) FetchRaw() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Status != Connected || m.rawBusy {
		return
	}
	m.rawBusy = true

	epoch := m.epoch
	t := m.transport
	go func() {
		raw, err := t.FetchRaw(context.Background())
		m.applyRaw(epoch, raw, err)
	}()
}

func (m *Manager) applyRaw(epoch uint64, raw *client.RawData, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rawBusy = false
	if epoch != m.epoch {
		return
	}
	if err != nil {
		m.state.LastError = err
		m.notifyLocked()
		return
	}
	m.state.Raw = raw
	m.state.LastError = nil
	m.notifyLocked()
}

// UpdateSettings pushes analysis parameters to the device. At most one
// settings request is in flight at a time.
func (m *Manager) UpdateSettings(s client.Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Status != Connected || m.settingsBusy {
		return
	}
	m.settingsBusy = true

	epoch := m.epoch
	t := m.transport
	go func() {
		resp, err := t.UpdateSettings(context.Background(), s)
		m.applySettings(epoch, resp, err)
	}()
}

func (m *Manager) applySettings(epoch uint64, resp *client.ControlResponse, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settingsBusy = false
	if epoch != m.epoch {
		return
	}
	if err == nil && !resp.Success {
		err = fmt.Errorf("device refused settings: %s", resp.Message)
	}
	if err != nil {
		m.state.LastError = err
	} else {
		m.state.LastError = nil
	}
	m.notifyLocked()
}

func logPollFailure(consecutive int, err error) {
	log.Printf("poll failed (%d consecutive): %v", consecutive, err)
}
