package session

import (
	"context"
	"time"

	"github.com/pifft/remote/internal/client"
)

// The polling scheduler runs while the session is Connected and acquisition
// is Running: one fetch immediately, then one per interval. At most one poll
// is in flight; a tick that elapses mid-poll is skipped, not queued.
// Cancellation is layered: the loop context stops new polls, and a result
// that was already in flight is discarded when the session epoch or the poll
// generation has moved on by the time it lands.

// beginPollingLocked starts the scheduler. Caller must hold m.mu.
func (m *Manager) beginPollingLocked() {
	if m.pollCancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.pollCancel = cancel
	go m.pollLoop(ctx, m.epoch, m.pollGen, m.transport)
}

// endPollingLocked stops the scheduler and invalidates any poll still in
// flight. Caller must hold m.mu.
func (m *Manager) endPollingLocked() {
	if m.pollCancel != nil {
		m.pollCancel()
		m.pollCancel = nil
		m.pollGen++
	}
}

func (m *Manager) pollLoop(ctx context.Context, epoch, gen uint64, t Transport) {
	go m.pollOnce(ctx, epoch, gen, t)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go m.pollOnce(ctx, epoch, gen, t)
		}
	}
}

func (m *Manager) pollOnce(ctx context.Context, epoch, gen uint64, t Transport) {
	m.mu.Lock()
	if epoch != m.epoch || gen != m.pollGen || m.pollBusy {
		m.mu.Unlock()
		return
	}
	m.pollBusy = true
	m.mu.Unlock()

	data, err := t.FetchData(ctx)
	m.applyPoll(epoch, gen, data, err)
}

func (m *Manager) applyPoll(epoch, gen uint64, data *client.FFTData, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pollBusy = false
	// Stale if the session moved on (epoch) or the scheduler was torn down
	// while the request was in flight (gen): a stop or device-side idle must
	// never be followed by a snapshot write or a failure count.
	if epoch != m.epoch || gen != m.pollGen {
		return
	}
	if err != nil {
		// Each poll is independent: a failure is logged and skipped, the
		// next tick still fires.
		m.state.PollFailures++
		logPollFailure(m.state.PollFailures, err)
		m.notifyLocked()
		return
	}
	m.state.PollFailures = 0
	snap := snapshotFrom(data)
	m.state.Snapshot = &snap
	if !data.IsRunning && m.state.Acquisition == Running {
		m.state.Acquisition = Idle
		m.endPollingLocked()
	}
	m.notifyLocked()
}
