package session

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pifft/remote/internal/client"
)

func TestPollStartsImmediately(t *testing.T) {
	polled := make(chan struct{}, 1)
	f := &fakeTransport{
		dataFn: func() (*client.FFTData, error) {
			select {
			case polled <- struct{}{}:
			default:
			}
			return &client.FFTData{Timestamp: 1, IsRunning: true}, nil
		},
	}
	// A long interval proves the first poll does not wait for the ticker.
	m := NewManager(func(client.Endpoint) Transport { return f }, time.Minute)
	connectAndWait(t, m)

	m.StartAnalysis()
	select {
	case <-polled:
	case <-time.After(time.Second):
		t.Fatal("no poll within 1s of starting; the first poll must be immediate")
	}
}

func TestSlowPollSkipsTicks(t *testing.T) {
	release := make(chan struct{})
	f := &fakeTransport{
		dataFn: func() (*client.FFTData, error) {
			<-release
			return &client.FFTData{Timestamp: 1, IsRunning: true}, nil
		},
	}
	m := NewManager(func(client.Endpoint) Transport { return f }, 10*time.Millisecond)
	connectAndWait(t, m)

	m.StartAnalysis()
	// Let many ticks elapse while the first poll is stuck.
	time.Sleep(100 * time.Millisecond)
	if n := atomic.LoadInt32(&f.dataCalls); n != 1 {
		t.Errorf("polls in flight during a slow response = %d, want 1 (ticks are skipped, not queued)", n)
	}

	close(release)
	waitFor(t, m, "snapshot", func(s Session) bool { return s.Snapshot != nil })
}

func TestPollingResumesAfterRestart(t *testing.T) {
	f := &fakeTransport{
		dataFn: func() (*client.FFTData, error) {
			return &client.FFTData{Timestamp: 1, IsRunning: true}, nil
		},
	}
	m := newTestManager(f)
	connectAndWait(t, m)

	m.StartAnalysis()
	waitFor(t, m, "running", func(s Session) bool { return s.Acquisition == Running })
	m.StopAnalysis()
	waitFor(t, m, "idle", func(s Session) bool { return s.Acquisition == Idle })

	stopped := atomic.LoadInt32(&f.dataCalls)
	time.Sleep(50 * time.Millisecond)
	if n := atomic.LoadInt32(&f.dataCalls); n != stopped {
		t.Fatalf("polls after stop = %d, want 0", n-stopped)
	}

	m.StartAnalysis()
	waitFor(t, m, "polls after restart", func(Session) bool {
		return atomic.LoadInt32(&f.dataCalls) > stopped
	})
}

func TestStalePollDiscardedAfterStop(t *testing.T) {
	inFlight := make(chan struct{})
	release := make(chan struct{})
	var once atomic.Bool
	f := &fakeTransport{
		dataFn: func() (*client.FFTData, error) {
			if once.CompareAndSwap(false, true) {
				close(inFlight)
			}
			<-release
			return &client.FFTData{Timestamp: 99, IsRunning: true}, nil
		},
	}
	m := newTestManager(f)
	connectAndWait(t, m)
	m.StartAnalysis()

	<-inFlight
	m.StopAnalysis()
	waitFor(t, m, "idle", func(s Session) bool { return s.Acquisition == Idle })
	close(release)

	time.Sleep(50 * time.Millisecond)
	s := m.State()
	if s.Snapshot != nil {
		t.Errorf("in-flight poll result applied after stop: snapshot=%+v", *s.Snapshot)
	}
	if s.Acquisition != Idle {
		t.Errorf("Acquisition = %v, want Idle", s.Acquisition)
	}
}

func TestCancelledPollIsNotAFailure(t *testing.T) {
	inFlight := make(chan struct{})
	release := make(chan struct{})
	var once atomic.Bool
	f := &fakeTransport{
		dataFn: func() (*client.FFTData, error) {
			if once.CompareAndSwap(false, true) {
				close(inFlight)
			}
			<-release
			return nil, context.Canceled
		},
	}
	m := newTestManager(f)
	connectAndWait(t, m)
	m.StartAnalysis()

	<-inFlight
	m.StopAnalysis()
	waitFor(t, m, "idle", func(s Session) bool { return s.Acquisition == Idle })
	close(release)

	time.Sleep(50 * time.Millisecond)
	s := m.State()
	if s.PollFailures != 0 {
		t.Errorf("PollFailures = %d after a clean stop, want 0", s.PollFailures)
	}
	if s.LastError != nil {
		t.Errorf("LastError = %v after a clean stop, want nil", s.LastError)
	}
}

func TestStalePollNotAppliedAcrossRestart(t *testing.T) {
	inFlight := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	f := &fakeTransport{
		dataFn: func() (*client.FFTData, error) {
			if calls.Add(1) == 1 {
				close(inFlight)
				<-release
				return &client.FFTData{Timestamp: -1, IsRunning: true}, nil
			}
			return &client.FFTData{Timestamp: 1, IsRunning: true}, nil
		},
	}
	m := newTestManager(f)
	connectAndWait(t, m)
	m.StartAnalysis()

	// Stop while the first poll is stuck, then start a new run.
	<-inFlight
	m.StopAnalysis()
	waitFor(t, m, "idle", func(s Session) bool { return s.Acquisition == Idle })
	m.StartAnalysis()
	waitFor(t, m, "running", func(s Session) bool { return s.Acquisition == Running })

	// The pre-stop result belongs to the old run and must not surface.
	close(release)
	s := waitFor(t, m, "fresh snapshot", func(s Session) bool { return s.Snapshot != nil })
	if s.Snapshot.Timestamp < 0 {
		t.Errorf("snapshot from the previous run applied: %+v", *s.Snapshot)
	}
}

func TestDisconnectCancelsTicker(t *testing.T) {
	f := &fakeTransport{
		dataFn: func() (*client.FFTData, error) {
			return &client.FFTData{Timestamp: 1, IsRunning: true}, nil
		},
	}
	m := newTestManager(f)
	connectAndWait(t, m)
	m.StartAnalysis()
	waitFor(t, m, "snapshot", func(s Session) bool { return s.Snapshot != nil })

	m.Disconnect()
	n := atomic.LoadInt32(&f.dataCalls)
	time.Sleep(60 * time.Millisecond)
	if after := atomic.LoadInt32(&f.dataCalls); after > n+1 {
		t.Errorf("ticker kept polling after disconnect (%d extra calls)", after-n)
	}
}
