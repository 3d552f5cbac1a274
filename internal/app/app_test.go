package app

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pifft/remote/internal/client"
	"github.com/pifft/remote/internal/session"
)

type stubTransport struct{}

func (stubTransport) Status(context.Context) (*client.StatusResponse, error) {
	return &client.StatusResponse{Version: "1.0"}, nil
}
func (stubTransport) StartAnalysis(context.Context) (*client.ControlResponse, error) {
	return &client.ControlResponse{Success: true}, nil
}
func (stubTransport) StopAnalysis(context.Context) (*client.ControlResponse, error) {
	return &client.ControlResponse{Success: true}, nil
}
func (stubTransport) FetchData(context.Context) (*client.FFTData, error) {
	return &client.FFTData{Timestamp: 1, IsRunning: true}, nil
}
func (stubTransport) FetchRaw(context.Context) (*client.RawData, error) {
	return &client.RawData{IsRunning: true}, nil
}
func (stubTransport) UpdateSettings(context.Context, client.Settings) (*client.ControlResponse, error) {
	return &client.ControlResponse{Success: true}, nil
}

func newTestApp() (Model, *session.Manager) {
	mgr := session.NewManager(func(client.Endpoint) session.Transport {
		return stubTransport{}
	}, 10*time.Millisecond)
	return New(mgr, "192.168.1.50", 5000), mgr
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func sized(m Model) Model {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func TestViewBeforeWindowSize(t *testing.T) {
	m, _ := newTestApp()
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q before the first WindowSizeMsg", got)
	}
}

func TestViewDisconnected(t *testing.T) {
	m, _ := newTestApp()
	m = sized(m)
	if got := m.View(); !strings.Contains(got, "DISCONNECTED") {
		t.Errorf("view missing DISCONNECTED banner:\n%s", got)
	}
}

func TestConnectKeyDrivesManager(t *testing.T) {
	m, mgr := newTestApp()
	m = sized(m)

	next, _ := m.Update(keyRune('c'))
	m = next.(Model)

	deadline := time.Now().Add(2 * time.Second)
	for mgr.State().Status != session.Connected {
		if time.Now().After(deadline) {
			t.Fatalf("manager never connected; state %v", mgr.State().Status)
		}
		time.Sleep(5 * time.Millisecond)
	}

	next, _ = m.Update(sessionUpdateMsg{})
	m = next.(Model)
	if got := m.View(); !strings.Contains(got, "connected") {
		t.Errorf("view missing connection state after update:\n%s", got)
	}
}

func TestEndpointOverlayGatedOnDisconnected(t *testing.T) {
	m, mgr := newTestApp()
	m = sized(m)

	next, _ := m.Update(keyRune('e'))
	m = next.(Model)
	if m.overlay != OverlayEndpoint {
		t.Fatal("endpoint overlay should open while disconnected")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if m.overlay != OverlayNone {
		t.Fatal("esc should close the overlay")
	}

	// Once connected, the endpoint is immutable.
	mgr.Connect("192.168.1.50", 5000)
	deadline := time.Now().Add(2 * time.Second)
	for mgr.State().Status != session.Connected {
		if time.Now().After(deadline) {
			t.Fatal("manager never connected")
		}
		time.Sleep(5 * time.Millisecond)
	}
	next, _ = m.Update(sessionUpdateMsg{})
	m = next.(Model)
	next, _ = m.Update(keyRune('e'))
	m = next.(Model)
	if m.overlay != OverlayNone {
		t.Error("endpoint overlay must not open while connected")
	}
}

func TestQuitKeyReturnsQuit(t *testing.T) {
	m, _ := newTestApp()
	m = sized(m)

	_, cmd := m.Update(keyRune('q'))
	if cmd == nil {
		t.Fatal("quit key returned no command")
	}
	if msg := cmd(); msg == nil {
		t.Error("quit command produced no message")
	} else if _, ok := msg.(tea.QuitMsg); !ok {
		t.Errorf("quit key returned %T, want tea.QuitMsg", msg)
	}
}

func TestHelpOverlayToggles(t *testing.T) {
	m, _ := newTestApp()
	m = sized(m)

	next, _ := m.Update(keyRune('?'))
	m = next.(Model)
	if m.overlay != OverlayHelp {
		t.Fatal("? should open help")
	}
	next, _ = m.Update(keyRune('?'))
	m = next.(Model)
	if m.overlay != OverlayNone {
		t.Fatal("? should close help again")
	}
}
