package led

import (
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/smazurov/camnode/internal/events"
)

// Mock controller for testing
type mockController struct {
	mu       sync.Mutex
	setCalls []setCall
}

type setCall struct {
	ledType string
	enabled bool
	pattern string
}

func (m *mockController) Set(ledType string, enabled bool, pattern string) error {
	m.mu.Lock()
	m.setCalls = append(m.setCalls, setCall{ledType, enabled, pattern})
	m.mu.Unlock()
	return nil
}

func (m *mockController) Available() []string {
	return []string{"system", "user"}
}

func (m *mockController) Patterns() []string {
	return []string{"solid", "blink"}
}

func (m *mockController) lastCall(t *testing.T) setCall {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.setCalls) == 0 {
		t.Fatal("No LED control calls made")
	}
	return m.setCalls[len(m.setCalls)-1]
}

func TestManager_SessionActive(t *testing.T) {
	ctrl := &mockController{}
	eventBus := events.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	mgr := NewManager(ctrl, eventBus, logger)
	mgr.Start()
	defer mgr.Stop()

	// Two sessions go live
	eventBus.Publish(events.SessionStateChangedEvent{
		SessionID: "preview-cam1",
		Kind:      "preview",
		Active:    true,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	eventBus.Publish(events.SessionStateChangedEvent{
		SessionID: "forward-cam1",
		Kind:      "forward",
		Active:    true,
		Timestamp: time.Now().Format(time.RFC3339),
	})

	// Give manager time to process
	time.Sleep(50 * time.Millisecond)

	// System LED should be solid while anything is live
	if got := ctrl.lastCall(t); got.pattern != "solid" {
		t.Errorf("Expected solid pattern with active sessions, got %q", got.pattern)
	}
}

func TestManager_AllSessionsEnded(t *testing.T) {
	ctrl := &mockController{}
	eventBus := events.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	mgr := NewManager(ctrl, eventBus, logger)
	mgr.Start()
	defer mgr.Stop()

	// Session goes live, then ends
	eventBus.Publish(events.SessionStateChangedEvent{
		SessionID: "preview-cam1",
		Kind:      "preview",
		Active:    true,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	eventBus.Publish(events.SessionStateChangedEvent{
		SessionID: "preview-cam1",
		Kind:      "preview",
		Active:    false,
		Timestamp: time.Now().Format(time.RFC3339),
	})

	// Give manager time to process
	time.Sleep(50 * time.Millisecond)

	// System LED should fall back to blink
	if got := ctrl.lastCall(t); got.pattern != "blink" {
		t.Errorf("Expected blink pattern with no active sessions, got %q", got.pattern)
	}
}

func TestManager_OneSessionRemains(t *testing.T) {
	ctrl := &mockController{}
	eventBus := events.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	mgr := NewManager(ctrl, eventBus, logger)
	mgr.Start()
	defer mgr.Stop()

	eventBus.Publish(events.SessionStateChangedEvent{
		SessionID: "preview-cam1",
		Active:    true,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	eventBus.Publish(events.SessionStateChangedEvent{
		SessionID: "forward-cam1",
		Active:    true,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	eventBus.Publish(events.SessionStateChangedEvent{
		SessionID: "forward-cam1",
		Active:    false,
		Timestamp: time.Now().Format(time.RFC3339),
	})

	time.Sleep(50 * time.Millisecond)

	// Still one live session, stay solid
	if got := ctrl.lastCall(t); got.pattern != "solid" {
		t.Errorf("Expected solid pattern with one remaining session, got %q", got.pattern)
	}
}

func TestManager_GetController(t *testing.T) {
	ctrl := &mockController{}
	eventBus := events.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	mgr := NewManager(ctrl, eventBus, logger)

	if got := mgr.GetController(); got != ctrl {
		t.Error("GetController() did not return the original controller")
	}
}
