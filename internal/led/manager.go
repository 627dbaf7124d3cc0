package led

import (
	"log/slog"
	"sync"

	"github.com/smazurov/camnode/internal/events"
)

// Manager subscribes to session events and controls the system LED as
// a tally light based on aggregate state
type Manager struct {
	controller       Controller
	eventBus         *events.Bus
	unsubscribe      func()
	stopChan         chan struct{}
	logger           *slog.Logger
	activeSessions   map[string]struct{} // sessionID set
	activeSessionMux sync.RWMutex
}

// NewManager creates a new LED manager that reacts to session state changes
func NewManager(controller Controller, eventBus *events.Bus, logger *slog.Logger) *Manager {
	return &Manager{
		controller:     controller,
		eventBus:       eventBus,
		stopChan:       make(chan struct{}),
		logger:         logger,
		activeSessions: make(map[string]struct{}),
	}
}

// Start begins listening for session state change events
func (m *Manager) Start() {
	m.unsubscribe = m.eventBus.Subscribe(func(e events.SessionStateChangedEvent) {
		m.handleEvent(e)
	})
	// Idle until a session starts
	m.updateSystemLED()
	m.logger.Info("LED manager started")
}

// Stop stops the LED manager and unsubscribes from events
func (m *Manager) Stop() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	close(m.stopChan)
	m.logger.Info("LED manager stopped")
}

// handleEvent processes a single session state changed event
func (m *Manager) handleEvent(event events.SessionStateChangedEvent) {
	sessionID := event.GetSessionID()
	active := event.IsActive()

	m.activeSessionMux.Lock()
	if active {
		m.activeSessions[sessionID] = struct{}{}
	} else {
		delete(m.activeSessions, sessionID)
	}
	m.activeSessionMux.Unlock()

	m.logger.Debug("Session state changed",
		"session_id", sessionID,
		"active", active)

	// Update system LED based on aggregate state
	m.updateSystemLED()
}

// updateSystemLED sets the system LED pattern: solid while any
// session is live, blinking heartbeat otherwise.
func (m *Manager) updateSystemLED() {
	m.activeSessionMux.RLock()
	anyActive := len(m.activeSessions) > 0
	m.activeSessionMux.RUnlock()

	if anyActive {
		if err := m.controller.Set("system", true, "solid"); err != nil {
			m.logger.Warn("Failed to set system LED to solid", "error", err)
		}
		m.logger.Debug("Sessions active, system LED set to solid")
	} else {
		if err := m.controller.Set("system", true, "blink"); err != nil {
			m.logger.Warn("Failed to set system LED to blink", "error", err)
		}
		m.logger.Debug("No active sessions, system LED set to blink")
	}
}

// GetController returns the underlying LED controller for direct API access
func (m *Manager) GetController() Controller {
	return m.controller
}
