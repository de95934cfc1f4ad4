package led

import (
	"log/slog"

	"github.com/smazurov/ledtoggle/internal/events"
)

// Manager mirrors toggle events onto a physical LED.
type Manager struct {
	controller  Controller
	name        string
	eventBus    *events.Bus
	unsubscribe func()
	logger      *slog.Logger
}

// NewManager creates a manager that drives the named LED through controller.
func NewManager(controller Controller, name string, eventBus *events.Bus, logger *slog.Logger) *Manager {
	if name == "" {
		name = DefaultName
	}
	return &Manager{
		controller: controller,
		name:       name,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// Start begins listening for LED toggle events
func (m *Manager) Start() {
	m.unsubscribe = m.eventBus.Subscribe(func(e events.LEDToggledEvent) {
		m.handleEvent(e)
	})
	m.logger.Info("LED manager started", "led", m.name)
}

// Stop unsubscribes from events
func (m *Manager) Stop() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.logger.Info("LED manager stopped")
}

func (m *Manager) handleEvent(e events.LEDToggledEvent) {
	if err := m.controller.Set(m.name, e.On); err != nil {
		m.logger.Warn("Failed to set LED", "led", m.name, "on", e.On, "error", err)
		return
	}
	m.logger.Debug("LED updated", "led", m.name, "on", e.On, "seq", e.Seq)
}
