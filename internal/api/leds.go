package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/ledtoggle/internal/api/models"
	"github.com/smazurov/ledtoggle/internal/events"
	"github.com/smazurov/ledtoggle/internal/led"
	"github.com/smazurov/ledtoggle/internal/toggle"
)

func (s *Server) registerLEDRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-led",
		Method:      http.MethodGet,
		Path:        "/api/led",
		Summary:     "Get LED State",
		Description: "Current LED state and number of toggles since start",
		Tags:        []string{"led"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(_ context.Context, _ *struct{}) (*models.LEDStateResponse, error) {
		return &models.LEDStateResponse{Body: stateData(s.state.Snapshot())}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "toggle-led",
		Method:      http.MethodPost,
		Path:        "/api/led/toggle",
		Summary:     "Toggle LED",
		Description: "Flip the LED state exactly like a TCP client would and return the new state",
		Tags:        []string{"led"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(_ context.Context, _ *struct{}) (*models.LEDStateResponse, error) {
		on, seq := toggle.Flip(s.state, s.eventBus, events.SourceHTTP, "")
		s.logger.Info("LED toggled over HTTP", "on", on, "seq", seq)

		return &models.LEDStateResponse{Body: stateData(led.Snapshot{
			On:        on,
			Toggles:   seq,
			ChangedAt: time.Now(),
		})}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-led-capabilities",
		Method:      http.MethodGet,
		Path:        "/api/led/capabilities",
		Summary:     "Get LED Capabilities",
		Description: "Physical LEDs available on this board and the one mirroring the state",
		Tags:        []string{"led"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(_ context.Context, _ *struct{}) (*models.LEDCapabilitiesResponse, error) {
		body := models.LEDCapabilitiesData{Available: []string{}}
		if ctrl := s.options.LEDController; ctrl != nil {
			body.Enabled = true
			body.LED = s.options.LEDName
			body.Available = ctrl.Available()
		}
		return &models.LEDCapabilitiesResponse{Body: body}, nil
	})
}

func stateData(snap led.Snapshot) models.LEDStateData {
	data := models.LEDStateData{
		On:      snap.On,
		State:   "OFF",
		Toggles: snap.Toggles,
	}
	if snap.On {
		data.State = "ON"
	}
	if !snap.ChangedAt.IsZero() {
		changed := snap.ChangedAt
		data.ChangedAt = &changed
	}
	return data
}
