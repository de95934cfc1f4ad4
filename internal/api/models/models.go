// Package models holds request and response bodies for the HTTP API.
package models

import "time"

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"1.2.0" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"a1b2c3d" doc:"Git commit hash"`
	BuildDate string `json:"build_date" example:"2025-01-27T10:30:00Z" doc:"Build timestamp"`
	GoVersion string `json:"go_version" example:"go1.24.11" doc:"Go runtime version"`
	Platform  string `json:"platform" example:"linux/arm64" doc:"OS/architecture"`
}

type VersionResponse struct {
	Body VersionData
}

// LEDStateData describes the toggle state. It is also the first event sent
// on the events stream.
type LEDStateData struct {
	On        bool       `json:"on" example:"true" doc:"Whether the LED is on"`
	State     string     `json:"state" example:"ON" enum:"ON,OFF" doc:"State as reported on the TCP protocol"`
	Toggles   uint64     `json:"toggles" example:"3" doc:"Number of toggles since start"`
	ChangedAt *time.Time `json:"changed_at,omitempty" doc:"Time of the last toggle"`
}

type LEDStateResponse struct {
	Body LEDStateData
}

// LEDCapabilitiesData lists the physical LEDs the controller can drive.
type LEDCapabilitiesData struct {
	Enabled   bool     `json:"enabled" example:"true" doc:"Whether the physical LED mirrors the state"`
	LED       string   `json:"led,omitempty" example:"status" doc:"Logical LED driven on toggle"`
	Available []string `json:"available" doc:"LED names supported on this board"`
}

type LEDCapabilitiesResponse struct {
	Body LEDCapabilitiesData
}

// Log models
type LogsRequest struct {
	Limit  int    `query:"limit" default:"100" minimum:"1" maximum:"500" doc:"Maximum number of entries, newest last"`
	Module string `query:"module" doc:"Only return entries from this module"`
}

type LogEntryData struct {
	Timestamp  time.Time      `json:"timestamp" doc:"Entry time"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module,omitempty" example:"toggle" doc:"Logging module"`
	Message    string         `json:"message" example:"Client connected" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured attributes"`
	Line       string         `json:"line" doc:"Entry rendered as one text line"`
}

type LogsData struct {
	Entries []LogEntryData `json:"entries" doc:"Recent log entries"`
	Count   int            `json:"count" example:"42" doc:"Number of entries returned"`
}

type LogsResponse struct {
	Body LogsData
}
