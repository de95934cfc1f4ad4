package nats

import (
	"encoding/json"
)

// NATS subjects.
const (
	SubjectPrefix      = "ledtoggle"
	SubjectState       = SubjectPrefix + ".led.state"
	SubjectConnections = SubjectPrefix + ".led.connections"
	SubjectControl     = SubjectPrefix + ".control.toggle"
)

// ActionToggle is the only control action.
const ActionToggle = "toggle"

// StateMessage is published after every toggle and returned as the reply to
// a control request.
type StateMessage struct {
	On        bool   `json:"on"`
	State     string `json:"state"`
	Seq       uint64 `json:"seq"`
	Source    string `json:"source,omitempty"`
	Remote    string `json:"remote,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Marshal serializes the message to JSON.
func (m StateMessage) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// ConnectionMessage reports a TCP client connecting, leaving or being rejected.
type ConnectionMessage struct {
	Action    string `json:"action"`
	Remote    string `json:"remote"`
	Reason    string `json:"reason,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Marshal serializes the message to JSON.
func (m ConnectionMessage) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// ControlMessage asks the server to toggle the LED.
type ControlMessage struct {
	Action    string `json:"action"`
	Timestamp string `json:"timestamp,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Marshal serializes the message to JSON.
func (m ControlMessage) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// UnmarshalState deserializes a StateMessage from JSON.
func UnmarshalState(data []byte) (StateMessage, error) {
	var m StateMessage
	err := json.Unmarshal(data, &m)
	return m, err
}

// UnmarshalControl deserializes a ControlMessage from JSON.
// An empty payload is treated as a toggle request.
func UnmarshalControl(data []byte) (ControlMessage, error) {
	if len(data) == 0 {
		return ControlMessage{Action: ActionToggle}, nil
	}
	var m ControlMessage
	err := json.Unmarshal(data, &m)
	return m, err
}

func stateName(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
