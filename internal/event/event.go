package event

import (
	"encoding/json"
	"fmt"
)

// Event is the top-level wrapper delivered to the intake endpoint.
type Event struct {
	Records []Record `json:"Records"`
}

// Record is one SNS delivery within an Event.
type Record struct {
	EventSource string   `json:"EventSource,omitempty"`
	Sns         Envelope `json:"Sns"`
}

// Envelope carries the SNS metadata around one notification. Field names
// match the SNS wire format. Message is a JSON-encoded string requiring a
// second parse; see ParsePayload.
type Envelope struct {
	Type           string `json:"Type,omitempty"`
	MessageID      string `json:"MessageId"`
	TopicArn       string `json:"TopicArn"`
	Subject        string `json:"Subject"`
	Message        string `json:"Message"`
	Timestamp      string `json:"Timestamp"`
	UnsubscribeURL string `json:"UnsubscribeURL,omitempty"`
}

// Parse decodes a raw intake body and returns the first record's envelope.
func Parse(raw []byte) (Envelope, error) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return Envelope{}, fmt.Errorf("event: parse body: %w", err)
	}
	if len(ev.Records) == 0 {
		return Envelope{}, fmt.Errorf("event: no records in event")
	}
	return ev.Records[0].Sns, nil
}

// ParsePayload decodes the envelope's Message string into a loose payload
// map. Renderers read fields from this map with placeholder fallbacks.
// Valid JSON that is not an object (a bare string, number, or array)
// yields a nil map and no error; such messages classify as generic and
// render from the envelope.
func (e Envelope) ParsePayload() (map[string]interface{}, error) {
	var payload interface{}
	if err := json.Unmarshal([]byte(e.Message), &payload); err != nil {
		return nil, fmt.Errorf("event: parse message payload: %w", err)
	}
	m, _ := payload.(map[string]interface{})
	return m, nil
}
