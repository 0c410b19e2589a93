package card

import "encoding/json"

// Message is the outbound webhook envelope: message type "message" wrapping
// exactly one adaptive card attachment.
type Message struct {
	Card Document
}

// NewMessage wraps doc in the webhook envelope.
func NewMessage(doc Document) Message {
	return Message{Card: doc}
}

// Map converts the envelope to a plain mapping. The attachment's contentUrl
// is an explicit null, the only null the wire format carries.
func (m Message) Map() map[string]interface{} {
	return map[string]interface{}{
		"type": "message",
		"attachments": []map[string]interface{}{{
			"contentType": ContentType,
			"contentUrl":  nil,
			"content":     m.Card.Map(),
		}},
	}
}

// MarshalJSON encodes the envelope via Map.
func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Map())
}
