package event

import "encoding/json"

// Kind identifies which renderer handles a notification.
type Kind string

const (
	KindAlarm       Kind = "alarm"
	KindAuditEvent  Kind = "audit_event"
	KindCostAnomaly Kind = "cost_anomaly"
	KindGeneric     Kind = "generic"
)

// auditDetailType marks a service audit event in the payload's detail-type.
const auditDetailType = "AWS Service Event via CloudTrail"

// costAnomalyKeys must all be present for a payload to classify as a cost
// anomaly record.
var costAnomalyKeys = []string{"accountId", "anomalyId", "monitorArn", "impact"}

// Result pairs the detected kind with the field source its renderer reads.
// Fields is nil for generic notifications; the generic renderer reads the
// envelope instead.
type Result struct {
	Kind   Kind
	Fields map[string]interface{}
}

// Classify determines the notification kind for a parsed payload. rawMessage
// is the original JSON text of the envelope's Message field; alarm detection
// re-parses it rather than trusting the payload map. The checks run in order
// and the first match wins, so a payload carrying both alarm and anomaly
// keys stays an alarm.
func Classify(payload map[string]interface{}, rawMessage string) Result {
	if _, ok := payload["AlarmName"]; ok {
		if isAlarm(rawMessage) {
			return Result{Kind: KindAlarm, Fields: payload}
		}
		return Result{Kind: KindGeneric}
	}

	if dt, _ := payload["detail-type"].(string); dt == auditDetailType {
		// A missing or mistyped detail leaves Fields nil; the renderer
		// falls back to placeholders for every field.
		detail, _ := payload["detail"].(map[string]interface{})
		return Result{Kind: KindAuditEvent, Fields: detail}
	}

	if hasAll(payload, costAnomalyKeys) {
		return Result{Kind: KindCostAnomaly, Fields: payload}
	}

	return Result{Kind: KindGeneric}
}

// isAlarm re-parses raw and reports whether it is a JSON object with a
// truthy AlarmName. A parse failure means "not an alarm", never an error.
func isAlarm(raw string) bool {
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return false
	}
	return truthy(m["AlarmName"])
}

// truthy applies JSON truthiness: non-empty string, non-zero number, true,
// non-empty array or object. Null and absent values are falsy.
func truthy(v interface{}) bool {
	switch x := v.(type) {
	case string:
		return x != ""
	case float64:
		return x != 0
	case bool:
		return x
	case []interface{}:
		return len(x) > 0
	case map[string]interface{}:
		return len(x) > 0
	default:
		return false
	}
}

func hasAll(m map[string]interface{}, keys []string) bool {
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}
