// Package event defines the inbound notification event shapes and the
// classifier that routes each notification to a renderer.
//
// An Event is the Lambda-style wrapper around SNS deliveries; only the
// first record's envelope is processed. The envelope's Message field is a
// JSON-encoded string that needs a second parse into a loose payload map.
//
// Classify applies a first-match-wins decision list:
//
//  1. payload has AlarmName → re-parse the raw message; truthy AlarmName
//     means Alarm, anything else (including a parse failure) means Generic
//  2. detail-type == "AWS Service Event via CloudTrail" → AuditEvent,
//     with the nested detail map as the renderer's field source
//  3. accountId + anomalyId + monitorArn + impact all present → CostAnomaly
//  4. otherwise Generic, rendered from the envelope rather than the payload
package event
