package render

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cardrelay/cardrelay/internal/event"
	"github.com/cardrelay/cardrelay/pkg/card"
)

var testTime = time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

const testTimeRFC3339 = "2024-05-01T10:30:00Z"

// testRenderer returns a Renderer pinned to testTime.
func testRenderer() *Renderer {
	r := New()
	r.now = func() time.Time { return testTime }
	return r
}

// fields unmarshals a JSON object into a renderer field source.
func fields(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("parse test fields: %v", err)
	}
	return m
}

// --- tree accessors ---------------------------------------------------------

func headerBlock(t *testing.T, doc card.Document) card.TextBlock {
	t.Helper()
	c, ok := doc.Body[0].(card.Container)
	if !ok {
		t.Fatalf("body[0]: got %T, want Container", doc.Body[0])
	}
	return c.Items[0].(card.TextBlock)
}

func headerStyle(t *testing.T, doc card.Document) string {
	t.Helper()
	return doc.Body[0].(card.Container).Style
}

// detailValues returns the value-column TextBlocks of the detail layout at
// body[1].
func detailValues(t *testing.T, doc card.Document) []card.TextBlock {
	t.Helper()
	c, ok := doc.Body[1].(card.Container)
	if !ok {
		t.Fatalf("body[1]: got %T, want Container", doc.Body[1])
	}
	cs := c.Items[0].(card.ColumnSet)
	out := make([]card.TextBlock, 0, len(cs.Columns[1].Items))
	for _, n := range cs.Columns[1].Items {
		out = append(out, n.(card.TextBlock))
	}
	return out
}

// --- alarm ------------------------------------------------------------------

func TestAlarm_Firing(t *testing.T) {
	doc := testRenderer().Alarm(fields(t, `{
		"AlarmName":"cpu-high",
		"NewStateValue":"ALARM",
		"OldStateValue":"OK",
		"NewStateReason":"threshold breached",
		"StateChangeTime":"2024-05-01T09:58:12Z"
	}`))

	if got := headerStyle(t, doc); got != "attention" {
		t.Errorf("header style: got %q, want attention", got)
	}
	title := headerBlock(t, doc)
	if !strings.Contains(title.Text, "CloudWatch Alarm - cpu-high") {
		t.Errorf("title: got %q", title.Text)
	}
	if strings.Contains(title.Text, "Resolved") {
		t.Errorf("title: firing alarm must not say Resolved: %q", title.Text)
	}
	if title.Color != "Attention" {
		t.Errorf("title color: got %q, want Attention", title.Color)
	}

	values := detailValues(t, doc)
	if values[0].Text != "cpu-high" || values[0].Color != "attention" {
		t.Errorf("alarm value: got %q/%q", values[0].Text, values[0].Color)
	}
	if values[1].Text != "OK" || values[1].Color != "default" {
		t.Errorf("old state: got %q/%q", values[1].Text, values[1].Color)
	}
	if values[2].Text != "ALARM" || values[2].Color != "attention" {
		t.Errorf("new state: got %q/%q", values[2].Text, values[2].Color)
	}
	if values[3].Text != "2024-05-01T09:58:12Z" {
		t.Errorf("timestamp: got %q", values[3].Text)
	}

	reason := doc.Body[2].(card.Container).Items[1].(card.TextBlock)
	if reason.Text != "threshold breached" {
		t.Errorf("reason: got %q", reason.Text)
	}
}

func TestAlarm_Resolved(t *testing.T) {
	doc := testRenderer().Alarm(fields(t, `{
		"AlarmName":"cpu-high",
		"NewStateValue":"OK",
		"OldStateValue":"ALARM"
	}`))

	if got := headerStyle(t, doc); got != "good" {
		t.Errorf("header style: got %q, want good", got)
	}
	title := headerBlock(t, doc)
	if !strings.Contains(title.Text, "CloudWatch Alarm Resolved - cpu-high") {
		t.Errorf("title: got %q", title.Text)
	}
	if title.Color != "Good" {
		t.Errorf("title color: got %q, want Good", title.Color)
	}
	if values := detailValues(t, doc); values[2].Color != "good" {
		t.Errorf("new state color: got %q, want good", values[2].Color)
	}
}

func TestAlarm_StateComparedCaseInsensitively(t *testing.T) {
	tests := []struct {
		state  string
		firing bool
	}{
		{"ALARM", true},
		{"alarm", true},
		{"Alarm", true},
		{"OK", false},
		{"INSUFFICIENT_DATA", false},
		{"", false},
	}
	for _, tc := range tests {
		doc := testRenderer().Alarm(map[string]interface{}{
			"AlarmName":     "x",
			"NewStateValue": tc.state,
		})
		want := "good"
		if tc.firing {
			want = "attention"
		}
		if got := headerStyle(t, doc); got != want {
			t.Errorf("state %q: style got %q, want %q", tc.state, got, want)
		}
	}
}

func TestAlarm_Placeholders(t *testing.T) {
	doc := testRenderer().Alarm(map[string]interface{}{})

	if title := headerBlock(t, doc); !strings.Contains(title.Text, "Unknown Alarm") {
		t.Errorf("title: got %q", title.Text)
	}
	values := detailValues(t, doc)
	if values[1].Text != "Unknown" || values[2].Text != "Unknown" {
		t.Errorf("states: got %q/%q, want Unknown", values[1].Text, values[2].Text)
	}
	// Missing StateChangeTime falls back to the renderer clock.
	if values[3].Text != testTimeRFC3339 {
		t.Errorf("timestamp: got %q, want %q", values[3].Text, testTimeRFC3339)
	}
	reason := doc.Body[2].(card.Container).Items[1].(card.TextBlock)
	if reason.Text != "No reason provided" {
		t.Errorf("reason: got %q", reason.Text)
	}
}

// --- audit event ------------------------------------------------------------

func TestAuditEvent_Fields(t *testing.T) {
	doc := testRenderer().AuditEvent(fields(t, `{
		"eventName":"StopInstances",
		"eventType":"AwsServiceEvent",
		"eventID":"ev-123",
		"eventTime":"2024-05-01T08:00:00Z",
		"errorMessage":"Access Denied"
	}`))

	if got := headerStyle(t, doc); got != "good" {
		t.Errorf("header style: got %q, want good", got)
	}
	if title := headerBlock(t, doc); !strings.Contains(title.Text, "CloudTrail Event") {
		t.Errorf("title: got %q", title.Text)
	}

	values := detailValues(t, doc)
	if values[0].Text != "StopInstances" || values[0].Color != "good" {
		t.Errorf("action: got %q/%q", values[0].Text, values[0].Color)
	}
	if values[1].Text != "AwsServiceEvent" {
		t.Errorf("type: got %q", values[1].Text)
	}
	if values[2].Text != "ev-123" {
		t.Errorf("event id: got %q", values[2].Text)
	}

	errBlock := doc.Body[2].(card.Container)
	if errBlock.Style != "attention" {
		t.Errorf("error block style: got %q, want attention", errBlock.Style)
	}
	msg := errBlock.Items[1].(card.Container).Items[0].(card.TextBlock)
	if msg.Text != "Access Denied" {
		t.Errorf("error message: got %q", msg.Text)
	}
}

func TestAuditEvent_ErrorBlockAlwaysPresent(t *testing.T) {
	doc := testRenderer().AuditEvent(fields(t, `{"eventName":"StartInstances"}`))

	errBlock := doc.Body[2].(card.Container)
	msg := errBlock.Items[1].(card.Container).Items[0].(card.TextBlock)
	if msg.Text != "No error message provided" {
		t.Errorf("error message: got %q, want placeholder", msg.Text)
	}
}

func TestAuditEvent_NilFields(t *testing.T) {
	// Classification can hand over a nil detail map; every field falls back
	// to its placeholder.
	doc := testRenderer().AuditEvent(nil)

	values := detailValues(t, doc)
	want := []string{"Unknown Event", "Unknown Type", "Unknown ID", "Unknown Time"}
	for i, w := range want {
		if values[i].Text != w {
			t.Errorf("values[%d]: got %q, want %q", i, values[i].Text, w)
		}
	}
}

// --- generic ----------------------------------------------------------------

func TestGeneric_EnvelopeFields(t *testing.T) {
	doc := testRenderer().Generic(event.Envelope{
		Subject:   "Deployment finished",
		Message:   "service v1.2.3 is live",
		Timestamp: "2024-05-01T07:00:00Z",
		TopicArn:  "arn:aws:sns:eu-west-1:123:deploys",
		MessageID: "m-42",
	})

	if got := headerStyle(t, doc); got != "attention" {
		t.Errorf("header style: got %q, want attention", got)
	}
	if title := headerBlock(t, doc); !strings.Contains(title.Text, "AWS Notification - Deployment finished") {
		t.Errorf("title: got %q", title.Text)
	}

	values := detailValues(t, doc)
	if values[0].Text != "Deployment finished" || values[0].Color != "attention" {
		t.Errorf("subject: got %q/%q", values[0].Text, values[0].Color)
	}
	if values[1].Text != "arn:aws:sns:eu-west-1:123:deploys" {
		t.Errorf("topic: got %q", values[1].Text)
	}
	if values[2].Text != "m-42" {
		t.Errorf("message id: got %q", values[2].Text)
	}

	body := doc.Body[2].(card.Container).Items[1].(card.TextBlock)
	if body.Text != "service v1.2.3 is live" {
		t.Errorf("message body: got %q, want verbatim text", body.Text)
	}
}

func TestGeneric_Placeholders(t *testing.T) {
	doc := testRenderer().Generic(event.Envelope{})

	if title := headerBlock(t, doc); !strings.Contains(title.Text, "Unknown Subject") {
		t.Errorf("title: got %q", title.Text)
	}
	values := detailValues(t, doc)
	if values[1].Text != "Unknown Topic" {
		t.Errorf("topic: got %q", values[1].Text)
	}
	if values[2].Text != "Unknown Message ID" {
		t.Errorf("message id: got %q", values[2].Text)
	}
	if values[3].Text != testTimeRFC3339 {
		t.Errorf("timestamp: got %q, want %q", values[3].Text, testTimeRFC3339)
	}
	body := doc.Body[2].(card.Container).Items[1].(card.TextBlock)
	if body.Text != "No message body" {
		t.Errorf("message body: got %q", body.Text)
	}
}

// --- error ------------------------------------------------------------------

func TestError_ContainsFailureAndTimestamp(t *testing.T) {
	doc := testRenderer().Error(errors.New("event: parse body: unexpected end of JSON input"))

	if got := headerStyle(t, doc); got != "attention" {
		t.Errorf("header style: got %q, want attention", got)
	}
	if title := headerBlock(t, doc); !strings.Contains(title.Text, "Notification Processing Error") {
		t.Errorf("title: got %q", title.Text)
	}

	items := doc.Body[1].(card.Container).Items
	if got := items[1].(card.TextBlock).Text; !strings.Contains(got, "unexpected end of JSON input") {
		t.Errorf("error text: got %q", got)
	}
	if got := items[3].(card.TextBlock).Text; got != testTimeRFC3339 {
		t.Errorf("timestamp: got %q, want %q", got, testTimeRFC3339)
	}
}

func TestError_NilError(t *testing.T) {
	doc := testRenderer().Error(nil)
	items := doc.Body[1].(card.Container).Items
	if got := items[1].(card.TextBlock).Text; got != "unknown error" {
		t.Errorf("error text: got %q, want unknown error", got)
	}
}

// --- serialized form --------------------------------------------------------

func TestRenderedCards_NoNullAttributes(t *testing.T) {
	r := testRenderer()
	docs := map[string]card.Document{
		"alarm":   r.Alarm(fields(t, `{"AlarmName":"a","NewStateValue":"ALARM"}`)),
		"audit":   r.AuditEvent(fields(t, `{"eventName":"e"}`)),
		"generic": r.Generic(event.Envelope{Subject: "s", Message: "m"}),
		"error":   r.Error(errors.New("boom")),
		"cost": r.CostAnomaly(fields(t, `{
			"accountName":"prod","monitorName":"m",
			"impact":{"totalImpact":1},"anomalyScore":{"currentScore":1,"maxScore":2},
			"rootCauses":[{"service":"ec2"}]
		}`)),
	}
	for name, doc := range docs {
		raw, err := json.Marshal(card.NewMessage(doc))
		if err != nil {
			t.Fatalf("%s: marshal: %v", name, err)
		}
		if n := strings.Count(string(raw), "null"); n != 1 {
			t.Errorf("%s: null count: got %d, want 1 (contentUrl only)", name, n)
		}
	}
}
