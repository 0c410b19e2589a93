package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/cardrelay/cardrelay/internal/event"
	"github.com/cardrelay/cardrelay/pkg/card"
)

// Emoji prefixes shared across card titles and labels.
const (
	emojiError      = "❌"
	emojiWarning    = "⚠️"
	emojiSuccess    = "✅"
	emojiInfo       = "ℹ️"
	emojiTime       = "🕒"
	emojiCloudTrail = "☁️"
	emojiTarget     = "🎯"
	emojiCost       = "💰"
)

// Renderer builds outbound card documents for every notification kind.
type Renderer struct {
	now func() time.Time // injectable for deterministic tests
}

// New creates a Renderer using the real clock.
func New() *Renderer {
	return &Renderer{now: time.Now}
}

// Alarm renders a CloudWatch alarm state change. The firing branch is
// selected by NewStateValue compared case-insensitively to "alarm";
// any other state renders as resolved.
func (r *Renderer) Alarm(fields map[string]interface{}) card.Document {
	name := str(fields, "AlarmName", "Unknown Alarm")
	oldState := str(fields, "OldStateValue", "Unknown")
	newState := str(fields, "NewStateValue", "Unknown")
	reason := str(fields, "NewStateReason", "No reason provided")
	timestamp := str(fields, "StateChangeTime", r.timestamp())

	style, titleColor, stateColor := "good", "Good", "good"
	title := fmt.Sprintf("%s %s CloudWatch Alarm Resolved - %s", emojiSuccess, emojiInfo, name)
	if strings.EqualFold(newState, "alarm") {
		style, titleColor, stateColor = "attention", "Attention", "attention"
		title = fmt.Sprintf("%s %s CloudWatch Alarm - %s", emojiError, emojiWarning, name)
	}

	return card.Document{Body: []card.Node{
		header(title, style, titleColor),
		detailColumns([]row{
			{emojiTarget + " **Alarm:**", name, stateColor},
			{"📊 **Old State:**", oldState, "default"},
			{"📈 **New State:**", newState, stateColor},
			{emojiTime + " **Timestamp:**", timestamp, "default"},
		}),
		textSection(emojiInfo+" **Reason:**", "default", reason, "default"),
	}}
}

// AuditEvent renders a CloudTrail service event from its detail fields.
// The error block is always present; a missing errorMessage renders the
// placeholder text.
func (r *Renderer) AuditEvent(fields map[string]interface{}) card.Document {
	action := str(fields, "eventName", "Unknown Event")
	eventType := str(fields, "eventType", "Unknown Type")
	eventID := str(fields, "eventID", "Unknown ID")
	eventTime := str(fields, "eventTime", "Unknown Time")
	errMsg := str(fields, "errorMessage", "No error message provided")

	return card.Document{Body: []card.Node{
		header(fmt.Sprintf("%s %s CloudTrail Event", emojiCloudTrail, emojiSuccess), "good", "Good"),
		detailColumns([]row{
			{emojiTarget + " **Action:**", action, "good"},
			{"🌍 **Type:**", eventType, "default"},
			{"🔗 **Event ID:**", eventID, "default"},
			{emojiTime + " **Timestamp:**", eventTime, "default"},
		}),
		card.Container{
			Style:   "attention",
			Spacing: "Medium",
			Items: []card.Node{
				card.TextBlock{Text: emojiError + " Error Details", Weight: "Bolder", Size: "Medium", Color: "attention", Wrap: true},
				card.Container{
					Style:   "default",
					Spacing: "Small",
					Items: []card.Node{
						card.TextBlock{Text: errMsg, Weight: "Default", Color: "attention", Wrap: true},
					},
				},
			},
		},
	}}
}

// Generic renders an unclassified notification straight from the SNS
// envelope, with the raw message text verbatim.
func (r *Renderer) Generic(env event.Envelope) card.Document {
	subject := fallback(env.Subject, "Unknown Subject")
	body := fallback(env.Message, "No message body")
	timestamp := fallback(env.Timestamp, r.timestamp())
	topic := fallback(env.TopicArn, "Unknown Topic")
	messageID := fallback(env.MessageID, "Unknown Message ID")

	return card.Document{Body: []card.Node{
		header(fmt.Sprintf("%s %s AWS Notification - %s", emojiWarning, emojiInfo, subject), "attention", "Attention"),
		detailColumns([]row{
			{"📋 **Subject:**", subject, "attention"},
			{"🔗 **Topic ARN:**", topic, "default"},
			{"🆔 **Message ID:**", messageID, "default"},
			{emojiTime + " **Timestamp:**", timestamp, "default"},
		}),
		textSection(emojiInfo+" **Message:**", "default", body, "default"),
	}}
}

// Error renders the card delivered when notification processing itself
// fails: the stringified failure plus the time it happened.
func (r *Renderer) Error(processErr error) card.Document {
	text := "unknown error"
	if processErr != nil {
		text = processErr.Error()
	}
	return card.Document{Body: []card.Node{
		header(fmt.Sprintf("%s %s Notification Processing Error", emojiError, emojiWarning), "attention", "Attention"),
		card.Container{
			Style:   "default",
			Spacing: "Medium",
			Items: []card.Node{
				card.TextBlock{Text: emojiError + " **Error Details:**", Weight: "Bolder", Size: "Medium", Color: "attention", Wrap: true},
				card.TextBlock{Text: text, Color: "attention", Wrap: true, Spacing: "Small"},
				card.TextBlock{Text: emojiTime + " **Timestamp:**", Weight: "Bolder", Color: "default", Wrap: true, Spacing: "Small"},
				card.TextBlock{Text: r.timestamp(), Color: "default", Wrap: true, Spacing: "Small"},
			},
		},
	}}
}

func (r *Renderer) timestamp() string {
	return r.now().UTC().Format(time.RFC3339)
}

// --- shared layout ----------------------------------------------------------

// row is one label/value pair in the detail column layout.
type row struct {
	label string
	value string
	color string
}

// header builds the title banner container.
func header(text, style, color string) card.Container {
	return card.Container{
		Style:   style,
		Spacing: "Medium",
		Items: []card.Node{card.TextBlock{
			Text:   text,
			Weight: "Bolder",
			Size:   "Large",
			Color:  color,
			Wrap:   true,
		}},
	}
}

// detailColumns builds the two-column label/value layout shared by the
// alarm, audit, and generic cards: bold labels in an auto-width column,
// values stretched beside them.
func detailColumns(rows []row) card.Container {
	labels := make([]card.Node, 0, len(rows))
	values := make([]card.Node, 0, len(rows))
	for i, rw := range rows {
		spacing := ""
		if i > 0 {
			spacing = "Small"
		}
		labels = append(labels, card.TextBlock{
			Text:    rw.label,
			Weight:  "Bolder",
			Color:   "default",
			Wrap:    true,
			Spacing: spacing,
		})
		values = append(values, card.TextBlock{
			Text:    rw.value,
			Color:   rw.color,
			Wrap:    true,
			Spacing: spacing,
		})
	}
	return card.Container{
		Style:   "default",
		Spacing: "Medium",
		Items: []card.Node{card.ColumnSet{Columns: []card.Column{
			{Width: "auto", Items: labels},
			{Width: "stretch", Items: values},
		}}},
	}
}

// textSection builds a titled free-text block (the trailing Reason and
// Message sections).
func textSection(title, titleColor, body, bodyColor string) card.Container {
	return card.Container{
		Style:   "default",
		Spacing: "Medium",
		Items: []card.Node{
			card.TextBlock{Text: title, Weight: "Bolder", Size: "Medium", Color: titleColor, Wrap: true},
			card.TextBlock{Text: body, Color: bodyColor, Wrap: true, Spacing: "Small"},
		},
	}
}
