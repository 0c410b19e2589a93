// Package card defines the Adaptive Card document model used for outbound
// Teams messages. Nodes convert themselves to plain nested mappings via Map;
// attributes left unset are omitted from the output entirely, never emitted
// as null. The one deliberate exception is the attachment's contentUrl,
// which the webhook format wants as an explicit null.
package card
