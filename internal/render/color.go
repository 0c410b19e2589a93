package render

import "strings"

// ActionColor maps an action verb (case-insensitively) to a presentation
// color: destructive verbs render attention (red), creation, deploy, and
// restore verbs render good (green), updates and anything unrecognized
// render default (blue). Not wired into the current renderers; kept as the
// shared mapping for action-oriented cards.
func ActionColor(action string) string {
	switch strings.ToLower(action) {
	case "deleted", "d", "delete", "removed":
		return "attention"
	case "created", "create", "added":
		return "good"
	case "updated", "update", "modified":
		return "default"
	case "deployed", "deploy":
		return "good"
	case "restored", "restore":
		return "good"
	default:
		return "default"
	}
}
