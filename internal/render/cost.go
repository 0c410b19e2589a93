package render

import (
	"fmt"

	"github.com/cardrelay/cardrelay/pkg/card"
)

const (
	maxRootCauses   = 5
	maxServiceChars = 35
)

// CostAnomaly renders a Cost Anomaly Detection record: summary facts, the
// expected-vs-actual spend comparison, an overspend line, the top root
// causes, and a details link when one is present.
func (r *Renderer) CostAnomaly(fields map[string]interface{}) card.Document {
	account := str(fields, "accountName", "Unknown Account")
	monitor := str(fields, "monitorName", "Unknown Monitor")
	start := datePart(str(fields, "anomalyStartDate", "Unknown"))
	end := datePart(str(fields, "anomalyEndDate", "Unknown"))

	score := sub(fields, "anomalyScore")
	impact := sub(fields, "impact")

	body := []card.Node{
		header(fmt.Sprintf("%s %s AWS Cost Anomaly Detected", emojiCost, emojiWarning), "attention", "Attention"),
		card.Container{
			Style:   "default",
			Spacing: "Medium",
			Items: []card.Node{card.FactSet{Facts: []card.Fact{
				{Title: "Account:", Value: account},
				{Title: "Monitor:", Value: monitor},
				{Title: "Period:", Value: fmt.Sprintf("%s to %s", start, end)},
				{Title: "Anomaly Score:", Value: fmt.Sprintf("%.2f (max: %.2f)",
					num(score, "currentScore"), num(score, "maxScore"))},
			}}},
		},
		spendComparison(num(impact, "totalExpectedSpend"), num(impact, "totalActualSpend")),
		card.Container{
			Style:   "attention",
			Spacing: "Medium",
			Items: []card.Node{card.TextBlock{
				Text: fmt.Sprintf("%s **Overspend: $%.2f (+%.1f%%)**", emojiWarning,
					num(impact, "totalImpact"), num(impact, "totalImpactPercentage")),
				Color: "attention",
				Wrap:  true,
			}},
		},
	}

	if causes := list(fields, "rootCauses"); len(causes) > 0 {
		body = append(body, rootCauseTable(causes))
	}

	doc := card.Document{Body: body}
	if link := str(fields, "anomalyDetailsLink", ""); link != "" {
		doc.Actions = []card.Node{card.OpenURLAction{Title: "🔗 View Anomaly Details", URL: link}}
	}
	return doc
}

// spendComparison builds the side-by-side expected vs actual spend columns.
func spendComparison(expected, actual float64) card.Container {
	col := func(label, amount, color string) card.Column {
		return card.Column{Width: "stretch", Items: []card.Node{
			card.TextBlock{Text: label, Weight: "Bolder", Color: "default", Wrap: true},
			card.TextBlock{Text: amount, Color: color, Wrap: true, Spacing: "Small"},
		}}
	}
	return card.Container{
		Style:   "default",
		Spacing: "Medium",
		Items: []card.Node{card.ColumnSet{Columns: []card.Column{
			col("📊 **Expected Spend:**", fmt.Sprintf("$%.2f", expected), "default"),
			col("📈 **Actual Spend:**", fmt.Sprintf("$%.2f", actual), "attention"),
		}}},
	}
}

// rootCauseTable builds the top root causes grid: a header row plus at most
// maxRootCauses cause rows.
func rootCauseTable(causes []interface{}) card.Container {
	headerCell := func(text string) card.TableCell {
		return card.TableCell{Items: []card.Node{card.TextBlock{Text: text, Weight: "Bolder", Wrap: true}}}
	}
	cell := func(text string) card.TableCell {
		return card.TableCell{Items: []card.Node{card.TextBlock{Text: text, Wrap: true}}}
	}

	rows := []card.TableRow{{Cells: []card.TableCell{
		headerCell("Service"), headerCell("Account"), headerCell("Impact %"),
	}}}
	for _, c := range causes {
		if len(rows) > maxRootCauses {
			break
		}
		cause, _ := c.(map[string]interface{})
		rows = append(rows, card.TableRow{Cells: []card.TableCell{
			cell(truncateService(str(cause, "service", "Unknown Service"))),
			cell(str(cause, "linkedAccountName", str(cause, "linkedAccount", "Unknown Account"))),
			cell(fmt.Sprintf("%.1f%%", num(sub(cause, "impact"), "contribution"))),
		}})
	}

	return card.Container{
		Style:   "default",
		Spacing: "Medium",
		Items: []card.Node{
			card.TextBlock{Text: "📋 **Top Root Causes:**", Weight: "Bolder", Size: "Medium", Color: "default", Wrap: true},
			card.Table{
				Columns:          []card.TableColumn{{Width: "stretch"}, {Width: "auto"}, {Width: "auto"}},
				Rows:             rows,
				FirstRowAsHeader: true,
				ShowGridLines:    false,
				Spacing:          "Small",
			},
		},
	}
}

// truncateService caps service names at maxServiceChars; longer names are
// cut to 32 characters plus an ellipsis. Counted in runes so a multibyte
// name is never split mid-character.
func truncateService(s string) string {
	r := []rune(s)
	if len(r) > maxServiceChars {
		return string(r[:32]) + "..."
	}
	return s
}

// datePart keeps the date portion of an ISO timestamp, its first 10
// characters.
func datePart(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
