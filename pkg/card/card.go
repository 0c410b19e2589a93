package card

// Wire-format constants for the Adaptive Card schema.
const (
	SchemaURL   = "http://adaptivecards.io/schemas/adaptive-card.json"
	Version     = "1.2"
	ContentType = "application/vnd.microsoft.card.adaptive"
)

// Node is one element of a card body or action list. Map converts the node
// to a plain nested mapping ready for JSON encoding. Implementations omit
// attributes left at their zero value. Color and weight strings are passed
// through verbatim; the chat client is the final arbiter.
type Node interface {
	Map() map[string]interface{}
}

// TextBlock is a single run of text.
type TextBlock struct {
	Text                string
	Weight              string
	Size                string
	Color               string
	Spacing             string
	HorizontalAlignment string
	Wrap                bool
	Separator           bool
}

func (t TextBlock) Map() map[string]interface{} {
	m := map[string]interface{}{"type": "TextBlock", "text": t.Text}
	setStr(m, "weight", t.Weight)
	setStr(m, "size", t.Size)
	setStr(m, "color", t.Color)
	setStr(m, "spacing", t.Spacing)
	setStr(m, "horizontalAlignment", t.HorizontalAlignment)
	setBool(m, "wrap", t.Wrap)
	setBool(m, "separator", t.Separator)
	return m
}

// Container groups child nodes under one background style.
type Container struct {
	Style   string
	Spacing string
	Items   []Node
}

func (c Container) Map() map[string]interface{} {
	m := map[string]interface{}{"type": "Container", "items": nodeMaps(c.Items)}
	setStr(m, "style", c.Style)
	setStr(m, "spacing", c.Spacing)
	return m
}

// Column is one vertical slice of a ColumnSet. Width is a schema string:
// "auto", "stretch", a numeric weight, or a percentage.
type Column struct {
	Width                    string
	VerticalContentAlignment string
	Items                    []Node
}

func (c Column) Map() map[string]interface{} {
	m := map[string]interface{}{"type": "Column", "items": nodeMaps(c.Items)}
	setStr(m, "width", c.Width)
	setStr(m, "verticalContentAlignment", c.VerticalContentAlignment)
	return m
}

// ColumnSet lays out columns side by side.
type ColumnSet struct {
	Spacing string
	Columns []Column
}

func (c ColumnSet) Map() map[string]interface{} {
	cols := make([]map[string]interface{}, 0, len(c.Columns))
	for _, col := range c.Columns {
		cols = append(cols, col.Map())
	}
	m := map[string]interface{}{"type": "ColumnSet", "columns": cols}
	setStr(m, "spacing", c.Spacing)
	return m
}

// Fact is one title/value pair in a FactSet.
type Fact struct {
	Title string
	Value string
}

// FactSet renders facts as a compact two-column label/value list.
type FactSet struct {
	Spacing string
	Facts   []Fact
}

func (f FactSet) Map() map[string]interface{} {
	facts := make([]map[string]interface{}, 0, len(f.Facts))
	for _, fa := range f.Facts {
		facts = append(facts, map[string]interface{}{"title": fa.Title, "value": fa.Value})
	}
	m := map[string]interface{}{"type": "FactSet", "facts": facts}
	setStr(m, "spacing", f.Spacing)
	return m
}

// TableColumn declares one column's width in a Table.
type TableColumn struct {
	Width string
}

// TableCell holds the child nodes of one grid cell.
type TableCell struct {
	Items []Node
}

func (c TableCell) Map() map[string]interface{} {
	return map[string]interface{}{"type": "TableCell", "items": nodeMaps(c.Items)}
}

// TableRow is one row of cells.
type TableRow struct {
	Style string
	Cells []TableCell
}

func (r TableRow) Map() map[string]interface{} {
	cells := make([]map[string]interface{}, 0, len(r.Cells))
	for _, c := range r.Cells {
		cells = append(cells, c.Map())
	}
	m := map[string]interface{}{"type": "TableRow", "cells": cells}
	setStr(m, "style", r.Style)
	return m
}

// Table lays out rows and columns in a grid. When FirstRowAsHeader is set,
// callers must place the header row first in Rows. ShowGridLines is always
// serialized; the schema treats an absent flag as true, so explicit false
// is meaningful.
type Table struct {
	Columns          []TableColumn
	Rows             []TableRow
	FirstRowAsHeader bool
	ShowGridLines    bool
	Spacing          string
}

func (t Table) Map() map[string]interface{} {
	cols := make([]map[string]interface{}, 0, len(t.Columns))
	for _, c := range t.Columns {
		cols = append(cols, map[string]interface{}{"width": c.Width})
	}
	rows := make([]map[string]interface{}, 0, len(t.Rows))
	for _, r := range t.Rows {
		rows = append(rows, r.Map())
	}
	m := map[string]interface{}{
		"type":          "Table",
		"columns":       cols,
		"rows":          rows,
		"showGridLines": t.ShowGridLines,
	}
	setBool(m, "firstRowAsHeader", t.FirstRowAsHeader)
	setStr(m, "spacing", t.Spacing)
	return m
}

// OpenURLAction is an Action.OpenUrl button attached to a document.
type OpenURLAction struct {
	Title string
	URL   string
}

func (a OpenURLAction) Map() map[string]interface{} {
	return map[string]interface{}{"type": "Action.OpenUrl", "title": a.Title, "url": a.URL}
}

// Document is the root Adaptive Card: schema reference, version, ordered
// body, and an optional action list.
type Document struct {
	Body    []Node
	Actions []Node
}

func (d Document) Map() map[string]interface{} {
	m := map[string]interface{}{
		"$schema": SchemaURL,
		"type":    "AdaptiveCard",
		"version": Version,
		"body":    nodeMaps(d.Body),
	}
	if len(d.Actions) > 0 {
		m["actions"] = nodeMaps(d.Actions)
	}
	return m
}

// --- helpers ----------------------------------------------------------------

func setStr(m map[string]interface{}, key, v string) {
	if v != "" {
		m[key] = v
	}
}

func setBool(m map[string]interface{}, key string, v bool) {
	if v {
		m[key] = v
	}
}

func nodeMaps(nodes []Node) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Map())
	}
	return out
}
