// Package render builds the Adaptive Card document for each notification
// kind. Renderers are construction-only: field lookups fall back to literal
// placeholder text, number formatting is fixed-precision, and no renderer
// can fail. Every card follows the same shell: a title banner container,
// a detail section, and kind-specific trailing blocks.
package render
