// Package core provides the chart and diff logic of querychart.
//
// This package holds all domain logic independent of any UI or transport
// layer. It is used by the web handlers, the chartctl CLI and tests without
// modification.
//
// # Architecture
//
// The package is organized around a few pure stages:
//
//   - Parsing: [ParseTable] turns pasted text (JSON records or delimited
//     text) into an immutable [Table].
//   - Field resolution: [ResolveAxes] picks the label (X) and value (Y)
//     fields.
//   - Chart building: [Build] combines labels, values and a palette from
//     [ColorsFor] into a renderer-agnostic [ChartSpec].
//   - Diffing: [Diff] lists the word-level changes between an original and
//     a corrected text.
//   - Presenting: [PresentResult], [PresentFields] and [PresentCorrection]
//     turn query-service payloads into display models.
//
// [Service] wraps these stages with an input size limit and a spec cache.
//
// # Building a chart
//
//	t, err := core.ParseTable("region,sales\nNorth,120\nSouth,80")
//	if err != nil {
//	    return err
//	}
//	spec, err := core.Build(t, core.BuildParams{Kind: core.KindPie, Scheme: "pastel"})
//
// # Error Handling
//
// Parsing and building fail with typed errors ([FormatError],
// [UnresolvableAxesError], [DataTypeError], [UnsupportedKindError]) that
// match the sentinels [ErrFormat], [ErrUnresolvableAxes], [ErrDataType] and
// [ErrUnsupportedKind] through errors.Is. Technical errors are mapped to
// user-friendly messages using [MapError]:
//
//   - DATA001-DATA004: Data errors (format, fields, non-numeric, size)
//   - REQ001-REQ004: Request errors (chart type, body, diff mode, image format)
//   - RND001-RND003: Render errors (busy, empty, failed)
//   - CNV001: Canvas errors
//
// Diffing never fails.
package core
