package core

import "fmt"

// Field names that mark a table as already shaped for charting.
const (
	LabelField = "label"
	ValueField = "value"
)

// Axes names the fields used for chart labels (X) and values (Y).
type Axes struct {
	X string `json:"x"`
	Y string `json:"y"`
}

// Resolve picks the axis fields from the field set:
//  1. a field set of exactly {label, value} uses those, whatever was requested;
//  2. otherwise both requested names are used when both exist;
//  3. otherwise the first two fields, or the only field for both axes.
func (fs FieldSet) Resolve(requestedX, requestedY string) (Axes, error) {
	if fs.Len() == 0 {
		return Axes{}, &UnresolvableAxesError{Reason: "table has no fields"}
	}

	if fs.Len() == 2 && fs.Has(LabelField) && fs.Has(ValueField) {
		return Axes{X: LabelField, Y: ValueField}, nil
	}

	if requestedX != "" && requestedY != "" && fs.Has(requestedX) && fs.Has(requestedY) {
		return Axes{X: requestedX, Y: requestedY}, nil
	}

	if fs.Len() == 1 {
		return Axes{X: fs.At(0), Y: fs.At(0)}, nil
	}
	return Axes{X: fs.At(0), Y: fs.At(1)}, nil
}

// ResolveAxes resolves the axis fields of a table. A table without rows has
// nothing to plot.
func ResolveAxes(t *Table, requestedX, requestedY string) (Axes, error) {
	if t == nil || t.Len() == 0 {
		return Axes{}, &UnresolvableAxesError{Reason: "table has no rows"}
	}
	return t.Fields().Resolve(requestedX, requestedY)
}

// FieldSuggestion pre-fills the chart form from a list of extracted fields.
type FieldSuggestion struct {
	Fields     []string `json:"fields"`
	LabelField string   `json:"label_field"`
	ValueField string   `json:"value_field"`
	Title      string   `json:"title"`
}

// SuggestAxes proposes the first field for labels and the second (or the
// first again) for values, with a matching title. Empty input suggests
// nothing.
func SuggestAxes(fields []string) FieldSuggestion {
	out := FieldSuggestion{Fields: make([]string, 0, len(fields))}
	for _, f := range fields {
		if f != "" {
			out.Fields = append(out.Fields, f)
		}
	}
	if len(out.Fields) == 0 {
		return out
	}

	out.LabelField = out.Fields[0]
	out.ValueField = out.Fields[0]
	if len(out.Fields) > 1 {
		out.ValueField = out.Fields[1]
	}
	out.Title = fmt.Sprintf("%s by %s", out.ValueField, out.LabelField)
	return out
}
