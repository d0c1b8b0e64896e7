package core

// payload.go holds the payloads received from the query/correction service
// and turns them into display models. Nothing here talks to that service.

import "strings"

// QueryTypeSelect is the only query type whose result can be charted.
const QueryTypeSelect = "SELECT"

// historyPreviewRunes caps the history preview length.
const historyPreviewRunes = 50

// intentConfidenceThreshold is the confidence above which intents are shown.
const intentConfidenceThreshold = 0.5

// learningPrefixes mark suggestions derived from the user's past queries.
var learningPrefixes = []string{
	"Modèle fréquent:",
	"Tables fréquemment utilisées:",
	"Champs spécifiques fréquemment utilisés:",
}

// QueryResult is the service's answer to a natural-language query.
type QueryResult struct {
	Result         string        `json:"result"`
	DetectedType   string        `json:"detected_type"`
	TranslatedText string        `json:"translated_text,omitempty"`
	History        []HistoryItem `json:"history,omitempty"`
	Suggestion     string        `json:"suggestion,omitempty"`
	UserIntent     *UserIntent   `json:"user_intent,omitempty"`
}

// HistoryItem is one previously generated query.
type HistoryItem struct {
	Query       string `json:"query"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
}

// UserIntent is the service's guess at what the user wants.
type UserIntent struct {
	Confidence float64 `json:"confidence"`
	Purpose    string  `json:"purpose,omitempty"`
	Format     string  `json:"format,omitempty"`
	Priority   string  `json:"priority,omitempty"`
}

// FieldExtraction lists the fields found in a query result.
type FieldExtraction struct {
	Fields []string `json:"fields"`
}

// Correction is the service's review of a user-written query.
type Correction struct {
	Original       string   `json:"original"`
	CorrectedQuery string   `json:"corrected_query"`
	Errors         []string `json:"errors"`
	Suggestions    []string `json:"suggestions"`
}

// HistoryEntry is a history item prepared for display.
type HistoryEntry struct {
	Type        string `json:"type"`
	Timestamp   string `json:"timestamp"`
	Description string `json:"description"`
	Preview     string `json:"preview"`
	Chartable   bool   `json:"chartable"`
}

// ResultView is a QueryResult prepared for display.
type ResultView struct {
	Result         string         `json:"result"`
	DetectedType   string         `json:"detected_type"`
	TranslatedText string         `json:"translated_text,omitempty"`
	ShowChart      bool           `json:"show_chart"`
	History        []HistoryEntry `json:"history"`
	Suggestion     string         `json:"suggestion,omitempty"`
	IntentBadge    string         `json:"intent_badge,omitempty"`
}

// PresentResult prepares a query result. The chart section only applies to
// SELECT results.
func PresentResult(q QueryResult) ResultView {
	v := ResultView{
		Result:         q.Result,
		DetectedType:   q.DetectedType,
		TranslatedText: q.TranslatedText,
		ShowChart:      isSelect(q.DetectedType),
		History:        make([]HistoryEntry, 0, len(q.History)),
		Suggestion:     q.Suggestion,
		IntentBadge:    IntentBadge(q.UserIntent),
	}
	for _, h := range q.History {
		v.History = append(v.History, HistoryEntry{
			Type:        h.Type,
			Timestamp:   h.Timestamp,
			Description: h.Description,
			Preview:     HistoryPreview(h.Query),
			Chartable:   isSelect(h.Type),
		})
	}
	return v
}

func isSelect(t string) bool {
	return strings.EqualFold(strings.TrimSpace(t), QueryTypeSelect)
}

// HistoryPreview returns the first line of a query cut to 50 characters,
// with "..." when the query is longer than that.
func HistoryPreview(query string) string {
	first, _, _ := strings.Cut(query, "\n")
	runes := []rune(first)
	if len(runes) > historyPreviewRunes {
		runes = runes[:historyPreviewRunes]
	}
	preview := string(runes)
	if len([]rune(query)) > historyPreviewRunes {
		preview += "..."
	}
	return preview
}

// IntentBadge describes a confident intent by its purpose, else its format,
// else its priority. Low-confidence or empty intents yield "".
func IntentBadge(in *UserIntent) string {
	if in == nil || in.Confidence <= intentConfidenceThreshold {
		return ""
	}
	switch {
	case in.Purpose != "":
		return "Intent: " + in.Purpose
	case in.Format != "":
		return "Preferred format: " + in.Format
	case in.Priority != "":
		return "Priority: " + in.Priority
	}
	return ""
}

// PresentFields suggests chart axes for extracted fields.
func PresentFields(f FieldExtraction) FieldSuggestion {
	return SuggestAxes(f.Fields)
}

// SuggestionView is one correction suggestion.
type SuggestionView struct {
	Text     string `json:"text"`
	Learning bool   `json:"learning"`
}

// CorrectionView is a Correction prepared for display.
type CorrectionView struct {
	Original    string           `json:"original"`
	Corrected   string           `json:"corrected"`
	Errors      []string         `json:"errors"`
	Suggestions []SuggestionView `json:"suggestions"`
	Diff        *DiffResult      `json:"diff,omitempty"`
}

// PresentCorrection prepares a correction. A missing corrected query falls
// back to the original; the diff is only computed when both texts are
// present and differ.
func PresentCorrection(c Correction) CorrectionView {
	v := CorrectionView{
		Original:    c.Original,
		Corrected:   c.CorrectedQuery,
		Errors:      append([]string{}, c.Errors...),
		Suggestions: make([]SuggestionView, 0, len(c.Suggestions)),
	}
	if v.Corrected == "" {
		v.Corrected = c.Original
	}
	for _, s := range c.Suggestions {
		v.Suggestions = append(v.Suggestions, SuggestionView{Text: s, Learning: IsLearningSuggestion(s)})
	}
	if c.Original != "" && c.CorrectedQuery != "" && c.Original != c.CorrectedQuery {
		d := Diff(c.Original, c.CorrectedQuery)
		v.Diff = &d
	}
	return v
}

// IsLearningSuggestion reports whether a suggestion comes from the user's
// query history.
func IsLearningSuggestion(s string) bool {
	for _, p := range learningPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
