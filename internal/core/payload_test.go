package core

import (
	"strings"
	"testing"
)

func TestPresentResult(t *testing.T) {
	q := QueryResult{
		Result:       "SELECT region, SUM(sales) FROM orders GROUP BY region",
		DetectedType: "SELECT",
		History: []HistoryItem{
			{Query: "SELECT 1", Type: "SELECT", Description: "ping", Timestamp: "10:00"},
			{Query: "DELETE FROM logs", Type: "DELETE", Description: "cleanup", Timestamp: "10:05"},
		},
		Suggestion: "Try grouping by month",
		UserIntent: &UserIntent{Confidence: 0.8, Purpose: "analysis"},
	}

	v := PresentResult(q)
	if !v.ShowChart {
		t.Error("ShowChart = false, want true for SELECT")
	}
	if v.IntentBadge != "Intent: analysis" {
		t.Errorf("IntentBadge = %q", v.IntentBadge)
	}
	if len(v.History) != 2 || !v.History[0].Chartable || v.History[1].Chartable {
		t.Errorf("History = %+v", v.History)
	}

	q.DetectedType = "INSERT"
	if PresentResult(q).ShowChart {
		t.Error("ShowChart = true, want false for INSERT")
	}
}

func TestHistoryPreview(t *testing.T) {
	long := strings.Repeat("x", 60)
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"short", "SELECT 1", "SELECT 1"},
		{"long line cut", long, strings.Repeat("x", 50) + "..."},
		{"first line only", "SELECT a\nFROM t", "SELECT a"},
		{"long query with short first line", "SELECT a\n" + long, "SELECT a..."},
		{"runes not bytes", strings.Repeat("é", 50), strings.Repeat("é", 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HistoryPreview(tt.query); got != tt.want {
				t.Errorf("HistoryPreview() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIntentBadge(t *testing.T) {
	tests := []struct {
		name   string
		intent *UserIntent
		want   string
	}{
		{"nil", nil, ""},
		{"at threshold", &UserIntent{Confidence: 0.5, Purpose: "x"}, ""},
		{"purpose first", &UserIntent{Confidence: 0.9, Purpose: "report", Format: "table"}, "Intent: report"},
		{"format next", &UserIntent{Confidence: 0.9, Format: "table", Priority: "speed"}, "Preferred format: table"},
		{"priority last", &UserIntent{Confidence: 0.9, Priority: "speed"}, "Priority: speed"},
		{"nothing to show", &UserIntent{Confidence: 0.9}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IntentBadge(tt.intent); got != tt.want {
				t.Errorf("IntentBadge() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPresentFields(t *testing.T) {
	got := PresentFields(FieldExtraction{Fields: []string{"month", "revenue", "cost"}})
	if got.LabelField != "month" || got.ValueField != "revenue" || got.Title != "revenue by month" {
		t.Errorf("PresentFields() = %+v", got)
	}
}

func TestPresentCorrection(t *testing.T) {
	t.Run("falls back to original", func(t *testing.T) {
		v := PresentCorrection(Correction{Original: "SELECT * FROM t"})
		if v.Corrected != "SELECT * FROM t" || v.Diff != nil {
			t.Errorf("PresentCorrection() = %+v", v)
		}
		if v.Errors == nil || v.Suggestions == nil {
			t.Error("Errors/Suggestions = nil, want empty lists")
		}
	})

	t.Run("no diff when unchanged", func(t *testing.T) {
		v := PresentCorrection(Correction{Original: "a b", CorrectedQuery: "a b"})
		if v.Diff != nil {
			t.Errorf("Diff = %+v, want nil", v.Diff)
		}
	})

	t.Run("diff and learning flags", func(t *testing.T) {
		v := PresentCorrection(Correction{
			Original:       "SELEC * FROM t",
			CorrectedQuery: "SELECT * FROM t",
			Errors:         []string{"typo in SELECT"},
			Suggestions: []string{
				"Modèle fréquent: SELECT * FROM t WHERE id = ?",
				"Add a LIMIT clause",
			},
		})
		if v.Diff == nil || v.Diff.Total != 1 || v.Diff.Entries[0].Original != "SELEC" {
			t.Errorf("Diff = %+v", v.Diff)
		}
		if !v.Suggestions[0].Learning || v.Suggestions[1].Learning {
			t.Errorf("Suggestions = %+v", v.Suggestions)
		}
	})
}

func TestIsLearningSuggestion(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"Modèle fréquent: SELECT", true},
		{"Tables fréquemment utilisées: orders", true},
		{"Champs spécifiques fréquemment utilisés: id", true},
		{"Use an index", false},
		{" Modèle fréquent: leading space", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsLearningSuggestion(tt.input); got != tt.want {
				t.Errorf("IsLearningSuggestion(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
