package core

// diff.go compares an original text with its corrected version word by word.
//
// The default mode walks both token lists in lockstep by index. It is cheap
// and matches what users see side by side, but an inserted or deleted word
// shifts every later token and shows up as a run of "modified" entries. The
// aligned mode pairs tokens through a longest common subsequence instead.

import (
	"fmt"
	"strings"
)

// DiffKind classifies a changed token.
type DiffKind string

const (
	DiffAdded    DiffKind = "added"
	DiffRemoved  DiffKind = "removed"
	DiffModified DiffKind = "modified"
)

// DiffMode selects the comparison algorithm.
type DiffMode string

const (
	DiffPositional DiffMode = "positional"
	DiffAlign      DiffMode = "aligned"
)

// ParseDiffMode parses a mode name. Empty means positional.
func ParseDiffMode(s string) (DiffMode, error) {
	switch DiffMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", DiffPositional:
		return DiffPositional, nil
	case DiffAlign:
		return DiffAlign, nil
	}
	return "", fmt.Errorf("unknown diff mode %q", s)
}

// DefaultDiffLimit is the number of entries shown before the overflow marker.
const DefaultDiffLimit = 5

// maxAlignCells bounds the LCS table. Larger inputs are compared positionally.
const maxAlignCells = 1 << 22

// DiffEntry is one changed token. Position is the token index in the
// corrected text for added entries and in the original text otherwise.
type DiffEntry struct {
	Kind      DiffKind `json:"kind" yaml:"kind"`
	Position  int      `json:"position" yaml:"position"`
	Original  string   `json:"original_token,omitempty" yaml:"original_token,omitempty"`
	Corrected string   `json:"corrected_token,omitempty" yaml:"corrected_token,omitempty"`
}

// Describe renders the entry as a display line.
func (e DiffEntry) Describe() string {
	switch e.Kind {
	case DiffAdded:
		return fmt.Sprintf("Added %q", e.Corrected)
	case DiffRemoved:
		return fmt.Sprintf("Removed %q", e.Original)
	default:
		return fmt.Sprintf("Replaced %q with %q", e.Original, e.Corrected)
	}
}

// DiffResult is the display-ready diff: the first entries plus the number of
// entries left out.
type DiffResult struct {
	Mode    DiffMode    `json:"mode" yaml:"mode"`
	Entries []DiffEntry `json:"entries" yaml:"entries"`
	Omitted int         `json:"omitted" yaml:"omitted"`
	Total   int         `json:"total" yaml:"total"`
}

// Empty reports whether the texts had no word-level changes.
func (r DiffResult) Empty() bool { return r.Total == 0 }

// OverflowText describes the omitted entries, or returns "" when none were.
func (r DiffResult) OverflowText() string {
	switch {
	case r.Omitted <= 0:
		return ""
	case r.Omitted == 1:
		return "... and 1 more change"
	default:
		return fmt.Sprintf("... and %d more changes", r.Omitted)
	}
}

// DiffOptions tunes DiffWith. Zero values select the positional mode and the
// default limit.
type DiffOptions struct {
	Mode  DiffMode
	Limit int
}

// Diff compares the texts positionally and truncates to DefaultDiffLimit.
func Diff(original, corrected string) DiffResult {
	return DiffWith(original, corrected, DiffOptions{})
}

// DiffAligned compares the texts through token alignment.
func DiffAligned(original, corrected string) DiffResult {
	return DiffWith(original, corrected, DiffOptions{Mode: DiffAlign})
}

// DiffWith compares the texts with the given options. It never fails.
func DiffWith(original, corrected string, opts DiffOptions) DiffResult {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultDiffLimit
	}
	mode := opts.Mode
	if mode == "" {
		mode = DiffPositional
	}

	var all []DiffEntry
	if mode == DiffAlign {
		all = AlignedChanges(original, corrected)
	} else {
		all = Changes(original, corrected)
	}

	res := DiffResult{Mode: mode, Total: len(all), Entries: all}
	if len(all) > limit {
		res.Entries = all[:limit:limit]
		res.Omitted = len(all) - limit
	}
	if res.Entries == nil {
		res.Entries = []DiffEntry{}
	}
	return res
}

// Changes returns every positional change between the texts.
func Changes(original, corrected string) []DiffEntry {
	a := strings.Fields(original)
	b := strings.Fields(corrected)

	var out []DiffEntry
	for i := 0; i < max(len(a), len(b)); i++ {
		switch {
		case i >= len(a):
			out = append(out, DiffEntry{Kind: DiffAdded, Position: i, Corrected: b[i]})
		case i >= len(b):
			out = append(out, DiffEntry{Kind: DiffRemoved, Position: i, Original: a[i]})
		case a[i] != b[i]:
			out = append(out, DiffEntry{Kind: DiffModified, Position: i, Original: a[i], Corrected: b[i]})
		}
	}
	return out
}

// AlignedChanges returns every change after aligning the token lists on
// their longest common subsequence. Within each gap between matched tokens,
// removed and added tokens are paired up as modified.
func AlignedChanges(original, corrected string) []DiffEntry {
	a := strings.Fields(original)
	b := strings.Fields(corrected)
	if len(a)*len(b) > maxAlignCells {
		return Changes(original, corrected)
	}

	var (
		out  []DiffEntry
		i, j int
	)
	flush := func(ai, bj int) {
		// gap is a[i:ai] against b[j:bj]
		for i < ai && j < bj {
			out = append(out, DiffEntry{Kind: DiffModified, Position: i, Original: a[i], Corrected: b[j]})
			i++
			j++
		}
		for ; i < ai; i++ {
			out = append(out, DiffEntry{Kind: DiffRemoved, Position: i, Original: a[i]})
		}
		for ; j < bj; j++ {
			out = append(out, DiffEntry{Kind: DiffAdded, Position: j, Corrected: b[j]})
		}
	}

	for _, m := range lcsPairs(a, b) {
		flush(m[0], m[1])
		i, j = m[0]+1, m[1]+1
	}
	flush(len(a), len(b))
	return out
}

// lcsPairs returns the index pairs (i in a, j in b) of a longest common
// subsequence, in increasing order.
func lcsPairs(a, b []string) [][2]int {
	m, n := len(a), len(b)

	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] >= dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}

	pairs := make([][2]int, dp[m][n])
	k := len(pairs) - 1
	for i, j := m, n; i > 0 && j > 0; {
		switch {
		case a[i-1] == b[j-1]:
			pairs[k] = [2]int{i - 1, j - 1}
			k--
			i--
			j--
		case dp[i-1][j] >= dp[i][j-1]:
			i--
		default:
			j--
		}
	}
	return pairs
}
