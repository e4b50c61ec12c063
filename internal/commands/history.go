package commands

import "strings"

// History keeps submitted console lines for recall with the arrow keys. The newest entry is last.
type History struct {
	entries []string
	limit   int
	cursor  int
}

// NewHistory returns a history that remembers at most limit lines.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = 50
	}
	return &History{limit: limit}
}

// Add records line and moves the cursor past the newest entry. Blank lines and repeats of the
// newest entry are not stored.
func (h *History) Add(line string) {
	defer h.Reset()
	if strings.TrimSpace(line) == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return
	}
	h.entries = append(h.entries, line)
	if len(h.entries) > h.limit {
		h.entries = append(h.entries[:0], h.entries[len(h.entries)-h.limit:]...)
	}
}

// Prev steps back one entry. ok is false when there is nothing older.
func (h *History) Prev() (line string, ok bool) {
	if h.cursor == 0 {
		return "", false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Next steps forward one entry. Stepping past the newest entry yields "" with ok true, so the
// input line is cleared.
func (h *History) Next() (line string, ok bool) {
	if h.cursor >= len(h.entries) {
		return "", false
	}
	h.cursor++
	if h.cursor == len(h.entries) {
		return "", true
	}
	return h.entries[h.cursor], true
}

// Reset puts the cursor past the newest entry.
func (h *History) Reset() { h.cursor = len(h.entries) }

// Len returns the number of stored lines.
func (h *History) Len() int { return len(h.entries) }

// Complete returns the console lines that complete a partially typed subcommand, sorted.
// Only the first word after "cmd " is completed; lines that already carry arguments are left alone.
func (r *Registry) Complete(line string) []string {
	if !strings.HasPrefix(line, prefix) {
		if strings.HasPrefix(prefix, line) {
			return []string{prefix}
		}
		return nil
	}
	partial := strings.TrimLeft(line[len(prefix):], " ")
	if strings.Contains(partial, " ") {
		return nil
	}
	var out []string
	for _, n := range r.Names() {
		if strings.HasPrefix(n, partial) {
			out = append(out, prefix+n+" ")
		}
	}
	return out
}
