// Package tui provides a Bubble Tea terminal front end for the topdown
// engine: a character-grid map, dialog cards, and toasts.
package tui

import "fmt"

type logEntry struct {
	text  string
	count int
}

// History is a bounded log of past notices, oldest first.
type History struct {
	entries []logEntry
	max     int
}

// NewHistory creates a history buffer with the given maximum size.
func NewHistory(max int) *History {
	return &History{
		entries: make([]logEntry, 0, max),
		max:     max,
	}
}

// Push adds a notice. Consecutive duplicates are counted on the last entry.
func (h *History) Push(text string) {
	if n := len(h.entries); n > 0 && h.entries[n-1].text == text {
		h.entries[n-1].count++
		return
	}
	h.entries = append(h.entries, logEntry{text: text, count: 1})
	if len(h.entries) > h.max {
		h.entries = h.entries[1:]
	}
}

// Lines returns the logged notices, oldest first.
func (h *History) Lines() []string {
	lines := make([]string, 0, len(h.entries))
	for _, e := range h.entries {
		if e.count > 1 {
			lines = append(lines, fmt.Sprintf("%s (x%d)", e.text, e.count))
			continue
		}
		lines = append(lines, e.text)
	}
	return lines
}

// Len returns the number of logged entries.
func (h *History) Len() int {
	return len(h.entries)
}
