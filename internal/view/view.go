// Package view derives the displayed subset of the task collection.
package view

import (
	"strings"

	"taskpad/internal/task"
)

// Filter selects tasks by completion status. Exactly one filter is active at
// a time; there is no "all" state.
type Filter string

const (
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// Parse maps a configured filter name to a Filter, defaulting to pending.
func Parse(s string) Filter {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(FilterCompleted), "done":
		return FilterCompleted
	default:
		return FilterPending
	}
}

// Next returns the other filter.
func (f Filter) Next() Filter {
	if f == FilterPending {
		return FilterCompleted
	}
	return FilterPending
}

// Apply returns the tasks matching the status filter and the search text, in
// collection order. Search is a case-insensitive substring match against the
// space-joined title and description; an empty search matches everything.
// Both predicates must hold.
func Apply(l task.List, f Filter, search string) task.List {
	needle := strings.ToLower(search)

	out := make(task.List, 0, len(l))
	for _, t := range l {
		if t.Completed != (f == FilterCompleted) {
			continue
		}
		if needle != "" {
			hay := strings.ToLower(t.Title + " " + t.Description)
			if !strings.Contains(hay, needle) {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
