// Package task holds the task collection, its mutations, and its persistence.
package task

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrEmptyTitle is returned when a create or update carries a title that
	// is empty after trimming. The collection is left unchanged.
	ErrEmptyTitle = errors.New("title is empty")

	// ErrNotFound is returned when no task matches the given id.
	ErrNotFound = errors.New("task not found")
)

// Task represents a single to-do item. Timestamps are milliseconds since
// epoch; ID is derived from CreatedAt and never changes.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == ""
}

// List is the full task collection, newest-created first. Mutations return a
// fresh List and never alias the receiver, so callers can hold on to old
// snapshots safely.
type List []Task

// Get returns the task with the given id, or nil if not found.
func (l List) Get(id string) *Task {
	for i := range l {
		if l[i].ID == id {
			return &l[i]
		}
	}
	return nil
}

// Create prepends a new task built from title and description. The id is the
// creation time in decimal milliseconds; on a same-millisecond collision the
// timestamp advances until the id is free, so id and createdAt always match.
func (l List) Create(title, description string, now time.Time) (List, Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return l, Task{}, ErrEmptyTitle
	}

	ms := now.UnixMilli()
	for l.Get(strconv.FormatInt(ms, 10)) != nil {
		ms++
	}

	t := Task{
		ID:          strconv.FormatInt(ms, 10),
		Title:       title,
		Description: strings.TrimSpace(description),
		CreatedAt:   ms,
		UpdatedAt:   ms,
	}

	out := make(List, 0, len(l)+1)
	out = append(out, t)
	out = append(out, l...)
	return out, t, nil
}

// Update replaces the matching task's title and description and bumps
// updatedAt, preserving id, completed, createdAt, and position.
func (l List) Update(id, title, description string, now time.Time) (List, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return l, ErrEmptyTitle
	}

	out := l.clone()
	for i := range out {
		if out[i].ID == id {
			out[i].Title = title
			out[i].Description = strings.TrimSpace(description)
			out[i].UpdatedAt = now.UnixMilli()
			return out, nil
		}
	}
	return l, ErrNotFound
}

// Toggle flips the matching task's completed flag and bumps updatedAt.
func (l List) Toggle(id string, now time.Time) (List, error) {
	out := l.clone()
	for i := range out {
		if out[i].ID == id {
			out[i].Completed = !out[i].Completed
			out[i].UpdatedAt = now.UnixMilli()
			return out, nil
		}
	}
	return l, ErrNotFound
}

// Remove deletes the matching task. Order of the remaining tasks is kept.
func (l List) Remove(id string) (List, error) {
	for i := range l {
		if l[i].ID == id {
			out := make(List, 0, len(l)-1)
			out = append(out, l[:i]...)
			out = append(out, l[i+1:]...)
			return out, nil
		}
	}
	return l, ErrNotFound
}

func (l List) clone() List {
	out := make(List, len(l))
	copy(out, l)
	return out
}
