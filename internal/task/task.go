// Package task holds the task model and the pure functions that turn a
// user intent into a new task list.
package task

import (
	"fmt"
	"strings"
	"time"
)

// Priority ranks a task. It is fixed when the task is created.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority in display order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority accepts a priority name in any case.
func ParsePriority(v string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(v)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", v)
	}
	return p, nil
}

// Valid reports whether p is one of Priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Next cycles low -> medium -> high -> low.
func (p Priority) Next() Priority {
	for i, cand := range Priorities {
		if cand == p {
			return Priorities[(i+1)%len(Priorities)]
		}
	}
	return PriorityMedium
}

// Task is one unit of work. CompletedAt is set exactly when Completed is.
type Task struct {
	ID          string
	Text        string
	Completed   bool
	Priority    Priority
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// ShortID is the tail of the id shown next to each row.
func (t Task) ShortID() string {
	if len(t.ID) <= 6 {
		return t.ID
	}
	return t.ID[len(t.ID)-6:]
}

// New builds an incomplete task. It reports false when the text is blank
// or the priority is unknown.
func New(id, text string, p Priority, now time.Time) (Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" || !p.Valid() {
		return Task{}, false
	}
	return Task{
		ID:        id,
		Text:      text,
		Priority:  p,
		CreatedAt: now,
	}, true
}

// Prepend returns a new list with t in front.
func Prepend(tasks []Task, t Task) []Task {
	out := make([]Task, 0, len(tasks)+1)
	out = append(out, t)
	return append(out, tasks...)
}

// Toggle flips the completion state of the task with the given id.
func Toggle(tasks []Task, id string, now time.Time) ([]Task, bool) {
	idx := indexOf(tasks, id)
	if idx < 0 {
		return tasks, false
	}
	out := make([]Task, len(tasks))
	copy(out, tasks)
	t := out[idx]
	t.Completed = !t.Completed
	if t.Completed {
		at := now
		t.CompletedAt = &at
	} else {
		t.CompletedAt = nil
	}
	out[idx] = t
	return out, true
}

// Delete removes the task with the given id.
func Delete(tasks []Task, id string) ([]Task, bool) {
	idx := indexOf(tasks, id)
	if idx < 0 {
		return tasks, false
	}
	out := make([]Task, 0, len(tasks)-1)
	out = append(out, tasks[:idx]...)
	return append(out, tasks[idx+1:]...), true
}

// Find returns the task with the given id.
func Find(tasks []Task, id string) (Task, bool) {
	idx := indexOf(tasks, id)
	if idx < 0 {
		return Task{}, false
	}
	return tasks[idx], true
}

func indexOf(tasks []Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Seed is the list used when nothing has been stored yet.
func Seed(now time.Time) []Task {
	done := now
	return []Task{
		{ID: "1", Text: "Review project specifications", Priority: PriorityHigh, CreatedAt: now},
		{ID: "2", Text: "Update documentation", Priority: PriorityMedium, CreatedAt: now},
		{ID: "3", Text: "Schedule team standup", Completed: true, Priority: PriorityLow, CreatedAt: now, CompletedAt: &done},
	}
}
