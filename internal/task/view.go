package task

import (
	"fmt"
	"strings"
)

// Filter selects which tasks are visible.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters lists the filter tabs in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// ParseFilter accepts a filter name in any case.
func ParseFilter(v string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(v)))
	switch f {
	case FilterAll, FilterActive, FilterCompleted:
		return f, nil
	}
	return "", fmt.Errorf("unknown filter %q", v)
}

func (f Filter) Next() Filter {
	for i, cand := range Filters {
		if cand == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

func (f Filter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// EmptyText is shown when no task passes the filter.
func (f Filter) EmptyText() string {
	switch f {
	case FilterCompleted:
		return "No completed units"
	case FilterActive:
		return "All units processed"
	default:
		return "Production queue empty"
	}
}

// View is recomputed from the task list on every read.
type View struct {
	Visible              []Task
	TotalCount           int
	CompletedCount       int
	ActiveCount          int
	CompletionPercentage float64
}

func Compute(tasks []Task, f Filter) View {
	v := View{
		Visible:    make([]Task, 0, len(tasks)),
		TotalCount: len(tasks),
	}
	for _, t := range tasks {
		if t.Completed {
			v.CompletedCount++
		}
		if f.Match(t) {
			v.Visible = append(v.Visible, t)
		}
	}
	v.ActiveCount = v.TotalCount - v.CompletedCount
	if v.TotalCount > 0 {
		v.CompletionPercentage = float64(v.CompletedCount) / float64(v.TotalCount) * 100
	}
	return v
}
