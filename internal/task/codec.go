package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// TimeLayout matches the ISO strings browsers write for Date values.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

var ErrMalformed = errors.New("malformed task payload")

type record struct {
	ID          string  `json:"id"`
	Text        string  `json:"text"`
	Completed   bool    `json:"completed"`
	Priority    string  `json:"priority"`
	CreatedAt   string  `json:"createdAt"`
	CompletedAt *string `json:"completedAt,omitempty"`
}

func Encode(tasks []Task) ([]byte, error) {
	records := make([]record, 0, len(tasks))
	for _, t := range tasks {
		r := record{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			Priority:  string(t.Priority),
			CreatedAt: formatTime(t.CreatedAt),
		}
		if t.CompletedAt != nil {
			at := formatTime(*t.CompletedAt)
			r.CompletedAt = &at
		}
		records = append(records, r)
	}
	return json.Marshal(records)
}

// Decode parses a stored payload. Records that cannot be repaired are
// dropped and counted; only a payload that is not a list of task objects
// is an error.
func Decode(data []byte) ([]Task, int, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if records == nil {
		// literal null
		return nil, 0, fmt.Errorf("%w: not a list", ErrMalformed)
	}

	tasks := make([]Task, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	dropped := 0
	for _, r := range records {
		t, ok := r.task()
		if !ok {
			dropped++
			continue
		}
		if _, dup := seen[t.ID]; dup {
			dropped++
			continue
		}
		seen[t.ID] = struct{}{}
		tasks = append(tasks, t)
	}
	return tasks, dropped, nil
}

func (r record) task() (Task, bool) {
	text := strings.TrimSpace(r.Text)
	if r.ID == "" || text == "" {
		return Task{}, false
	}
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return Task{}, false
	}
	p, err := ParsePriority(r.Priority)
	if err != nil {
		p = PriorityMedium
	}
	t := Task{
		ID:        r.ID,
		Text:      text,
		Completed: r.Completed,
		Priority:  p,
		CreatedAt: created,
	}
	if !t.Completed {
		return t, true
	}
	at := created
	if r.CompletedAt != nil {
		if parsed, err := parseTime(*r.CompletedAt); err == nil {
			at = parsed
		}
	}
	t.CompletedAt = &at
	return t, true
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func parseTime(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
