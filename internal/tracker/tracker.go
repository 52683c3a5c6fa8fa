// Package tracker owns the task list and the session state around it
// (filter, draft input, completion highlight) and writes the list back
// to a key-value store after every change.
//
// A Store is driven by a single event loop and is not safe for
// concurrent use.
package tracker

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"taskfactory/internal/task"
)

const (
	DefaultKey = "industrial-tasks"

	// HighlightDuration is how long the completion stamp stays up.
	HighlightDuration = 600 * time.Millisecond
)

// KV is the durable storage the store reads from once and writes to on
// every change.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

type Options struct {
	Key           string
	Filter        task.Filter
	DraftPriority task.Priority
	Now           func() time.Time
	NewID         func() string
	Logger        *log.Logger
}

// Highlight identifies one toggle's completion stamp. Seq tells apart two
// toggles of the same task.
type Highlight struct {
	ID  string
	Seq uint64
}

type Store struct {
	kv     KV
	key    string
	now    func() time.Time
	newID  func() string
	logger *log.Logger

	tasks         []task.Task
	filter        task.Filter
	draftText     string
	draftPriority task.Priority
	highlight     Highlight
	seq           uint64
	lastErr       error
}

// Open loads the saved task list from kv, or seeds the store when
// nothing usable is stored. Read problems are logged, never returned.
func Open(kv KV, opts Options) *Store {
	s := &Store{
		kv:            kv,
		key:           opts.Key,
		now:           opts.Now,
		newID:         opts.NewID,
		logger:        opts.Logger,
		filter:        opts.Filter,
		draftPriority: opts.DraftPriority,
	}
	if s.key == "" {
		s.key = DefaultKey
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard, "", 0)
	}
	if f, err := task.ParseFilter(string(s.filter)); err == nil {
		s.filter = f
	} else {
		s.filter = task.FilterAll
	}
	if !s.draftPriority.Valid() {
		s.draftPriority = task.PriorityMedium
	}

	tasks, err := s.load()
	if err != nil {
		s.logger.Printf("tracker: %v; starting from seed tasks", err)
		tasks = task.Seed(s.stamp())
	}
	s.tasks = tasks
	return s
}

func (s *Store) load() ([]task.Task, error) {
	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", s.key, err)
	}
	if !ok {
		return nil, fmt.Errorf("nothing stored under %q", s.key)
	}
	tasks, dropped, err := task.Decode([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", s.key, err)
	}
	if dropped > 0 {
		s.logger.Printf("tracker: dropped %d unreadable task record(s)", dropped)
	}
	return tasks, nil
}

// stamp is the current time at the precision the stored form keeps.
func (s *Store) stamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// Tasks returns a copy of the full list, most recent first.
func (s *Store) Tasks() []task.Task {
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// View recomputes the filtered list and counters.
func (s *Store) View() task.View {
	return task.Compute(s.tasks, s.filter)
}

func (s *Store) Filter() task.Filter { return s.filter }

func (s *Store) SetFilter(f task.Filter) error {
	f, err := task.ParseFilter(string(f))
	if err != nil {
		return err
	}
	s.filter = f
	return nil
}

func (s *Store) DraftText() string { return s.draftText }

func (s *Store) SetDraftText(v string) { s.draftText = v }

func (s *Store) DraftPriority() task.Priority { return s.draftPriority }

func (s *Store) SetDraftPriority(p task.Priority) error {
	if !p.Valid() {
		return fmt.Errorf("unknown priority %q", p)
	}
	s.draftPriority = p
	return nil
}

// Add prepends a new task and clears the draft text. Blank text is
// ignored. The draft priority is kept for the next add.
func (s *Store) Add(text string, p task.Priority) (task.Task, bool) {
	t, ok := task.New(s.newID(), text, p, s.stamp())
	if !ok {
		return task.Task{}, false
	}
	s.tasks = task.Prepend(s.tasks, t)
	s.draftText = ""
	s.persist()
	return t, true
}

// Submit adds a task from the draft fields.
func (s *Store) Submit() (task.Task, bool) {
	return s.Add(s.draftText, s.draftPriority)
}

// Toggle flips a task's completion and highlights it. The returned
// Highlight should be handed back to ExpireHighlight after
// HighlightDuration.
func (s *Store) Toggle(id string) (Highlight, bool) {
	tasks, ok := task.Toggle(s.tasks, id, s.stamp())
	if !ok {
		return Highlight{}, false
	}
	s.tasks = tasks
	s.seq++
	s.highlight = Highlight{ID: id, Seq: s.seq}
	s.persist()
	return s.highlight, true
}

// ExpireHighlight clears h if it is still the current highlight. A newer
// toggle, of this task or another, keeps its own highlight.
func (s *Store) ExpireHighlight(h Highlight) bool {
	if h.ID == "" || s.highlight != h {
		return false
	}
	s.highlight = Highlight{}
	return true
}

// Highlighted returns the id currently showing the completion stamp.
func (s *Store) Highlighted() (string, bool) {
	return s.highlight.ID, s.highlight.ID != ""
}

func (s *Store) Delete(id string) bool {
	tasks, ok := task.Delete(s.tasks, id)
	if !ok {
		return false
	}
	s.tasks = tasks
	if s.highlight.ID == id {
		s.highlight = Highlight{}
	}
	s.persist()
	return true
}

// LastError is the most recent persistence failure, cleared by the next
// successful write.
func (s *Store) LastError() error { return s.lastErr }

func (s *Store) persist() {
	data, err := task.Encode(s.tasks)
	if err == nil {
		err = s.kv.Set(s.key, string(data))
	}
	if err != nil {
		s.lastErr = fmt.Errorf("save %q: %w", s.key, err)
		s.logger.Printf("tracker: %v", s.lastErr)
		return
	}
	s.lastErr = nil
}
