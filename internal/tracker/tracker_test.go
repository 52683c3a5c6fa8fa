package tracker

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskfactory/internal/storage"
	"taskfactory/internal/task"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(t *testing.T, kv KV) (*Store, *fakeClock, *bytes.Buffer) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	n := 0
	var logs bytes.Buffer
	s := Open(kv, Options{
		Now: clock.Now,
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
		Logger: log.New(&logs, "", 0),
	})
	return s, clock, &logs
}

func TestOpen_SeedsWhenNothingStored(t *testing.T) {
	kv := storage.NewMemory()

	s, _, logs := newTestStore(t, kv)

	tasks := s.Tasks()
	require.Len(t, tasks, 3)
	assert.Equal(t, "Review project specifications", tasks[0].Text)
	assert.Equal(t, task.FilterAll, s.Filter())
	assert.Equal(t, task.PriorityMedium, s.DraftPriority())
	assert.Contains(t, logs.String(), "seed")
	assert.Zero(t, kv.Writes, "opening must not write")
}

func TestOpen_SeedsOnMalformedPayload(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(DefaultKey, "{broken"))

	s, _, logs := newTestStore(t, kv)

	assert.Len(t, s.Tasks(), 3)
	assert.Contains(t, logs.String(), "malformed")
}

func TestOpen_SeedsOnReadError(t *testing.T) {
	kv := storage.NewMemory()
	kv.GetErr = errors.New("disk gone")

	s, _, logs := newTestStore(t, kv)

	assert.Len(t, s.Tasks(), 3)
	assert.Contains(t, logs.String(), "disk gone")
}

func TestOpen_StoredEmptyListIsNotSeeded(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(DefaultKey, "[]"))

	s, _, _ := newTestStore(t, kv)

	assert.Empty(t, s.Tasks())
	assert.Equal(t, 0.0, s.View().CompletionPercentage)
}

func TestOpen_RestoresSavedTasks(t *testing.T) {
	kv := storage.NewMemory()
	first, _, _ := newTestStore(t, kv)
	_, ok := first.Add("Write tests", task.PriorityLow)
	require.True(t, ok)
	first.Toggle("2")

	second, _, _ := newTestStore(t, kv)

	want, got := first.Tasks(), second.Tasks()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Completed, got[i].Completed)
		assert.True(t, want[i].CreatedAt.Equal(got[i].CreatedAt))
		assert.Equal(t, want[i].CompletedAt == nil, got[i].CompletedAt == nil)
	}
}

func TestOpen_CustomKeyAndDefaults(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Set("other", "[]"))

	s := Open(kv, Options{Key: "other", Filter: task.FilterActive, DraftPriority: task.PriorityHigh})

	assert.Empty(t, s.Tasks())
	assert.Equal(t, task.FilterActive, s.Filter())
	assert.Equal(t, task.PriorityHigh, s.DraftPriority())
}

func TestAdd_TrimsAndPrepends(t *testing.T) {
	kv := storage.NewMemory()
	s, _, _ := newTestStore(t, kv)
	s.SetDraftText("  Buy milk  ")

	got, ok := s.Add(s.DraftText(), task.PriorityHigh)

	require.True(t, ok)
	assert.Equal(t, "Buy milk", got.Text)
	assert.Equal(t, "Buy milk", s.Tasks()[0].Text)
	assert.Empty(t, s.DraftText())
	assert.Equal(t, 1, kv.Writes)
}

func TestAdd_BlankIsNoOp(t *testing.T) {
	kv := storage.NewMemory()
	s, _, _ := newTestStore(t, kv)

	for _, text := range []string{"", "   "} {
		_, ok := s.Add(text, task.PriorityLow)
		assert.False(t, ok)
	}

	assert.Len(t, s.Tasks(), 3)
	assert.Zero(t, kv.Writes)
}

func TestAdd_OrderMostRecentFirst(t *testing.T) {
	s, _, _ := newTestStore(t, storage.NewMemory())

	a, _ := s.Add("A", task.PriorityLow)
	b, _ := s.Add("B", task.PriorityLow)

	visible := s.View().Visible
	assert.Equal(t, b.ID, visible[0].ID)
	assert.Equal(t, a.ID, visible[1].ID)
	assert.Equal(t, "1", visible[2].ID)
}

func TestAdd_AllowsDuplicateText(t *testing.T) {
	s, _, _ := newTestStore(t, storage.NewMemory())

	a, _ := s.Add("same", task.PriorityLow)
	b, _ := s.Add("same", task.PriorityLow)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, s.Tasks(), 5)
}

func TestSubmit_KeepsPriority(t *testing.T) {
	s, _, _ := newTestStore(t, storage.NewMemory())
	require.NoError(t, s.SetDraftPriority(task.PriorityHigh))
	s.SetDraftText("first")

	got, ok := s.Submit()

	require.True(t, ok)
	assert.Equal(t, task.PriorityHigh, got.Priority)
	assert.Empty(t, s.DraftText())
	assert.Equal(t, task.PriorityHigh, s.DraftPriority())

	_, ok = s.Submit()
	assert.False(t, ok, "draft text was cleared")
}

func TestSetDraftPriority_RejectsUnknown(t *testing.T) {
	s, _, _ := newTestStore(t, storage.NewMemory())

	assert.Error(t, s.SetDraftPriority("urgent"))
	assert.Equal(t, task.PriorityMedium, s.DraftPriority())
}

func TestToggle_TwiceRestores(t *testing.T) {
	kv := storage.NewMemory()
	s, clock, _ := newTestStore(t, kv)

	clock.advance(time.Minute)
	_, ok := s.Toggle("1")
	require.True(t, ok)
	got, _ := task.Find(s.Tasks(), "1")
	assert.True(t, got.Completed)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.CompletedAt.Equal(clock.t))

	_, ok = s.Toggle("1")
	require.True(t, ok)
	got, _ = task.Find(s.Tasks(), "1")
	assert.False(t, got.Completed)
	assert.Nil(t, got.CompletedAt)
	assert.Equal(t, 2, kv.Writes)
}

func TestToggle_UnknownIDIsNoOp(t *testing.T) {
	kv := storage.NewMemory()
	s, _, _ := newTestStore(t, kv)
	before := s.Tasks()

	_, ok := s.Toggle("missing")

	assert.False(t, ok)
	assert.Equal(t, before, s.Tasks())
	_, lit := s.Highlighted()
	assert.False(t, lit)
	assert.Zero(t, kv.Writes)
}

func TestHighlight_ExpiresAfterToggle(t *testing.T) {
	s, _, _ := newTestStore(t, storage.NewMemory())

	h, _ := s.Toggle("1")
	id, lit := s.Highlighted()
	require.True(t, lit)
	assert.Equal(t, "1", id)

	assert.True(t, s.ExpireHighlight(h))
	_, lit = s.Highlighted()
	assert.False(t, lit)
}

func TestHighlight_StaleTimerKeepsNewerHighlight(t *testing.T) {
	s, _, _ := newTestStore(t, storage.NewMemory())

	first, _ := s.Toggle("1")
	second, _ := s.Toggle("2")

	assert.False(t, s.ExpireHighlight(first))
	id, lit := s.Highlighted()
	assert.True(t, lit)
	assert.Equal(t, "2", id)

	assert.True(t, s.ExpireHighlight(second))
	_, lit = s.Highlighted()
	assert.False(t, lit)
}

func TestHighlight_RetoggleSameTask(t *testing.T) {
	s, _, _ := newTestStore(t, storage.NewMemory())

	first, _ := s.Toggle("1")
	second, _ := s.Toggle("1")

	assert.NotEqual(t, first, second)
	assert.False(t, s.ExpireHighlight(first))
	_, lit := s.Highlighted()
	assert.True(t, lit)
}

func TestHighlight_ZeroValueNeverClears(t *testing.T) {
	s, _, _ := newTestStore(t, storage.NewMemory())
	s.Toggle("1")

	assert.False(t, s.ExpireHighlight(Highlight{}))
}

func TestDelete(t *testing.T) {
	kv := storage.NewMemory()
	s, _, _ := newTestStore(t, kv)
	s.Toggle("2")

	assert.True(t, s.Delete("2"))

	assert.Len(t, s.Tasks(), 2)
	_, lit := s.Highlighted()
	assert.False(t, lit, "deleted task loses its highlight")
	assert.Equal(t, 2, kv.Writes)
}

func TestDelete_UnknownIDIsNoOp(t *testing.T) {
	kv := storage.NewMemory()
	s, _, _ := newTestStore(t, kv)
	before := s.Tasks()

	assert.False(t, s.Delete("missing"))

	assert.Equal(t, before, s.Tasks())
	assert.Zero(t, kv.Writes)
}

func TestSetFilter(t *testing.T) {
	kv := storage.NewMemory()
	s, _, _ := newTestStore(t, kv)

	require.NoError(t, s.SetFilter(task.FilterActive))
	assert.Len(t, s.View().Visible, 2)

	require.NoError(t, s.SetFilter(task.FilterCompleted))
	assert.Len(t, s.View().Visible, 1)

	assert.Error(t, s.SetFilter("archived"))
	assert.Equal(t, task.FilterCompleted, s.Filter())
	assert.Len(t, s.Tasks(), 3)
	assert.Zero(t, kv.Writes, "filter is not persisted")
}

func TestPersist_WriteFailureKeepsMutation(t *testing.T) {
	kv := storage.NewMemory()
	s, _, logs := newTestStore(t, kv)
	kv.SetErr = errors.New("quota exceeded")

	_, ok := s.Add("still here", task.PriorityLow)

	require.True(t, ok)
	assert.Len(t, s.Tasks(), 4)
	require.Error(t, s.LastError())
	assert.ErrorIs(t, s.LastError(), kv.SetErr)
	assert.Contains(t, logs.String(), "quota exceeded")

	kv.SetErr = nil
	s.Toggle("1")
	assert.NoError(t, s.LastError())
}

func TestEndToEnd_SeedAddToggle(t *testing.T) {
	s, _, _ := newTestStore(t, storage.NewMemory())

	added, ok := s.Add("Write tests", task.PriorityLow)
	require.True(t, ok)
	_, ok = s.Toggle(added.ID)
	require.True(t, ok)

	v := s.View()
	assert.Equal(t, 2, v.CompletedCount)
	assert.Equal(t, 4, v.TotalCount)
	assert.Equal(t, 50.0, v.CompletionPercentage)
}

func TestEndToEnd_SQLiteBackedStore(t *testing.T) {
	db, err := storage.Open(t.TempDir() + "/tasks.db")
	require.NoError(t, err)
	defer db.Close()

	s := Open(db, Options{})
	added, ok := s.Add("Write tests", task.PriorityLow)
	require.True(t, ok)
	s.Toggle(added.ID)

	reopened := Open(db, Options{})
	v := reopened.View()
	assert.Equal(t, 4, v.TotalCount)
	assert.Equal(t, 2, v.CompletedCount)
	got, ok := task.Find(reopened.Tasks(), added.ID)
	require.True(t, ok)
	assert.NotNil(t, got.CompletedAt)
}
