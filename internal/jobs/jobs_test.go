package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/emrgen/notes/internal/model"
	"github.com/emrgen/notes/internal/tester"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type countingJob struct {
	runs atomic.Int32
	ran  chan struct{}
	once sync.Once
}

func newCountingJob() *countingJob {
	return &countingJob{ran: make(chan struct{})}
}

func (c *countingJob) Schedule() string {
	return "@every 1s"
}

func (c *countingJob) Run() {
	c.runs.Add(1)
	c.once.Do(func() { close(c.ran) })
}

func TestTaskExecutor(t *testing.T) {
	defer goleak.VerifyNone(t)

	cronJob := newCountingJob()
	job := newCountingJob()
	executor := NewTaskExecutor([]Job{job}, []CronJob{cronJob})
	require.NoError(t, executor.Run())

	for _, j := range []*countingJob{cronJob, job} {
		select {
		case <-j.ran:
		case <-time.After(5 * time.Second):
			t.Fatal("job did not run")
		}
	}

	executor.Stop()
	assert.GreaterOrEqual(t, cronJob.runs.Load(), int32(1))
}

type badSchedule struct{}

func (badSchedule) Schedule() string { return "every now and then" }
func (badSchedule) Run()             {}

func TestTaskExecutor_BadSchedule(t *testing.T) {
	executor := NewTaskExecutor(nil, []CronJob{badSchedule{}})
	assert.Error(t, executor.Run())
}

type fakeSweeper struct {
	olderThan time.Time
	err       error
}

func (f *fakeSweeper) SweepOrphans(ctx context.Context, olderThan time.Time) (int, error) {
	f.olderThan = olderThan
	return 2, f.err
}

func TestOrphanSweepTask(t *testing.T) {
	sweeper := &fakeSweeper{}
	task := NewOrphanSweepTask(sweeper, "@every 1h", time.Hour)
	assert.Equal(t, "@every 1h", task.Schedule())

	task.Run()
	assert.WithinDuration(t, time.Now().Add(-time.Hour), sweeper.olderThan, time.Minute)

	sweeper.err = errors.New("db down")
	assert.NotPanics(t, task.Run)
}

type fakeRefresher struct {
	ids []string
}

func (f *fakeRefresher) Refresh(ctx context.Context, profileID string) error {
	f.ids = append(f.ids, profileID)
	return nil
}

func TestStaleRefreshTask(t *testing.T) {
	s := tester.Store(t)
	ctx := context.TODO()

	note := &model.Note{ID: uuid.New().String(), Title: "n", Content: "c", Tags: "[]"}
	require.NoError(t, s.CreateNote(ctx, note))

	stale := &model.Profile{ID: uuid.New().String(), Title: "Alice"}
	filled := &model.Profile{ID: uuid.New().String(), Title: "Bob", Content: "Name: Bob"}
	orphan := &model.Profile{ID: uuid.New().String(), Title: "Carol"}
	for _, p := range []*model.Profile{stale, filled, orphan} {
		require.NoError(t, s.CreateProfile(ctx, p))
	}
	for _, p := range []*model.Profile{stale, filled} {
		require.NoError(t, s.CreateNoteProfile(ctx, &model.NoteProfile{ID: uuid.New().String(), NoteID: note.ID, ProfileID: p.ID}))
	}

	refresher := &fakeRefresher{}
	task := NewStaleRefreshTask(s, refresher, "@every 10m", -time.Minute)
	task.Run()
	assert.Equal(t, []string{stale.ID}, refresher.ids)
}

type fakeDictionary struct {
	mu     sync.Mutex
	names  []string
	loaded chan struct{}
	once   sync.Once
}

func (f *fakeDictionary) Reload(names []string) {
	f.mu.Lock()
	f.names = names
	f.mu.Unlock()
	f.once.Do(func() { close(f.loaded) })
}

type titles []string

func (t titles) ListProfileTitles(ctx context.Context) ([]string, error) {
	return t, nil
}

func TestDictionaryRefresher(t *testing.T) {
	defer goleak.VerifyNone(t)

	dict := &fakeDictionary{loaded: make(chan struct{})}
	refresher := NewDictionaryRefresher(titles{"Alice", "Bob"}, dict, time.Hour)

	done := make(chan struct{})
	go func() {
		defer close(done)
		refresher.Run()
	}()

	select {
	case <-dict.loaded:
	case <-time.After(5 * time.Second):
		t.Fatal("dictionary was not reloaded")
	}

	refresher.Stop()
	<-done

	dict.mu.Lock()
	defer dict.mu.Unlock()
	assert.Equal(t, []string{"Alice", "Bob"}, dict.names)
}
