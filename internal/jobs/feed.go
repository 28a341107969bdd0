package jobs

import (
	"context"
	"sync"

	"github.com/amgohq/amgo/pkg/models"
)

// Feed is the shared job collection consumed by every view of the job list.
// Updates arrive from many independent polling loops; last write wins per job
// id, which is safe because polls for a single id are strictly sequential.
type Feed struct {
	mu      sync.Mutex
	jobs    []*models.Job
	subs    map[int]chan *models.Job
	nextSub int
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[int]chan *models.Job)}
}

// SetAll replaces the whole collection. Used on initial load.
func (f *Feed) SetAll(jobs []*models.Job) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.jobs = make([]*models.Job, 0, len(jobs))
	for _, j := range jobs {
		f.jobs = append(f.jobs, j.Clone())
	}
}

// Upsert replaces the record with the same id in place, or prepends a
// genuinely new one. Subscribers are notified either way.
func (f *Feed) Upsert(job *models.Job) {
	f.mu.Lock()
	defer f.mu.Unlock()

	clone := job.Clone()
	replaced := false
	for i, j := range f.jobs {
		if j.ID == clone.ID {
			f.jobs[i] = clone
			replaced = true
			break
		}
	}
	if !replaced {
		f.jobs = append([]*models.Job{clone}, f.jobs...)
	}

	for _, ch := range f.subs {
		// Drop updates for subscribers that cannot keep up; the next
		// snapshot or update catches them up.
		select {
		case ch <- clone.Clone():
		default:
		}
	}
}

// Snapshot returns a copy of the collection in presentation order.
func (f *Feed) Snapshot() []*models.Job {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*models.Job, 0, len(f.jobs))
	for _, j := range f.jobs {
		out = append(out, j.Clone())
	}
	return out
}

// Watch returns a channel of job updates. The subscription ends and the
// channel closes when ctx is cancelled.
func (f *Feed) Watch(ctx context.Context) <-chan *models.Job {
	ch := make(chan *models.Job, 16)

	f.mu.Lock()
	id := f.nextSub
	f.nextSub++
	f.subs[id] = ch
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs, id)
		close(ch)
		f.mu.Unlock()
	}()

	return ch
}
