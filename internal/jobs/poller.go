package jobs

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/amgohq/amgo/internal/sim"
	"github.com/amgohq/amgo/pkg/models"
)

// Advancer is the slice of the simulator the poller depends on.
type Advancer interface {
	Advance(ctx context.Context, jobID string) (*models.Job, error)
}

// Notifier receives the terminal-transition notifications the poller emits.
type Notifier interface {
	Success(title, description string)
	Error(title, description string)
}

// Poller drives jobs to a terminal state: one independent loop per job id,
// each repeatedly advancing its job on a fixed interval. Polls for a single
// id are strictly sequential; loops for different ids interleave freely.
type Poller struct {
	advancer Advancer
	feed     *Feed
	notifier Notifier
	interval time.Duration

	mu     sync.Mutex
	active map[string]*pollLoop
	closed bool

	root   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// pollLoop identifies one registration in the active set. The loop goroutine
// holds its own handle so deferred cleanup can tell whether the entry under
// its job id is still its own or belongs to a successor started after a Stop.
type pollLoop struct {
	cancel context.CancelFunc
}

func NewPoller(adv Advancer, feed *Feed, n Notifier, interval time.Duration) *Poller {
	root, cancel := context.WithCancel(context.Background())
	return &Poller{
		advancer: adv,
		feed:     feed,
		notifier: n,
		interval: interval,
		active:   make(map[string]*pollLoop),
		root:     root,
		cancel:   cancel,
	}
}

// Start begins polling the job. Idempotent: a job already being polled keeps
// its existing loop. The first advance happens one interval from now.
func (p *Poller) Start(jobID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	if _, ok := p.active[jobID]; ok {
		return
	}

	ctx, cancel := context.WithCancel(p.root)
	l := &pollLoop{cancel: cancel}
	p.active[jobID] = l
	p.wg.Add(1)
	go p.loop(ctx, jobID, l)
}

// Stop removes the job from the active set and cancels its loop, including
// any in-flight delay, so no further advances can be scheduled.
func (p *Poller) Stop(jobID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked(jobID)
}

func (p *Poller) stopLocked(jobID string) {
	if l, ok := p.active[jobID]; ok {
		l.cancel()
		delete(p.active, jobID)
	}
}

// IsActive reports whether the job is currently being polled.
func (p *Poller) IsActive(jobID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.active[jobID]
	return ok
}

// ActiveIDs returns the ids currently being polled, sorted for stable output.
func (p *Poller) ActiveIDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	ids := make([]string, 0, len(p.active))
	for id := range p.active {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close cancels every outstanding loop and waits for them to exit. No job
// state is written after Close returns.
func (p *Poller) Close() {
	p.mu.Lock()
	p.closed = true
	for id, l := range p.active {
		l.cancel()
		delete(p.active, id)
	}
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
}

func (p *Poller) loop(ctx context.Context, jobID string, self *pollLoop) {
	defer p.wg.Done()
	defer func() {
		self.cancel()
		// Remove only this loop's own registration. A Stop/Start pair may
		// have replaced it with a successor loop while this one was still
		// unwinding; that successor must keep polling.
		p.mu.Lock()
		if p.active[jobID] == self {
			delete(p.active, jobID)
		}
		p.mu.Unlock()
	}()

	for {
		if err := sim.Wait(ctx, p.interval); err != nil {
			return
		}

		job, err := p.advancer.Advance(ctx, jobID)
		if err != nil {
			// Job vanished or the loop was cancelled mid-advance; either
			// way this loop is done and nobody needs to hear about it.
			return
		}
		if ctx.Err() != nil {
			// Stopped while the advance was in flight. Do not publish.
			return
		}

		p.feed.Upsert(job)

		switch job.Status {
		case models.JobStatusCompleted:
			p.notifier.Success("Job completed", job.Message)
			return
		case models.JobStatusFailed:
			description := job.Message
			if job.ErrorMessage != nil {
				description = *job.ErrorMessage
			}
			p.notifier.Error("Job failed", description)
			return
		}
	}
}
