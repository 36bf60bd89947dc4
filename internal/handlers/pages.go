package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/google/uuid"

	"github.com/csg33k/tugas-tracker/internal/tracker"
)

type pageKind string

const (
	kindRoster pageKind = "roster"
	kindDetail pageKind = "detail"
)

type dispatcher interface {
	Dispatch(ctx context.Context, ev tracker.Event) error
}

// pendingAction is an action parked on a confirmation prompt.
type pendingAction struct {
	prompt *tracker.Prompt
	done   <-chan struct{}
}

// pageEntry is one loaded page: its controller, the fragment its actions
// answer with, and a context that lives as long as the page does.
type pageEntry struct {
	id       string
	kind     pageKind
	page     dispatcher
	fragment func() templ.Component
	ctx      context.Context
	cancel   context.CancelFunc

	mu       sync.Mutex
	lastSeen time.Time
	pending  map[string]pendingAction
}

func (e *pageEntry) park(p *tracker.Prompt, done <-chan struct{}) {
	e.mu.Lock()
	e.pending[p.ID] = pendingAction{prompt: p, done: done}
	e.mu.Unlock()
}

func (e *pageEntry) unpark(promptID string) (pendingAction, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	pa, ok := e.pending[promptID]
	delete(e.pending, promptID)
	return pa, ok
}

// dropPending declines every parked action and forgets it. It returns the
// done channels of the declined actions.
func (e *pageEntry) dropPending() []<-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	var dropped []<-chan struct{}
	for id, pa := range e.pending {
		pa.prompt.Answer(false)
		dropped = append(dropped, pa.done)
		delete(e.pending, id)
	}
	return dropped
}

func (e *pageEntry) pendingCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

// registry holds live pages. A page that has not been touched for ttl is
// gone: its context is cancelled, which also drops any unanswered prompt.
type registry struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.Mutex
	pages map[string]*pageEntry
}

func newRegistry(ttl time.Duration) *registry {
	return &registry{ttl: ttl, now: time.Now, pages: make(map[string]*pageEntry)}
}

func (r *registry) add(kind pageKind, page dispatcher, fragment func() templ.Component) *pageEntry {
	ctx, cancel := context.WithCancel(context.Background())
	e := &pageEntry{
		id:       uuid.NewString(),
		kind:     kind,
		page:     page,
		fragment: fragment,
		ctx:      ctx,
		cancel:   cancel,
		lastSeen: r.now(),
		pending:  make(map[string]pendingAction),
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	r.pages[e.id] = e
	return e
}

func (r *registry) get(id string) (*pageEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.pages[id]
	if !ok {
		return nil, false
	}
	now := r.now()
	e.mu.Lock()
	expired := now.Sub(e.lastSeen) > r.ttl
	if !expired {
		e.lastSeen = now
	}
	e.mu.Unlock()
	if expired {
		r.dropLocked(e)
		return nil, false
	}
	return e, true
}

func (r *registry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pages)
}

// close drops every page.
func (r *registry) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.pages {
		r.dropLocked(e)
	}
}

func (r *registry) sweepLocked() {
	now := r.now()
	for _, e := range r.pages {
		e.mu.Lock()
		expired := now.Sub(e.lastSeen) > r.ttl
		e.mu.Unlock()
		if expired {
			r.dropLocked(e)
		}
	}
}

func (r *registry) dropLocked(e *pageEntry) {
	e.cancel()
	delete(r.pages, e.id)
}
