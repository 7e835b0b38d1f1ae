package pipeline

import (
	"context"
	"sync"

	"github.com/xavierca1/lead-pipeline/internal/entity"
)

func lead(id string, status entity.Status, name string) entity.Lead {
	return entity.Lead{
		ID:      id,
		Status:  status,
		Contact: entity.Contact{Name: name},
	}
}

func ids(leads []entity.Lead) []string {
	out := make([]string, 0, len(leads))
	for _, l := range leads {
		out = append(out, l.ID)
	}
	return out
}

type listCall struct {
	filters entity.ServerFilters
	release chan struct{}
	leads   []entity.Lead
	err     error
}

// fakeFetcher answers list calls immediately unless gated, in which case
// each call blocks until the test releases it.
type fakeFetcher struct {
	mu       sync.Mutex
	leads    []entity.Lead
	listErr  error
	details  map[string]*entity.Lead
	getErr   error
	gated    bool
	pending  chan *listCall
	filters  []entity.ServerFilters
	getCalls []string
}

func newFakeFetcher(leads ...entity.Lead) *fakeFetcher {
	return &fakeFetcher{
		leads:   leads,
		details: make(map[string]*entity.Lead),
		pending: make(chan *listCall, 8),
	}
}

func (f *fakeFetcher) ListLeads(ctx context.Context, filters entity.ServerFilters) ([]entity.Lead, error) {
	f.mu.Lock()
	f.filters = append(f.filters, filters)
	gated := f.gated
	leads := append([]entity.Lead(nil), f.leads...)
	err := f.listErr
	f.mu.Unlock()

	if !gated {
		return leads, err
	}

	call := &listCall{filters: filters, release: make(chan struct{})}
	f.pending <- call
	<-call.release
	return call.leads, call.err
}

func (f *fakeFetcher) GetLead(ctx context.Context, id string) (*entity.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls = append(f.getCalls, id)
	if f.getErr != nil {
		return nil, f.getErr
	}
	l, ok := f.details[id]
	if !ok {
		return nil, context.DeadlineExceeded
	}
	copied := *l
	return &copied, nil
}

func (f *fakeFetcher) set(leads []entity.Lead, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leads = leads
	f.listErr = err
}

type recordingNotifier struct {
	mu       sync.Mutex
	failures []string
	success  []string
}

func (n *recordingNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.success = append(n.success, message)
}

func (n *recordingNotifier) Failure(message string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, message)
}

func (n *recordingNotifier) Failures() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.failures...)
}
