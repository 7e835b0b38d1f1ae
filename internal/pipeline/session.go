package pipeline

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-pipeline/internal/entity"
)

// Session is the view state of one viewer: the search term and the open
// lead detail. The lead collection itself is shared through the Store.
type Session struct {
	id    string
	store *Store

	mu        sync.Mutex
	term      string
	detailID  string
	detail    *entity.Lead
	detailSeq uint64
	lastSeen  time.Time
}

func (ss *Session) ID() string {
	return ss.id
}

// View is the shared snapshot narrowed by this session's search term.
func (ss *Session) View() View {
	ss.mu.Lock()
	term := ss.term
	ss.lastSeen = time.Now()
	ss.mu.Unlock()

	return ss.store.view(term)
}

// ApplyFilter sets the search term. It never fetches.
func (ss *Session) ApplyFilter(term string) View {
	ss.mu.Lock()
	ss.term = term
	ss.lastSeen = time.Now()
	ss.mu.Unlock()

	view := ss.store.view(term)
	ss.store.emit(ss)
	return view
}

// OpenDetail fetches a single lead and marks it as the open detail. Until
// the fetch completes no detail is shown.
func (ss *Session) OpenDetail(ctx context.Context, id string) (*entity.Lead, error) {
	ss.mu.Lock()
	ss.detailSeq++
	seq := ss.detailSeq
	ss.detailID = id
	ss.detail = nil
	ss.lastSeen = time.Now()
	ss.mu.Unlock()

	return ss.loadDetail(ctx, id, seq)
}

// RefreshDetail re-fetches the open detail when it shows lead id. It is a
// no-op (nil, nil) for any other lead.
func (ss *Session) RefreshDetail(ctx context.Context, id string) (*entity.Lead, error) {
	ss.mu.Lock()
	if ss.detailID == "" || ss.detailID != id {
		ss.mu.Unlock()
		return nil, nil
	}
	ss.detailSeq++
	seq := ss.detailSeq
	ss.mu.Unlock()

	return ss.loadDetail(ctx, id, seq)
}

func (ss *Session) loadDetail(ctx context.Context, id string, seq uint64) (*entity.Lead, error) {
	lead, err := ss.store.fetcher.GetLead(ctx, id)

	ss.mu.Lock()
	if seq != ss.detailSeq || ss.detailID != id {
		ss.mu.Unlock()
		return nil, ErrSuperseded
	}
	if err != nil {
		ss.mu.Unlock()
		ss.store.logger.Warn("lead fetch failed",
			zap.String("session", ss.id), zap.String("lead_id", id), zap.Error(err))
		ss.store.notify(MsgFetchLeadFailed, err)
		return nil, err
	}
	ss.detail = lead
	ss.mu.Unlock()

	return lead, nil
}

func (ss *Session) CloseDetail() {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	ss.detailID = ""
	ss.detail = nil
	ss.detailSeq++
}

// Detail returns the open lead once its fetch has completed.
func (ss *Session) Detail() (*entity.Lead, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.detailID == "" || ss.detail == nil || ss.detail.ID != ss.detailID {
		return nil, false
	}
	return ss.detail, true
}

func (ss *Session) shows(id string) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return id != "" && ss.detailID == id
}

func (ss *Session) idleSince(cutoff time.Time) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.lastSeen.Before(cutoff)
}
