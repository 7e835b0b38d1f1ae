package pipeline

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-pipeline/internal/entity"
)

// ErrSuperseded is returned when a response arrives after a newer request of
// the same kind was issued. The response is discarded.
var ErrSuperseded = errors.New("pipeline: response superseded by a newer request")

const (
	MsgFetchLeadsFailed = "failed to fetch leads"
	MsgFetchLeadFailed  = "failed to fetch lead"
)

// DefaultSessionTTL is how long an untouched session survives.
const DefaultSessionTTL = 30 * time.Minute

// Fetcher is the read side of the CRM gateway.
type Fetcher interface {
	ListLeads(ctx context.Context, filters entity.ServerFilters) ([]entity.Lead, error)
	GetLead(ctx context.Context, id string) (*entity.Lead, error)
}

// Notifier receives the user-facing outcome of pipeline operations.
type Notifier interface {
	Success(message string)
	Failure(message string, err error)
}

type Snapshot struct {
	Leads     []entity.Lead        `json:"leads"`
	Filters   entity.ServerFilters `json:"filters"`
	FetchedAt time.Time            `json:"fetchedAt"`
}

// View is the board as one viewer sees it: the snapshot narrowed by that
// viewer's search term, and the same narrowed list grouped by stage.
type View struct {
	Term      string               `json:"term"`
	Filters   entity.ServerFilters `json:"filters"`
	FetchedAt time.Time            `json:"fetchedAt"`
	Total     int                  `json:"total"`
	Leads     []entity.Lead        `json:"leads"`
	Groups    []entity.StageGroup  `json:"groups"`
}

// Store owns the last fetched lead collection and the server filters it was
// fetched with. Search terms and open details belong to a Session.
type Store struct {
	fetcher  Fetcher
	notifier Notifier
	logger   *zap.Logger

	// SessionTTL bounds how long an idle session is kept. Zero keeps
	// sessions until released.
	SessionTTL time.Duration

	mu        sync.RWMutex
	leads     []entity.Lead
	filters   entity.ServerFilters
	fetchedAt time.Time
	listSeq   uint64

	sessions  map[string]*Session
	listeners []func(*Session)
}

func NewStore(fetcher Fetcher, notifier Notifier, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		fetcher:    fetcher,
		notifier:   notifier,
		logger:     logger,
		SessionTTL: DefaultSessionTTL,
		leads:      []entity.Lead{},
		sessions:   make(map[string]*Session),
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Leads:     slices.Clone(s.leads),
		Filters:   s.filters,
		FetchedAt: s.fetchedAt,
	}
}

// View is the unfiltered board.
func (s *Store) View() View {
	return s.view("")
}

func (s *Store) view(term string) View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := FilterLeads(s.leads, term)
	return View{
		Term:      term,
		Filters:   s.filters,
		FetchedAt: s.fetchedAt,
		Total:     len(s.leads),
		Leads:     slices.Clone(filtered),
		Groups:    GroupByStatus(filtered),
	}
}

// Subscribe registers fn to be told when a view changed. fn receives nil
// after an accepted refresh, since every session changed, or the session
// whose search term changed.
func (s *Store) Subscribe(fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) emit(changed *Session) {
	s.mu.RLock()
	listeners := slices.Clone(s.listeners)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(changed)
	}
}

// Refresh fetches the lead collection with the current server filters. Only
// the response to the latest request is applied; on failure the previous
// collection is kept.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.listSeq++
	seq := s.listSeq
	filters := s.filters
	s.mu.Unlock()

	leads, err := s.fetcher.ListLeads(ctx, filters)

	s.mu.Lock()
	if seq != s.listSeq {
		s.mu.Unlock()
		s.logger.Debug("discarding superseded lead list response",
			zap.Uint64("seq", seq), zap.Error(err))
		return ErrSuperseded
	}
	if err != nil {
		s.mu.Unlock()
		s.logger.Warn("lead list fetch failed", zap.Error(err))
		s.notify(MsgFetchLeadsFailed, err)
		return err
	}
	if leads == nil {
		leads = []entity.Lead{}
	}
	s.leads = leads
	s.fetchedAt = time.Now()
	s.mu.Unlock()

	s.logger.Debug("lead list refreshed", zap.Int("leads", len(leads)))
	s.emit(nil)
	return nil
}

// SetServerFilters replaces the server-side filters and refetches.
func (s *Store) SetServerFilters(ctx context.Context, filters entity.ServerFilters) error {
	s.mu.Lock()
	s.filters = filters
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// NewSession starts view state for one viewer and drops sessions idle for
// longer than SessionTTL.
func (s *Store) NewSession() *Session {
	sess := &Session{
		id:       uuid.New().String(),
		store:    s,
		lastSeen: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SessionTTL > 0 {
		cutoff := time.Now().Add(-s.SessionTTL)
		for id, other := range s.sessions {
			if other.idleSince(cutoff) {
				delete(s.sessions, id)
			}
		}
	}
	s.sessions[sess.id] = sess
	return sess
}

// Session returns a live session by id.
func (s *Store) Session(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *Store) ReleaseSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// RefreshDetail re-fetches the detail of every session that has lead id
// open. It returns the last lead fetched, or nil when no session shows it.
func (s *Store) RefreshDetail(ctx context.Context, id string) (*entity.Lead, error) {
	s.mu.RLock()
	var showing []*Session
	for _, sess := range s.sessions {
		if sess.shows(id) {
			showing = append(showing, sess)
		}
	}
	s.mu.RUnlock()

	var (
		lead     *entity.Lead
		firstErr error
	)
	for _, sess := range showing {
		l, err := sess.RefreshDetail(ctx, id)
		switch {
		case err == nil:
			if l != nil {
				lead = l
			}
		case errors.Is(err, ErrSuperseded):
		case firstErr == nil:
			firstErr = err
		}
	}
	return lead, firstErr
}

func (s *Store) notify(message string, err error) {
	if s.notifier != nil {
		s.notifier.Failure(message, err)
	}
}
